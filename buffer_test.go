// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAllTokens(t *testing.T, src string) []object {
	t.Helper()
	b := newBuffer(strings.NewReader(src), 0)
	b.allowEOF = true
	var toks []object
	for {
		tok := b.readToken()
		if b.eof {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestReadToken_Scalars(t *testing.T) {
	toks := readAllTokens(t, "true false null 123 -45 3.14 /Name")
	require.Len(t, toks, 7)
	assert.Equal(t, true, toks[0])
	assert.Equal(t, false, toks[1])
	assert.Nil(t, toks[2])
	assert.Equal(t, int64(123), toks[3])
	assert.Equal(t, int64(-45), toks[4])
	assert.Equal(t, 3.14, toks[5])
	assert.Equal(t, name("Name"), toks[6])
}

func TestReadToken_NameEscape(t *testing.T) {
	toks := readAllTokens(t, "/A#42C")
	require.Len(t, toks, 1)
	assert.Equal(t, name("ABC"), toks[0])
}

func TestReadToken_ObjptrLookahead(t *testing.T) {
	toks := readAllTokens(t, "12 0 R")
	require.Len(t, toks, 1)
	assert.Equal(t, objptr{id: 12, gen: 0}, toks[0])
}

func TestReadToken_PlainIntegerNotConsumedAsObjptr(t *testing.T) {
	toks := readAllTokens(t, "12 0 obj2")
	// "obj2" is not the "obj" keyword, so this must NOT compose into an
	// objdef; it backs off to three independent tokens.
	require.Len(t, toks, 3)
	assert.Equal(t, int64(12), toks[0])
	assert.Equal(t, int64(0), toks[1])
	assert.Equal(t, keyword("obj2"), toks[2])
}

func TestReadToken_LiteralString(t *testing.T) {
	toks := readAllTokens(t, `(Hello \(World\)\n\051)`)
	require.Len(t, toks, 1)
	assert.Equal(t, "Hello (World)\n)", toks[0])
}

func TestReadToken_LiteralStringOctalEscape(t *testing.T) {
	toks := readAllTokens(t, `(\101\102\103)`)
	require.Len(t, toks, 1)
	assert.Equal(t, "ABC", toks[0])
}

func TestReadToken_HexString(t *testing.T) {
	toks := readAllTokens(t, "<48656C6C6F>")
	require.Len(t, toks, 1)
	assert.Equal(t, "Hello", toks[0])
}

func TestReadToken_HexStringOddDigits(t *testing.T) {
	toks := readAllTokens(t, "<488>")
	require.Len(t, toks, 1)
	// odd trailing nibble is padded with a trailing zero nibble: "8" -> "80" -> 0x80
	assert.Equal(t, string([]byte{0x48, 0x80}), toks[0])
}

func TestReadToken_DictAndArrayDelimiters(t *testing.T) {
	toks := readAllTokens(t, "<< /K [1 2] >>")
	require.Len(t, toks, 7)
	assert.Equal(t, keyword("<<"), toks[0])
	assert.Equal(t, name("K"), toks[1])
	assert.Equal(t, keyword("["), toks[2])
	assert.Equal(t, int64(1), toks[3])
	assert.Equal(t, int64(2), toks[4])
	assert.Equal(t, keyword("]"), toks[5])
	assert.Equal(t, keyword(">>"), toks[6])
}

func TestParseDict(t *testing.T) {
	b := newBuffer(strings.NewReader("<< /A 1 /B (x) >>"), 0)
	tok := b.readToken()
	require.Equal(t, keyword("<<"), tok)
	d := b.parseDict()
	assert.Equal(t, int64(1), d["A"])
	assert.Equal(t, "x", d["B"])
}

func TestParseArray(t *testing.T) {
	b := newBuffer(strings.NewReader("[1 2 (a)]"), 0)
	tok := b.readToken()
	require.Equal(t, keyword("["), tok)
	a := b.parseArray()
	require.Len(t, a, 3)
	assert.Equal(t, int64(1), a[0])
	assert.Equal(t, int64(2), a[1])
	assert.Equal(t, "a", a[2])
}

func TestParseDict_MaxDepthExceeded(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < maxParseDepth+2; i++ {
		sb.WriteString("<< /K ")
	}
	sb.WriteString("1")
	for i := 0; i < maxParseDepth+2; i++ {
		sb.WriteString(" >>")
	}
	b := newBuffer(strings.NewReader(sb.String()), 0)
	tok := b.readToken()
	require.Equal(t, keyword("<<"), tok)
	assert.Panics(t, func() { b.parseDict() })
}

func TestReadIndirectObject(t *testing.T) {
	toks := readAllTokens(t, "7 0 obj (hi) endobj")
	require.Len(t, toks, 1)
	def, ok := toks[0].(objdef)
	require.True(t, ok)
	assert.Equal(t, objptr{id: 7, gen: 0}, def.ptr)
	assert.Equal(t, "hi", def.obj)
}

func TestReadIndirectObject_StreamBody(t *testing.T) {
	src := "9 0 obj << /Length 5 >> stream\nhello\nendstream endobj"
	// The stream body is not skipped (only its start offset is recorded),
	// so read just the objdef token rather than draining the buffer.
	b := newBuffer(strings.NewReader(src), 0)
	def, ok := b.readToken().(objdef)
	require.True(t, ok)
	strm, ok := def.obj.(stream)
	require.True(t, ok)
	assert.Equal(t, int64(5), strm.hdr["Length"])
	assert.Equal(t, int64(len("9 0 obj << /Length 5 >> stream\n")), strm.offset)
}

func TestUnreadTokenRoundtrip(t *testing.T) {
	b := newBuffer(strings.NewReader("1 2"), 0)
	tok := b.readToken()
	require.Equal(t, int64(1), tok)
	b.unreadToken(tok)
	again := b.readToken()
	assert.Equal(t, int64(1), again)
}

func TestSkipWhiteHandlesComments(t *testing.T) {
	toks := readAllTokens(t, "% a comment\n42")
	require.Len(t, toks, 1)
	assert.Equal(t, int64(42), toks[0])
}

func TestReadToken_StrayCloseParen(t *testing.T) {
	b := newBuffer(strings.NewReader(")"), 0)
	b.allowEOF = true
	assert.Panics(t, func() { b.readToken() })
}

func TestReadToken_StrayCloseAngle(t *testing.T) {
	b := newBuffer(strings.NewReader(">"), 0)
	b.allowEOF = true
	assert.Panics(t, func() { b.readToken() })
}
