// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/pdftitle/xtract/logger"
)

// object is the dynamic representation of any parsed PDF value: nil, bool,
// int64, float64, string (raw bytes), name, dict, array, stream, objptr,
// or objdef.
type object = interface{}

type keyword string

// A name is a PDF name constant, such as /Helvetica, stored without its
// leading slash.
type name string

// A dict is a PDF dictionary, <</Key value ...>>.
type dict map[name]interface{}

// An array is a PDF array, [v1 v2 ...].
type array []interface{}

// An objptr identifies an indirect object by id and generation.
type objptr struct {
	id  uint32
	gen uint16
}

// A stream is a PDF stream object: its header dictionary plus the file
// offset at which the raw (still-filtered) bytes begin. The declared or
// indirect /Length is resolved lazily through the owning Reader, never at
// parse time — see Value.Reader.
type stream struct {
	hdr    dict
	ptr    objptr
	offset int64
}

// An objdef is a fully parsed indirect object: "id gen obj ... endobj".
type objdef struct {
	ptr objptr
	obj interface{}
}

// maxParseDepth bounds array/dictionary nesting (spec §9: recursive descent
// must guard against pathological inputs; suggested depth 256).
const maxParseDepth = 256

// maxPrevChainDepth bounds xref /Prev chain traversal (suggested depth 64).
const maxPrevChainDepth = 64

// buffer is a forward-only, backtrackable byte cursor over PDF file bytes.
// It turns raw bytes into the token stream consumed by readObject, and is
// the sole primitive C4 (the object parser) builds on top of C1.
type buffer struct {
	r      *bufio.Reader
	offset int64 // absolute file offset of the next unread byte
	pos    int64 // absolute file offset of the start of the last-returned token

	unread []object // pushback stack for unreadToken
	depth  int      // current array/dict nesting depth

	allowEOF    bool // EOF is reported as a null token instead of panicking
	allowObjptr bool // recognize "N G R" via two-token lookahead
	allowStream bool // recognize "stream" following a dict in readIndirectObject
	eof         bool // set once readToken has returned its EOF token

	key    []byte // decryption key, unused by the current filter set
	useAES bool
}

// newBuffer returns a buffer reading from r, whose first byte is at the
// given absolute file offset.
func newBuffer(r io.Reader, offset int64) *buffer {
	return &buffer{
		r:           bufio.NewReader(r),
		offset:      offset,
		allowObjptr: true,
		allowStream: true,
	}
}

func (b *buffer) readByte() (byte, bool) {
	c, err := b.r.ReadByte()
	if err != nil {
		return 0, false
	}
	b.offset++
	return c, true
}

func (b *buffer) unreadByte() {
	if err := b.r.UnreadByte(); err == nil {
		b.offset--
	}
}

// seekForward discards bytes until the cursor reaches the given absolute
// offset. It cannot seek backward: buffers are read-once and forward-only,
// matching the re-entrant design note in spec §9 (offsets only ever move
// forward within one buffer's lifetime — ObjStm bodies are read with a
// fresh seek-forward to the member's byte offset within the decompressed
// stream).
func (b *buffer) seekForward(offset int64) {
	if offset <= b.offset {
		return
	}
	n := offset - b.offset
	if _, err := io.CopyN(io.Discard, b.r, n); err != nil {
		logger.Error(fmt.Sprintf("seekForward: short read discarding %d bytes: %v", n, err))
	}
	b.offset = offset
	b.pos = offset
}

// unreadToken pushes tok back so the next readToken call returns it again.
func (b *buffer) unreadToken(tok object) {
	b.unread = append(b.unread, tok)
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// skipWhite consumes whitespace and comments (% to end of line).
func (b *buffer) skipWhite() {
	for {
		c, ok := b.readByte()
		if !ok {
			return
		}
		if c == '%' {
			for {
				c2, ok2 := b.readByte()
				if !ok2 || c2 == '\n' || c2 == '\r' {
					break
				}
			}
			continue
		}
		if !isWhitespace(c) {
			b.unreadByte()
			return
		}
	}
}

// readToken returns the next lexical token: int64, float64, string (raw
// bytes), name, bool, nil (PDF null), keyword (bare identifiers and the
// "<<" ">>" "[" "]" delimiters), or a composed objptr/objdef produced by a
// two- or three-token lookahead on a leading non-negative integer (the
// "N G R" and "N G obj ... endobj" grammar productions).
func (b *buffer) readToken() object {
	if n := len(b.unread); n > 0 {
		tok := b.unread[n-1]
		b.unread = b.unread[:n-1]
		return tok
	}

	b.skipWhite()
	b.pos = b.offset

	c, ok := b.readByte()
	if !ok {
		if b.allowEOF {
			b.eof = true
			return nil
		}
		panic(newParseError(ErrLoad, b.offset, "unexpected end of file"))
	}

	var tok object
	switch {
	case c == '/':
		tok = b.readName()
	case c == '(':
		tok = b.readLiteralString()
	case c == '<':
		c2, ok2 := b.readByte()
		if ok2 && c2 == '<' {
			tok = keyword("<<")
		} else {
			if ok2 {
				b.unreadByte()
			}
			tok = b.readHexString()
		}
	case c == '>':
		c2, ok2 := b.readByte()
		if ok2 && c2 == '>' {
			tok = keyword(">>")
		} else {
			if ok2 {
				b.unreadByte()
			}
			panic(newParseError(ErrUnmatched, b.pos, "stray '>'"))
		}
	case c == '[':
		tok = keyword("[")
	case c == ']':
		tok = keyword("]")
	case c == '{':
		tok = keyword("{")
	case c == '}':
		tok = keyword("}")
	case c == ')':
		panic(newParseError(ErrUnmatched, b.pos, "stray ')'"))
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		b.unreadByte()
		tok = b.readNumber()
	default:
		b.unreadByte()
		tok = b.readBareKeyword()
	}

	if n, ok := tok.(int64); ok && b.allowObjptr {
		return b.composeObjptrOrObjdef(n)
	}
	return tok
}

// composeObjptrOrObjdef implements the lookahead that recognizes "N G R"
// (an indirect reference) and "N G obj ... endobj" (a full indirect object
// definition, including an optional stream body) from a leading integer.
func (b *buffer) composeObjptrOrObjdef(n int64) object {
	tok2 := b.readRawToken()
	n2, ok2 := tok2.(int64)
	if !ok2 || n < 0 || n2 < 0 {
		b.unreadToken(tok2)
		return n
	}
	tok3 := b.readRawToken()
	switch tok3 {
	case keyword("R"):
		return objptr{id: uint32(n), gen: uint16(n2)}
	case keyword("obj"):
		return b.readIndirectObject(objptr{id: uint32(n), gen: uint16(n2)})
	default:
		b.unreadToken(tok3)
		b.unreadToken(tok2)
		return n
	}
}

// readRawToken is readToken without the objptr/objdef composition step,
// used internally while already performing that composition's lookahead.
func (b *buffer) readRawToken() object {
	if n := len(b.unread); n > 0 {
		tok := b.unread[n-1]
		b.unread = b.unread[:n-1]
		return tok
	}
	saveAllow := b.allowObjptr
	b.allowObjptr = false
	tok := b.readToken()
	b.allowObjptr = saveAllow
	return tok
}

// readIndirectObject parses the value following "N G obj", consuming an
// optional stream body and the closing endobj keyword.
func (b *buffer) readIndirectObject(ptr objptr) objdef {
	val := b.parseValue()
	if hdr, ok := val.(dict); ok && b.allowStream {
		tok := b.readToken()
		if tok == keyword("stream") {
			return objdef{ptr, b.readStreamBody(ptr, hdr)}
		}
		b.unreadToken(tok)
	}
	tok := b.readToken()
	if tok != keyword("endobj") {
		// Tolerate missing endobj the way the rest of the reader tolerates
		// non-conforming producers; push the token back for the caller.
		logger.Debug(fmt.Sprintf("object %d %d: missing endobj, found %v", ptr.id, ptr.gen, tok))
		b.unreadToken(tok)
	}
	return objdef{ptr, val}
}

// readStreamBody consumes the single EOL required after the "stream"
// keyword (ISO 32000-1 §7.3.8.1) and records the start of the raw bytes.
// The /Length entry of hdr is resolved lazily by Value.Reader, which has
// access to the owning Reader and can follow an indirect reference; the
// buffer itself never needs to locate "endstream".
func (b *buffer) readStreamBody(ptr objptr, hdr dict) stream {
	c, ok := b.readByte()
	switch {
	case ok && c == '\r':
		if c2, ok2 := b.readByte(); ok2 && c2 != '\n' {
			b.unreadByte()
		}
	case ok && c == '\n':
		// consumed
	case ok:
		b.unreadByte()
	}
	return stream{hdr: hdr, ptr: ptr, offset: b.offset}
}

// readObject parses one complete PDF value starting at the cursor: a
// scalar, an indirect reference, a nested dictionary or array, or (at the
// top of an "N G obj" header) a full object definition.
func (b *buffer) readObject() object {
	return b.parseValue()
}

func (b *buffer) parseValue() object {
	return b.parseValueFrom(b.readToken())
}

func (b *buffer) parseValueFrom(tok object) object {
	if kw, ok := tok.(keyword); ok {
		switch kw {
		case "<<":
			return b.parseDict()
		case "[":
			return b.parseArray()
		}
		panic(newParseError(ErrObject, b.pos, "unexpected keyword %q", string(kw)))
	}
	return tok
}

func (b *buffer) parseDict() dict {
	b.depth++
	if b.depth > maxParseDepth {
		panic(newParseError(ErrDict, b.pos, "max nesting depth exceeded"))
	}
	defer func() { b.depth-- }()

	d := dict{}
	for {
		tok := b.readToken()
		if tok == keyword(">>") {
			return d
		}
		key, ok := tok.(name)
		if !ok {
			panic(newParseError(ErrDict, b.pos, "dictionary key is not a name: %v", tok))
		}
		d[key] = b.parseValue()
	}
}

func (b *buffer) parseArray() array {
	b.depth++
	if b.depth > maxParseDepth {
		panic(newParseError(ErrObject, b.pos, "max nesting depth exceeded"))
	}
	defer func() { b.depth-- }()

	var a array
	for {
		tok := b.readToken()
		if tok == keyword("]") {
			return a
		}
		a = append(a, b.parseValueFrom(tok))
	}
}

// readName decodes a /Name token, including #XX hex escapes.
func (b *buffer) readName() name {
	var buf []byte
	for {
		c, ok := b.readByte()
		if !ok || isWhitespace(c) || isPDFDelim(c) {
			if ok {
				b.unreadByte()
			}
			break
		}
		if c == '#' {
			h1, ok1 := b.readByte()
			h2, ok2 := b.readByte()
			v1, err1 := strconv.ParseUint(string(h1), 16, 8)
			v2, err2 := strconv.ParseUint(string(h2), 16, 8)
			if ok1 && ok2 && err1 == nil && err2 == nil {
				buf = append(buf, byte(v1<<4|v2))
				continue
			}
			logger.Error(fmt.Sprintf("malformed name escape at offset %d", b.pos))
			buf = append(buf, '#')
			continue
		}
		buf = append(buf, c)
	}
	return name(buf)
}

// readLiteralString decodes a balanced-parens (...) string, resolving
// backslash escapes per ISO 32000-1 §7.3.4.2.
func (b *buffer) readLiteralString() string {
	var buf []byte
	depth := 1
	for {
		c, ok := b.readByte()
		if !ok {
			panic(newParseError(ErrUnmatched, b.pos, "unterminated string literal"))
		}
		switch c {
		case '(':
			depth++
			buf = append(buf, c)
		case ')':
			depth--
			if depth == 0 {
				return string(buf)
			}
			buf = append(buf, c)
		case '\\':
			buf = b.readEscape(buf, &depth)
		case '\r':
			// normalize bare CR and CRLF to LF
			if c2, ok2 := b.readByte(); ok2 && c2 != '\n' {
				b.unreadByte()
			}
			buf = append(buf, '\n')
		default:
			buf = append(buf, c)
		}
	}
}

func (b *buffer) readEscape(buf []byte, depth *int) []byte {
	c, ok := b.readByte()
	if !ok {
		panic(newParseError(ErrUnmatched, b.pos, "unterminated escape in string literal"))
	}
	switch c {
	case 'n':
		return append(buf, '\n')
	case 'r':
		return append(buf, '\r')
	case 't':
		return append(buf, '\t')
	case 'b':
		return append(buf, '\b')
	case 'f':
		return append(buf, '\f')
	case '(', ')', '\\':
		return append(buf, c)
	case '\r':
		// escaped EOL: line continuation, emits nothing
		if c2, ok2 := b.readByte(); ok2 && c2 != '\n' {
			b.unreadByte()
		}
		return buf
	case '\n':
		return buf
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := int(c - '0')
		for i := 0; i < 2; i++ {
			d, ok := b.readByte()
			if !ok || d < '0' || d > '7' {
				if ok {
					b.unreadByte()
				}
				break
			}
			n = n*8 + int(d-'0')
		}
		return append(buf, byte(n))
	default:
		// unknown escapes reproduce the following character verbatim
		return append(buf, c)
	}
}

// readHexString decodes a <...> hex string. An odd number of digits is
// padded with a trailing zero nibble per spec.
func (b *buffer) readHexString() string {
	var digits []byte
	for {
		c, ok := b.readByte()
		if !ok {
			panic(newParseError(ErrHex, b.pos, "unterminated hex string"))
		}
		if c == '>' {
			break
		}
		if isWhitespace(c) {
			continue
		}
		if !isHexDigit(c) {
			panic(newParseError(ErrHex, b.pos, "invalid hex digit %q", c))
		}
		digits = append(digits, c)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	buf := make([]byte, len(digits)/2)
	for i := range buf {
		hi := hexVal(digits[2*i])
		lo := hexVal(digits[2*i+1])
		buf[i] = hi<<4 | lo
	}
	return string(buf)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// readNumber parses an integer or real number, tolerating the malformed
// forms real-world producers emit (leading '+', bare ".5", trailing ".").
func (b *buffer) readNumber() object {
	var buf []byte
	for {
		c, ok := b.readByte()
		if !ok {
			break
		}
		if isWhitespace(c) || isPDFDelim(c) {
			b.unreadByte()
			break
		}
		buf = append(buf, c)
	}
	s := string(buf)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	logger.Error(fmt.Sprintf("malformed number %q at offset %d", s, b.pos))
	return int64(0)
}

// readBareKeyword reads a run of regular characters and resolves the
// fixed PDF keywords true/false/null to their scalar values; everything
// else is returned as a keyword for the caller (or the R/obj lookahead)
// to interpret.
func (b *buffer) readBareKeyword() object {
	var buf []byte
	for {
		c, ok := b.readByte()
		if !ok || isWhitespace(c) || isPDFDelim(c) {
			if ok {
				b.unreadByte()
			}
			break
		}
		buf = append(buf, c)
	}
	switch s := string(buf); s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	default:
		if s == "" {
			panic(newParseError(ErrObject, b.pos, "empty token"))
		}
		return keyword(s)
	}
}
