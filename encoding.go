// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// pdfDocEncoding, winAnsiEncoding and macRomanEncoding map the single-byte
// codes 0x00-0xFF of the three standard simple PDF text encodings (ISO
// 32000-1 Annex D) to Unicode code points. The low range 0x20-0x7E is
// ASCII-identical across all three. winAnsiEncoding and macRomanEncoding
// hold whatever x/text's charmap decodes for each byte; in pdfDocEncoding,
// codes 0x00-0x17 and 0x7F map to 0 and the undefined code 0x9F maps to
// unicode.ReplacementChar.
var pdfDocEncoding [256]rune
var winAnsiEncoding [256]rune
var macRomanEncoding [256]rune

func init() {
	// WinAnsiEncoding and MacRomanEncoding are, byte-for-byte, CP1252 and
	// Macintosh Roman (ISO 32000-1 Annex D.2 notes both as adopting the
	// corresponding platform code page almost unchanged); x/text already
	// ships both as charmap.Charmap tables, so they're built from those
	// rather than hand-transcribed.
	for i := 0; i < 256; i++ {
		winAnsiEncoding[i] = charmap.Windows1252.DecodeByte(byte(i))
		macRomanEncoding[i] = charmap.Macintosh.DecodeByte(byte(i))
	}

	for i := 0x20; i <= 0x7E; i++ {
		pdfDocEncoding[i] = rune(i)
	}
	for i := range pdfDocEncoding {
		if pdfDocEncoding[i] == 0 && i >= 0x80 {
			pdfDocEncoding[i] = utf8.RuneError
		}
	}

	// PDFDocEncoding has no x/text counterpart (it is a PDF-specific
	// superset of Latin-1 with its own control-code-range substitutions),
	// so its high range is transcribed directly from ISO 32000-1 Annex D.2.
	pdfDocHigh := map[byte]rune{
		0x18: 0x02D8, 0x19: 0x02C7, 0x1A: 0x02C6, 0x1B: 0x02D9,
		0x1C: 0x02DD, 0x1D: 0x02DB, 0x1E: 0x02DA, 0x1F: 0x02DC,
		0x80: 0x2022, 0x81: 0x2020, 0x82: 0x2021, 0x83: 0x2026,
		0x84: 0x2014, 0x85: 0x2013, 0x86: 0x0192, 0x87: 0x2044,
		0x88: 0x2039, 0x89: 0x203A, 0x8A: 0x2212, 0x8B: 0x2030,
		0x8C: 0x201E, 0x8D: 0x201C, 0x8E: 0x201D, 0x8F: 0x2018,
		0x90: 0x2019, 0x91: 0x201A, 0x92: 0x2122, 0x93: 0xFB01,
		0x94: 0xFB02, 0x95: 0x0141, 0x96: 0x0152, 0x97: 0x0160,
		0x98: 0x0178, 0x99: 0x017D, 0x9A: 0x0131, 0x9B: 0x0142,
		0x9C: 0x0153, 0x9D: 0x0161, 0x9E: 0x017E, 0xA0: 0x20AC,
	}
	for b, r := range pdfDocHigh {
		pdfDocEncoding[b] = r
	}
	for i := 0xA1; i <= 0xFF; i++ {
		if pdfDocEncoding[i] == utf8.RuneError {
			pdfDocEncoding[i] = rune(i)
		}
	}

}

// nameToRune maps Adobe StandardEncoding/Symbol glyph names to Unicode
// code points for glyphs reachable via a font's /Differences array. Names
// of the form "C<decimal>" (e.g. "C12") are not listed here: dictEncoder
// maps such a name to the code point given by its decimal digits.
var nameToRune = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@',
	"bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`',
	"braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',
	"quoteleft": 0x2018, "quoteright": 0x2019,
	"quotedblleft": 0x201C, "quotedblright": 0x201D,
	"endash": 0x2013, "emdash": 0x2014, "bullet": 0x2022,
	"ellipsis": 0x2026, "fi": 0xFB01, "fl": 0xFB02,
	"Euro": 0x20AC, "trademark": 0x2122, "dagger": 0x2020,
	"daggerdbl": 0x2021, "copyright": 0x00A9, "registered": 0x00AE,
	"degree": 0x00B0, "plusminus": 0x00B1, "divide": 0x00F7,
	"multiply": 0x00D7, "mu": 0x00B5, "paragraph": 0x00B6,
	"section": 0x00A7,
}

func init() {
	upper := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lower := "abcdefghijklmnopqrstuvwxyz"
	names := []string{
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
		"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	}
	for i, n := range names {
		nameToRune[n] = rune(upper[i])
	}
	lnames := []string{
		"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
		"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	}
	for i, n := range lnames {
		nameToRune[n] = rune(lower[i])
	}
}

// isPDFDocEncoded reports whether s looks like a PDFDocEncoded byte string
// rather than a UTF-16BE string: it must not carry the UTF-16 byte-order
// mark and every byte must map to a defined PDFDocEncoding code point.
func isPDFDocEncoded(s string) bool {
	if isUTF16(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if pdfDocEncoding[s[i]] == utf8.RuneError {
			return false
		}
	}
	return true
}

// pdfDocDecode decodes a PDFDocEncoded byte string to UTF-8.
func pdfDocDecode(s string) string {
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = pdfDocEncoding[s[i]]
	}
	return string(runes)
}

// isUTF16 reports whether s begins with the UTF-16BE byte-order mark
// (0xFE 0xFF) and has an even number of remaining bytes.
func isUTF16(s string) bool {
	if len(s) < 2 || s[0] != 0xFE || s[1] != 0xFF {
		return false
	}
	return (len(s)-2)%2 == 0
}

// utf16Decode decodes big-endian UTF-16 bytes (without a leading BOM) to
// a UTF-8 string. An odd trailing byte is dropped.
func utf16Decode(s string) string {
	var units []uint16
	for i := 0; i+1 < len(s); i += 2 {
		units = append(units, uint16(s[i])<<8|uint16(s[i+1]))
	}
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF:
			lo := units[i+1]
			r := (rune(u-0xD800) << 10) + rune(lo-0xDC00) + 0x10000
			runes = append(runes, r)
			i++
		default:
			runes = append(runes, rune(u))
		}
	}
	return string(runes)
}

// DecodeUTF8OrPreserve decodes s as UTF-8 when valid; otherwise each raw
// byte is preserved as its own rune rather than being replaced with
// U+FFFD, so downstream callers never silently lose content extracted
// from a mis-declared or single-byte-encoded content stream.
func DecodeUTF8OrPreserve(s string) []rune {
	if utf8.ValidString(s) {
		return []rune(s)
	}
	runes := make([]rune, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			runes = append(runes, rune(s[i]))
			i++
			continue
		}
		runes = append(runes, r)
		i += size
	}
	return runes
}
