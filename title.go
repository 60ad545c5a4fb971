// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bufio"
	"os"
	"strings"
	"unicode"

	"github.com/pdftitle/xtract/logger"
)

// TextRuns returns the page's text runs: the content-stream interpreter
// in Content already applies the Δy/font-size flush rule (4.7) as it
// walks operators, so this is a direct accessor over that output, not a
// second segmentation pass.
func (p Page) TextRuns() []Text {
	return p.Content().Text
}

// IsSameSentence reports whether current continues the same sentence as
// last: they must share a font, last must carry non-empty text, and the
// font size and baseline must be close enough to be the same line.
func IsSameSentence(last, current Text) bool {
	if last.S == "" {
		return false
	}
	if last.Font != current.Font {
		return false
	}
	if d := last.FontSize - current.FontSize; d > 0.5 || d < -0.5 {
		return false
	}
	if d := last.Y - current.Y; d > 4 || d < -4 {
		return false
	}
	return true
}

// TextRuns returns the text runs of the page at the given 0-based index,
// or nil if the index is out of range or the page cannot be parsed.
func (r *Reader) TextRuns(pageIndex int) (runs []Text) {
	defer func() {
		if e := recover(); e != nil {
			logger.Error("TextRuns: page content could not be parsed", e)
			runs = nil
		}
	}()
	if pageIndex < 0 || pageIndex >= r.NumPage() {
		return nil
	}
	return r.Page(pageIndex + 1).TextRuns()
}

// Info returns the /Info dictionary entry for key, and whether it was
// present. Common keys are Title, Author, Subject, Keywords, Creator,
// Producer, CreationDate and ModDate, but any entry in the dictionary
// can be retrieved.
func (r *Reader) Info(key string) (string, bool) {
	v := r.InfoDict().Key(key)
	if v.Kind() == Null {
		return "", false
	}
	return v.Text(), true
}

// IsEncrypted reports whether the document carries an /Encrypt entry.
func (r *Reader) IsEncrypted() bool {
	return r.isEncrypted()
}

// letterDigitOtherWords counts letters, digits, other non-space runes and
// whitespace-delimited words in s, the statistics the title acceptability
// predicate is built from.
func letterDigitOtherWords(s string) (letters, digits, other, words int) {
	inWord := false
	for _, ch := range s {
		switch {
		case unicode.IsSpace(ch):
			inWord = false
			continue
		case unicode.IsLetter(ch):
			letters++
		case unicode.IsDigit(ch):
			digits++
		default:
			other++
		}
		if !inWord {
			words++
			inWord = true
		}
	}
	return
}

// isAcceptableTitle reports whether s passes the shape heuristics a real
// document title satisfies: a plausible length, at least one word, a
// letter-heavy character mix, and not an unreasonably long average word.
func isAcceptableTitle(s string) bool {
	n := len([]rune(s))
	if n < 16 || n > 300 {
		return false
	}
	letters, digits, other, words := letterDigitOtherWords(s)
	if words < 1 {
		return false
	}
	significant := letters + digits + other
	if significant < 14 {
		return false
	}
	if float64(significant)/float64(words) > 14 {
		return false
	}
	if float64(letters)/float64(significant) < 0.7 {
		return false
	}
	return true
}

// authorizedUseNotice is the library-stamp boilerplate ("Authorized
// licensed use limited to ...") IEEE and other aggregators burn into the
// first page of a reprint; it is never a title and is rejected outright.
const authorizedUseNotice = "Authorized licensed use limited to"

// isRejectedCandidate reports whether s must never be considered a title:
// it is in the journal-name blocklist (after trimming) or it is a
// reprint-distributor usage notice.
func isRejectedCandidate(s string, blocklist map[string]struct{}) bool {
	if strings.Contains(s, authorizedUseNotice) {
		return true
	}
	if blocklist != nil {
		if _, blocked := blocklist[strings.TrimSpace(s)]; blocked {
			return true
		}
	}
	return false
}

// LoadJournalBlocklist reads a newline-delimited list of journal and
// conference names that must never be returned as a title (running
// headers repeated on every page) into a set keyed on the trimmed line.
func LoadJournalBlocklist(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	blocklist := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		blocklist[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return blocklist, nil
}

// minAcceptableAvgFontSize is the floor below which a text run is never
// considered a heading or title candidate, regardless of how it compares
// to the rest of the page.
const minAcceptableAvgFontSize = 5.0

// titleSizeRatio and titleMinSize bound which runs close enough to the
// page's largest kept font size are still in contention for the title.
const (
	titleSizeRatio = 0.9
	titleMinSize   = 13.0
)

// titleSmallPageThreshold: when even the largest candidate run on the
// page is this small, the page never distinguishes a title typographically
// and the first surviving run (reading order) is returned instead of the
// longest.
const titleSmallPageThreshold = 11.0

// Title applies the document title heuristic to the page's text runs:
// keep runs that look like real prose and are not running-header noise,
// narrow to those close to the page's largest surviving font size, and
// pick either the first (small-page case) or the longest of what remains.
func (r *Reader) Title(pageIndex int, blocklist map[string]struct{}) (string, bool) {
	runs := r.TextRuns(pageIndex)
	if len(runs) == 0 {
		return "", false
	}

	tc := r.titleConfig
	if tc == (TitleConfig{}) {
		tc = DefaultTitleConfig()
	}

	var kept []Text
	for _, run := range runs {
		s := strings.TrimSpace(run.S)
		if run.FontSize <= tc.MinAcceptableAvgFontSize {
			continue
		}
		if !isAcceptableTitle(s) {
			continue
		}
		if isRejectedCandidate(s, blocklist) {
			continue
		}
		t := run
		t.S = s
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		logger.Debug("Title: no candidate text runs survived filtering", true)
		return "", false
	}

	m := kept[0].FontSize
	for _, t := range kept[1:] {
		if t.FontSize > m {
			m = t.FontSize
		}
	}

	floor := tc.TitleSizeRatio * m
	if floor < tc.TitleMinSize {
		floor = tc.TitleMinSize
	}
	var finalists []Text
	for _, t := range kept {
		if t.FontSize > floor {
			finalists = append(finalists, t)
		}
	}
	if len(finalists) == 0 {
		return "", false
	}

	if m < tc.TitleSmallPageThreshold {
		return finalists[0].S, true
	}

	best := finalists[0]
	for _, t := range finalists[1:] {
		if len([]rune(t.S)) > len([]rune(best.S)) {
			best = t
		}
	}
	return best.S, true
}
