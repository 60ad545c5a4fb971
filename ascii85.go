// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import "io"

// alphaReader wraps an ASCII85Decode stream's raw bytes, zeroing anything
// that isn't a valid base-85 digit ('!'..'u') before it reaches
// encoding/ascii85's decoder: real-world PDF producers pad ASCII85 stream
// bodies with stray bytes the standard library decoder rejects outright.
// Once the "~>" end-of-data marker is seen, every following byte (the
// marker included) is zeroed too, since encoding/ascii85 has no use for
// anything past it.
type alphaReader struct {
	r    io.Reader
	done bool
}

// newAlphaReader returns a reader over r that passes through ASCII85
// alphabet bytes and zeroes everything else (see alphaReader).
func newAlphaReader(r io.Reader) *alphaReader {
	return &alphaReader{r: r}
}

func (a *alphaReader) Read(p []byte) (int, error) {
	n, err := a.r.Read(p)
	for i := 0; i < n; i++ {
		if a.done {
			p[i] = 0
			continue
		}
		c := p[i]
		switch {
		case c == '~' && i+1 < n && p[i+1] == '>':
			p[i] = 0
			p[i+1] = 0
			a.done = true
			i++
		case c >= '!' && c <= 'u':
			// valid base-85 digit, left as-is
		default:
			p[i] = 0
		}
	}
	return n, err
}
