// Package sse implements the streaming ingestion core: incremental UTF-8
// decoding, SSE frame parsing with carry-over across chunk boundaries, and a
// channel-based stream reader that guarantees the response body is released
// on every exit path.
package sse

import (
	"strings"
	"unicode/utf8"
)

// Decoder incrementally converts raw byte chunks into UTF-8 text. A rune
// whose encoding spans two chunks is held back until its remaining bytes
// arrive, so chunk boundaries never corrupt multi-byte characters.
type Decoder struct {
	pending []byte
}

// Decode appends chunk to any held-back bytes and returns the longest prefix
// that ends on a rune boundary. The incomplete tail, if any, is retained for
// the next call.
func (d *Decoder) Decode(chunk []byte) string {
	b := d.pending
	d.pending = nil
	b = append(b, chunk...)

	cut := completePrefixLen(b)
	if cut < len(b) {
		d.pending = append([]byte(nil), b[cut:]...)
	}
	return string(b[:cut])
}

// Flush resolves any dangling partial rune once the stream is known to be
// finished. An incomplete sequence decodes to the Unicode replacement rune
// rather than being dropped.
func (d *Decoder) Flush() string {
	if len(d.pending) == 0 {
		return ""
	}
	s := strings.ToValidUTF8(string(d.pending), string(utf8.RuneError))
	d.pending = nil
	return s
}

// completePrefixLen returns the length of the longest prefix of b that does
// not end mid-rune. Only the last utf8.UTFMax-1 bytes can belong to an
// incomplete sequence.
func completePrefixLen(b []byte) int {
	n := len(b)
	for i := n - 1; i >= 0 && i > n-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		want := runeLen(b[i])
		if want > n-i {
			// Lead byte seen but the sequence is still short.
			return i
		}
		return n
	}
	return n
}

// runeLen returns the encoded length implied by a UTF-8 lead byte.
// Invalid lead bytes report 1 so they pass through as-is.
func runeLen(lead byte) int {
	switch {
	case lead < 0x80:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}
