package streaming

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder incrementally decodes UTF-8 text.
// Invalid bytes become U+FFFD; incomplete sequences at the end of a chunk
// are held back until the next chunk completes them.
type Decoder struct {
	t       transform.Transformer
	pending []byte
}

// NewDecoder creates a UTF-8 decoder with no carried-over state.
func NewDecoder() *Decoder {
	return &Decoder{t: unicode.UTF8.NewDecoder()}
}

// Decode decodes the next chunk and returns the text that is complete so far.
func (d *Decoder) Decode(chunk []byte) string {
	return d.decode(chunk, false)
}

// Flush decodes whatever is still held back. An incomplete trailing
// sequence is emitted as U+FFFD. The decoder is reset afterwards.
func (d *Decoder) Flush() string {
	out := d.decode(nil, true)
	d.Reset()
	return out
}

// Pending returns the number of bytes held back for the next chunk.
func (d *Decoder) Pending() int {
	return len(d.pending)
}

// Reset discards carried-over state.
func (d *Decoder) Reset() {
	d.pending = nil
	d.t.Reset()
}

func (d *Decoder) decode(chunk []byte, atEOF bool) string {
	src := make([]byte, 0, len(d.pending)+len(chunk))
	src = append(src, d.pending...)
	src = append(src, chunk...)
	d.pending = nil

	if len(src) == 0 {
		return ""
	}

	// Every invalid byte may expand to a 3-byte replacement character.
	dst := make([]byte, len(src)*3+utf8.UTFMax)
	out := make([]byte, 0, len(src))
	for {
		nDst, nSrc, err := d.t.Transform(dst, src, atEOF)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]

		switch {
		case err == nil:
			return string(out)
		case errors.Is(err, transform.ErrShortSrc):
			d.pending = append([]byte(nil), src...)
			return string(out)
		case errors.Is(err, transform.ErrShortDst):
			if nSrc == 0 && nDst == 0 {
				dst = make([]byte, len(dst)*2)
			}
		default:
			// The UTF-8 decoder replaces invalid input instead of failing.
			return string(out)
		}
	}
}
