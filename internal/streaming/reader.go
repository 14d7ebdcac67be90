package streaming

import (
	"errors"
	"io"
)

// DefaultChunkSize is the read buffer size used by NewFragmentReader.
const DefaultChunkSize = 4096

// FragmentReader reads decoded text fragments from a byte stream.
// Each underlying read yields at most one fragment, in receipt order.
// It is not safe for concurrent use.
type FragmentReader struct {
	r       io.Reader
	dec     *Decoder
	buf     []byte
	err     error
	flushed bool
}

// NewFragmentReader creates a fragment reader over r.
func NewFragmentReader(r io.Reader) *FragmentReader {
	return NewFragmentReaderSize(r, DefaultChunkSize)
}

// NewFragmentReaderSize creates a fragment reader with a custom read buffer size.
func NewFragmentReaderSize(r io.Reader, size int) *FragmentReader {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &FragmentReader{
		r:   r,
		dec: NewDecoder(),
		buf: make([]byte, size),
	}
}

// Next returns the next non-empty fragment.
// It returns io.EOF once the stream has ended and all text was returned.
// Any other error is a read failure; fragments returned before it are valid.
func (f *FragmentReader) Next() (string, error) {
	for {
		if f.err != nil {
			return f.finish()
		}

		n, err := f.r.Read(f.buf)
		if err != nil {
			f.err = err
		}
		if n > 0 {
			if fragment := f.dec.Decode(f.buf[:n]); fragment != "" {
				return fragment, nil
			}
		}
	}
}

// finish flushes the decoder on a clean end of stream and then reports the
// terminal error.
func (f *FragmentReader) finish() (string, error) {
	if !errors.Is(f.err, io.EOF) {
		return "", f.err
	}
	if !f.flushed {
		f.flushed = true
		if tail := f.dec.Flush(); tail != "" {
			return tail, nil
		}
	}
	return "", io.EOF
}

// ReadAll drains the reader, calling fn for every fragment in order.
// It returns nil at end of stream or the first read error.
func (f *FragmentReader) ReadAll(fn func(fragment string)) error {
	for {
		fragment, err := f.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fn(fragment)
	}
}
