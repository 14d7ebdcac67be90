package streaming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecoder_ASCII(t *testing.T) {
	d := NewDecoder()

	assert.Equal(t, "Hel", d.Decode([]byte("Hel")))
	assert.Equal(t, "lo", d.Decode([]byte("lo")))
	assert.Equal(t, 0, d.Pending())
	assert.Equal(t, "", d.Flush())
}

func TestDecoder_SplitMultiByte(t *testing.T) {
	// "é" is 0xC3 0xA9, "€" is 0xE2 0x82 0xAC
	d := NewDecoder()

	assert.Equal(t, "caf", d.Decode([]byte{'c', 'a', 'f', 0xC3}))
	assert.Equal(t, 1, d.Pending())
	assert.Equal(t, "é ", d.Decode([]byte{0xA9, ' '}))
	assert.Equal(t, "", d.Decode([]byte{0xE2}))
	assert.Equal(t, "", d.Decode([]byte{0x82}))
	assert.Equal(t, 2, d.Pending())
	assert.Equal(t, "€", d.Decode([]byte{0xAC}))
	assert.Equal(t, 0, d.Pending())
}

func TestDecoder_SplitFourByteRune(t *testing.T) {
	emoji := []byte("🧠")
	d := NewDecoder()

	var out string
	for _, b := range emoji {
		out += d.Decode([]byte{b})
	}
	out += d.Flush()

	assert.Equal(t, "🧠", out)
}

func TestDecoder_InvalidByteIsReplaced(t *testing.T) {
	d := NewDecoder()

	assert.Equal(t, "a�b", d.Decode([]byte{'a', 0xFF, 'b'}))
}

func TestDecoder_FlushIncompleteTail(t *testing.T) {
	d := NewDecoder()

	assert.Equal(t, "x", d.Decode([]byte{'x', 0xE2, 0x82}))
	assert.Equal(t, "�", d.Flush())
	assert.Equal(t, 0, d.Pending())
}

func TestDecoder_Reset(t *testing.T) {
	d := NewDecoder()
	d.Decode([]byte{0xC3})

	d.Reset()

	assert.Equal(t, 0, d.Pending())
	assert.Equal(t, "ok", d.Decode([]byte("ok")))
}

func TestDecoder_EmptyChunk(t *testing.T) {
	d := NewDecoder()

	assert.Equal(t, "", d.Decode(nil))
	assert.Equal(t, "", d.Decode([]byte{}))
}
