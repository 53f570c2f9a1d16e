package oto_test

import (
	"bytes"
	"testing"

	"github.com/vsariola/redact/oto"
)

func TestFloatBufferTo16BitLE(t *testing.T) {
	got := oto.FloatBufferTo16BitLE([]float32{0, 1, -1, 2, -2, 0.5}, []byte{0xAA})
	expected := []byte{0xAA, 0, 0, 0xFF, 0x7F, 0x01, 0x80, 0xFF, 0x7F, 0x01, 0x80, 0xFF, 0x3F}
	if !bytes.Equal(got, expected) {
		t.Fatalf("got %x, expected %x", got, expected)
	}
}
