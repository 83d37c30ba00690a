package binio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestWriterBigEndian(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.U8(0x03)
	w.U8(0xFF)
	w.U16(0x1234)
	w.S16(-1)
	w.U32(0xDEADBEEF)
	w.F32(1.0)

	if err := w.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{
		0x03, 0xFF,
		0x12, 0x34,
		0xFF, 0xFF,
		0xDE, 0xAD, 0xBE, 0xEF,
		0x3F, 0x80, 0x00, 0x00,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % X, want % X", buf.Bytes(), want)
	}
	if w.Offset() != int64(len(want)) {
		t.Errorf("offset: got %d, want %d", w.Offset(), len(want))
	}
}

func TestWriterLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterOrder(&buf, binary.LittleEndian)
	w.U16(0x1234)

	if !bytes.Equal(buf.Bytes(), []byte{0x34, 0x12}) {
		t.Errorf("got % X", buf.Bytes())
	}
}

func TestWriterPad(t *testing.T) {
	tests := []struct {
		name    string
		written int
		align   int
		want    int
	}{
		{"already aligned", 32, 32, 32},
		{"empty", 0, 32, 0},
		{"partial", 3, 32, 32},
		{"one past", 33, 32, 64},
		{"align one", 5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			w.Bytes(bytes.Repeat([]byte{0xAA}, tt.written))
			w.PadZero(tt.align)

			if buf.Len() != tt.want {
				t.Fatalf("length: got %d, want %d", buf.Len(), tt.want)
			}
			for i := tt.written; i < buf.Len(); i++ {
				if buf.Bytes()[i] != 0 {
					t.Fatalf("pad byte %d is %#x, want 0", i, buf.Bytes()[i])
				}
			}
		})
	}
}

type failingWriter struct{ after int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("disk full")
	}
	f.after--
	return len(p), nil
}

func TestWriterStickyError(t *testing.T) {
	w := NewWriter(&failingWriter{after: 1})
	w.U16(1)
	w.U16(2)
	w.U16(3)
	w.PadZero(32)

	if w.Err() == nil {
		t.Fatal("expected error")
	}
	if w.Offset() != 2 {
		t.Errorf("offset: got %d, want 2", w.Offset())
	}
}
