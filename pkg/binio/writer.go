// Package binio provides a byte-counting binary writer for fixed file layouts.
package binio

import (
	"encoding/binary"
	"io"
	"math"
)

// Writer writes primitives in a fixed byte order and tracks the stream
// offset. The first write error is kept and all later writes become no-ops;
// check Err once after a sequence of writes.
type Writer struct {
	w     io.Writer
	order binary.ByteOrder
	n     int64
	err   error
	buf   [8]byte
}

// NewWriter returns a big-endian writer, the byte order of GameCube/Wii
// model files.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, order: binary.BigEndian}
}

// NewWriterOrder returns a writer using the given byte order.
func NewWriterOrder(w io.Writer, order binary.ByteOrder) *Writer {
	return &Writer{w: w, order: order}
}

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(p)
	w.n += int64(n)
	w.err = err
}

// U8 writes an unsigned byte.
func (w *Writer) U8(v uint8) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

// U16 writes an unsigned 16-bit value.
func (w *Writer) U16(v uint16) {
	w.order.PutUint16(w.buf[:2], v)
	w.write(w.buf[:2])
}

// S16 writes a signed 16-bit value.
func (w *Writer) S16(v int16) {
	w.U16(uint16(v))
}

// U32 writes an unsigned 32-bit value.
func (w *Writer) U32(v uint32) {
	w.order.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

// F32 writes an IEEE-754 single precision float.
func (w *Writer) F32(v float32) {
	w.U32(math.Float32bits(v))
}

// F32s writes each value in order.
func (w *Writer) F32s(vs ...float32) {
	for _, v := range vs {
		w.F32(v)
	}
}

// Bytes writes raw bytes.
func (w *Writer) Bytes(p []byte) {
	w.write(p)
}

// Pad writes fill bytes until the offset is a multiple of align.
func (w *Writer) Pad(align int, fill byte) {
	if align <= 1 {
		return
	}
	for w.n%int64(align) != 0 && w.err == nil {
		w.U8(fill)
	}
}

// PadZero pads with zero bytes up to the next multiple of align.
func (w *Writer) PadZero(align int) {
	w.Pad(align, 0)
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.n
}

// Err returns the first error encountered, if any.
func (w *Writer) Err() error {
	return w.err
}
