package geometry

import (
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/bmdcubed/pkg/binio"
)

// Shape section constants.
const (
	MatrixTypeMulti   = 3    // batch uses a matrix per vertex
	PrimitiveTriangle = 0x90 // GX_TRIANGLES
	BatchHeaderSize   = 36
	PacketAlignment   = 32
	descriptorSize    = 8
)

// Field limits of the shape data.
const (
	maxMatrixIndex = 0xFF   // PositionMatrixIndex is one byte
	maxIndex       = 0xFFFF // attribute and matrix table entries
	maxVertexCount = 0xFFFF // primitive vertex count
)

// WriteHeader writes the fixed-size batch header.
func (b *Batch) WriteHeader(w *binio.Writer, attributeOffset, firstMatrixIndex int) {
	w.U8(MatrixTypeMulti)
	w.U8(0xFF)
	w.U16(uint16(len(b.Packets)))

	w.U16(uint16(attributeOffset))
	w.U16(uint16(firstMatrixIndex))
	w.U16(uint16(firstMatrixIndex))
	w.U16(0xFFFF)

	w.F32s(b.Bounds.Min[:]...)
	w.F32s(b.Bounds.Max[:]...)
}

// MatrixTableCount returns how many matrix-index tables the batch emits.
func (b *Batch) MatrixTableCount() int {
	if len(b.Packets) == 0 {
		return 1
	}
	return len(b.Packets)
}

// WriteMatrixIndexes writes one matrix-index table per packet, or the flat
// table when the batch has no packets.
func (b *Batch) WriteMatrixIndexes(w *binio.Writer) {
	if len(b.Packets) == 0 {
		for _, idx := range b.WeightIndexes {
			w.U16(uint16(idx))
		}
		return
	}
	for _, p := range b.Packets {
		for _, idx := range p.MatrixIndexes {
			w.U16(uint16(idx))
		}
	}
}

// PacketLocation is the position of one primitive stream in the output.
type PacketLocation struct {
	Offset int64
	Size   int64
}

// WritePackets writes a primitive stream per packet, or one stream for the
// whole batch when it has no packets.
func (b *Batch) WritePackets(w *binio.Writer) []PacketLocation {
	if len(b.Packets) == 0 {
		return []PacketLocation{b.writePrimitives(w, b.AttributeData, b.VertexCount())}
	}

	locs := make([]PacketLocation, 0, len(b.Packets))
	for _, p := range b.Packets {
		locs = append(locs, b.writePrimitives(w, p.AttributeData, p.VertexCount()))
	}
	return locs
}

// writePrimitives writes a triangle list followed by zero padding to the
// next 32-byte boundary. The zero bytes mark the end of the display list.
func (b *Batch) writePrimitives(w *binio.Writer, data map[VertexAttribute][]int, vertexCount int) PacketLocation {
	start := w.Offset()

	w.U8(PrimitiveTriangle)
	w.U16(uint16(vertexCount))

	for i := 0; i < vertexCount; i++ {
		for _, a := range b.ActiveAttributes {
			v := data[a][i]
			if a.Width() == 1 {
				w.U8(uint8(v))
			} else {
				w.U16(uint16(v))
			}
		}
	}

	w.PadZero(PacketAlignment)
	return PacketLocation{Offset: start, Size: w.Offset() - start}
}

// Layout records where Encode placed each region.
type Layout struct {
	AttributeTableOffset int64
	MatrixTableOffset    int64
	PacketDataOffset     int64
	Packets              []PacketLocation
}

// Encode writes the batches as a shape section body: every header, the
// attribute descriptor table, every matrix-index table, then every
// primitive stream. Regions are padded to 32 bytes.
func Encode(out io.Writer, batches []*Batch) (*Layout, error) {
	w := binio.NewWriter(out)
	layout := &Layout{}

	lists, offsets := attributeTable(batches)

	firsts, err := firstMatrixIndexes(batches, offsets)
	if err != nil {
		return nil, err
	}
	for i, b := range batches {
		b.WriteHeader(w, offsets[b.AttributeIndex], firsts[i])
	}
	w.PadZero(PacketAlignment)

	layout.AttributeTableOffset = w.Offset()
	for _, list := range lists {
		for _, a := range list {
			w.U32(uint32(a))
			w.U32(uint32(a.IndexType()))
		}
		w.U32(uint32(NullAttribute))
		w.U32(0)
	}
	w.PadZero(PacketAlignment)

	layout.MatrixTableOffset = w.Offset()
	for _, b := range batches {
		b.WriteMatrixIndexes(w)
	}
	w.PadZero(PacketAlignment)

	layout.PacketDataOffset = w.Offset()
	for _, b := range batches {
		layout.Packets = append(layout.Packets, b.WritePackets(w)...)
	}

	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("writing shape data: %w", err)
	}
	return layout, nil
}

// firstMatrixIndexes returns each batch's first matrix table index and
// checks every header field fits 16 bits before anything is written.
func firstMatrixIndexes(batches []*Batch, offsets []int) ([]int, error) {
	firsts := make([]int, len(batches))
	next := 0
	for i, b := range batches {
		overflow := func(field string, v int) error {
			return &BatchError{
				Material: b.MaterialName,
				Triangle: -1,
				Err:      fmt.Errorf("%w: %s %d", ErrFieldOverflow, field, v),
			}
		}
		if n := len(b.Packets); n > maxIndex {
			return nil, overflow("packet count", n)
		}
		if off := offsets[b.AttributeIndex]; off > maxIndex {
			return nil, overflow("attribute offset", off)
		}
		if next > maxIndex {
			return nil, overflow("first matrix index", next)
		}
		firsts[i] = next
		next += b.MatrixTableCount()
	}
	return firsts, nil
}

// attributeTable deduplicates the batches' attribute lists, sets each
// batch's AttributeIndex and returns the lists with their byte offsets
// inside the descriptor table.
func attributeTable(batches []*Batch) ([][]VertexAttribute, []int) {
	var lists [][]VertexAttribute
	var offsets []int
	seen := make(map[string]int)
	next := 0

	for _, b := range batches {
		key := attributeKey(b.ActiveAttributes)
		idx, ok := seen[key]
		if !ok {
			idx = len(lists)
			seen[key] = idx
			lists = append(lists, b.ActiveAttributes)
			offsets = append(offsets, next)
			next += (len(b.ActiveAttributes) + 1) * descriptorSize
		}
		b.AttributeIndex = idx
	}
	return lists, offsets
}

func attributeKey(attrs []VertexAttribute) string {
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
