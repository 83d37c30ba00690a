package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/bmdcubed/pkg/bmd/skinning"
	"github.com/Faultbox/bmdcubed/pkg/interchange"
	bmath "github.com/Faultbox/bmdcubed/pkg/math"
)

// Batch is all geometry sharing one material.
type Batch struct {
	MaterialName string

	// ActiveAttributes is sorted in hardware order once the batch is built.
	ActiveAttributes []VertexAttribute

	// AttributeData holds every vertex's index for each attribute, in
	// triangle order after the winding fix.
	AttributeData map[VertexAttribute][]int

	// Packets is empty exactly when the mesh is unskinned.
	Packets []*Packet

	// WeightIndexes is the flat matrix table used when there are no packets.
	WeightIndexes []int

	Triangles     []*Triangle
	PositionIndex []int
	Bounds        bmath.BoundingBox

	// AttributeIndex is the batch's entry in the attribute descriptor table,
	// assigned by Encode.
	AttributeIndex int
}

// NewBatch builds a batch from one triangle group. A nil drw means the mesh
// carries no skinning data. capacity bounds the matrices per packet.
func NewBatch(tri *interchange.Triangles, drw *skinning.DrawData, capacity int) (*Batch, error) {
	b := &Batch{
		MaterialName:  tri.Material,
		AttributeData: make(map[VertexAttribute][]int),
	}

	attrs, err := DiscoverAttributes(tri.Inputs)
	if err != nil {
		return nil, b.fail(-1, err)
	}
	b.ActiveAttributes = attrs

	indices, err := tri.Indices()
	if err != nil {
		return nil, b.fail(-1, err)
	}
	if want := tri.Count * 3 * len(attrs); len(indices) != want {
		return nil, b.fail(-1, fmt.Errorf("%w: got %d, want %d", ErrIndexCount, len(indices), want))
	}

	if drw != nil {
		err = b.vertexDataWeighted(indices, tri.Count, drw, capacity)
	} else {
		err = b.vertexDataNotWeighted(indices, tri.Count)
	}
	if err != nil {
		return nil, err
	}

	SortAttributes(b.ActiveAttributes)
	return b, nil
}

func (b *Batch) fail(triangle int, err error) error {
	var be *BatchError
	if errors.As(err, &be) {
		be.Material = b.MaterialName
		return be
	}
	return &BatchError{Material: b.MaterialName, Triangle: triangle, Err: err}
}

// assemble reads count triangles from the index stream. With drw set, each
// vertex gains its weight and a trailing draw matrix index.
func (b *Batch) assemble(indices []int, count int, drw *skinning.DrawData) ([]*Triangle, error) {
	tris := make([]*Triangle, 0, count)
	cursor := 0

	for i := 0; i < count; i++ {
		t := NewTriangle()

		for v := 0; v < 3; v++ {
			row := make([]int, 0, len(b.ActiveAttributes)+1)
			matrixIndex := 0

			for _, a := range b.ActiveAttributes {
				idx := indices[cursor]
				cursor++
				if idx < 0 || idx > maxIndex {
					return nil, b.fail(i, fmt.Errorf("%w: %s index %d", ErrFieldOverflow, a, idx))
				}

				if a == Position {
					b.PositionIndex = append(b.PositionIndex, idx)
					if drw != nil {
						w, err := drw.WeightForPosition(idx)
						if err != nil {
							return nil, b.fail(i, err)
						}
						t.AddVertexWeight(w)
						matrixIndex = drw.MatrixIndex(w)
						if matrixIndex > maxMatrixIndex {
							return nil, b.fail(i, fmt.Errorf("%w: matrix index %d", ErrFieldOverflow, matrixIndex))
						}
					}
				}
				row = append(row, idx)
			}

			if drw != nil {
				row = append(row, matrixIndex)
			}
			t.SetVertex(v, row)
		}

		t.SwapFirstLastVertex()
		tris = append(tris, t)
	}

	return tris, nil
}

func (b *Batch) vertexDataWeighted(indices []int, count int, drw *skinning.DrawData, capacity int) error {
	tris, err := b.assemble(indices, count, drw)
	if err != nil {
		return err
	}
	b.Triangles = tris

	b.ActiveAttributes = append(b.ActiveAttributes, PositionMatrixIndex)

	packets, err := Pack(tris, b.ActiveAttributes, capacity)
	if err != nil {
		return b.fail(-1, err)
	}
	for i, p := range packets {
		if n := p.VertexCount(); n > maxVertexCount {
			return b.fail(-1, fmt.Errorf("%w: packet %d has %d vertices", ErrFieldOverflow, i, n))
		}
		for _, m := range p.MatrixIndexes {
			if m < 0 || m > maxIndex {
				return b.fail(-1, fmt.Errorf("%w: packet %d matrix %d", ErrFieldOverflow, i, m))
			}
		}
	}
	b.Packets = packets

	for _, p := range packets {
		for a, data := range p.AttributeData {
			b.AttributeData[a] = append(b.AttributeData[a], data...)
		}
	}
	return nil
}

func (b *Batch) vertexDataNotWeighted(indices []int, count int) error {
	if n := count * 3; n > maxVertexCount {
		return b.fail(-1, fmt.Errorf("%w: %d vertices in one stream", ErrFieldOverflow, n))
	}

	tris, err := b.assemble(indices, count, nil)
	if err != nil {
		return err
	}
	b.Triangles = tris

	for _, a := range b.ActiveAttributes {
		b.AttributeData[a] = make([]int, 0, count*3)
	}
	for _, t := range tris {
		for _, row := range t.Vertices {
			for i, a := range b.ActiveAttributes {
				b.AttributeData[a] = append(b.AttributeData[a], row[i])
			}
		}
	}

	b.WeightIndexes = []int{0}
	return nil
}

// ComputeBounds sets Bounds from the positions the batch references.
func (b *Batch) ComputeBounds(positions []mgl32.Vec3) error {
	points := make([]mgl32.Vec3, 0, len(b.PositionIndex))
	for _, idx := range b.PositionIndex {
		if idx < 0 || idx >= len(positions) {
			return b.fail(-1, fmt.Errorf("%w: %d (have %d)", ErrPositionIndex, idx, len(positions)))
		}
		points = append(points, positions[idx])
	}
	b.Bounds = bmath.NewBoundingBox(points)
	return nil
}

// Skinned reports whether the batch was built with weights.
func (b *Batch) Skinned() bool {
	return len(b.Packets) > 0
}

// TriangleCount returns the number of triangles in the batch.
func (b *Batch) TriangleCount() int {
	return len(b.Triangles)
}

// VertexCount returns the number of vertices in the batch.
func (b *Batch) VertexCount() int {
	return len(b.Triangles) * 3
}
