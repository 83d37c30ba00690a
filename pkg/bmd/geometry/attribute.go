// Package geometry re-packages skinned triangle meshes into GX draw packets
// and serializes them in the shape section layout.
package geometry

import (
	"fmt"
	"sort"

	"github.com/Faultbox/bmdcubed/pkg/interchange"
)

// VertexAttribute is a GX vertex attribute. The numeric values are the
// hardware attribute ids, and their order is the order in which the
// hardware expects per-vertex data.
type VertexAttribute int

const (
	PositionMatrixIndex VertexAttribute = 0
	Position            VertexAttribute = 9
	Normal              VertexAttribute = 10
	Color0              VertexAttribute = 11
	Color1              VertexAttribute = 12
	Tex0                VertexAttribute = 13
	Tex1                VertexAttribute = 14
	Tex2                VertexAttribute = 15
	Tex3                VertexAttribute = 16
	Tex4                VertexAttribute = 17
	Tex5                VertexAttribute = 18
	Tex6                VertexAttribute = 19
	Tex7                VertexAttribute = 20

	// NullAttribute terminates an attribute descriptor list.
	NullAttribute VertexAttribute = 0xFF
)

const (
	maxColorChannels = 2
	maxTexChannels   = 8
)

// String returns the attribute name.
func (a VertexAttribute) String() string {
	switch {
	case a == PositionMatrixIndex:
		return "PositionMatrixIndex"
	case a == Position:
		return "Position"
	case a == Normal:
		return "Normal"
	case a >= Color0 && a <= Color1:
		return fmt.Sprintf("Color%d", a-Color0)
	case a >= Tex0 && a <= Tex7:
		return fmt.Sprintf("Tex%d", a-Tex0)
	case a == NullAttribute:
		return "Null"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// IndexType is the descriptor value telling the hardware how an
// attribute's per-vertex value is encoded.
type IndexType uint32

const (
	IndexDirect IndexType = 1 // value is stored inline as one byte
	IndexShort  IndexType = 3 // 16-bit index into the attribute array
)

// IndexType returns how the attribute is encoded in a primitive stream.
func (a VertexAttribute) IndexType() IndexType {
	if a == PositionMatrixIndex {
		return IndexDirect
	}
	return IndexShort
}

// Width returns the per-vertex byte width of the attribute.
func (a VertexAttribute) Width() int {
	if a == PositionMatrixIndex {
		return 1
	}
	return 2
}

// SortAttributes orders attributes in the hardware's canonical order.
func SortAttributes(attrs []VertexAttribute) {
	sort.Slice(attrs, func(i, j int) bool { return attrs[i] < attrs[j] })
}

// DiscoverAttributes maps a triangle group's inputs to vertex attributes in
// declared order. Repeated color and texcoord inputs take consecutive
// channels.
func DiscoverAttributes(inputs []interchange.Input) ([]VertexAttribute, error) {
	attrs := make([]VertexAttribute, 0, len(inputs)+1)
	colors, uvs := 0, 0

	for _, in := range inputs {
		switch in.Semantic {
		case interchange.SemanticVertex, interchange.SemanticPosition:
			attrs = append(attrs, Position)
		case interchange.SemanticNormal:
			attrs = append(attrs, Normal)
		case interchange.SemanticColor:
			if colors >= maxColorChannels {
				return nil, fmt.Errorf("%w: more than %d color channels", ErrUnsupportedSemantic, maxColorChannels)
			}
			attrs = append(attrs, Color0+VertexAttribute(colors))
			colors++
		case interchange.SemanticTexCoord:
			if uvs >= maxTexChannels {
				return nil, fmt.Errorf("%w: more than %d texcoord channels", ErrUnsupportedSemantic, maxTexChannels)
			}
			attrs = append(attrs, Tex0+VertexAttribute(uvs))
			uvs++
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedSemantic, in.Semantic)
		}
	}

	return attrs, nil
}
