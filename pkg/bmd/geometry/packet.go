package geometry

// DefaultMatrixCapacity is the number of position matrices GX can hold
// loaded at once (PNMTX0 through PNMTX9).
const DefaultMatrixCapacity = 10

// Packet is one hardware draw unit: a run of triangles whose combined
// matrix footprint fits the loaded matrix slots.
type Packet struct {
	Triangles     []*Triangle
	MatrixIndexes []int
	AttributeData map[VertexAttribute][]int

	attributes []VertexAttribute
	capacity   int
}

// NewPacket returns an empty packet whose vertex rows follow attrs.
func NewPacket(attrs []VertexAttribute, capacity int) *Packet {
	p := &Packet{
		AttributeData: make(map[VertexAttribute][]int, len(attrs)),
		attributes:    append([]VertexAttribute(nil), attrs...),
		capacity:      capacity,
	}
	for _, a := range attrs {
		p.AttributeData[a] = []int{}
	}
	return p
}

// Capacity returns the maximum number of matrices the packet may commit.
func (p *Packet) Capacity() int {
	return p.capacity
}

// union returns the committed matrices followed by the ones t would add.
func (p *Packet) union(t *Triangle) []int {
	merged := append([]int(nil), p.MatrixIndexes...)
	for _, m := range t.MatrixList {
		if !containsInt(merged, m) {
			merged = append(merged, m)
		}
	}
	return merged
}

// CanAdd reports whether t fits without exceeding the matrix capacity.
// A full packet only accepts triangles within its committed matrices.
func (p *Packet) CanAdd(t *Triangle) bool {
	if p.IsFull() {
		for _, m := range t.MatrixList {
			if !containsInt(p.MatrixIndexes, m) {
				return false
			}
		}
		return true
	}
	return len(p.union(t)) <= p.capacity
}

// Add commits t. The caller must have checked CanAdd.
func (p *Packet) Add(t *Triangle) {
	p.MatrixIndexes = p.union(t)
	p.Triangles = append(p.Triangles, t)

	for _, row := range t.Vertices {
		for i, a := range p.attributes {
			p.AttributeData[a] = append(p.AttributeData[a], row[i])
		}
	}
}

// VertexCount returns the number of vertices committed.
func (p *Packet) VertexCount() int {
	return len(p.Triangles) * 3
}

// IsFull reports whether no more matrices can be committed.
func (p *Packet) IsFull() bool {
	return len(p.MatrixIndexes) >= p.capacity
}
