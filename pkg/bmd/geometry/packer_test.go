package geometry

import (
	"errors"
	"testing"

	"github.com/Faultbox/bmdcubed/pkg/bmd/skinning"
)

var packAttrs = []VertexAttribute{Position, PositionMatrixIndex}

// footprintTri builds a triangle whose vertices bind rigidly to bones.
// Fewer than three bones repeat the last one.
func footprintTri(id int, bones ...int) *Triangle {
	tri := NewTriangle()
	for v := 0; v < 3; v++ {
		bone := bones[len(bones)-1]
		if v < len(bones) {
			bone = bones[v]
		}
		tri.AddVertexWeight(skinning.Rigid(bone))
		tri.SetVertex(v, []int{id, bone})
	}
	return tri
}

func triangleOrder(packets []*Packet) []*Triangle {
	var out []*Triangle
	for _, p := range packets {
		out = append(out, p.Triangles...)
	}
	return out
}

func TestPackRespectsCapacity(t *testing.T) {
	tris := []*Triangle{
		footprintTri(0, 0, 1),
		footprintTri(1, 1, 2),
		footprintTri(2, 2, 3),
	}

	tests := []struct {
		name     string
		capacity int
		want     [][]int // triangle ids per packet
	}{
		{"capacity 2", 2, [][]int{{0}, {1}, {2}}},
		{"capacity 3", 3, [][]int{{0, 1}, {2}}},
		{"capacity 4", 4, [][]int{{0, 1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packets, err := Pack(tris, packAttrs, tt.capacity)
			if err != nil {
				t.Fatalf("Pack failed: %v", err)
			}
			if len(packets) != len(tt.want) {
				t.Fatalf("got %d packets, want %d", len(packets), len(tt.want))
			}
			for i, p := range packets {
				if len(p.MatrixIndexes) > tt.capacity {
					t.Errorf("packet %d commits %d matrices, capacity %d", i, len(p.MatrixIndexes), tt.capacity)
				}
				if len(p.Triangles) != len(tt.want[i]) {
					t.Fatalf("packet %d: got %d triangles, want %v", i, len(p.Triangles), tt.want[i])
				}
				for j, tri := range p.Triangles {
					if tri.Vertices[0][0] != tt.want[i][j] {
						t.Errorf("packet %d triangle %d: got id %d, want %d", i, j, tri.Vertices[0][0], tt.want[i][j])
					}
				}
			}
		})
	}
}

func TestPackCommittedMatrixSet(t *testing.T) {
	tris := []*Triangle{
		footprintTri(0, 0, 1),
		footprintTri(1, 1, 2),
		footprintTri(2, 2, 3),
	}

	packets, err := Pack(tris, packAttrs, 3)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	want := [][]int{{0, 1, 2}, {2, 3}}
	for i, p := range packets {
		if len(p.MatrixIndexes) != len(want[i]) {
			t.Fatalf("packet %d: got %v, want %v", i, p.MatrixIndexes, want[i])
		}
		for j := range want[i] {
			if p.MatrixIndexes[j] != want[i][j] {
				t.Errorf("packet %d: got %v, want %v", i, p.MatrixIndexes, want[i])
			}
		}
	}
}

func TestPackPreservesOrderAndIsIdempotent(t *testing.T) {
	var tris []*Triangle
	for i := 0; i < 40; i++ {
		tris = append(tris, footprintTri(i, i%7, (i*3)%11, (i+5)%4))
	}

	packets, err := Pack(tris, packAttrs, 4)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	order := triangleOrder(packets)
	if len(order) != len(tris) {
		t.Fatalf("got %d packed triangles, want %d", len(order), len(tris))
	}
	for i := range tris {
		if order[i] != tris[i] {
			t.Fatalf("triangle %d out of order", i)
		}
	}

	again, err := Pack(order, packAttrs, 4)
	if err != nil {
		t.Fatalf("second Pack failed: %v", err)
	}
	if len(again) != len(packets) {
		t.Fatalf("repack: got %d packets, want %d", len(again), len(packets))
	}
	for i := range packets {
		if len(again[i].Triangles) != len(packets[i].Triangles) {
			t.Errorf("packet %d: got %d triangles, want %d", i, len(again[i].Triangles), len(packets[i].Triangles))
		}
	}
}

func TestPackAttributeRows(t *testing.T) {
	packets, err := Pack([]*Triangle{footprintTri(7, 1, 2, 3)}, packAttrs, 10)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	p := packets[0]
	if p.VertexCount() != 3 {
		t.Errorf("VertexCount: got %d, want 3", p.VertexCount())
	}
	pos := p.AttributeData[Position]
	pmi := p.AttributeData[PositionMatrixIndex]
	if len(pos) != 3 || pos[0] != 7 || pos[2] != 7 {
		t.Errorf("positions: got %v", pos)
	}
	if len(pmi) != 3 || pmi[0] != 1 || pmi[1] != 2 || pmi[2] != 3 {
		t.Errorf("matrix indices: got %v", pmi)
	}
}

func TestPackOverCapacity(t *testing.T) {
	tris := []*Triangle{
		footprintTri(0, 0),
		footprintTri(1, 0, 1, 2),
	}

	_, err := Pack(tris, packAttrs, 2)
	if !errors.Is(err, ErrOverCapacity) {
		t.Fatalf("got %v, want ErrOverCapacity", err)
	}
	var be *BatchError
	if !errors.As(err, &be) || be.Triangle != 1 {
		t.Errorf("expected BatchError for triangle 1, got %v", err)
	}
}

func TestPackEmptyInput(t *testing.T) {
	packets, err := Pack(nil, packAttrs, 10)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if len(packets) != 1 || len(packets[0].Triangles) != 0 {
		t.Errorf("expected a single empty packet, got %d packets", len(packets))
	}
}

func TestPackInvalidCapacity(t *testing.T) {
	if _, err := Pack(nil, packAttrs, 0); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("got %v, want ErrInvalidCapacity", err)
	}
}

func TestPacketIsFull(t *testing.T) {
	p := NewPacket(packAttrs, 2)
	p.Add(footprintTri(0, 0, 1))

	if !p.IsFull() {
		t.Error("packet with 2 of 2 matrices should be full")
	}
	if p.CanAdd(footprintTri(1, 2)) {
		t.Error("full packet accepted a new matrix")
	}
	if !p.CanAdd(footprintTri(2, 1, 0)) {
		t.Error("full packet rejected a triangle within its matrix set")
	}
}

func TestPackFullPacketTakesSubsetTriangles(t *testing.T) {
	tris := []*Triangle{
		footprintTri(0, 0, 1),
		footprintTri(1, 1, 0),
		footprintTri(2, 0),
		footprintTri(3, 2),
	}

	packets, err := Pack(tris, packAttrs, 2)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if len(packets) != 2 {
		t.Fatalf("got %d packets, want 2", len(packets))
	}
	if !packets[0].IsFull() || len(packets[0].Triangles) != 3 {
		t.Errorf("first packet: full=%v with %d triangles, want full with 3", packets[0].IsFull(), len(packets[0].Triangles))
	}
	if !equalInts(packets[1].MatrixIndexes, []int{2}) {
		t.Errorf("second packet matrices: got %v, want [2]", packets[1].MatrixIndexes)
	}
}
