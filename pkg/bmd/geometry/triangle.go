package geometry

import "github.com/Faultbox/bmdcubed/pkg/bmd/skinning"

// Triangle is one source triangle with its per-vertex attribute indices.
//
// Each entry of Vertices holds one index per active attribute; for skinned
// meshes the last entry is the vertex's draw matrix index. Weights holds the
// weight of each vertex in vertex order, UniqueWeights the distinct ones,
// and MatrixList every bone those weights reference, in first-seen order.
type Triangle struct {
	Vertices      [3][]int
	Weights       []skinning.Weight
	UniqueWeights []skinning.Weight
	MatrixList    []int
}

// NewTriangle returns an empty triangle.
func NewTriangle() *Triangle {
	return &Triangle{
		Weights:       make([]skinning.Weight, 0, 3),
		UniqueWeights: make([]skinning.Weight, 0, 3),
		MatrixList:    make([]int, 0, 4),
	}
}

// SetVertex sets the attribute indices of vertex i.
func (t *Triangle) SetVertex(i int, indices []int) {
	t.Vertices[i] = indices
}

// AddVertexWeight records the weight of the next vertex and refreshes the
// matrix footprint.
func (t *Triangle) AddVertexWeight(w skinning.Weight) {
	t.Weights = append(t.Weights, w)

	for _, u := range t.UniqueWeights {
		if u.Equal(w) {
			return
		}
	}
	t.UniqueWeights = append(t.UniqueWeights, w)

	t.MatrixList = t.MatrixList[:0]
	for _, u := range t.UniqueWeights {
		for _, bone := range u.BoneIndexes() {
			if !containsInt(t.MatrixList, bone) {
				t.MatrixList = append(t.MatrixList, bone)
			}
		}
	}
}

// SwapFirstLastVertex reverses the winding order in place. Applying it
// twice restores the original triangle.
func (t *Triangle) SwapFirstLastVertex() {
	t.Vertices[0], t.Vertices[2] = t.Vertices[2], t.Vertices[0]
	if len(t.Weights) == 3 {
		t.Weights[0], t.Weights[2] = t.Weights[2], t.Weights[0]
	}
}

// Stream returns the vertex indices concatenated in vertex order.
func (t *Triangle) Stream() []int {
	var out []int
	for _, v := range t.Vertices {
		out = append(out, v...)
	}
	return out
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
