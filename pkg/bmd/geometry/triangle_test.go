package geometry

import (
	"testing"

	"github.com/Faultbox/bmdcubed/pkg/bmd/skinning"
)

func TestTriangleAddVertexWeight(t *testing.T) {
	a := skinning.NewWeight(skinning.Influence{Bone: 3, Factor: 0.5}, skinning.Influence{Bone: 1, Factor: 0.5})
	b := skinning.Rigid(1)
	c := skinning.NewWeight(skinning.Influence{Bone: 3, Factor: 0.5}, skinning.Influence{Bone: 1, Factor: 0.5})

	tri := NewTriangle()
	tri.AddVertexWeight(a)
	tri.AddVertexWeight(b)
	tri.AddVertexWeight(c)

	if len(tri.Weights) != 3 {
		t.Errorf("Weights: got %d, want 3", len(tri.Weights))
	}
	if len(tri.UniqueWeights) != 2 {
		t.Errorf("UniqueWeights: got %d, want 2", len(tri.UniqueWeights))
	}
	for i := range tri.UniqueWeights {
		for j := i + 1; j < len(tri.UniqueWeights); j++ {
			if tri.UniqueWeights[i].Equal(tri.UniqueWeights[j]) {
				t.Errorf("unique weights %d and %d are equal", i, j)
			}
		}
	}

	want := []int{3, 1}
	if len(tri.MatrixList) != len(want) || tri.MatrixList[0] != 3 || tri.MatrixList[1] != 1 {
		t.Errorf("MatrixList: got %v, want %v", tri.MatrixList, want)
	}
}

func TestTriangleMatrixListGrows(t *testing.T) {
	tri := NewTriangle()
	tri.AddVertexWeight(skinning.Rigid(0))
	if len(tri.MatrixList) != 1 {
		t.Fatalf("after one weight: %v", tri.MatrixList)
	}
	tri.AddVertexWeight(skinning.Rigid(4))
	tri.AddVertexWeight(skinning.Rigid(2))

	want := []int{0, 4, 2}
	for i := range want {
		if tri.MatrixList[i] != want[i] {
			t.Fatalf("MatrixList: got %v, want %v", tri.MatrixList, want)
		}
	}
}

func TestTriangleSwapIsInvolution(t *testing.T) {
	tri := NewTriangle()
	tri.SetVertex(0, []int{0, 10})
	tri.SetVertex(1, []int{1, 11})
	tri.SetVertex(2, []int{2, 12})
	tri.AddVertexWeight(skinning.Rigid(0))
	tri.AddVertexWeight(skinning.Rigid(1))
	tri.AddVertexWeight(skinning.Rigid(2))

	tri.SwapFirstLastVertex()

	if tri.Vertices[0][0] != 2 || tri.Vertices[2][0] != 0 || tri.Vertices[1][0] != 1 {
		t.Errorf("after swap: %v", tri.Vertices)
	}
	if !tri.Weights[0].Equal(skinning.Rigid(2)) || !tri.Weights[2].Equal(skinning.Rigid(0)) {
		t.Errorf("weights not swapped: %v", tri.Weights)
	}

	tri.SwapFirstLastVertex()

	got := tri.Stream()
	want := []int{0, 10, 1, 11, 2, 12}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("double swap: got %v, want %v", got, want)
		}
	}
	if !tri.Weights[0].Equal(skinning.Rigid(0)) {
		t.Errorf("double swap weights: %v", tri.Weights)
	}
}

func TestTriangleSwapWithoutWeights(t *testing.T) {
	tri := NewTriangle()
	tri.SetVertex(0, []int{0})
	tri.SetVertex(1, []int{1})
	tri.SetVertex(2, []int{2})

	tri.SwapFirstLastVertex()

	if got := tri.Stream(); got[0] != 2 || got[2] != 0 {
		t.Errorf("got %v", got)
	}
}
