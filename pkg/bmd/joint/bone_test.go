package joint

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/bmdcubed/pkg/interchange"
)

func sampleSkeleton() *interchange.Node {
	return &interchange.Node{
		Name:   "root",
		Matrix: mgl32.Translate3D(1, 2, 3),
		Children: []*interchange.Node{
			{
				Name:   "spine",
				Matrix: mgl32.Translate3D(0, 1, 0).Mul4(mgl32.Scale3D(2, 2, 2)),
				Children: []*interchange.Node{
					{Name: "head", Matrix: mgl32.Ident4()},
				},
			},
			{Name: "leg_l", Matrix: mgl32.HomogRotate3DZ(float32(math.Pi / 2))},
			{Name: "leg_r", Matrix: mgl32.Ident4()},
		},
	}
}

func sameShape(t *testing.T, b *Bone, n *interchange.Node) {
	t.Helper()
	if b.Name != n.Name {
		t.Errorf("name: got %q, want %q", b.Name, n.Name)
	}
	if len(b.Children) != len(n.Children) {
		t.Fatalf("%s: got %d children, want %d", n.Name, len(b.Children), len(n.Children))
	}
	for i := range n.Children {
		sameShape(t, b.Children[i], n.Children[i])
	}
}

func TestNewBoneMirrorsTree(t *testing.T) {
	node := sampleSkeleton()
	root := NewBone(node)

	sameShape(t, root, node)

	if got := root.Count(); got != 5 {
		t.Errorf("Count: got %d, want 5", got)
	}
	if got := len(node.Flatten()); got != root.Count() {
		t.Errorf("node count %d != bone count %d", got, root.Count())
	}
}

func TestNewBoneTranslation(t *testing.T) {
	root := NewBone(sampleSkeleton())

	if root.Translation != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("root translation: got %v, want (1, 2, 3)", root.Translation)
	}
	if got := root.Children[0].Translation; got != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("spine translation: got %v, want (0, 1, 0)", got)
	}
}

func TestNewBoneScaleAndRotation(t *testing.T) {
	root := NewBone(sampleSkeleton())

	spine := root.Children[0]
	if !spine.Scale.ApproxEqualThreshold(mgl32.Vec3{2, 2, 2}, 1e-5) {
		t.Errorf("spine scale: got %v, want (2, 2, 2)", spine.Scale)
	}

	leg := root.Children[1]
	// 90 degrees about Z: q = (0, 0, sin 45, cos 45)
	want := mgl32.Vec3{0, 0, float32(math.Sqrt2 / 2)}
	got := leg.Rotation
	if got.Z() < 0 {
		got = got.Mul(-1)
	}
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("leg rotation: got %v, want %v", leg.Rotation, want)
	}
}

func TestBoneLeafAndFlatten(t *testing.T) {
	root := NewBone(sampleSkeleton())

	names := []string{"root", "spine", "head", "leg_l", "leg_r"}
	flat := root.Flatten()
	if len(flat) != len(names) {
		t.Fatalf("Flatten: got %d bones, want %d", len(flat), len(names))
	}
	for i, b := range flat {
		if b.Name != names[i] {
			t.Errorf("bone %d: got %q, want %q", i, b.Name, names[i])
		}
	}

	if root.IsLeaf() {
		t.Error("root should not be a leaf")
	}
	if !flat[2].IsLeaf() {
		t.Error("head should be a leaf")
	}
	if flat[2].Children == nil {
		t.Error("leaf children should be an empty list, not nil")
	}
}

func TestBoneWalkDepth(t *testing.T) {
	root := NewBone(sampleSkeleton())

	depths := map[string]int{}
	root.Walk(func(b *Bone, depth int) {
		depths[b.Name] = depth
	})

	want := map[string]int{"root": 0, "spine": 1, "head": 2, "leg_l": 1, "leg_r": 1}
	for name, d := range want {
		if depths[name] != d {
			t.Errorf("%s depth: got %d, want %d", name, depths[name], d)
		}
	}
}
