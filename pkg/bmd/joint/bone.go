// Package joint builds the bone hierarchy of a model from its scene graph.
package joint

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/bmdcubed/pkg/interchange"
	bmath "github.com/Faultbox/bmdcubed/pkg/math"
)

// Bone is one joint of the skeleton. Each bone owns its children.
type Bone struct {
	Name string

	Scale       mgl32.Vec3
	Translation mgl32.Vec3
	Rotation    mgl32.Vec3 // vector part of the unit rotation quaternion

	// Set by the skinning pass, not by NewBone.
	Bounds            bmath.BoundingBox
	InverseBindMatrix mgl32.Mat3x4

	Children []*Bone
}

// NewBone converts a node and its subtree. Children keep document order.
func NewBone(node *interchange.Node) *Bone {
	t := bmath.Decompose(node.Matrix)

	b := &Bone{
		Name:        node.Name,
		Scale:       t.Scale,
		Translation: node.Matrix.Col(3).Vec3(),
		Rotation:    t.Rotation.V,
		Children:    make([]*Bone, 0, len(node.Children)),
	}

	for _, child := range node.Children {
		b.Children = append(b.Children, NewBone(child))
	}

	return b
}

// IsLeaf reports whether the bone has no children.
func (b *Bone) IsLeaf() bool {
	return len(b.Children) == 0
}

// Flatten returns the bone and its descendants in pre-order. A bone's
// position in this list is its bone index.
func (b *Bone) Flatten() []*Bone {
	bones := make([]*Bone, 0, b.Count())
	b.Walk(func(bone *Bone, _ int) {
		bones = append(bones, bone)
	})
	return bones
}

// Count returns the number of bones in the subtree, including b.
func (b *Bone) Count() int {
	n := 1
	for _, c := range b.Children {
		n += c.Count()
	}
	return n
}

// Walk calls fn for every bone in pre-order with its depth below b.
func (b *Bone) Walk(fn func(bone *Bone, depth int)) {
	b.walk(fn, 0)
}

func (b *Bone) walk(fn func(*Bone, int), depth int) {
	fn(b, depth)
	for _, c := range b.Children {
		c.walk(fn, depth+1)
	}
}
