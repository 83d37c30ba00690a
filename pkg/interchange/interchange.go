// Package interchange defines the scene-graph types the converter consumes
// and adapts glTF documents into them.
package interchange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/bmdcubed/pkg/bmd/skinning"
)

// Interchange errors.
var (
	ErrMalformedIndices     = errors.New("malformed index stream")
	ErrUnsupportedPrimitive = errors.New("unsupported primitive mode")
	ErrMissingAttribute     = errors.New("missing vertex attribute")
	ErrUnknownJoint         = errors.New("joint is not part of the skeleton")
)

// Semantic tags what a triangle input indexes.
type Semantic string

// Input semantics. Any other value is passed through unchanged.
const (
	SemanticVertex   Semantic = "VERTEX"
	SemanticPosition Semantic = "POSITION"
	SemanticNormal   Semantic = "NORMAL"
	SemanticColor    Semantic = "COLOR"
	SemanticTexCoord Semantic = "TEXCOORD"
)

// Input is one semantic-tagged index column of a triangle group.
type Input struct {
	Semantic Semantic
	Set      int
}

// Node is a scene-graph node with a local transform.
type Node struct {
	Name     string
	Matrix   mgl32.Mat4 // column-major local transform
	Children []*Node
}

// Flatten returns the node and all descendants in pre-order.
func (n *Node) Flatten() []*Node {
	nodes := []*Node{n}
	for _, c := range n.Children {
		nodes = append(nodes, c.Flatten()...)
	}
	return nodes
}

// Triangles is a group of triangles sharing one material.
//
// P holds Count*3 vertices, each contributing one index per input in input
// order, as whitespace-separated integers.
type Triangles struct {
	Material string
	Inputs   []Input
	Count    int
	P        string
}

// Indices parses P.
func (t *Triangles) Indices() ([]int, error) {
	return ParseIndices(t.P)
}

// Scene is everything the converter reads from a source document.
type Scene struct {
	Skeleton  *Node
	Positions []mgl32.Vec3
	Triangles []*Triangles

	// Weights holds one weight per position; nil when the mesh is unskinned.
	Weights []skinning.Weight
}

// Skinned reports whether the scene carries vertex weights.
func (s *Scene) Skinned() bool {
	return s.Weights != nil
}

// ParseIndices parses a whitespace-separated integer stream.
func ParseIndices(p string) ([]int, error) {
	fields := strings.Fields(p)
	indices := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d: %w", ErrMalformedIndices, i, err)
		}
		indices[i] = v
	}
	return indices, nil
}

// FormatIndices is the inverse of ParseIndices.
func FormatIndices(indices []int) string {
	var sb strings.Builder
	for i, v := range indices {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}
