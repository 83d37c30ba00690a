package interchange

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"golang.org/x/exp/constraints"

	"github.com/Faultbox/bmdcubed/pkg/bmd/skinning"
)

// OpenGLTF loads a .gltf or .glb file and adapts it.
func OpenGLTF(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening glTF %s: %w", path, err)
	}
	return FromGLTF(doc)
}

// FromGLTF adapts a glTF document.
//
// Every triangle primitive becomes one Triangles group. glTF shares a single
// index across all attributes of a vertex, so the index stream repeats the
// global vertex index once per input.
func FromGLTF(doc *gltf.Document) (*Scene, error) {
	roots, byIndex := buildNodes(doc)

	scene := &Scene{}
	jointToBone := map[int]int{}

	if len(doc.Skins) > 0 && len(doc.Skins[0].Joints) > 0 {
		joints := doc.Skins[0].Joints
		first := byIndex[int(joints[0])]
		for _, r := range roots {
			if contains(r, first) {
				scene.Skeleton = r
				break
			}
		}
		bones := map[*Node]int{}
		if scene.Skeleton != nil {
			for i, n := range scene.Skeleton.Flatten() {
				bones[n] = i
			}
		}
		for j, nodeIdx := range joints {
			if b, ok := bones[byIndex[int(nodeIdx)]]; ok {
				jointToBone[j] = b
			}
		}
	} else if len(roots) > 0 {
		scene.Skeleton = roots[0]
	}

	skinned := len(doc.Skins) > 0
	if skinned {
		scene.Weights = []skinning.Weight{}
	}

	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				return nil, fmt.Errorf("mesh %d primitive %d: %w: %v", mi, pi, ErrUnsupportedPrimitive, prim.Mode)
			}
			if err := addPrimitive(doc, scene, prim, mi, jointToBone); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}

	return scene, nil
}

func addPrimitive(doc *gltf.Document, scene *Scene, prim *gltf.Primitive, meshIndex int, jointToBone map[int]int) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, gltf.POSITION)
	}
	raw, err := modeler.ReadAccessor(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("reading positions: %w", err)
	}
	positions, ok := raw.([][3]float32)
	if !ok {
		return fmt.Errorf("positions: unexpected accessor data %T", raw)
	}

	base := len(scene.Positions)
	for _, p := range positions {
		scene.Positions = append(scene.Positions, mgl32.Vec3(p))
	}

	var vertexIndices []int
	if prim.Indices != nil {
		raw, err := modeler.ReadAccessor(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("reading indices: %w", err)
		}
		if vertexIndices, err = scalarInts(raw); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		vertexIndices = make([]int, len(positions))
		for i := range vertexIndices {
			vertexIndices[i] = i
		}
	}

	inputs := []Input{{Semantic: SemanticVertex}}
	if _, ok := prim.Attributes[gltf.NORMAL]; ok {
		inputs = append(inputs, Input{Semantic: SemanticNormal})
	}
	for set := 0; ; set++ {
		if _, ok := prim.Attributes["COLOR_"+strconv.Itoa(set)]; !ok {
			break
		}
		inputs = append(inputs, Input{Semantic: SemanticColor, Set: set})
	}
	for set := 0; ; set++ {
		if _, ok := prim.Attributes["TEXCOORD_"+strconv.Itoa(set)]; !ok {
			break
		}
		inputs = append(inputs, Input{Semantic: SemanticTexCoord, Set: set})
	}

	stream := make([]int, 0, len(vertexIndices)*len(inputs))
	for _, v := range vertexIndices {
		for range inputs {
			stream = append(stream, base+v)
		}
	}

	material := "mesh_" + strconv.Itoa(meshIndex)
	if prim.Material != nil {
		if m := doc.Materials[*prim.Material]; m.Name != "" {
			material = m.Name
		}
	}

	scene.Triangles = append(scene.Triangles, &Triangles{
		Material: material,
		Inputs:   inputs,
		Count:    len(vertexIndices) / 3,
		P:        FormatIndices(stream),
	})

	if scene.Weights == nil {
		return nil
	}
	weights, err := readWeights(doc, prim, len(positions), jointToBone)
	if err != nil {
		return err
	}
	scene.Weights = append(scene.Weights, weights...)
	return nil
}

// readWeights builds one weight per vertex from JOINTS_0/WEIGHTS_0. Vertices
// of an unskinned primitive in a skinned document bind rigidly to bone 0.
func readWeights(doc *gltf.Document, prim *gltf.Primitive, count int, jointToBone map[int]int) ([]skinning.Weight, error) {
	weights := make([]skinning.Weight, count)

	jIdx, hasJoints := prim.Attributes[gltf.JOINTS_0]
	wIdx, hasWeights := prim.Attributes[gltf.WEIGHTS_0]
	if !hasJoints || !hasWeights {
		for i := range weights {
			weights[i] = skinning.Rigid(0)
		}
		return weights, nil
	}

	rawJoints, err := modeler.ReadAccessor(doc, doc.Accessors[jIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("reading joints: %w", err)
	}
	joints, err := quadInts(rawJoints)
	if err != nil {
		return nil, fmt.Errorf("joints: %w", err)
	}

	rawWeights, err := modeler.ReadAccessor(doc, doc.Accessors[wIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("reading weights: %w", err)
	}
	factors, ok := rawWeights.([][4]float32)
	if !ok {
		return nil, fmt.Errorf("weights: unexpected accessor data %T", rawWeights)
	}

	for i := range weights {
		var influences []skinning.Influence
		for k := 0; k < 4; k++ {
			if i >= len(factors) || i >= len(joints) || factors[i][k] == 0 {
				continue
			}
			bone, ok := jointToBone[joints[i][k]]
			if !ok {
				return nil, fmt.Errorf("vertex %d: %w: joint %d", i, ErrUnknownJoint, joints[i][k])
			}
			influences = append(influences, skinning.Influence{
				Bone:   bone,
				Factor: factors[i][k],
			})
		}
		weights[i] = skinning.NewWeight(influences...)
	}
	return weights, nil
}

// buildNodes converts every glTF node and returns the roots in document
// order along with a lookup by node index.
func buildNodes(doc *gltf.Document) ([]*Node, map[int]*Node) {
	byIndex := make(map[int]*Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		byIndex[i] = &Node{Name: n.Name, Matrix: localMatrix(n)}
	}

	isChild := make(map[int]bool)
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			byIndex[i].Children = append(byIndex[i].Children, byIndex[int(c)])
			isChild[int(c)] = true
		}
	}

	var roots []*Node
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, byIndex[i])
		}
	}
	return roots, byIndex
}

// localMatrix returns the node's matrix when set, else T * R * S.
func localMatrix(n *gltf.Node) mgl32.Mat4 {
	var m mgl32.Mat4
	for i, v := range n.Matrix {
		m[i] = float32(v)
	}
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}

	var t, s mgl32.Vec3
	for i, v := range n.Translation {
		t[i] = float32(v)
	}
	for i, v := range n.Scale {
		s[i] = float32(v)
	}
	if s == (mgl32.Vec3{}) {
		s = mgl32.Vec3{1, 1, 1}
	}
	r := mgl32.Quat{
		W: float32(n.Rotation[3]),
		V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
	}
	if r.Len() == 0 {
		r = mgl32.QuatIdent()
	}

	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(r.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

func contains(root, target *Node) bool {
	if root == target {
		return true
	}
	for _, c := range root.Children {
		if contains(c, target) {
			return true
		}
	}
	return false
}

func toInts[T constraints.Integer](s []T) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[i] = int(v)
	}
	return out
}

func toQuads[T constraints.Integer](s [][4]T) [][4]int {
	out := make([][4]int, len(s))
	for i, q := range s {
		out[i] = [4]int{int(q[0]), int(q[1]), int(q[2]), int(q[3])}
	}
	return out
}

func scalarInts(raw any) ([]int, error) {
	switch v := raw.(type) {
	case []uint8:
		return toInts(v), nil
	case []uint16:
		return toInts(v), nil
	case []uint32:
		return toInts(v), nil
	default:
		return nil, fmt.Errorf("unexpected accessor data %T", raw)
	}
}

func quadInts(raw any) ([][4]int, error) {
	switch v := raw.(type) {
	case [][4]uint8:
		return toQuads(v), nil
	case [][4]uint16:
		return toQuads(v), nil
	default:
		return nil, fmt.Errorf("unexpected accessor data %T", raw)
	}
}
