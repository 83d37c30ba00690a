// Package skinning models per-vertex bone influences and the draw matrix
// table that indexes them.
package skinning

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Influence is one bone's contribution to a vertex.
type Influence struct {
	Bone   int
	Factor float32
}

// Weight is the immutable set of influences on one vertex. The influence
// order is significant: two weights with the same pairs in a different
// order are distinct.
type Weight struct {
	influences []Influence
	key        string
}

// NewWeight returns a weight holding a copy of the given influences.
// Factors are not validated; they need not sum to one.
func NewWeight(influences ...Influence) Weight {
	w := Weight{influences: append([]Influence(nil), influences...)}
	w.key = w.buildKey()
	return w
}

// Rigid returns a weight binding the vertex fully to one bone.
func Rigid(bone int) Weight {
	return NewWeight(Influence{Bone: bone, Factor: 1})
}

func (w Weight) buildKey() string {
	var sb strings.Builder
	for i, in := range w.influences {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.Itoa(in.Bone))
		sb.WriteByte(':')
		f := in.Factor
		if f == 0 {
			f = 0 // -0 keys as +0
		}
		sb.WriteString(strconv.FormatUint(uint64(math.Float32bits(f)), 16))
	}
	return sb.String()
}

// Len returns the number of influences.
func (w Weight) Len() int {
	return len(w.influences)
}

// Influence returns the i-th influence.
func (w Weight) Influence(i int) Influence {
	return w.influences[i]
}

// Influences returns a copy of the influence list.
func (w Weight) Influences() []Influence {
	return append([]Influence(nil), w.influences...)
}

// BoneIndexes returns the bone of every influence in order.
func (w Weight) BoneIndexes() []int {
	bones := make([]int, len(w.influences))
	for i, in := range w.influences {
		bones[i] = in.Bone
	}
	return bones
}

// Equal reports whether both weights hold identical influence sequences.
// Factors compare by value, so -0 equals +0.
func (w Weight) Equal(other Weight) bool {
	return w.key == other.key
}

// Key returns a string that is equal for exactly the weights that are Equal.
func (w Weight) Key() string {
	return w.key
}

// String implements fmt.Stringer.
func (w Weight) String() string {
	parts := make([]string, len(w.influences))
	for i, in := range w.influences {
		parts[i] = fmt.Sprintf("%d:%g", in.Bone, in.Factor)
	}
	return "Weight{" + strings.Join(parts, " ") + "}"
}
