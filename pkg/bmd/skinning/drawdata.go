package skinning

import (
	"errors"
	"fmt"
)

// ErrPositionOutOfRange is returned when a position index has no weight.
var ErrPositionOutOfRange = errors.New("position index has no weight")

// DrawData resolves vertex weights to draw matrix indices.
//
// AllWeights holds one weight per vertex position. AllDrw1Weights holds
// every distinct weight once, in order of first appearance; a weight's
// position in that list is its draw matrix index.
type DrawData struct {
	AllWeights     []Weight
	AllDrw1Weights []Weight

	index map[string]int
}

// NewDrawData builds the draw matrix table from per-position weights.
func NewDrawData(perPosition []Weight) *DrawData {
	d := &DrawData{
		AllWeights: append([]Weight(nil), perPosition...),
		index:      make(map[string]int),
	}

	for _, w := range d.AllWeights {
		if _, ok := d.index[w.Key()]; ok {
			continue
		}
		d.index[w.Key()] = len(d.AllDrw1Weights)
		d.AllDrw1Weights = append(d.AllDrw1Weights, w)
	}

	return d
}

// WeightForPosition returns the weight attached to a position index.
func (d *DrawData) WeightForPosition(pos int) (Weight, error) {
	if pos < 0 || pos >= len(d.AllWeights) {
		return Weight{}, fmt.Errorf("%w: %d (have %d)", ErrPositionOutOfRange, pos, len(d.AllWeights))
	}
	return d.AllWeights[pos], nil
}

// MatrixIndex returns the draw matrix index of w, or -1 if w is unknown.
func (d *DrawData) MatrixIndex(w Weight) int {
	if i, ok := d.index[w.Key()]; ok {
		return i
	}
	return -1
}

// RigidCount returns how many distinct weights bind to a single bone.
func (d *DrawData) RigidCount() int {
	n := 0
	for _, w := range d.AllDrw1Weights {
		if w.Len() == 1 {
			n++
		}
	}
	return n
}
