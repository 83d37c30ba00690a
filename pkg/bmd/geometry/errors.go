package geometry

import (
	"errors"
	"fmt"
)

// Geometry errors.
var (
	ErrUnsupportedSemantic = errors.New("unsupported vertex semantic")
	ErrOverCapacity        = errors.New("triangle references more matrices than a packet holds")
	ErrIndexCount          = errors.New("index stream length does not match triangle count")
	ErrPositionIndex       = errors.New("position index out of range")
	ErrInvalidCapacity     = errors.New("packet matrix capacity must be positive")
	ErrFieldOverflow       = errors.New("value does not fit its field in the shape data")
)

// BatchError locates a failure in the source asset. Triangle is -1 when the
// failure is not tied to one triangle.
type BatchError struct {
	Material string
	Triangle int
	Err      error
}

func (e *BatchError) Error() string {
	if e.Triangle < 0 {
		return fmt.Sprintf("batch %q: %v", e.Material, e.Err)
	}
	return fmt.Sprintf("batch %q triangle %d: %v", e.Material, e.Triangle, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
