package geometry

import "fmt"

// Pack partitions triangles into packets in order. Each triangle goes into
// the current packet if the packet's matrix set stays within capacity;
// otherwise the packet is closed and the triangle starts a new one. The
// last packet is always kept, even when empty.
func Pack(tris []*Triangle, attrs []VertexAttribute, capacity int) ([]*Packet, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	var packets []*Packet
	current := NewPacket(attrs, capacity)

	for i := 0; i < len(tris); {
		t := tris[i]
		if len(t.MatrixList) > capacity {
			return nil, &BatchError{
				Triangle: i,
				Err:      fmt.Errorf("%w: %d > %d", ErrOverCapacity, len(t.MatrixList), capacity),
			}
		}

		if current.CanAdd(t) {
			current.Add(t)
			i++
			continue
		}

		packets = append(packets, current)
		current = NewPacket(attrs, capacity)
	}

	return append(packets, current), nil
}
