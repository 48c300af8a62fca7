package buffer

// Ring is a fixed capacity buffer keeping the last pushed elements.
type Ring struct {
	index  int
	count  int
	values []interface{}
}

// NewRing creates a ring with the given capacity.
func NewRing(size int) *Ring {
	return &Ring{
		values: make([]interface{}, size),
	}
}

// Push adds an element to the ring, evicting the oldest one when full.
func (r *Ring) Push(v interface{}) {
	r.values[r.index] = v
	r.index = (r.index + 1) % len(r.values)
	r.count++
}

// Size returns the number of elements currently held.
func (r *Ring) Size() int {
	if r.count < len(r.values) {
		return r.count
	}
	return len(r.values)
}

// Get returns the held elements, oldest first.
func (r *Ring) Get() []interface{} {
	size := r.Size()
	out := make([]interface{}, size)
	for i := 0; i < size; i++ {
		idx := i
		if r.count > size {
			idx = (r.index + i) % len(r.values)
		}
		out[i] = r.values[idx]
	}
	return out
}
