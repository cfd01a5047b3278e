// Package grid provides the dense per-layer routing capacity map.
package grid

// Map is a dense row-major routing supply map for one layer:
// capacity[row*cols+col]. Bounds-checked accessors return (value, ok)
// instead of panicking.
type Map struct {
	rows, cols int
	capacity   []int32
}

// New allocates a Map of the given dimensions, every cell initialised to
// defaultSupply.
func New(rows, cols int, defaultSupply int32) *Map {
	capv := make([]int32, rows*cols)
	for i := range capv {
		capv[i] = defaultSupply
	}
	return &Map{rows: rows, cols: cols, capacity: capv}
}

// Dims returns (rows, cols).
func (m *Map) Dims() (int, int) {
	return m.rows, m.cols
}

func (m *Map) index(row, col int) (int, bool) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, false
	}
	return row*m.cols + col, true
}

// At returns the capacity at (row, col), or (0, false) if out of bounds.
func (m *Map) At(row, col int) (int32, bool) {
	i, ok := m.index(row, col)
	if !ok {
		return 0, false
	}
	return m.capacity[i], true
}

// Add applies a signed delta to the capacity at (row, col), returning the
// new value. Reports ok=false if out of bounds.
func (m *Map) Add(row, col int, delta int32) (int32, bool) {
	i, ok := m.index(row, col)
	if !ok {
		return 0, false
	}
	// The sum is computed in 64 bits and stored truncated to int32; Add
	// does no range check (AddChecked lets a caller check first).
	v := int64(m.capacity[i]) + int64(delta)
	m.capacity[i] = int32(v)
	return m.capacity[i], true
}

// AddChecked reports the 64-bit sum of the capacity at (row, col) and
// delta without storing it, so callers can reject a load where the delta
// would drive capacity negative instead of silently wrapping, and store
// an accepted value with Set. Reports ok=false if out of bounds.
func (m *Map) AddChecked(row, col int, delta int32) (sum int64, ok bool) {
	i, ok := m.index(row, col)
	if !ok {
		return 0, false
	}
	sum = int64(m.capacity[i]) + int64(delta)
	return sum, true
}

// Set stores v at (row, col) once the caller has validated it.
func (m *Map) Set(row, col int, v int32) bool {
	i, ok := m.index(row, col)
	if !ok {
		return false
	}
	m.capacity[i] = v
	return true
}
