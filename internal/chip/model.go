package chip

import "github.com/r3ntru3w4n9/cell-move-router/internal/grid"

// Layer is one routing plane of the grid.
type Layer struct {
	ID        int
	Direction Direction
	Capacity  *grid.Map
}

// MasterPin is a pin declared inside a master cell, fixed to one layer.
type MasterPin struct {
	ID    int
	Layer int
}

// Blockage is an obstruction declared inside a master cell, incurring a
// capacity demand on one layer.
type Blockage struct {
	ID     int
	Layer  int
	Demand int
}

// MasterCell is a library archetype: pin and blockage ids are unique
// within it.
type MasterCell struct {
	ID    int
	Pins  []MasterPin
	Blkgs []Blockage
}

// Cell is a placed instance of a MasterCell. PinBase is the first global
// pin index owned by this cell; cell k owns pins
// [PinBase, PinBase+len(master.Pins)).
type Cell struct {
	ID         int
	MasterCell int
	Movable    bool
	Moved      bool
	Position   Pair
	PinBase    int
	NumPins    int
}

// ConflictType classifies the spatial relationship that triggers an extra
// capacity demand between two master-cell archetypes.
type ConflictType int

const (
	AdjHGGrid ConflictType = iota
	SameGGrid
)

// Conflict is the extra demand incurred when two master cells coexist on
// the same grid cell (SameGGrid) or on horizontally adjacent grid cells
// (AdjHGGrid).
type Conflict struct {
	Kind    ConflictType
	OtherMC int
	Layer   int
	Demand  int
}

// Net is an electrical equivalence class of pins plus its raw routed
// segments; the derived tree is built separately by package nettree.
type Net struct {
	ID       int
	MinLayer int // -1 means NoCstr
	ConnPins []int
	Segments []Route
}

// Chip is the root aggregate populated by the loader and owned exclusively
// by the driving caller.
type Chip struct {
	MaxMove      int
	AlreadyMoved int
	Rows, Cols   int
	Layers       []Layer
	MasterCells  []MasterCell
	Cells        []Cell
	Nets         []Net
	// Conflicts maps a master-cell id to every Conflict declared for it.
	Conflicts map[int][]Conflict

	// pinPrefix[k] is the global pin index of the first pin owned by
	// Cells[k]; pinPrefix[len(Cells)] is the total pin count. Computed once
	// after load; cell moves never invalidate it since pin-to-cell
	// membership is fixed at load time (only cell positions change).
	pinPrefix []int
}

// BuildPinIndex computes the prefix-sum table used by PinPosition and
// CellOfPin. Must be called once after Cells is fully populated; the
// loader calls this automatically.
func (c *Chip) BuildPinIndex() {
	prefix := make([]int, len(c.Cells)+1)
	for i, cell := range c.Cells {
		prefix[i+1] = prefix[i] + cell.NumPins
		c.Cells[i].PinBase = prefix[i]
	}
	c.pinPrefix = prefix
}

// CellOfPin resolves a global pin index to its owning cell index via
// binary search over the prefix-sum table, using the standard half-open
// form (never loops when lo == mid, unlike some variants of this helper).
func (c *Chip) CellOfPin(pin int) int {
	lo, hi := 0, len(c.Cells)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if c.pinPrefix[mid+1] <= pin {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// PinPosition resolves a global pin index to the grid position of its
// owning cell.
func (c *Chip) PinPosition(pin int) Pair {
	return c.Cells[c.CellOfPin(pin)].Position
}

// PinOrdinal returns the master-pin ordinal of a global pin index within
// its owning cell.
func (c *Chip) PinOrdinal(pin int) int {
	cellIdx := c.CellOfPin(pin)
	return pin - c.pinPrefix[cellIdx]
}
