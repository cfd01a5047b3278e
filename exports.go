// Package cellroute is the core engine of a cell-move / global-routing
// solver for a 3-D integrated-circuit layout: it loads a chip
// description, reconstructs a canonical per-net route tree from the raw
// segments in that description, drives an optional time-budgeted
// optimisation loop, and emits an updated solution file.
package cellroute

import (
	"github.com/r3ntru3w4n9/cell-move-router/internal/chip"
	"github.com/r3ntru3w4n9/cell-move-router/internal/nettree"
	itypes "github.com/r3ntru3w4n9/cell-move-router/internal/types"
)

// Chip is the fully parsed chip description: grid, layers, master cells,
// placed instances, and nets.
type Chip = chip.Chip

// Cell is one placed cell instance.
type Cell = chip.Cell

// MasterCell is a cell archetype referenced by placed instances.
type MasterCell = chip.MasterCell

// Layer is one routing layer's direction and capacity grid.
type Layer = chip.Layer

// Net is one electrical net's connected pins and raw routed segments.
type Net = chip.Net

// Pair is a planar (row, col) grid coordinate.
type Pair = chip.Pair

// Point is a 3-D (row, col, lay) grid coordinate.
type Point = chip.Point

// Route is one raw axis-aligned routed segment between two Points.
type Route = chip.Route

// Towards identifies the axis and sign a Route travels along.
type Towards = chip.Towards

// Direction is the routing preference of a layer.
type Direction = chip.Direction

// Conflict records a declared neighbour-cell demand override.
type Conflict = chip.Conflict

// NetTree is the canonical reconstructed route tree for one net.
type NetTree = nettree.NetTree

// PosNode is one node of a NetTree.
type PosNode = nettree.PosNode

// Diagnostic is a recoverable observation raised while loading a chip.
type Diagnostic = itypes.Diagnostic

// Severity classifies a Diagnostic.
type Severity = itypes.Severity

// DiagnosticConfig controls which diagnostics are kept and whether their
// presence should fail a Load.
type DiagnosticConfig = itypes.DiagnosticConfig

const (
	SeverityInfo    = itypes.SeverityInfo
	SeverityWarning = itypes.SeverityWarning
	SeverityError   = itypes.SeverityError
)

const (
	DiagUnusedMasterCell = itypes.DiagUnusedMasterCell
	DiagZeroPinCell      = itypes.DiagZeroPinCell
	DiagEmptyNet         = itypes.DiagEmptyNet
)
