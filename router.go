package cellroute

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/r3ntru3w4n9/cell-move-router/internal/chip"
	"github.com/r3ntru3w4n9/cell-move-router/internal/emitter"
	"github.com/r3ntru3w4n9/cell-move-router/internal/nettree"
	"github.com/r3ntru3w4n9/cell-move-router/internal/runner"
)

// ErrCorrupt is returned by Load when a numeric invariant in the chip
// description is violated.
var ErrCorrupt = chip.ErrCorrupt

// ErrDiagnosticThreshold is returned by Load when a diagnostic at or
// above the configured DiagnosticConfig.FailAt severity was observed.
var ErrDiagnosticThreshold = chip.ErrDiagnosticThreshold

// ErrDisconnectedNet is returned by BuildRoutes when a net's routed
// segments do not connect all of its pins.
var ErrDisconnectedNet = nettree.ErrDisconnectedNet

// ErrTimeExpired is returned by Optimise when the configured wall-clock
// budget is exhausted. It is not itself a failure: the caller should
// proceed to Write whatever state the Chip holds.
var ErrTimeExpired = runner.ErrTimeExpired

// Load parses r into a fully populated Chip, per the input file grammar:
// MaxCellMove, GGridBoundaryIdx, NumLayer, NumNonDefaultSupplyGGrid,
// NumMasterCell, NumNeighborCellExtraDemand, NumCellInst, NumNets,
// NumRoutes, in that fixed order. Non-fatal observations are returned as
// Diagnostics alongside the Chip. Numeric invariant violations are
// returned as an error wrapping ErrCorrupt; malformed, truncated or
// mistyped tokens and bad entity names are returned as errors too.
func Load(r io.Reader, opts ...LoadOption) (*Chip, []Diagnostic, error) {
	return chip.Load(r, opts...)
}

// BuildRoutes reconstructs every net's canonical route tree from its raw
// segments, in parallel, reassembled in c.Nets order. The result at
// index i corresponds to c.Nets[i].
func BuildRoutes(c *Chip) ([]*NetTree, error) {
	ins := make([]nettree.Input, len(c.Nets))
	for i, n := range c.Nets {
		ins[i] = nettree.Input{ConnPins: n.ConnPins, Segments: n.Segments}
	}
	return nettree.BuildAll(ins, c.PinPosition)
}

// Budget computes the optimisation time budget from mutually-exclusive
// CLI-style time flags, precedence sec > min > hr, defaulting to one
// hour when none are positive.
func Budget(sec, min, hr int) time.Duration {
	return runner.Budget(sec, min, hr)
}

// Optimise drives the time-budgeted optimisation loop against c: each
// iteration it first checks the wall-clock budget, then calls
// cfg.CellMove (which may mutate a cell's position, mark it moved, and
// advance c.AlreadyMoved up to c.MaxMove) and cfg.Reroute (which may
// replace a net's ConnPins and Segments; the tree is then rebuilt from
// them by BuildRoutes). Either step
// may be nil. Optimise returns ErrTimeExpired when the budget expires;
// callers should treat that as a normal terminal condition and proceed
// to Write.
func Optimise(ctx context.Context, c *Chip, duration time.Duration, cfg RunConfig) error {
	return runner.Run(ctx, c, duration, cfg)
}

// Write serialises c's moved cells and every net's tree to w, per the
// output grammar: a NumMovedCellInst section in ascending cell id
// order, then a NumRoutes section in ascending net id order. trees[i]
// must be the tree for c.Nets[i].
func Write(w io.Writer, c *Chip, trees []*NetTree) error {
	return emitter.Write(w, c, trees)
}

// Solve runs the full pipeline: Load, Optimise (if cfg selects any
// steps), BuildRoutes, then Write. BuildRoutes runs after Optimise, not
// before, since a reroute step's only contract is to replace a net's
// (ConnPins, Segments); the tree reflecting that replacement is only
// built once, from whatever net data is current when the budget
// expires. Solve is a convenience for callers that don't need access to
// the intermediate Chip and trees, such as a batch driver processing
// many chip descriptions with identical options.
func Solve(ctx context.Context, r io.Reader, w io.Writer, duration time.Duration, cfg RunConfig, opts ...LoadOption) ([]Diagnostic, error) {
	c, diags, err := Load(r, opts...)
	if err != nil {
		return diags, err
	}

	if err := Optimise(ctx, c, duration, cfg); err != nil && !errors.Is(err, ErrTimeExpired) {
		return diags, err
	}

	trees, err := BuildRoutes(c)
	if err != nil {
		return diags, err
	}

	return diags, Write(w, c, trees)
}
