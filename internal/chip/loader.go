package chip

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/r3ntru3w4n9/cell-move-router/internal/grid"
	"github.com/r3ntru3w4n9/cell-move-router/internal/ident"
	"github.com/r3ntru3w4n9/cell-move-router/internal/lexer"
	itypes "github.com/r3ntru3w4n9/cell-move-router/internal/types"
)

// ErrCorrupt is returned when a numeric invariant is violated, e.g. a
// non-default supply delta drives capacity negative, or a declared
// positional index does not match an entity's suffix.
var ErrCorrupt = errors.New("corrupt chip description")

// ErrDiagnosticThreshold is returned when a load's diagnostics include
// one at or above the configured DiagnosticConfig.FailAt severity. The
// Chip and diagnostics are still returned alongside the error.
var ErrDiagnosticThreshold = errors.New("diagnostic threshold exceeded")

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger     *slog.Logger
	diagConfig itypes.DiagnosticConfig
}

// WithLogger sets the logger used for debug/trace load progress. If unset,
// no logging occurs.
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = logger }
}

// WithDiagnosticConfig sets the diagnostic strictness used for non-fatal
// load observations.
func WithDiagnosticConfig(cfg itypes.DiagnosticConfig) LoadOption {
	return func(c *loadConfig) { c.diagConfig = cfg }
}

// Load parses r into a fully populated Chip, per the input file's
// section grammar: MaxCellMove, GGridBoundaryIdx,
// NumLayer, NumNonDefaultSupplyGGrid, NumMasterCell,
// NumNeighborCellExtraDemand, NumCellInst, NumNets, NumRoutes, in that
// fixed order, with no trailing tokens.
func Load(r io.Reader, opts ...LoadOption) (*Chip, []itypes.Diagnostic, error) {
	cfg := loadConfig{diagConfig: itypes.DiagnosticConfig{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := &itypes.Logger{L: cfg.logger}

	rd := lexer.New(r)
	ld := &loader{r: rd, log: log, cfg: cfg}

	c := &Chip{Conflicts: make(map[int][]Conflict)}

	if err := ld.maxCellMove(c); err != nil {
		return nil, nil, err
	}
	if err := ld.ggridBoundary(c); err != nil {
		return nil, nil, err
	}
	if err := ld.layers(c); err != nil {
		return nil, nil, err
	}
	if err := ld.nonDefaultSupply(c); err != nil {
		return nil, nil, err
	}
	if err := ld.masterCells(c); err != nil {
		return nil, nil, err
	}
	if err := ld.conflicts(c); err != nil {
		return nil, nil, err
	}
	if err := ld.cells(c); err != nil {
		return nil, nil, err
	}
	c.BuildPinIndex()
	if err := ld.nets(c); err != nil {
		return nil, nil, err
	}
	if err := ld.routes(c); err != nil {
		return nil, nil, err
	}
	if !rd.AtEnd() {
		tok, _ := rd.Peek()
		return nil, nil, fmt.Errorf("chip: unexpected trailing token %q: %w", tok, lexer.ErrSyntaxError)
	}

	ld.checkUnusedMasterCells(c)
	ld.checkZeroPinCells(c)
	ld.checkEmptyNets(c)

	for _, d := range ld.diags {
		if cfg.diagConfig.ShouldFail(d.Severity) {
			return c, ld.diags, fmt.Errorf("chip: %s: %w", d.Code, ErrDiagnosticThreshold)
		}
	}

	return c, ld.diags, nil
}

type loader struct {
	r     *lexer.Reader
	log   *itypes.Logger
	cfg   loadConfig
	diags []itypes.Diagnostic
}

func (l *loader) emit(sev itypes.Severity, code, msg string) {
	if !l.cfg.diagConfig.ShouldReport(code) {
		return
	}
	l.diags = append(l.diags, itypes.Diagnostic{Severity: sev, Code: code, Message: msg})
}

func (l *loader) maxCellMove(c *Chip) error {
	if err := l.r.Expect("MaxCellMove"); err != nil {
		return err
	}
	n, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	c.MaxMove = n
	l.log.Log(slog.LevelDebug, "parsed MaxCellMove", slog.Int("value", n))
	return nil
}

func (l *loader) ggridBoundary(c *Chip) error {
	if err := l.r.Expect("GGridBoundaryIdx"); err != nil {
		return err
	}
	r1, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	c1, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	if r1 != 1 || c1 != 1 {
		return fmt.Errorf("chip: GGridBoundaryIdx must begin at (1,1), got (%d,%d): %w", r1, c1, ErrCorrupt)
	}
	rowEnd, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	colEnd, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	c.Rows, c.Cols = rowEnd, colEnd
	return nil
}

func (l *loader) layers(c *Chip) error {
	if err := l.r.Expect("NumLayer"); err != nil {
		return err
	}
	n, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	c.Layers = make([]Layer, 0, n)
	for i := 0; i < n; i++ {
		if err := l.r.Expect("Lay"); err != nil {
			return err
		}
		name, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		id, err := ident.Decode(ident.KindLayer, name)
		if err != nil {
			return err
		}
		if id != i {
			return fmt.Errorf("chip: layer %q positional index %d != declared suffix-1 %d: %w", name, i, id, ErrCorrupt)
		}
		idx, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		if idx != id+1 {
			return fmt.Errorf("chip: layer %q idx %d != suffix %d: %w", name, idx, id+1, ErrCorrupt)
		}
		hv, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		var dir Direction
		switch hv {
		case "H":
			dir = Horizontal
		case "V":
			dir = Vertical
		default:
			return fmt.Errorf("chip: layer %q: expected H or V, got %q: %w", name, hv, lexer.ErrSyntaxError)
		}
		supply, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		c.Layers = append(c.Layers, Layer{
			ID:        id,
			Direction: dir,
			Capacity:  grid.New(c.Rows, c.Cols, int32(supply)),
		})
	}
	return nil
}

func (l *loader) nonDefaultSupply(c *Chip) error {
	if err := l.r.Expect("NumNonDefaultSupplyGGrid"); err != nil {
		return err
	}
	k, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	for i := 0; i < k; i++ {
		row, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		col, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		lay, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		delta, err := l.r.TakeSignedInt()
		if err != nil {
			return err
		}
		if lay < 1 || lay > len(c.Layers) {
			return fmt.Errorf("chip: non-default supply references layer %d out of range: %w", lay, ErrCorrupt)
		}
		if delta < math.MinInt32 || delta > math.MaxInt32 {
			return fmt.Errorf("chip: non-default supply delta %d at (%d,%d,%d) out of range: %w", delta, row, col, lay, ErrCorrupt)
		}
		m := c.Layers[lay-1].Capacity
		sum, ok := m.AddChecked(row-1, col-1, int32(delta))
		if !ok {
			return fmt.Errorf("chip: non-default supply at (%d,%d) out of grid bounds: %w", row, col, ErrCorrupt)
		}
		if sum < 0 {
			return fmt.Errorf("chip: non-default supply at (%d,%d,%d) drives capacity negative: %w", row, col, lay, ErrCorrupt)
		}
		if sum > math.MaxInt32 {
			return fmt.Errorf("chip: non-default supply at (%d,%d,%d) overflows capacity: %w", row, col, lay, ErrCorrupt)
		}
		m.Set(row-1, col-1, int32(sum))
	}
	return nil
}

func (l *loader) masterCells(c *Chip) error {
	if err := l.r.Expect("NumMasterCell"); err != nil {
		return err
	}
	n, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	c.MasterCells = make([]MasterCell, 0, n)
	for i := 0; i < n; i++ {
		if err := l.r.Expect("MasterCell"); err != nil {
			return err
		}
		name, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		id, err := ident.Decode(ident.KindMasterCell, name)
		if err != nil {
			return err
		}
		if id != i {
			return fmt.Errorf("chip: master cell %q positional index %d != declared suffix-1 %d: %w", name, i, id, ErrCorrupt)
		}
		pinCount, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		blkgCount, err := l.r.TakeInt()
		if err != nil {
			return err
		}

		mc := MasterCell{ID: id, Pins: make([]MasterPin, 0, pinCount), Blkgs: make([]Blockage, 0, blkgCount)}

		for p := 0; p < pinCount; p++ {
			if err := l.r.Expect("Pin"); err != nil {
				return err
			}
			pname, err := l.r.TakeToken()
			if err != nil {
				return err
			}
			pid, err := ident.Decode(ident.KindMasterPin, pname)
			if err != nil {
				return err
			}
			if pid != p {
				return fmt.Errorf("chip: %s pin %q ordinal %d != declared suffix-1 %d: %w", name, pname, p, pid, ErrCorrupt)
			}
			layerName, err := l.r.TakeToken()
			if err != nil {
				return err
			}
			layerID, err := ident.Decode(ident.KindLayer, layerName)
			if err != nil {
				return err
			}
			mc.Pins = append(mc.Pins, MasterPin{ID: pid, Layer: layerID})
		}

		for b := 0; b < blkgCount; b++ {
			if err := l.r.Expect("Blkg"); err != nil {
				return err
			}
			bname, err := l.r.TakeToken()
			if err != nil {
				return err
			}
			bid, err := ident.Decode(ident.KindBlockage, bname)
			if err != nil {
				return err
			}
			if bid != b {
				return fmt.Errorf("chip: %s blkg %q ordinal %d != declared suffix-1 %d: %w", name, bname, b, bid, ErrCorrupt)
			}
			layerName, err := l.r.TakeToken()
			if err != nil {
				return err
			}
			layerID, err := ident.Decode(ident.KindLayer, layerName)
			if err != nil {
				return err
			}
			demand, err := l.r.TakeInt()
			if err != nil {
				return err
			}
			mc.Blkgs = append(mc.Blkgs, Blockage{ID: bid, Layer: layerID, Demand: demand})
		}

		c.MasterCells = append(c.MasterCells, mc)
	}
	return nil
}

func (l *loader) conflicts(c *Chip) error {
	if err := l.r.Expect("NumNeighborCellExtraDemand"); err != nil {
		return err
	}
	n, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		kindTok, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		var kind ConflictType
		switch kindTok {
		case "adjHGGrid":
			kind = AdjHGGrid
		case "sameGGrid":
			kind = SameGGrid
		default:
			return fmt.Errorf("chip: expected adjHGGrid or sameGGrid, got %q: %w", kindTok, lexer.ErrSyntaxError)
		}
		mcA, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		idA, err := ident.Decode(ident.KindMasterCell, mcA)
		if err != nil {
			return err
		}
		mcB, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		idB, err := ident.Decode(ident.KindMasterCell, mcB)
		if err != nil {
			return err
		}
		layerName, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		layerID, err := ident.Decode(ident.KindLayer, layerName)
		if err != nil {
			return err
		}
		demand, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		c.Conflicts[idA] = append(c.Conflicts[idA], Conflict{Kind: kind, OtherMC: idB, Layer: layerID, Demand: demand})
	}
	return nil
}

func (l *loader) cells(c *Chip) error {
	if err := l.r.Expect("NumCellInst"); err != nil {
		return err
	}
	n, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	c.Cells = make([]Cell, 0, n)
	for i := 0; i < n; i++ {
		if err := l.r.Expect("CellInst"); err != nil {
			return err
		}
		name, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		id, err := ident.Decode(ident.KindCell, name)
		if err != nil {
			return err
		}
		if id != i {
			return fmt.Errorf("chip: cell %q positional index %d != declared suffix-1 %d: %w", name, i, id, ErrCorrupt)
		}
		mcName, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		mcID, err := ident.Decode(ident.KindMasterCell, mcName)
		if err != nil {
			return err
		}
		if mcID < 0 || mcID >= len(c.MasterCells) {
			return fmt.Errorf("chip: cell %q references unknown master cell %q: %w", name, mcName, ErrCorrupt)
		}
		row, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		col, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		movTok, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		var movable bool
		switch movTok {
		case "Movable":
			movable = true
		case "Fixed":
			movable = false
		default:
			return fmt.Errorf("chip: cell %q: expected Movable or Fixed, got %q: %w", name, movTok, lexer.ErrSyntaxError)
		}
		c.Cells = append(c.Cells, Cell{
			ID:         id,
			MasterCell: mcID,
			Movable:    movable,
			Position:   Pair{Row: row - 1, Col: col - 1},
			PinBase:    0, // filled by BuildPinIndex once all cells are read
			NumPins:    len(c.MasterCells[mcID].Pins),
		})
	}
	return nil
}

func (l *loader) nets(c *Chip) error {
	if err := l.r.Expect("NumNets"); err != nil {
		return err
	}
	n, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	c.Nets = make([]Net, 0, n)
	for i := 0; i < n; i++ {
		if err := l.r.Expect("Net"); err != nil {
			return err
		}
		name, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		id, err := ident.Decode(ident.KindNet, name)
		if err != nil {
			return err
		}
		if id != i {
			return fmt.Errorf("chip: net %q positional index %d != declared suffix-1 %d: %w", name, i, id, ErrCorrupt)
		}
		pinCount, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		cstrTok, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		minLayer := -1
		if cstrTok != "NoCstr" {
			minLayer, err = ident.Decode(ident.KindLayer, cstrTok)
			if err != nil {
				return err
			}
		}

		net := Net{ID: id, MinLayer: minLayer, ConnPins: make([]int, 0, pinCount)}
		for p := 0; p < pinCount; p++ {
			if err := l.r.Expect("Pin"); err != nil {
				return err
			}
			ref, err := l.r.TakeToken()
			if err != nil {
				return err
			}
			cellName, pinName, ok := strings.Cut(ref, "/")
			if !ok {
				return fmt.Errorf("chip: malformed pin reference %q: %w", ref, lexer.ErrSyntaxError)
			}
			cellID, err := ident.Decode(ident.KindCell, cellName)
			if err != nil {
				return err
			}
			if cellID < 0 || cellID >= len(c.Cells) {
				return fmt.Errorf("chip: net %q references unknown cell %q: %w", name, cellName, ErrCorrupt)
			}
			ordinal, err := ident.Decode(ident.KindMasterPin, pinName)
			if err != nil {
				return err
			}
			cell := c.Cells[cellID]
			if ordinal < 0 || ordinal >= cell.NumPins {
				return fmt.Errorf("chip: net %q: cell %q has no pin ordinal %d: %w", name, cellName, ordinal, ErrCorrupt)
			}
			net.ConnPins = append(net.ConnPins, cell.PinBase+ordinal)
		}
		c.Nets = append(c.Nets, net)
	}
	return nil
}

func (l *loader) routes(c *Chip) error {
	if err := l.r.Expect("NumRoutes"); err != nil {
		return err
	}
	n, err := l.r.TakeInt()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		sRow, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		sCol, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		sLay, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		eRow, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		eCol, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		eLay, err := l.r.TakeInt()
		if err != nil {
			return err
		}
		netName, err := l.r.TakeToken()
		if err != nil {
			return err
		}
		netID, err := ident.Decode(ident.KindNet, netName)
		if err != nil {
			return err
		}
		if netID < 0 || netID >= len(c.Nets) {
			return fmt.Errorf("chip: route references unknown net %q: %w", netName, ErrCorrupt)
		}
		route := Route{
			Source: Point{Row: sRow - 1, Col: sCol - 1, Lay: sLay - 1},
			Target: Point{Row: eRow - 1, Col: eCol - 1, Lay: eLay - 1},
		}
		if route.Source == route.Target {
			return fmt.Errorf("chip: route %d has identical source and target: %w", i, ErrCorrupt)
		}
		dRow := route.Target.Row - route.Source.Row
		dCol := route.Target.Col - route.Source.Col
		dLay := route.Target.Lay - route.Source.Lay
		axes := 0
		for _, d := range [...]int{dRow, dCol, dLay} {
			if d != 0 {
				axes++
			}
		}
		if axes != 1 {
			return fmt.Errorf("chip: route %d is not axis-aligned (source %+v, target %+v): %w", i, route.Source, route.Target, ErrCorrupt)
		}
		c.Nets[netID].Segments = append(c.Nets[netID].Segments, route)
	}
	return nil
}

func (l *loader) checkUnusedMasterCells(c *Chip) {
	used := make([]bool, len(c.MasterCells))
	for _, cell := range c.Cells {
		used[cell.MasterCell] = true
	}
	for i, u := range used {
		if !u {
			l.emit(itypes.SeverityInfo, itypes.DiagUnusedMasterCell,
				fmt.Sprintf("master cell %s is never instantiated", ident.Encode(ident.KindMasterCell, i)))
		}
	}
}

func (l *loader) checkZeroPinCells(c *Chip) {
	for _, cell := range c.Cells {
		if cell.NumPins == 0 {
			l.emit(itypes.SeverityInfo, itypes.DiagZeroPinCell,
				fmt.Sprintf("cell %s has no pins", ident.Encode(ident.KindCell, cell.ID)))
		}
	}
}

func (l *loader) checkEmptyNets(c *Chip) {
	for _, net := range c.Nets {
		if len(net.ConnPins) == 0 {
			l.emit(itypes.SeverityWarning, itypes.DiagEmptyNet,
				fmt.Sprintf("net %s connects no pins", ident.Encode(ident.KindNet, net.ID)))
		}
	}
}
