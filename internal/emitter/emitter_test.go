package emitter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/r3ntru3w4n9/cell-move-router/internal/chip"
	"github.com/r3ntru3w4n9/cell-move-router/internal/nettree"
)

func buildChipAndTree(t *testing.T) (*chip.Chip, []*nettree.NetTree) {
	t.Helper()
	src := `MaxCellMove 0
GGridBoundaryIdx 1 1 3 3
NumLayer 1
Lay M1 1 H 10
NumNonDefaultSupplyGGrid 0
NumMasterCell 1
MasterCell MC1 1 0
Pin P1 M1
NumNeighborCellExtraDemand 0
NumCellInst 2
CellInst C1 MC1 1 1 Fixed
CellInst C2 MC1 1 3 Fixed
NumNets 1
Net N1 2 NoCstr
Pin C1/P1
Pin C2/P1
NumRoutes 2
1 1 1 1 2 1 N1
1 2 1 1 3 1 N1
`
	c, _, err := chip.Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	ins := make([]nettree.Input, len(c.Nets))
	for i, n := range c.Nets {
		ins[i] = nettree.Input{ConnPins: n.ConnPins, Segments: n.Segments}
	}
	trees, err := nettree.BuildAll(ins, c.PinPosition)
	if err != nil {
		t.Fatalf("BuildAll() error: %v", err)
	}
	return c, trees
}

func TestWriteIdentityNetRoundTrip(t *testing.T) {
	c, trees := buildChipAndTree(t)

	var buf bytes.Buffer
	if err := Write(&buf, c, trees); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "NumMovedCellInst 0\n") {
		t.Errorf("expected NumMovedCellInst 0, got:\n%s", out)
	}
	if !strings.Contains(out, "NumRoutes 2\n") {
		t.Errorf("expected NumRoutes 2, got:\n%s", out)
	}
	if !strings.Contains(out, "1 1 1 1 2 1 N1\n") {
		t.Errorf("expected first atomic route line, got:\n%s", out)
	}
	if !strings.Contains(out, "1 2 1 1 3 1 N1\n") {
		t.Errorf("expected second atomic route line, got:\n%s", out)
	}
}

func TestWriteEmptyChip(t *testing.T) {
	src := `MaxCellMove 0
GGridBoundaryIdx 1 1 1 1
NumLayer 1
Lay M1 1 H 10
NumNonDefaultSupplyGGrid 0
NumMasterCell 0
NumNeighborCellExtraDemand 0
NumCellInst 0
NumNets 0
NumRoutes 0
`
	c, _, err := chip.Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, c, nil); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	want := "NumMovedCellInst 0\nNumRoutes 0\n"
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}
}

func TestWriteMovedCellsAscending(t *testing.T) {
	src := `MaxCellMove 2
GGridBoundaryIdx 1 1 3 3
NumLayer 1
Lay M1 1 H 10
NumNonDefaultSupplyGGrid 0
NumMasterCell 1
MasterCell MC1 0 0
NumNeighborCellExtraDemand 0
NumCellInst 2
CellInst C1 MC1 1 1 Movable
CellInst C2 MC1 2 2 Movable
NumNets 0
NumRoutes 0
`
	c, _, err := chip.Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	c.Cells[0].Moved = true
	c.Cells[0].Position = chip.Pair{Row: 5, Col: 5}
	c.Cells[1].Moved = true
	c.Cells[1].Position = chip.Pair{Row: 6, Col: 6}

	var buf bytes.Buffer
	if err := Write(&buf, c, nil); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "NumMovedCellInst 2\n") {
		t.Errorf("expected 2 moved cells, got:\n%s", out)
	}
	idx1 := strings.Index(out, "CellInst C1 6 6")
	idx2 := strings.Index(out, "CellInst C2 7 7")
	if idx1 == -1 || idx2 == -1 || idx1 > idx2 {
		t.Errorf("expected C1 before C2 in ascending id order, got:\n%s", out)
	}
}
