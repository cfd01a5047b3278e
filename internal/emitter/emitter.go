// Package emitter serialises a solved Chip back into the output wire
// listing: moved cell instances, then each net's canonical route segments.
package emitter

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/r3ntru3w4n9/cell-move-router/internal/chip"
	"github.com/r3ntru3w4n9/cell-move-router/internal/ident"
	"github.com/r3ntru3w4n9/cell-move-router/internal/nettree"
)

// Write serialises c's moved cells and every net's tree to w, per the
// output grammar: a NumMovedCellInst section in ascending cell id order,
// then a NumRoutes section in ascending net id order. trees[i] must be
// the tree for c.Nets[i].
func Write(w io.Writer, c *chip.Chip, trees []*nettree.NetTree) error {
	bw := bufio.NewWriter(w)

	var moved []chip.Cell
	for _, cell := range c.Cells {
		if cell.Moved {
			moved = append(moved, cell)
		}
	}
	fmt.Fprintf(bw, "NumMovedCellInst %d\n", len(moved))
	for _, cell := range moved {
		fmt.Fprintf(bw, "CellInst %s %d %d\n", ident.Encode(ident.KindCell, cell.ID), cell.Position.Row+1, cell.Position.Col+1)
	}

	bodies, err := netBodies(c, trees)
	if err != nil {
		return err
	}

	total := 0
	for _, b := range bodies {
		total += len(b)
	}
	fmt.Fprintf(bw, "NumRoutes %d\n", total)
	for _, b := range bodies {
		for _, line := range b {
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
	}

	return bw.Flush()
}

// netBodies renders each net's span + tree-walk lines. Per-net rendering
// reads nothing but the net's own tree, so nets are rendered in parallel
// and reassembled in ascending id order, mirroring the same
// fan-out/reassemble-in-order shape used to build the trees themselves.
func netBodies(c *chip.Chip, trees []*nettree.NetTree) ([][]string, error) {
	bodies := make([][]string, len(c.Nets))
	errs := make([]error, len(c.Nets))

	var wg sync.WaitGroup
	sem := make(chan struct{}, max(1, runtime.NumCPU()))

	for i := range c.Nets {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			bodies[i], errs[i] = renderNet(c.Nets[i].ID, trees[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("emitter: net %d: %w", i, err)
		}
	}
	return bodies, nil
}

// renderNet produces one net's output lines: per-node spans first, then
// the [Up, Down, Left, Right] DFS tree walk starting at Nodes[0]. A
// sentinel chip.NoDirection arrival direction at the root means no
// outgoing pointer is ever treated as "back the way we came" there, so
// the walk never needs a special root-only loop over all four directions.
func renderNet(netID int, tree *nettree.NetTree) ([]string, error) {
	name := ident.Encode(ident.KindNet, netID)
	var lines []string

	for _, n := range tree.Nodes {
		if min, max, ok := n.Span(); ok && max > min {
			lines = append(lines, fmt.Sprintf("%d %d %d %d %d %d %s",
				n.Position.Row+1, n.Position.Col+1, min+1,
				n.Position.Row+1, n.Position.Col+1, max+1,
				name))
		}
	}

	if len(tree.Nodes) == 0 {
		return lines, nil
	}

	var walk func(idx int, arrival chip.Towards)
	walk = func(idx int, arrival chip.Towards) {
		forbidden := arrival.Opposite()
		node := tree.Nodes[idx]
		for _, d := range [...]chip.Towards{chip.Up, chip.Down, chip.Left, chip.Right} {
			if d == forbidden {
				continue
			}
			p := node.Pointer(d)
			if p == nil {
				continue
			}
			neighbour := tree.Nodes[p.Index]
			lines = append(lines, fmt.Sprintf("%d %d %d %d %d %d %s",
				node.Position.Row+1, node.Position.Col+1, p.Height+1,
				neighbour.Position.Row+1, neighbour.Position.Col+1, p.Height+1,
				name))
			walk(p.Index, d)
		}
	}
	walk(0, chip.NoDirection)

	return lines, nil
}
