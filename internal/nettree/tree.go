// Package nettree builds the canonical per-net tree of atomic routing
// segments from an unordered bag of raw 3-D wire segments and a pin list.
// This is the core of the solver: it fractures every raw segment at each
// collinear node, builds a minimum spanning structure with union-find to
// suppress redundant loops, and collapses vertical layer transitions into
// per-node height spans.
package nettree

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/r3ntru3w4n9/cell-move-router/internal/chip"
	"github.com/r3ntru3w4n9/cell-move-router/internal/unionfind"
)

// ErrDisconnectedNet is returned when the union-find forest over a net's
// nodes is not a single component after all atomic segments are
// processed: the incoming routing does not in fact connect its pins.
var ErrDisconnectedNet = errors.New("disconnected net")

// Pointer is an outgoing edge to another node at a specific Lay value.
type Pointer struct {
	Index  int
	Height int
}

// PosNode is one node of a net's tree: a unique planar position, an
// optional pin index, and up to four planar neighbour pointers. Vertical
// connectivity is not a fifth/sixth slot; it is recovered from the
// min/max Lay values actually touched by routing at this position,
// whether via an installed planar pointer's height or via a raw
// Top/Bottom segment terminating here (see Span).
type PosNode struct {
	ID       *int
	Position chip.Pair

	Up, Down, Left, Right *Pointer

	minLay, maxLay int
	hasSpan        bool
}

func (n *PosNode) touch(lay int) {
	if !n.hasSpan || lay < n.minLay {
		n.minLay = lay
	}
	if !n.hasSpan || lay > n.maxLay {
		n.maxLay = lay
	}
	n.hasSpan = true
}

// Span reports the (min, max) Lay values touched at this node. ok is
// false if the node touches no layer at all (e.g. an unreferenced pin
// position, which cannot occur for a net that fully connects).
func (n *PosNode) Span() (min, max int, ok bool) {
	return n.minLay, n.maxLay, n.hasSpan
}

// Pointer returns the outgoing pointer for d, or nil.
func (n *PosNode) Pointer(d chip.Towards) *Pointer {
	switch d {
	case chip.Up:
		return n.Up
	case chip.Down:
		return n.Down
	case chip.Left:
		return n.Left
	case chip.Right:
		return n.Right
	default:
		return nil
	}
}

func (n *PosNode) setPointer(d chip.Towards, p *Pointer) {
	switch d {
	case chip.Up:
		n.Up = p
	case chip.Down:
		n.Down = p
	case chip.Left:
		n.Left = p
	case chip.Right:
		n.Right = p
	}
}

// NetTree is an ordered slice of PosNodes forming a spanning forest with
// exactly one component per net (enforced at construction).
type NetTree struct {
	Nodes []PosNode
}

// Input is what the builder needs to reconstruct one net's tree.
type Input struct {
	ConnPins []int
	Segments []chip.Route
}

type entry struct {
	coord int // the varying coordinate (col for a row bucket, row for a col bucket)
	idx   int
}

// Build converts one net's raw segments and pin list into a canonical
// NetTree, per the fragmentation/Kruskal algorithm: catalogue positions,
// fragment each planar segment at every collinear node on its row/column,
// then admit exactly one atomic edge per tree component via union-find.
func Build(in Input, pinPosition func(pin int) chip.Pair) (*NetTree, error) {
	order := make([]chip.Pair, 0, len(in.ConnPins)+2*len(in.Segments))
	seen := make(map[chip.Pair]int, len(order))
	pinAt := make(map[chip.Pair]int, len(in.ConnPins))

	addPosition := func(pos chip.Pair) int {
		if idx, ok := seen[pos]; ok {
			return idx
		}
		idx := len(order)
		seen[pos] = idx
		order = append(order, pos)
		return idx
	}

	for _, p := range in.ConnPins {
		pos := pinPosition(p)
		addPosition(pos)
		if _, ok := pinAt[pos]; !ok {
			pinAt[pos] = p
		}
	}
	for _, seg := range in.Segments {
		addPosition(seg.Source.Flatten())
		addPosition(seg.Target.Flatten())
	}

	nodes := make([]PosNode, len(order))
	for i, pos := range order {
		nodes[i] = PosNode{Position: pos}
		if pin, ok := pinAt[pos]; ok {
			nodes[i].ID = &pin
		}
	}

	byRow := make(map[int][]entry)
	byCol := make(map[int][]entry)
	for i, pos := range order {
		byRow[pos.Row] = append(byRow[pos.Row], entry{coord: pos.Col, idx: i})
		byCol[pos.Col] = append(byCol[pos.Col], entry{coord: pos.Row, idx: i})
	}
	for r := range byRow {
		sort.Slice(byRow[r], func(i, j int) bool { return byRow[r][i].coord < byRow[r][j].coord })
	}
	for c := range byCol {
		sort.Slice(byCol[c], func(i, j int) bool { return byCol[c][i].coord < byCol[c][j].coord })
	}

	type atomicEdge struct {
		a, b   int
		height int
		dir    chip.Towards
	}
	var atoms []atomicEdge
	edgeSeen := make(map[[2]int]bool)

	addAtom := func(a, b, height int, dir chip.Towards) {
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if edgeSeen[key] {
			return
		}
		edgeSeen[key] = true
		atoms = append(atoms, atomicEdge{a: a, b: b, height: height, dir: dir})
	}

	uf := unionfind.New(len(nodes))

	for _, seg := range in.Segments {
		dir := seg.Towards()
		switch dir {
		case chip.Top, chip.Bottom:
			// Vertical collapse: no planar edge, record the touched layers
			// directly on the single shared node.
			idx := seen[seg.Source.Flatten()]
			nodes[idx].touch(seg.Source.Lay)
			nodes[idx].touch(seg.Target.Lay)
		case chip.Up, chip.Down:
			row := seg.Source.Row
			lo, hi := minMax(seg.Source.Col, seg.Target.Col)
			bucket := byRow[row]
			restricted := restrict(bucket, lo, hi)
			for i := 0; i+1 < len(restricted); i++ {
				addAtom(restricted[i].idx, restricted[i+1].idx, seg.Source.Lay, chip.Up)
			}
		case chip.Left, chip.Right:
			col := seg.Source.Col
			lo, hi := minMax(seg.Source.Row, seg.Target.Row)
			bucket := byCol[col]
			restricted := restrict(bucket, lo, hi)
			for i := 0; i+1 < len(restricted); i++ {
				addAtom(restricted[i].idx, restricted[i+1].idx, seg.Source.Lay, chip.Right)
			}
		}
	}

	for _, a := range atoms {
		if uf.Union(a.a, a.b) {
			connect(nodes, a.a, a.b, a.height, a.dir)
		}
	}

	if len(nodes) > 0 && !uf.Done() {
		return nil, fmt.Errorf("nettree: %d nodes in %d components: %w", len(nodes), uf.Groups(), ErrDisconnectedNet)
	}

	return &NetTree{Nodes: nodes}, nil
}

func connect(nodes []PosNode, aIdx, bIdx, height int, dir chip.Towards) {
	a, b := &nodes[aIdx], &nodes[bIdx]
	a.setPointer(dir, &Pointer{Index: bIdx, Height: height})
	b.setPointer(dir.Opposite(), &Pointer{Index: aIdx, Height: height})
	a.touch(height)
	b.touch(height)
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

func restrict(bucket []entry, lo, hi int) []entry {
	start := sort.Search(len(bucket), func(i int) bool { return bucket[i].coord >= lo })
	end := sort.Search(len(bucket), func(i int) bool { return bucket[i].coord > hi })
	return bucket[start:end]
}

// BuildAll builds every net's tree. Per-net tree construction is pure —
// the only shared read is pinPosition over the immutable cell table — so
// nets are processed in parallel with a bounded worker pool and
// reassembled in input order, mirroring the loader's own
// sync.WaitGroup-plus-semaphore fan-out pattern.
func BuildAll(ins []Input, pinPosition func(pin int) chip.Pair) ([]*NetTree, error) {
	trees := make([]*NetTree, len(ins))
	errs := make([]error, len(ins))

	var wg sync.WaitGroup
	sem := make(chan struct{}, max(1, runtime.NumCPU()))

	for i, in := range ins {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, in Input) {
			defer wg.Done()
			defer func() { <-sem }()
			trees[i], errs[i] = Build(in, pinPosition)
		}(i, in)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("nettree: net %d: %w", i, err)
		}
	}
	return trees, nil
}
