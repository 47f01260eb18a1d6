// Package lattice builds the word lattice over a frozen input buffer and
// finds its minimum-cost path via Viterbi search (spec.md §3, §4.9).
package lattice

import (
	"fmt"
	"math"

	"github.com/sudachigo/sudachigo/dic/grammar"
	"github.com/sudachigo/sudachigo/dic/lexicon"
)

// Node is one lattice edge: a word occupying [Begin, End) char positions.
type Node struct {
	Begin, End      uint16
	LeftID, RightID uint16
	Cost            int16
	WordID          lexicon.WordID
}

// VNode is the Viterbi shadow of a Node, kept in a parallel array for
// cache locality during the min-cost scan (spec.md §3).
type VNode struct {
	TotalCost int32
	RightID   uint16
}

// NodeIdx is a predecessor pointer: (end boundary, index within that
// boundary's node list).
type NodeIdx struct {
	End   int
	Index int
}

// ErrEosBosDisconnect is returned by ConnectEOS when no path reaches EOS
// from BOS (spec.md §4.9, §7).
var ErrEosBosDisconnect = fmt.Errorf("lattice: EOS unreachable from BOS")

// Lattice holds, for each end boundary, the parallel VNode/Node/predecessor
// arrays described in spec.md §3.
type Lattice struct {
	ends     [][]VNode
	endsFull [][]Node
	indices  [][]NodeIdx

	length int

	eosIdx       NodeIdx
	eosTotalCost int32
	eosConnected bool
}

// NewLattice allocates an empty Lattice; call Reset before first use.
func NewLattice() *Lattice {
	return &Lattice{}
}

// Reset clears or allocates the per-boundary arrays for a sentence of
// length chars, and seeds boundary 0 with BOS (spec.md §4.9).
func (l *Lattice) Reset(length int) {
	l.length = length
	need := length + 1
	if cap(l.ends) >= need {
		l.ends = l.ends[:need]
		l.endsFull = l.endsFull[:need]
		l.indices = l.indices[:need]
		for i := range l.ends {
			l.ends[i] = l.ends[i][:0]
			l.endsFull[i] = l.endsFull[i][:0]
			l.indices[i] = l.indices[i][:0]
		}
	} else {
		l.ends = make([][]VNode, need)
		l.endsFull = make([][]Node, need)
		l.indices = make([][]NodeIdx, need)
	}
	l.eosConnected = false
	l.eosTotalCost = math.MaxInt32
	l.ends[0] = append(l.ends[0], VNode{RightID: 0, TotalCost: 0})
	l.endsFull[0] = append(l.endsFull[0], Node{Begin: 0, End: 0, RightID: 0})
	l.indices[0] = append(l.indices[0], NodeIdx{End: -1, Index: -1})
}

// HasNodesAt reports whether any lattice node currently ends at boundary e
// (used by the tokenizer to decide whether lookup/OOV should run there).
func (l *Lattice) HasNodesAt(e int) bool { return len(l.ends[e]) > 0 }

// Insert computes the best predecessor for node (scanning ends[node.Begin])
// and appends it to all three per-boundary arrays (spec.md §4.9).
func (l *Lattice) Insert(conn *grammar.Grammar, node Node) {
	best := int32(math.MaxInt32)
	bestIdx := -1
	left := l.ends[node.Begin]
	for i, v := range left {
		if v.TotalCost == math.MaxInt32 {
			continue
		}
		c := v.TotalCost + int32(conn.GetConnectCost(int16(v.RightID), int16(node.LeftID))) + int32(node.Cost)
		if c < best {
			best = c
			bestIdx = i
		}
	}
	total := best
	if bestIdx == -1 {
		total = math.MaxInt32
	}
	e := int(node.End)
	l.ends[e] = append(l.ends[e], VNode{TotalCost: total, RightID: node.RightID})
	l.endsFull[e] = append(l.endsFull[e], node)
	l.indices[e] = append(l.indices[e], NodeIdx{End: int(node.Begin), Index: bestIdx})
}

// ConnectEOS synthesizes the EOS node at the sentence's end boundary and
// runs the predecessor search against it (spec.md §4.9). Returns
// ErrEosBosDisconnect if the lattice is disconnected.
func (l *Lattice) ConnectEOS(conn *grammar.Grammar) error {
	best := int32(math.MaxInt32)
	bestIdx := -1
	left := l.ends[l.length]
	for i, v := range left {
		if v.TotalCost == math.MaxInt32 {
			continue
		}
		c := v.TotalCost + int32(conn.GetConnectCost(int16(v.RightID), 0))
		if c < best {
			best = c
			bestIdx = i
		}
	}
	if bestIdx == -1 || best == math.MaxInt32 {
		return ErrEosBosDisconnect
	}
	l.eosIdx = NodeIdx{End: l.length, Index: bestIdx}
	l.eosTotalCost = best
	l.eosConnected = true
	return nil
}

// EOSTotalCost returns the total cost of the best path after ConnectEOS.
func (l *Lattice) EOSTotalCost() int32 { return l.eosTotalCost }

// PathEntry is one node of the recovered best path together with the
// cumulative Viterbi cost at its right boundary (spec.md §9's
// `total_cost`, needed by the user-dictionary cost bootstrap).
type PathEntry struct {
	Node
	TotalCost int32
}

// FillTopPath walks from EOS backward via the predecessor arrays, stopping
// at BOS, and returns the nodes in forward order (spec.md §4.9).
func (l *Lattice) FillTopPath() []PathEntry {
	if !l.eosConnected {
		return nil
	}
	var reversed []PathEntry
	cur := l.eosIdx
	for {
		if cur.End == 0 && cur.Index == 0 {
			break // reached BOS
		}
		if cur.Index < 0 {
			break
		}
		n := l.endsFull[cur.End][cur.Index]
		cost := l.ends[cur.End][cur.Index].TotalCost
		reversed = append(reversed, PathEntry{Node: n, TotalCost: cost})
		cur = l.indices[cur.End][cur.Index]
	}
	// reverse in place
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return reversed
}

// NodesEndingAt returns the Node list for boundary e, for plugins and
// diagnostics that need to inspect the raw lattice.
func (l *Lattice) NodesEndingAt(e int) []Node { return l.endsFull[e] }
