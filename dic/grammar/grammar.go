// Package grammar holds the POS table and the connection-cost matrix
// read from a dictionary's grammar section (spec.md §3, §4.4, §6).
package grammar

import (
	"fmt"
	"math"

	"github.com/sudachigo/sudachigo/internal/binutil"
)

// InhibitedConnection is the sentinel cost that forbids a (left, right)
// connection outright.
const InhibitedConnection int16 = math.MaxInt16

// POS is a six-field part-of-speech tuple.
type POS [6]string

// PosID identifies an entry in the POS table. Bounded by int16 (spec.md §3).
type PosID = int16

type connKey struct{ left, right int16 }

// Grammar is mutable only during plugin setup (connection-cost overrides,
// POS registration); it is frozen thereafter per spec.md §5.
type Grammar struct {
	posList []POS

	numLeft  int16
	numRight int16
	matrix   []int16 // row-major by right, then left: matrix[right*numLeft+left]

	overrides map[connKey]int16

	// userPosOffset marks where entries added by Merge (user dictionaries)
	// begin in posList; used by the lexicon set to rebase user POS ids.
	userPosOffset int
}

// ErrPosTableOverflow is returned by RegisterPos when the table would
// exceed the int16 id space.
var ErrPosTableOverflow = fmt.Errorf("grammar: pos table would overflow int16")

// Parse decodes a grammar section starting at offset 0 of b.
func Parse(b []byte) (*Grammar, int, error) {
	posSize, off, err := binutil.U16(b, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("grammar: %w", err)
	}
	posList := make([]POS, posSize)
	for i := range posList {
		var pos POS
		for j := 0; j < 6; j++ {
			var s string
			s, off, err = binutil.UTF16String(b, off)
			if err != nil {
				return nil, 0, fmt.Errorf("grammar: pos %d field %d: %w", i, j, err)
			}
			pos[j] = s
		}
		posList[i] = pos
	}

	leftSize, off, err := binutil.I16(b, off)
	if err != nil {
		return nil, 0, fmt.Errorf("grammar: %w", err)
	}
	rightSize, off, err := binutil.I16(b, off)
	if err != nil {
		return nil, 0, fmt.Errorf("grammar: %w", err)
	}

	n := int(leftSize) * int(rightSize)
	matrix := make([]int16, n)
	for i := 0; i < n; i++ {
		v, next, err := binutil.I16(b, off)
		if err != nil {
			return nil, 0, fmt.Errorf("grammar: matrix entry %d: %w", i, err)
		}
		matrix[i] = v
		off = next
	}

	g := &Grammar{
		posList:  posList,
		numLeft:  leftSize,
		numRight: rightSize,
		matrix:   matrix,
	}
	return g, off, nil
}

// NumLeft returns the number of distinct left-connection ids.
func (g *Grammar) NumLeft() int16 { return g.numLeft }

// NumRight returns the number of distinct right-connection ids.
func (g *Grammar) NumRight() int16 { return g.numRight }

// GetConnectCost returns the connection cost for transitioning from a node
// with the given right-id to one with the given left-id. Override map
// lookups take precedence over the matrix; matrix indexing is branch-free
// (spec.md §3 "Access is performance-critical").
func (g *Grammar) GetConnectCost(left, right int16) int16 {
	if g.overrides != nil {
		if v, ok := g.overrides[connKey{left, right}]; ok {
			return v
		}
	}
	return g.matrix[int(right)*int(g.numLeft)+int(left)]
}

// SetConnectCost installs an override for (left, right), used by the
// inhibit-connection plugin during setup (spec.md §4.8). Must only be
// called before the grammar is shared across goroutines.
func (g *Grammar) SetConnectCost(left, right int16, cost int16) {
	if g.overrides == nil {
		g.overrides = make(map[connKey]int16)
	}
	g.overrides[connKey{left, right}] = cost
}

// GetPartOfSpeechID performs a linear scan of the POS table (spec.md §4.4:
// the table is typically under 500 entries, so linear scan is cache
// friendly and avoids hashing overhead for this infrequent lookup).
func (g *Grammar) GetPartOfSpeechID(pos POS) (PosID, bool) {
	for i, p := range g.posList {
		if p == pos {
			return PosID(i), true
		}
	}
	return -1, false
}

// GetPartOfSpeechString returns the POS tuple for id, or false if out of range.
func (g *Grammar) GetPartOfSpeechString(id PosID) (POS, bool) {
	if id < 0 || int(id) >= len(g.posList) {
		return POS{}, false
	}
	return g.posList[id], true
}

// RegisterPos appends a new POS entry and returns its id.
func (g *Grammar) RegisterPos(pos POS) (PosID, error) {
	if len(g.posList) >= math.MaxInt16 {
		return -1, ErrPosTableOverflow
	}
	g.posList = append(g.posList, pos)
	return PosID(len(g.posList) - 1), nil
}

// PosSize returns the number of registered POS entries.
func (g *Grammar) PosSize() int { return len(g.posList) }

// Merge appends other's POS list to g's. Connection matrices are never
// merged: user dictionaries do not contribute connection costs (spec.md
// §4.4). Returns the POS id offset at which other's entries now start.
func (g *Grammar) Merge(other *Grammar) int {
	offset := len(g.posList)
	g.posList = append(g.posList, other.posList...)
	g.userPosOffset = offset
	return offset
}

// UserPosOffset returns the POS id above which entries were registered by
// a prior Merge call (used by the lexicon set to rebase user POS ids).
func (g *Grammar) UserPosOffset() int { return g.userPosOffset }

// MatchPOS returns a PosMatcher selecting every POS id for which predicate
// returns true. Supplemented from original_source/python/src/pos_matcher.rs
// (dropped from spec.md's component list but useful to plugins that need
// to test a word's POS category without re-scanning the table per node).
func (g *Grammar) MatchPOS(predicate func(POS) bool) PosMatcher {
	set := make(map[PosID]struct{})
	for i, p := range g.posList {
		if predicate(p) {
			set[PosID(i)] = struct{}{}
		}
	}
	return PosMatcher{ids: set}
}

// PosMatcher is a reusable predicate over POS ids.
type PosMatcher struct {
	ids map[PosID]struct{}
}

// Matches reports whether id is selected by the matcher.
func (m PosMatcher) Matches(id PosID) bool {
	_, ok := m.ids[id]
	return ok
}
