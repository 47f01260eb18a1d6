// Package plugin defines the four pluggable rewriting stages of spec.md
// §4.8: input-text, connect-cost, OOV and path-rewrite plugins. Each
// category is a capability set; a concrete plugin is a variant choice of
// that capability, dispatched at runtime by class name (spec.md §9
// "Plugin polymorphism"). Dynamic-library loading (the `load_plugin`
// symbol hook) is documented in spec.md §4.8 but intentionally not
// implemented — see DESIGN.md; bundled plugins are always available by
// name, which is sufficient for this distillation's Non-goals (language
// bindings are out of scope).
package plugin

import (
	"encoding/json"
	"fmt"

	"github.com/sudachigo/sudachigo/analysis/inputtext"
	"github.com/sudachigo/sudachigo/dic/grammar"
	"github.com/sudachigo/sudachigo/dic/lexicon"
)

// InputTextPlugin rewrites the RW input buffer before it is frozen
// (spec.md §4.8).
type InputTextPlugin interface {
	SetUp(gram *grammar.Grammar) error
	Rewrite(buf *inputtext.Buffer) error
}

// ConnectCostPlugin adjusts the grammar's connection matrix before the
// grammar is frozen (spec.md §4.8).
type ConnectCostPlugin interface {
	SetUp(gram *grammar.Grammar) error
}

// OOVCandidate is one node an OOV plugin proposes at a lattice boundary.
type OOVCandidate struct {
	Begin, End      uint16
	LeftID, RightID int16
	Cost            int16
	PosID           grammar.PosID
	Surface         string // modified-text slice the node spans
}

// OOVPlugin generates out-of-vocabulary candidates at a boundary where
// trie lookup yielded nothing, or where IsInvoke requests it (spec.md
// §4.8, §4.10).
type OOVPlugin interface {
	SetUp(gram *grammar.Grammar) error
	// IsInvoke reports whether this plugin should run even when lookup
	// already produced a word at charIdx.
	IsInvoke(buf *inputtext.Buffer, charIdx int) bool
	// Candidates appends candidates to out and returns the result.
	Candidates(buf *inputtext.Buffer, charIdx int, hasWord bool, out []OOVCandidate) ([]OOVCandidate, error)
}

// PathNode is the subset of a lattice ResultNode a path-rewrite plugin
// needs: position, POS, surface and dictionary reference.
type PathNode struct {
	Begin, End           uint16
	BeginBytes, EndBytes uint16
	PosID                grammar.PosID
	WordID               lexicon.WordID
	Surface              string
	DicFormWordID        int32
	IsOOV                bool
	// NormalizedForm overrides the dictionary-resolved normalized form
	// when set (used by Join-numeric to attach a computed numeral
	// string to its synthesized node); empty means resolve normally.
	NormalizedForm string
	// TotalCost is the cumulative Viterbi cost at this node's right
	// boundary, carried from the lattice for the user-dictionary cost
	// bootstrap; path-rewrite plugins that merge or split nodes are not
	// required to keep it meaningful.
	TotalCost int32
}

// PathRewritePlugin rewrites the best path before A/B-mode splitting
// (spec.md §4.8, §4.10 step 7).
type PathRewritePlugin interface {
	SetUp(gram *grammar.Grammar) error
	Rewrite(path []PathNode) ([]PathNode, error)
}

// Descriptor is the external-collaborator-resolved plugin configuration
// described in spec.md §6 ("arrays of plugin descriptors {class: string, ...}").
type Descriptor struct {
	Class string          `json:"class"`
	Args  json.RawMessage `json:"args,omitempty"`
}

// ErrUnknownPluginClass is returned by a registry when Class does not
// match any bundled plugin.
func ErrUnknownPluginClass(class string) error {
	return fmt.Errorf("plugin: unknown class %q", class)
}
