package oov

import (
	"sort"

	"github.com/sudachigo/sudachigo/analysis/inputtext"
	"github.com/sudachigo/sudachigo/dic/categories"
	"github.com/sudachigo/sudachigo/dic/grammar"
	"github.com/sudachigo/sudachigo/plugin"
)

// CategoryConfig is one unk.def-style row: a category's invocation mode,
// grouping behavior, and the candidate templates to emit for it.
type CategoryConfig struct {
	Category categories.Category
	// Invoke reports whether this category fires even when a dictionary
	// word already begins here (spec.md §4.8 "invoke" column).
	Invoke bool
	// Group merges the whole leading run of same-category characters into
	// one candidate in addition to (or instead of) the length-keyed ones.
	Group bool
	// Lengths lists candidate lengths (in chars) to emit, one per entry;
	// a length longer than the available run is clamped.
	Lengths []int
	Templates []Template
}

// Template is one POS/cost row emitted for every length a CategoryConfig
// proposes.
type Template struct {
	PosID           grammar.PosID
	LeftID, RightID int16
	Cost            int16
}

// MeCabOOV proposes candidates whose extent and count are driven by the
// character-category table, the same table consulted for can_bow and
// category-continuity (spec.md §4.8, grounded on the shared char.def
// grammar in dic/categories).
type MeCabOOV struct {
	Categories *categories.Table
	Configs    map[categories.Category]CategoryConfig
}

func (p *MeCabOOV) SetUp(gram *grammar.Grammar) error { return nil }

// sortedCategories returns p.Configs' keys in a fixed numeric order, so
// candidate generation doesn't depend on Go's randomized map iteration
// order (two equal-cost candidates at the same boundary must win the
// lattice's first-found tie-break the same way on every run).
func (p *MeCabOOV) sortedCategories() []categories.Category {
	cats := make([]categories.Category, 0, len(p.Configs))
	for c := range p.Configs {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// IsInvoke reports whether charIdx's category is configured to invoke even
// when a dictionary word is already present there.
func (p *MeCabOOV) IsInvoke(buf *inputtext.Buffer, charIdx int) bool {
	if charIdx >= buf.NumChars() {
		return false
	}
	cat := buf.CategoryAt(charIdx)
	for _, c := range p.sortedCategories() {
		if cfg := p.Configs[c]; cat.Has(c) && cfg.Invoke {
			return true
		}
	}
	return false
}

func (p *MeCabOOV) Candidates(buf *inputtext.Buffer, charIdx int, hasWord bool, out []plugin.OOVCandidate) ([]plugin.OOVCandidate, error) {
	if charIdx >= buf.NumChars() {
		return out, nil
	}
	cat := buf.CategoryAt(charIdx)
	run := buf.ContinuityAt(charIdx)

	for _, c := range p.sortedCategories() {
		cfg := p.Configs[c]
		if !cat.Has(c) {
			continue
		}
		if hasWord && !cfg.Invoke {
			continue
		}
		lengths := cfg.Lengths
		if cfg.Group {
			lengths = append(append([]int{}, lengths...), run)
		}
		for _, length := range lengths {
			if length <= 0 {
				continue
			}
			if length > run {
				length = run
			}
			endChar := charIdx + length
			if endChar > buf.NumChars() {
				endChar = buf.NumChars()
			}
			if endChar == charIdx {
				continue
			}
			beginByte := buf.ToCurrentByteIdx(charIdx)
			endByte := buf.ToCurrentByteIdx(endChar)
			for _, tmpl := range cfg.Templates {
				out = append(out, plugin.OOVCandidate{
					Begin:   uint16(charIdx),
					End:     uint16(endChar),
					LeftID:  tmpl.LeftID,
					RightID: tmpl.RightID,
					Cost:    tmpl.Cost,
					PosID:   tmpl.PosID,
					Surface: buf.Modified()[beginByte:endByte],
				})
			}
		}
	}
	return out, nil
}
