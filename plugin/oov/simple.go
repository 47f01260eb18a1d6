// Package oov bundles the out-of-vocabulary node generators of spec.md
// §4.8: SimpleOOV (one fixed-length node per invocation), MeCabOOV
// (category-driven length/grouping table, grounded on the shared
// char.def grammar in dic/categories) and RegexOOV (longest regex match).
package oov

import (
	"github.com/sudachigo/sudachigo/analysis/inputtext"
	"github.com/sudachigo/sudachigo/dic/grammar"
	"github.com/sudachigo/sudachigo/plugin"
)

// SimpleOOV always proposes a single one-character candidate at any
// boundary with no existing word, tagged with a fixed POS and cost
// (spec.md §4.8 "a minimal fallback that guarantees every boundary has at
// least one outgoing edge").
type SimpleOOV struct {
	PosID           grammar.PosID
	LeftID, RightID int16
	Cost            int16
}

func (p *SimpleOOV) SetUp(gram *grammar.Grammar) error { return nil }

// IsInvoke always reports false: SimpleOOV never runs where a dictionary
// word already begins, and Candidates yields nothing when hasWord is set.
func (p *SimpleOOV) IsInvoke(buf *inputtext.Buffer, charIdx int) bool { return false }

func (p *SimpleOOV) Candidates(buf *inputtext.Buffer, charIdx int, hasWord bool, out []plugin.OOVCandidate) ([]plugin.OOVCandidate, error) {
	if hasWord || charIdx >= buf.NumChars() {
		return out, nil
	}
	beginByte := buf.ToCurrentByteIdx(charIdx)
	endByte := buf.ToCurrentByteIdx(charIdx + 1)
	out = append(out, plugin.OOVCandidate{
		Begin:   uint16(charIdx),
		End:     uint16(charIdx + 1),
		LeftID:  p.LeftID,
		RightID: p.RightID,
		Cost:    p.Cost,
		PosID:   p.PosID,
		Surface: buf.Modified()[beginByte:endByte],
	})
	return out, nil
}
