package lexicon

import (
	"fmt"

	"github.com/sudachigo/sudachigo/internal/binutil"
)

// WordParam is the (left_id, right_id, cost) triple attached to every
// dictionary word (spec.md §3).
type WordParam struct {
	LeftID  int16
	RightID int16
	Cost    int16
}

// wordParams is the packed array of WordParam triples, addressed by
// constant-time offset arithmetic (spec.md §4.5: base + 6*word_id, i.e.
// 3 int16 fields = 6 bytes per entry). An overlay map takes precedence
// when present, used for the user-dictionary cost bootstrap of spec.md §9.
type wordParams struct {
	params   []WordParam
	overlay  map[uint32]int16 // word index -> overridden cost
}

func newWordParams(raw []byte, count int) (*wordParams, error) {
	params := make([]WordParam, count)
	off := 0
	for i := 0; i < count; i++ {
		left, next, err := binutil.I16(raw, off)
		if err != nil {
			return nil, fmt.Errorf("lexicon: word param %d: %w", i, err)
		}
		off = next
		right, next, err := binutil.I16(raw, off)
		if err != nil {
			return nil, fmt.Errorf("lexicon: word param %d: %w", i, err)
		}
		off = next
		cost, next, err := binutil.I16(raw, off)
		if err != nil {
			return nil, fmt.Errorf("lexicon: word param %d: %w", i, err)
		}
		off = next
		params[i] = WordParam{LeftID: left, RightID: right, Cost: cost}
	}
	return &wordParams{params: params}, nil
}

// Get returns the parameters for a dictionary-local word index, applying
// any cost overlay.
func (p *wordParams) Get(idx uint32) WordParam {
	wp := p.params[idx]
	if p.overlay != nil {
		if cost, ok := p.overlay[idx]; ok {
			wp.Cost = cost
		}
	}
	return wp
}

// SetCostOverride installs a derived cost for a user word whose on-disk
// cost was the sentinel math.MinInt16 (spec.md §4.5, §9).
func (p *wordParams) SetCostOverride(idx uint32, cost int16) {
	if p.overlay == nil {
		p.overlay = make(map[uint32]int16)
	}
	p.overlay[idx] = cost
}

// Len returns the number of word-param entries.
func (p *wordParams) Len() int { return len(p.params) }

// SentinelCostIndices returns the word indices whose on-disk cost is the
// math.MinInt16 sentinel, i.e. words awaiting the user-dictionary cost
// bootstrap of spec.md §4.5/§9.
func (p *wordParams) SentinelCostIndices() []uint32 {
	const sentinel = int16(-1 << 15)
	var out []uint32
	for i, wp := range p.params {
		if wp.Cost == sentinel {
			out = append(out, uint32(i))
		}
	}
	return out
}
