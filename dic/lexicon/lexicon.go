// Package lexicon implements the double-array trie lexicon, its
// composition into a LexiconSet of up to 15 dictionaries, and WordInfo
// decoding (spec.md §3, §4.5, §4.6, §6).
package lexicon

import (
	"fmt"

	"github.com/sudachigo/sudachigo/internal/binutil"
)

// Lexicon is a single dictionary's trie + word tables. Its dictID is
// assigned by the containing LexiconSet (spec.md §4.5, §4.6).
type Lexicon struct {
	dictID int
	trie   *Trie
	wids   *wordIDTable
	params *wordParams
	winfo  *wordInfoReader
}

// ParseLexicon decodes a lexicon section starting at offset 0 of b,
// following the layout of spec.md §6:
//
//	trie_size(u32) | trie(trie_size u32) | wid_table_size(u32) | wid_table |
//	wparam_size(u32) | wparams | winfo_offsets | winfo_records
func ParseLexicon(b []byte, hasSynonymGroups bool) (*Lexicon, error) {
	trieSize, off, err := binutil.U32(b, 0)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	trieUnits := make([]uint32, trieSize)
	for i := range trieUnits {
		v, next, err := binutil.U32(b, off)
		if err != nil {
			return nil, fmt.Errorf("lexicon: trie unit %d: %w", i, err)
		}
		trieUnits[i] = v
		off = next
	}
	trie := NewTrie(trieUnits)

	widTableSize, off, err := binutil.U32(b, off)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	widTableRaw := b[off : off+int(widTableSize)]
	off += int(widTableSize)
	wids := newWordIDTable(widTableRaw)

	wparamSize, off, err := binutil.U32(b, off)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	wparamBytes := int(wparamSize) * 6
	params, err := newWordParams(b[off:off+wparamBytes], int(wparamSize))
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	off += wparamBytes

	winfoOffsets := make([]uint32, wparamSize)
	for i := range winfoOffsets {
		v, next, err := binutil.U32(b, off)
		if err != nil {
			return nil, fmt.Errorf("lexicon: winfo offset %d: %w", i, err)
		}
		winfoOffsets[i] = v
		off = next
	}
	winfo := newWordInfoReader(b, winfoOffsets, hasSynonymGroups)

	return &Lexicon{trie: trie, wids: wids, params: params, winfo: winfo}, nil
}

// SetDictID is called once by the owning LexiconSet (spec.md §4.6).
func (l *Lexicon) SetDictID(id int) { l.dictID = id }

// DictID returns the dictionary id this lexicon was assigned.
func (l *Lexicon) DictID() int { return l.dictID }

// Size returns the number of words in this lexicon.
func (l *Lexicon) Size() int { return l.params.Len() }

// LookupHit is one lexicon lookup result: a fully-qualified WordID (with
// this lexicon's dictID already encoded) and the byte offset immediately
// after the match.
type LookupHit struct {
	WordID WordID
	End    int
}

// Lookup performs common-prefix trie lookups starting at offset off of
// input, yielding one LookupHit per word id referenced by each matched
// entry (spec.md §4.5).
func (l *Lexicon) Lookup(input []byte, off int) ([]LookupHit, error) {
	prefixHits := l.trie.CommonPrefixSearch(input, off)
	var hits []LookupHit
	for _, ph := range prefixHits {
		idxs, err := l.wids.entries(ph.Value)
		if err != nil {
			return nil, err
		}
		for _, idx := range idxs {
			hits = append(hits, LookupHit{WordID: NewWordID(l.dictID, idx), End: ph.End})
		}
	}
	return hits, nil
}

// GetWordParam returns (left_id, right_id, cost) for a within-dictionary
// word index, in O(1) (spec.md §4.5).
func (l *Lexicon) GetWordParam(wordIdx uint32) WordParam {
	return l.params.Get(wordIdx)
}

// SetWordParamCost installs a derived cost override (spec.md §4.5, §9).
func (l *Lexicon) SetWordParamCost(wordIdx uint32, cost int16) {
	l.params.SetCostOverride(wordIdx, cost)
}

// SentinelCostIndices returns this lexicon's word indices still carrying
// the math.MinInt16 placeholder cost (spec.md §4.5, §9).
func (l *Lexicon) SentinelCostIndices() []uint32 {
	return l.params.SentinelCostIndices()
}

// GetWordInfo decodes the full WordInfo record for a within-dictionary
// word index.
func (l *Lexicon) GetWordInfo(wordIdx uint32) (WordInfo, error) {
	return l.winfo.GetWordInfo(wordIdx)
}

// GetWordInfoSubset decodes only the requested fields.
func (l *Lexicon) GetWordInfoSubset(wordIdx uint32, subset Subset) (WordInfo, error) {
	return l.winfo.GetWordInfoSubset(wordIdx, subset)
}
