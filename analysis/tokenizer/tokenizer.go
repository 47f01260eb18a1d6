// Package tokenizer orchestrates the input buffer, the word lattice and
// the plugin pipeline into the single analysis entry point (spec.md
// §4.10): StatefulTokenizer.Tokenize runs one string through all ten
// pipeline steps and returns a morpheme.List.
package tokenizer

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/sudachigo/sudachigo/analysis/inputtext"
	"github.com/sudachigo/sudachigo/analysis/lattice"
	"github.com/sudachigo/sudachigo/analysis/morpheme"
	"github.com/sudachigo/sudachigo/dic"
	"github.com/sudachigo/sudachigo/dic/categories"
	"github.com/sudachigo/sudachigo/dic/grammar"
	"github.com/sudachigo/sudachigo/dic/lexicon"
	"github.com/sudachigo/sudachigo/plugin"
)

// SplitMode selects the A (short), B (middle) or C (named-entity)
// segmentation granularity for one Tokenize call (spec.md §4.10 step 8,
// glossary).
type SplitMode = morpheme.SplitMode

const (
	SplitA = morpheme.SplitA
	SplitB = morpheme.SplitB
	SplitC = morpheme.SplitC
)

// ErrMalformedDictionary is returned when lattice construction reaches a
// boundary with no word and no OOV plugin — even the guaranteed
// fallback — produced a candidate (spec.md §4.10 step 4).
var ErrMalformedDictionary = fmt.Errorf("tokenizer: dictionary produced no candidate at a reachable boundary")

// Plugins bundles the four ordered pipeline stages, already set up against
// a Dictionary's grammar (spec.md §4.8).
type Plugins struct {
	InputText   []plugin.InputTextPlugin
	OOV         []plugin.OOVPlugin
	PathRewrite []plugin.PathRewritePlugin
}

// StatefulTokenizer runs the spec.md §4.10 pipeline. It caches its lattice
// and scratch slices across calls (spec.md §5 "Memory discipline"); the
// input buffer is replaced on every call, because the returned
// morpheme.List keeps a reference to it. It is not safe for concurrent
// use; callers construct one per goroutine.
type StatefulTokenizer struct {
	dict    *dic.Dictionary
	plugins Plugins
	logger  zerolog.Logger

	buf  *inputtext.Buffer
	lat  *lattice.Lattice
	oovScratch []plugin.OOVCandidate
}

// New builds a tokenizer sharing dict and plugins; both must already be
// set up (input-text/OOV/path-rewrite plugins via their SetUp, connect-cost
// plugins applied directly to dict.Grammar() before this call).
func New(dict *dic.Dictionary, plugins Plugins, logger zerolog.Logger) *StatefulTokenizer {
	return &StatefulTokenizer{
		dict:    dict,
		plugins: plugins,
		logger:  logger,
		buf:     inputtext.NewBuffer(),
		lat:     lattice.NewLattice(),
	}
}

// Tokenize runs the full pipeline over text and returns the resulting
// morpheme list at the requested split mode.
func (t *StatefulTokenizer) Tokenize(text string, mode SplitMode) (*morpheme.List, error) {
	// Step 1: fresh buffer; the previous call's List keeps the old one.
	t.buf = inputtext.NewBuffer()
	if err := t.buf.StartBuild(text); err != nil {
		return nil, fmt.Errorf("tokenizer: %w", err)
	}

	// Step 2: input-text plugins, in order.
	for _, p := range t.plugins.InputText {
		if err := p.Rewrite(t.buf); err != nil {
			return nil, fmt.Errorf("tokenizer: input-text plugin: %w", err)
		}
	}

	// Step 3: freeze.
	if err := t.buf.Build(t.dict.Categories()); err != nil {
		return nil, fmt.Errorf("tokenizer: %w", err)
	}

	// Step 4: build lattice.
	if err := t.buildLattice(); err != nil {
		return nil, err
	}

	// Step 5: connect EOS.
	if err := t.lat.ConnectEOS(t.dict.Grammar()); err != nil {
		return nil, fmt.Errorf("tokenizer: %w", err)
	}

	// Step 6: materialize the top path.
	entries := t.lat.FillTopPath()
	pathNodes, err := t.materialize(entries)
	if err != nil {
		return nil, err
	}

	// Step 7: path-rewrite plugins.
	for _, p := range t.plugins.PathRewrite {
		pathNodes, err = p.Rewrite(pathNodes)
		if err != nil {
			return nil, fmt.Errorf("tokenizer: path-rewrite plugin: %w", err)
		}
	}

	// Step 8: A/B mode splitting.
	if mode == SplitA || mode == SplitB {
		pathNodes, err = t.splitPath(pathNodes, mode)
		if err != nil {
			return nil, err
		}
	}

	// Steps 9-10: build ResultNodes (byte ranges already tracked) and
	// hand back a MorphemeList.
	results, err := t.toResultNodes(pathNodes)
	if err != nil {
		return nil, err
	}
	return morpheme.New(t.buf, t.dict.Grammar(), t.dict.Lexicon(), results), nil
}

// buildLattice walks byte positions in increasing order, inserting
// dictionary hits and OOV candidates at each can-begin-word boundary
// whose end boundary has not yet been reached (spec.md §4.10 step 4).
func (t *StatefulTokenizer) buildLattice() error {
	n := t.buf.NumChars()
	t.lat.Reset(n)
	gram := t.dict.Grammar()
	modified := t.buf.Modified()

	for ci := 0; ci < n; ci++ {
		byteI := t.buf.ToCurrentByteIdx(ci)
		if !t.buf.CanBow(byteI) {
			continue
		}
		if !t.lat.HasNodesAt(ci) {
			continue
		}

		hasWord := false
		hits, err := t.dict.Lexicon().Lookup([]byte(modified), byteI)
		if err != nil {
			return fmt.Errorf("tokenizer: lexicon lookup: %w", err)
		}
		for _, hit := range hits {
			if hit.End < len(modified) && !t.buf.CanBow(hit.End) {
				continue
			}
			endChar := t.buf.CharIdxOfByte(hit.End)
			param, err := t.dict.Lexicon().GetWordParam(hit.WordID)
			if err != nil {
				return fmt.Errorf("tokenizer: word param: %w", err)
			}
			t.lat.Insert(gram, lattice.Node{
				Begin:   uint16(ci),
				End:     uint16(endChar),
				LeftID:  uint16(param.LeftID),
				RightID: uint16(param.RightID),
				Cost:    param.Cost,
				WordID:  hit.WordID,
			})
			hasWord = true
		}

		if !t.buf.CategoryAt(ci).Has(categories.NoOOVBow) {
			for _, op := range t.plugins.OOV {
				if hasWord && !op.IsInvoke(t.buf, ci) {
					continue
				}
				t.oovScratch = t.oovScratch[:0]
				cands, err := op.Candidates(t.buf, ci, hasWord, t.oovScratch)
				if err != nil {
					return fmt.Errorf("tokenizer: oov plugin: %w", err)
				}
				t.oovScratch = cands
				for _, c := range cands {
					t.lat.Insert(gram, lattice.Node{
						Begin:   c.Begin,
						End:     c.End,
						LeftID:  uint16(c.LeftID),
						RightID: uint16(c.RightID),
						Cost:    c.Cost,
						WordID:  lexicon.NewWordID(lexicon.OOVDictID, 0),
					})
					hasWord = true
				}
			}
		}

		if !hasWord && len(t.plugins.OOV) > 0 {
			op := t.plugins.OOV[len(t.plugins.OOV)-1]
			t.oovScratch = t.oovScratch[:0]
			cands, err := op.Candidates(t.buf, ci, false, t.oovScratch)
			if err != nil {
				return fmt.Errorf("tokenizer: fallback oov plugin: %w", err)
			}
			for _, c := range cands {
				t.lat.Insert(gram, lattice.Node{
					Begin:   c.Begin,
					End:     c.End,
					LeftID:  uint16(c.LeftID),
					RightID: uint16(c.RightID),
					Cost:    c.Cost,
					WordID:  lexicon.NewWordID(lexicon.OOVDictID, 0),
				})
				hasWord = true
			}
		}

		if !hasWord {
			return ErrMalformedDictionary
		}
	}
	return nil
}

// materialize resolves each lattice Node's WordInfo and converts it to a
// plugin.PathNode, computing byte ranges via the frozen buffer.
func (t *StatefulTokenizer) materialize(entries []lattice.PathEntry) ([]plugin.PathNode, error) {
	out := make([]plugin.PathNode, 0, len(entries))
	for _, e := range entries {
		n := e.Node
		beginBytes := uint16(t.buf.ToCurrentByteIdx(int(n.Begin)))
		endBytes := uint16(t.buf.ToCurrentByteIdx(int(n.End)))
		var info lexicon.WordInfo
		var err error
		if !n.WordID.IsOOV() {
			info, err = t.dict.Lexicon().GetWordInfo(n.WordID)
			if err != nil {
				return nil, fmt.Errorf("tokenizer: word info: %w", err)
			}
		} else {
			info.Surface = t.buf.Modified()[beginBytes:endBytes]
		}
		out = append(out, plugin.PathNode{
			Begin:         n.Begin,
			End:           n.End,
			BeginBytes:    beginBytes,
			EndBytes:      endBytes,
			PosID:         grammar.PosID(info.PosID),
			WordID:        n.WordID,
			Surface:       t.buf.Modified()[beginBytes:endBytes],
			DicFormWordID: info.DictionaryFormWordID,
			IsOOV:         n.WordID.IsOOV(),
			TotalCost:     e.TotalCost,
		})
	}
	return out, nil
}

// splitPath expands each PathNode whose referenced word has an A/B-unit
// split into its sub-nodes (spec.md §4.10 step 8).
func (t *StatefulTokenizer) splitPath(path []plugin.PathNode, mode SplitMode) ([]plugin.PathNode, error) {
	var out []plugin.PathNode
	for _, n := range path {
		if n.IsOOV {
			out = append(out, n)
			continue
		}
		info, err := t.dict.Lexicon().GetWordInfo(n.WordID)
		if err != nil {
			return nil, fmt.Errorf("tokenizer: word info: %w", err)
		}
		var split []lexicon.WordID
		switch mode {
		case SplitA:
			split = info.AUnitSplit
		case SplitB:
			split = info.BUnitSplit
		}
		if len(split) == 0 {
			out = append(out, n)
			continue
		}
		byteOff := n.BeginBytes
		for _, wid := range split {
			subInfo, err := t.dict.Lexicon().GetWordInfo(wid)
			if err != nil {
				return nil, fmt.Errorf("tokenizer: sub-word info: %w", err)
			}
			end := byteOff + subInfo.HeadWordLength
			out = append(out, plugin.PathNode{
				Begin:         uint16(t.buf.CharIdxOfByte(int(byteOff))),
				End:           uint16(t.buf.CharIdxOfByte(int(end))),
				BeginBytes:    byteOff,
				EndBytes:      end,
				PosID:         grammar.PosID(subInfo.PosID),
				WordID:        wid,
				Surface:       t.buf.Modified()[byteOff:end],
				DicFormWordID: subInfo.DictionaryFormWordID,
			})
			byteOff = end
		}
	}
	return out, nil
}

// toResultNodes converts the final path into ResultNodes, looking up each
// non-OOV node's full WordInfo subset and synthesizing one for OOV/merged
// nodes from what the path already carries.
func (t *StatefulTokenizer) toResultNodes(path []plugin.PathNode) ([]morpheme.ResultNode, error) {
	out := make([]morpheme.ResultNode, 0, len(path))
	for _, n := range path {
		var info lexicon.WordInfo
		var err error
		if !n.IsOOV {
			info, err = t.dict.Lexicon().GetWordInfoSubset(n.WordID, lexicon.SubsetAll)
			if err != nil {
				return nil, fmt.Errorf("tokenizer: word info subset: %w", err)
			}
		} else {
			info = lexicon.WordInfo{
				Surface:              n.Surface,
				HeadWordLength:       n.EndBytes - n.BeginBytes,
				PosID:                n.PosID,
				NormalizedForm:       n.Surface,
				DictionaryFormWordID: -1,
				DictionaryForm:       n.Surface,
				ReadingForm:          n.Surface,
			}
			if n.NormalizedForm != "" {
				info.NormalizedForm = n.NormalizedForm
			}
		}
		out = append(out, morpheme.ResultNode{
			Node: lattice.Node{
				Begin:  n.Begin,
				End:    n.End,
				WordID: n.WordID,
			},
			TotalCost:  n.TotalCost,
			BeginBytes: n.BeginBytes,
			EndBytes:   n.EndBytes,
			Info:       info,
		})
	}
	return out, nil
}

// ResolveUserDictionaryCosts implements the user-dictionary cost bootstrap
// (spec.md §4.5, §9, §10 "User-dictionary cost bootstrap circularity"):
// for every word the just-added user dictionary left at the sentinel
// math.MinInt16 cost, tokenize its surface in mode C using tok (which must
// already see the new dictionary through dict.Lexicon()), then derive
//
//	internal_cost = last.total_cost - first.total_cost
//	cost = clamp(internal_cost + (-20)*num_morphemes, MinInt16, MaxInt16)
//
// and writes it into the lexicon's cost overlay before any caller-facing
// tokenization runs.
func ResolveUserDictionaryCosts(dict *dic.Dictionary, tok *StatefulTokenizer) error {
	const costPerMorpheme = -20
	pending := dict.Lexicon().PendingCostWords()
	for _, wid := range pending {
		info, err := dict.Lexicon().GetWordInfo(wid)
		if err != nil {
			return fmt.Errorf("tokenizer: cost bootstrap: %w", err)
		}
		list, err := tok.Tokenize(info.Surface, SplitC)
		if err != nil {
			return fmt.Errorf("tokenizer: cost bootstrap: tokenize %q: %w", info.Surface, err)
		}
		if list.Len() == 0 {
			continue
		}
		first := list.Node(0).TotalCost
		last := list.Node(list.Len() - 1).TotalCost
		internal := last - first
		cost := internal + costPerMorpheme*int32(list.Len())
		if cost > math.MaxInt16 {
			cost = math.MaxInt16
		}
		if cost < math.MinInt16 {
			cost = math.MinInt16
		}
		if err := dict.Lexicon().SetWordParamCost(wid, int16(cost)); err != nil {
			return fmt.Errorf("tokenizer: cost bootstrap: %w", err)
		}
	}
	return nil
}
