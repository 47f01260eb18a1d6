// Package morpheme is the result surface: ResultNode and MorphemeList
// give callers indexed access, iteration, and range-translated slicing
// back into the original string (spec.md §3, §4.11).
package morpheme

import (
	"github.com/sudachigo/sudachigo/analysis/inputtext"
	"github.com/sudachigo/sudachigo/analysis/lattice"
	"github.com/sudachigo/sudachigo/dic/grammar"
	"github.com/sudachigo/sudachigo/dic/lexicon"
)

// ResultNode is a lattice Node materialized with its WordInfo and
// byte-range bounds, ready to hand back to callers (spec.md §3).
type ResultNode struct {
	lattice.Node
	TotalCost       int32
	BeginBytes      uint16
	EndBytes        uint16
	Info            lexicon.WordInfo
}

// Projection selects which textual field MorphemeList.Project returns.
// Supplemented from original_source/python/src/projection.rs (spec.md §5
// of SPEC_FULL.md).
type Projection int

const (
	ProjectSurface Projection = iota
	ProjectNormalizedForm
	ProjectReadingForm
	ProjectDictionaryForm
	ProjectPartOfSpeech
)

// List is the shared, reference-counted handle to an input buffer plus an
// owned slice of ResultNodes (spec.md §3 MorphemeList).
//
// The list shares buf with the StatefulTokenizer that produced it; a
// second call to the tokenizer's Tokenize decouples it by giving the
// tokenizer a fresh buffer rather than mutating this one (spec.md §5
// "producing a second MorphemeList ... does not invalidate it").
type List struct {
	buf     *inputtext.Buffer
	gram    *grammar.Grammar
	lexSet  *lexicon.Set
	nodes   []ResultNode
}

// New wraps nodes produced by a tokenizer run together with the buffer and
// grammar/lexicon needed to resolve surfaces and splits.
func New(buf *inputtext.Buffer, gram *grammar.Grammar, lexSet *lexicon.Set, nodes []ResultNode) *List {
	return &List{buf: buf, gram: gram, lexSet: lexSet, nodes: nodes}
}

// Len returns the number of morphemes.
func (l *List) Len() int { return len(l.nodes) }

// Node returns the ResultNode at index i.
func (l *List) Node(i int) ResultNode { return l.nodes[i] }

// Surface returns the original-text slice for morpheme i, translated
// through the buffer's byte maps (spec.md §4.11: "surface(i) returns a
// slice of the ORIGINAL text").
func (l *List) Surface(i int) string {
	n := l.nodes[i]
	return l.buf.OrigSlice(int(n.BeginBytes), int(n.EndBytes))
}

// PosID returns the POS id of morpheme i.
func (l *List) PosID(i int) grammar.PosID { return grammar.PosID(l.nodes[i].Info.PosID) }

// POS returns the six-field POS tuple of morpheme i.
func (l *List) POS(i int) grammar.POS {
	pos, _ := l.gram.GetPartOfSpeechString(l.PosID(i))
	return pos
}

// NormalizedForm returns the normalized form of morpheme i.
func (l *List) NormalizedForm(i int) string { return l.nodes[i].Info.NormalizedForm }

// ReadingForm returns the reading form of morpheme i.
func (l *List) ReadingForm(i int) string { return l.nodes[i].Info.ReadingForm }

// DictionaryForm returns the dictionary (citation) form of morpheme i.
func (l *List) DictionaryForm(i int) string { return l.nodes[i].Info.DictionaryForm }

// BeginChar returns the char index where morpheme i begins in modified text.
func (l *List) BeginChar(i int) int { return int(l.nodes[i].Begin) }

// EndChar returns the char index where morpheme i ends in modified text.
func (l *List) EndChar(i int) int { return int(l.nodes[i].End) }

// BeginByte returns the original-text byte offset where morpheme i begins.
func (l *List) BeginByte(i int) int { return int(l.nodes[i].BeginBytes) }

// EndByte returns the original-text byte offset where morpheme i ends.
func (l *List) EndByte(i int) int { return int(l.nodes[i].EndBytes) }

// IsOOV reports whether morpheme i was produced by an OOV plugin rather
// than a dictionary lookup.
func (l *List) IsOOV(i int) bool { return l.nodes[i].WordID.IsOOV() }

// WordID returns the composite WordID of morpheme i.
func (l *List) WordID(i int) lexicon.WordID { return l.nodes[i].WordID }

// DictionaryID returns the dictionary id encoded in morpheme i's WordID.
func (l *List) DictionaryID(i int) int { return l.nodes[i].WordID.DictID() }

// SynonymGroupIDs returns the synonym group ids of morpheme i, if any.
func (l *List) SynonymGroupIDs(i int) []uint32 { return l.nodes[i].Info.SynonymGroupIDs }

// Project returns the textual field selected by mode for morpheme i.
func (l *List) Project(i int, mode Projection) string {
	switch mode {
	case ProjectNormalizedForm:
		return l.NormalizedForm(i)
	case ProjectReadingForm:
		return l.ReadingForm(i)
	case ProjectDictionaryForm:
		return l.DictionaryForm(i)
	case ProjectPartOfSpeech:
		pos := l.POS(i)
		return pos[0]
	default:
		return l.Surface(i)
	}
}

// SplitInto populates other with the A-unit or B-unit sub-splits of node
// i, using the lexicon set to resolve each sub-word's length and
// WordInfo (spec.md §4.11). Returns false if node i has no split for the
// given mode.
func (l *List) SplitInto(mode SplitMode, i int, other *List) bool {
	n := l.nodes[i]
	var split []lexicon.WordID
	switch mode {
	case SplitA:
		split = n.Info.AUnitSplit
	case SplitB:
		split = n.Info.BUnitSplit
	default:
		return false
	}
	if len(split) == 0 {
		return false
	}

	sub := make([]ResultNode, 0, len(split))
	charOffset := n.Begin
	byteOffset := n.BeginBytes
	for _, wid := range split {
		info, err := l.lexSet.GetWordInfo(wid)
		if err != nil {
			return false
		}
		param, err := l.lexSet.GetWordParam(wid)
		if err != nil {
			return false
		}
		length := uint16(len([]rune(info.Surface)))
		rn := ResultNode{
			Node: lattice.Node{
				Begin:   charOffset,
				End:     charOffset + length,
				LeftID:  uint16(param.LeftID),
				RightID: uint16(param.RightID),
				Cost:    param.Cost,
				WordID:  wid,
			},
			BeginBytes: byteOffset,
			EndBytes:   byteOffset + info.HeadWordLength,
			Info:       info,
		}
		sub = append(sub, rn)
		charOffset = rn.End
		byteOffset = rn.EndBytes
	}

	other.buf = l.buf
	other.gram = l.gram
	other.lexSet = l.lexSet
	other.nodes = sub
	return true
}

// SplitMode selects short (A), middle (B) or named-entity (C) granularity
// (spec.md glossary).
type SplitMode int

const (
	SplitA SplitMode = iota
	SplitB
	SplitC
)
