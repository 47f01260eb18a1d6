package lexicon

import (
	"fmt"

	"github.com/sudachigo/sudachigo/internal/binutil"
)

// WordInfo is the full record of a dictionary word, loaded on demand with
// a field-subset filter for performance (spec.md §3, §6).
type WordInfo struct {
	Surface              string
	HeadWordLength        uint16 // bytes of Surface in normalized text
	PosID                 PosID
	NormalizedForm        string
	DictionaryFormWordID  int32 // -1 means "self"
	DictionaryForm        string
	ReadingForm           string
	AUnitSplit            []WordID
	BUnitSplit            []WordID
	WordStructure         []WordID
	SynonymGroupIDs       []uint32
}

// PosID mirrors grammar.PosID to avoid an import cycle; the lexicon
// package only needs the numeric id, not the grammar's table.
type PosID = int16

// Subset is a bitset selecting which WordInfo fields get_word_info_subset
// decodes; unrequested variable-length fields are skipped by reading only
// their length prefix (spec.md §4.5).
type Subset uint32

const (
	SubsetSurface Subset = 1 << iota
	SubsetHeadWordLength
	SubsetPosID
	SubsetNormalizedForm
	SubsetDicFormWordID
	SubsetReadingForm
	SubsetSplitA
	SubsetSplitB
	SubsetWordStructure
	SubsetSynonymGroupID

	SubsetAll = SubsetSurface | SubsetHeadWordLength | SubsetPosID |
		SubsetNormalizedForm | SubsetDicFormWordID | SubsetReadingForm |
		SubsetSplitA | SubsetSplitB | SubsetWordStructure | SubsetSynonymGroupID
)

// wordInfoReader decodes WordInfo records from the raw winfo_records
// section, using the winfo_offsets table to locate each record, and
// resolves dictionary-form references and the documented empty-string
// fallbacks (spec.md §4.5, §9 "Cyclic dictionary references").
type wordInfoReader struct {
	raw              []byte
	offsets          []uint32 // absolute offsets into raw, one per word index
	hasSynonymGroups bool
}

func newWordInfoReader(raw []byte, offsets []uint32, hasSynonymGroups bool) *wordInfoReader {
	return &wordInfoReader{raw: raw, offsets: offsets, hasSynonymGroups: hasSynonymGroups}
}

// GetWordInfo decodes the full record for idx.
func (r *wordInfoReader) GetWordInfo(idx uint32) (WordInfo, error) {
	return r.GetWordInfoSubset(idx, SubsetAll)
}

// GetWordInfoSubset decodes only the fields selected by subset. Each field
// is parsed sequentially in its on-disk order; fields not selected are
// skipped via their length prefix only, never fully decoded.
func (r *wordInfoReader) GetWordInfoSubset(idx uint32, subset Subset) (WordInfo, error) {
	if int(idx) >= len(r.offsets) {
		return WordInfo{}, fmt.Errorf("lexicon: word info index %d out of range", idx)
	}
	off := int(r.offsets[idx])
	var wi WordInfo
	var err error

	if subset&SubsetSurface != 0 {
		wi.Surface, off, err = binutil.UTF16String(r.raw, off)
	} else {
		off, err = binutil.SkipUTF16String(r.raw, off)
	}
	if err != nil {
		return WordInfo{}, fmt.Errorf("lexicon: word %d surface: %w", idx, err)
	}

	// head_word_length: 1 byte, or a 2-byte extended form when the high
	// bit of the first byte is set (mirrors the string length prefix
	// encoding so very long surfaces in normalized text still fit).
	var headLen uint16
	headLen, off, err = readHeadWordLength(r.raw, off)
	if err != nil {
		return WordInfo{}, fmt.Errorf("lexicon: word %d head length: %w", idx, err)
	}
	if subset&SubsetHeadWordLength != 0 {
		wi.HeadWordLength = headLen
	}

	posRaw, off2, err := binutil.U16(r.raw, off)
	off = off2
	if err != nil {
		return WordInfo{}, fmt.Errorf("lexicon: word %d pos: %w", idx, err)
	}
	if subset&SubsetPosID != 0 {
		wi.PosID = PosID(posRaw)
	}

	if subset&SubsetNormalizedForm != 0 {
		wi.NormalizedForm, off, err = binutil.UTF16String(r.raw, off)
	} else {
		off, err = binutil.SkipUTF16String(r.raw, off)
	}
	if err != nil {
		return WordInfo{}, fmt.Errorf("lexicon: word %d normalized form: %w", idx, err)
	}

	dicFormID, off3, err := binutil.I32(r.raw, off)
	off = off3
	if err != nil {
		return WordInfo{}, fmt.Errorf("lexicon: word %d dic form id: %w", idx, err)
	}
	if subset&SubsetDicFormWordID != 0 {
		wi.DictionaryFormWordID = dicFormID
	}

	if subset&SubsetReadingForm != 0 {
		wi.ReadingForm, off, err = binutil.UTF16String(r.raw, off)
	} else {
		off, err = binutil.SkipUTF16String(r.raw, off)
	}
	if err != nil {
		return WordInfo{}, fmt.Errorf("lexicon: word %d reading form: %w", idx, err)
	}

	var splitA, splitB, structure []uint32
	if subset&SubsetSplitA != 0 {
		splitA, off, err = binutil.U32Array(r.raw, off)
	} else {
		off, err = binutil.SkipU32Array(r.raw, off)
	}
	if err != nil {
		return WordInfo{}, fmt.Errorf("lexicon: word %d split a: %w", idx, err)
	}

	if subset&SubsetSplitB != 0 {
		splitB, off, err = binutil.U32Array(r.raw, off)
	} else {
		off, err = binutil.SkipU32Array(r.raw, off)
	}
	if err != nil {
		return WordInfo{}, fmt.Errorf("lexicon: word %d split b: %w", idx, err)
	}

	if subset&SubsetWordStructure != 0 {
		structure, off, err = binutil.U32Array(r.raw, off)
	} else {
		off, err = binutil.SkipU32Array(r.raw, off)
	}
	if err != nil {
		return WordInfo{}, fmt.Errorf("lexicon: word %d word structure: %w", idx, err)
	}
	wi.AUnitSplit = toWordIDs(splitA)
	wi.BUnitSplit = toWordIDs(splitB)
	wi.WordStructure = toWordIDs(structure)

	if r.hasSynonymGroups {
		if subset&SubsetSynonymGroupID != 0 {
			wi.SynonymGroupIDs, off, err = binutil.U32Array(r.raw, off)
		} else {
			off, err = binutil.SkipU32Array(r.raw, off)
		}
		if err != nil {
			return WordInfo{}, fmt.Errorf("lexicon: word %d synonym group ids: %w", idx, err)
		}
	}
	_ = off

	// Fallback rules: empty requested strings inherit from surface/headword.
	if subset&SubsetNormalizedForm != 0 && wi.NormalizedForm == "" {
		wi.NormalizedForm = wi.Surface
	}
	if subset&SubsetReadingForm != 0 && wi.ReadingForm == "" {
		wi.ReadingForm = wi.Surface
	}

	// Dictionary-form resolution: one level of indirection only (spec.md
	// §9). If the reference equals the current word, or is -1, treat as
	// self rather than recursing.
	if subset&SubsetDicFormWordID != 0 {
		if dicFormID < 0 || uint32(dicFormID) == idx {
			wi.DictionaryForm = wi.Surface
		} else {
			referent, err := r.GetWordInfoSubset(uint32(dicFormID), SubsetSurface)
			if err != nil {
				return WordInfo{}, fmt.Errorf("lexicon: word %d dictionary form: %w", idx, err)
			}
			wi.DictionaryForm = referent.Surface
		}
	}

	return wi, nil
}

func toWordIDs(raw []uint32) []WordID {
	if raw == nil {
		return nil
	}
	out := make([]WordID, len(raw))
	for i, v := range raw {
		out[i] = WordID(v)
	}
	return out
}

func readHeadWordLength(b []byte, off int) (uint16, int, error) {
	if off >= len(b) {
		return 0, off, fmt.Errorf("lexicon: %w", binutil.ErrShortBuffer)
	}
	b0 := b[off]
	if b0&0x80 == 0 {
		return uint16(b0), off + 1, nil
	}
	if off+2 > len(b) {
		return 0, off, fmt.Errorf("lexicon: %w", binutil.ErrShortBuffer)
	}
	b1 := b[off+1]
	return uint16(b0&0x7F)<<8 | uint16(b1), off + 2, nil
}
