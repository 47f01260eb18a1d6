package lexicon

// WordID is a composite 32-bit identifier: the top 4 bits hold the
// dictionary id (0 = system, 1..14 = user, 15 = OOV/special sentinel),
// the low 28 bits hold the word index within that dictionary (spec.md §3).
type WordID uint32

const (
	dictIDShift = 28
	dictIDMask  = uint32(0xF) << dictIDShift
	wordIdxMask = uint32(1)<<dictIDShift - 1

	// MaxDictionaries is the maximum number of lexicons (system + user)
	// that may be loaded concurrently (spec.md §3).
	MaxDictionaries = 15

	// OOVDictID is the sentinel dictionary id reserved for OOV / BOS / EOS
	// nodes, which do not reference any loaded lexicon.
	OOVDictID = 15

	// Invalid is the sentinel WordID meaning "no word" (spec.md §6).
	Invalid WordID = 0xFFFFFFFF
)

// NewWordID packs a dictionary id and a within-dictionary word index.
func NewWordID(dictID int, wordIdx uint32) WordID {
	return WordID(uint32(dictID)<<dictIDShift | (wordIdx & wordIdxMask))
}

// DictID returns the dictionary id encoded in w.
func (w WordID) DictID() int { return int(uint32(w) >> dictIDShift) }

// WordIndex returns the within-dictionary word index encoded in w.
func (w WordID) WordIndex() uint32 { return uint32(w) & wordIdxMask }

// IsOOV reports whether w carries the OOV/special sentinel dictionary id.
func (w WordID) IsOOV() bool { return w.DictID() == OOVDictID }
