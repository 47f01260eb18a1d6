package lexicon

import "fmt"

// ErrTooManyDictionaries is returned when a 16th lexicon would be added.
var ErrTooManyDictionaries = fmt.Errorf("lexicon: cannot load more than %d dictionaries", MaxDictionaries)

// userEntry pairs a user lexicon with the POS-id offset it was registered
// at in the shared grammar (spec.md §4.6: "User POS ids >= the user-POS
// offset are rebased onto the current dictionary's POS offset").
type userEntry struct {
	lex       *Lexicon
	posOffset int
}

// Set composes a system lexicon with up to 14 user lexicons (15
// dictionaries in all, MaxDictionaries), dedicating
// the top 4 bits of WordID to the dictionary id (spec.md §3, §4.6).
type Set struct {
	system *Lexicon
	users  []userEntry
}

// NewSet wraps a system lexicon as the base of a new Set. The system
// lexicon always gets dictionary id 0.
func NewSet(system *Lexicon) *Set {
	system.SetDictID(0)
	return &Set{system: system}
}

// AddUser registers a user lexicon, assigning it the next free dictionary
// id (1..14). posOffset is the POS-id offset returned by a prior call to
// grammar.Grammar.Merge for this dictionary's POS entries.
func (s *Set) AddUser(lex *Lexicon, posOffset int) error {
	if len(s.users) >= MaxDictionaries-1 {
		return ErrTooManyDictionaries
	}
	dictID := len(s.users) + 1
	lex.SetDictID(dictID)
	s.users = append(s.users, userEntry{lex: lex, posOffset: posOffset})
	return nil
}

// Lookup queries user lexicons first, in reverse registration order, then
// the system lexicon, concatenating results (spec.md §4.6).
func (s *Set) Lookup(input []byte, off int) ([]LookupHit, error) {
	var hits []LookupHit
	for i := len(s.users) - 1; i >= 0; i-- {
		h, err := s.users[i].lex.Lookup(input, off)
		if err != nil {
			return nil, err
		}
		hits = append(hits, h...)
	}
	h, err := s.system.Lookup(input, off)
	if err != nil {
		return nil, err
	}
	hits = append(hits, h...)
	return hits, nil
}

func (s *Set) lexiconFor(dictID int) (*Lexicon, int, error) {
	if dictID == 0 {
		return s.system, 0, nil
	}
	idx := dictID - 1
	if idx < 0 || idx >= len(s.users) {
		return nil, 0, fmt.Errorf("lexicon: word id references unknown dictionary %d", dictID)
	}
	return s.users[idx].lex, s.users[idx].posOffset, nil
}

// GetWordParam dispatches by the WordID's encoded dictionary id.
func (s *Set) GetWordParam(id WordID) (WordParam, error) {
	lex, _, err := s.lexiconFor(id.DictID())
	if err != nil {
		return WordParam{}, err
	}
	return lex.GetWordParam(id.WordIndex()), nil
}

// GetWordInfo decodes the full WordInfo for id, translating split/
// word-structure references and rebasing the POS id per spec.md §4.6:
// a split reference with dictionary id 0 always means system; dictionary
// id > 0 inside a user dictionary means "the same user dictionary" and is
// rewritten to that dictionary's actual id on read.
func (s *Set) GetWordInfo(id WordID) (WordInfo, error) {
	lex, posOffset, err := s.lexiconFor(id.DictID())
	if err != nil {
		return WordInfo{}, err
	}
	wi, err := lex.GetWordInfo(id.WordIndex())
	if err != nil {
		return WordInfo{}, err
	}
	return s.rebase(wi, id.DictID(), posOffset), nil
}

// GetWordInfoSubset decodes only the requested fields, applying the same
// split-reference and POS rebasing as GetWordInfo.
func (s *Set) GetWordInfoSubset(id WordID, subset Subset) (WordInfo, error) {
	lex, posOffset, err := s.lexiconFor(id.DictID())
	if err != nil {
		return WordInfo{}, err
	}
	wi, err := lex.GetWordInfoSubset(id.WordIndex(), subset)
	if err != nil {
		return WordInfo{}, err
	}
	return s.rebase(wi, id.DictID(), posOffset), nil
}

// rebase adds a user dictionary's POS merge offset to WordInfo.PosID: the
// compiler stores each user word's POS as a local index into that
// dictionary's own POS sub-list, appended onto the shared grammar's table
// by grammar.Grammar.Merge at load time (spec.md §4.6's "User POS ids ...
// rebased onto the current dictionary's POS offset" — resolved here as
// "always rebase for non-system owners", see DESIGN.md).
func (s *Set) rebase(wi WordInfo, ownerDictID int, posOffset int) WordInfo {
	if ownerDictID != 0 {
		wi.PosID += PosID(posOffset)
	}
	wi.AUnitSplit = s.rewriteRefs(wi.AUnitSplit, ownerDictID)
	wi.BUnitSplit = s.rewriteRefs(wi.BUnitSplit, ownerDictID)
	wi.WordStructure = s.rewriteRefs(wi.WordStructure, ownerDictID)
	return wi
}

// rewriteRefs rewrites a list of split/structure WordIDs recorded relative
// to their owning dictionary: a dictionary id of 0 always means the
// system dictionary; any other dictionary id inside a user dictionary's
// record means "this same user dictionary" and must be rewritten to the
// owner's real (possibly non-zero) dictionary id.
func (s *Set) rewriteRefs(ids []WordID, ownerDictID int) []WordID {
	if ids == nil || ownerDictID == 0 {
		return ids
	}
	out := make([]WordID, len(ids))
	for i, id := range ids {
		if id.DictID() == 0 {
			out[i] = id // system reference, unchanged
		} else {
			out[i] = NewWordID(ownerDictID, id.WordIndex())
		}
	}
	return out
}

// Size returns the total number of words across all loaded dictionaries.
func (s *Set) Size() int {
	total := s.system.Size()
	for _, u := range s.users {
		total += u.lex.Size()
	}
	return total
}

// PendingCostWords returns the WordIDs of the most recently registered
// user dictionary whose cost is still the unresolved sentinel, for the
// load-time bootstrap of spec.md §4.5/§9.
func (s *Set) PendingCostWords() []WordID {
	if len(s.users) == 0 {
		return nil
	}
	last := len(s.users) - 1
	dictID := last + 1
	idxs := s.users[last].lex.SentinelCostIndices()
	out := make([]WordID, len(idxs))
	for i, idx := range idxs {
		out[i] = NewWordID(dictID, idx)
	}
	return out
}

// SetWordParamCost installs a derived cost override for a word (spec.md
// §4.5, §9) in the lexicon its dictionary id selects; id 0 selects the
// system lexicon and is accepted like any user id. Only an unknown
// dictionary id is an error.
func (s *Set) SetWordParamCost(id WordID, cost int16) error {
	lex, _, err := s.lexiconFor(id.DictID())
	if err != nil {
		return err
	}
	lex.SetWordParamCost(id.WordIndex(), cost)
	return nil
}
