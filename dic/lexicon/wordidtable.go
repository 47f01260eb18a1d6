package lexicon

import (
	"fmt"

	"github.com/sudachigo/sudachigo/internal/binutil"
)

// wordIDTable is a sequence of length-prefixed (u8 count) arrays of u32
// word ids, addressed by byte offset (spec.md §3, §6).
type wordIDTable struct {
	raw []byte
}

func newWordIDTable(raw []byte) *wordIDTable {
	return &wordIDTable{raw: raw}
}

// entries returns the raw dictionary-local word indices stored at offset.
func (t *wordIDTable) entries(offset uint32) ([]uint32, error) {
	ids, _, err := binutil.U32Array(t.raw, int(offset))
	if err != nil {
		return nil, fmt.Errorf("lexicon: word-id table at %d: %w", offset, err)
	}
	return ids, nil
}
