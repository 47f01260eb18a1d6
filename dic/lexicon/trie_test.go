package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTrieUnits hand-assembles the flattened (base, check) double-array
// units for a tiny trie over two keys sharing a prefix: "a" (value 5) and
// "ab" (value 7). Root is state 0; 'a' (0x61) transitions to state 98
// (value 5, base reused as the child-transition offset for 'b'); 'b'
// (0x62) from state 98 transitions to state 93 (value 7, a leaf).
func buildTrieUnits(size int) []uint32 {
	base := make([]int32, size)
	check := make([]int32, size)
	base[98] = -6 // value 5: -(5)-1
	check[98] = 0
	base[93] = -8 // value 7: -(7)-1
	check[93] = 98

	units := make([]uint32, size*2)
	for i := 0; i < size; i++ {
		units[2*i] = uint32(base[i])
		units[2*i+1] = uint32(check[i])
	}
	return units
}

func TestCommonPrefixSearchFindsNestedKeys(t *testing.T) {
	trie := NewTrie(buildTrieUnits(99))
	hits := trie.CommonPrefixSearch([]byte("abc"), 0)
	require.Len(t, hits, 2)
	assert.Equal(t, PrefixHit{Value: 5, End: 1}, hits[0])
	assert.Equal(t, PrefixHit{Value: 7, End: 2}, hits[1])
}

func TestCommonPrefixSearchNoMatchReturnsEmpty(t *testing.T) {
	trie := NewTrie(buildTrieUnits(99))
	hits := trie.CommonPrefixSearch([]byte("xyz"), 0)
	assert.Empty(t, hits)
}

func TestCommonPrefixSearchAtNonZeroOffset(t *testing.T) {
	trie := NewTrie(buildTrieUnits(99))
	hits := trie.CommonPrefixSearch([]byte("xab"), 1)
	require.Len(t, hits, 2)
	assert.Equal(t, 2, hits[0].End)
	assert.Equal(t, 3, hits[1].End)
}

func TestCommonPrefixSearchStopsAtInputEnd(t *testing.T) {
	trie := NewTrie(buildTrieUnits(99))
	hits := trie.CommonPrefixSearch([]byte("a"), 0)
	require.Len(t, hits, 1)
	assert.Equal(t, uint32(5), hits[0].Value)
}
