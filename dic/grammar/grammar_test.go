package grammar

import (
	"encoding/binary"
	"math"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeGrammarSection builds the on-disk grammar layout of spec.md §6:
// pos_size(u16) | pos_list | left_size(i16) | right_size(i16) | matrix.
func encodeGrammarSection(posList []POS, left, right int16, matrix []int16) []byte {
	var b []byte
	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], uint16(len(posList)))
	b = append(b, u16[:]...)
	for _, pos := range posList {
		for _, field := range pos {
			units := utf16.Encode([]rune(field))
			b = append(b, byte(len(units)))
			for _, u := range units {
				var fb [2]byte
				binary.LittleEndian.PutUint16(fb[:], u)
				b = append(b, fb[:]...)
			}
		}
	}
	binary.LittleEndian.PutUint16(u16[:], uint16(left))
	b = append(b, u16[:]...)
	binary.LittleEndian.PutUint16(u16[:], uint16(right))
	b = append(b, u16[:]...)
	for _, v := range matrix {
		binary.LittleEndian.PutUint16(u16[:], uint16(v))
		b = append(b, u16[:]...)
	}
	return b
}

func TestParseGrammarSectionFromBytes(t *testing.T) {
	posList := []POS{{"名詞", "数詞", "*", "*", "*", "*"}}
	matrix := []int16{1, 2, 3, 4}
	raw := encodeGrammarSection(posList, 2, 2, matrix)

	g, n, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, int16(2), g.NumLeft())
	assert.Equal(t, int16(2), g.NumRight())
	assert.Equal(t, int16(1), g.GetConnectCost(0, 0))
	assert.Equal(t, int16(4), g.GetConnectCost(1, 1))
	pos, ok := g.GetPartOfSpeechString(0)
	require.True(t, ok)
	assert.Equal(t, "名詞", pos[0])
}

func TestParseGrammarSectionTruncatedFails(t *testing.T) {
	posList := []POS{{"名詞", "数詞", "*", "*", "*", "*"}}
	raw := encodeGrammarSection(posList, 2, 2, []int16{1, 2, 3, 4})
	_, _, err := Parse(raw[:len(raw)-1])
	assert.Error(t, err)
}

// fixture builds a tiny 2x2 connection matrix directly (bypassing the
// on-disk codec, which binutil_test already covers at the primitive
// level): left ids {0,1}, right ids {0,1}.
func fixtureGrammar() *Grammar {
	return &Grammar{
		posList:  []POS{{"名詞", "数詞", "*", "*", "*", "*"}, {"補助記号", "一般", "*", "*", "*", "*"}},
		numLeft:  2,
		numRight: 2,
		// matrix[right*numLeft+left]
		matrix: []int16{10, 20, 30, 40},
	}
}

func TestGetConnectCostIndexesRowMajorByRight(t *testing.T) {
	g := fixtureGrammar()
	assert.Equal(t, int16(10), g.GetConnectCost(0, 0))
	assert.Equal(t, int16(20), g.GetConnectCost(1, 0))
	assert.Equal(t, int16(30), g.GetConnectCost(0, 1))
	assert.Equal(t, int16(40), g.GetConnectCost(1, 1))
}

func TestSetConnectCostOverridesMatrix(t *testing.T) {
	g := fixtureGrammar()
	g.SetConnectCost(0, 0, InhibitedConnection)
	assert.Equal(t, InhibitedConnection, g.GetConnectCost(0, 0))
	// Unrelated pairs are unaffected.
	assert.Equal(t, int16(20), g.GetConnectCost(1, 0))
}

func TestGetPartOfSpeechIDFindsExactTuple(t *testing.T) {
	g := fixtureGrammar()
	id, ok := g.GetPartOfSpeechID(POS{"名詞", "数詞", "*", "*", "*", "*"})
	require.True(t, ok)
	assert.Equal(t, PosID(0), id)

	_, ok = g.GetPartOfSpeechID(POS{"動詞", "一般", "*", "*", "*", "*"})
	assert.False(t, ok)
}

func TestGetPartOfSpeechStringOutOfRange(t *testing.T) {
	g := fixtureGrammar()
	_, ok := g.GetPartOfSpeechString(99)
	assert.False(t, ok)
	pos, ok := g.GetPartOfSpeechString(1)
	require.True(t, ok)
	assert.Equal(t, "補助記号", pos[0])
}

func TestRegisterPosAppendsAndReturnsNewID(t *testing.T) {
	g := fixtureGrammar()
	id, err := g.RegisterPos(POS{"動詞", "一般", "*", "*", "*", "*"})
	require.NoError(t, err)
	assert.Equal(t, PosID(2), id)
	assert.Equal(t, 3, g.PosSize())
}

func TestMergeAppendsPosListAndReportsOffset(t *testing.T) {
	g := fixtureGrammar()
	other := &Grammar{posList: []POS{{"感動詞", "*", "*", "*", "*", "*"}}}
	offset := g.Merge(other)
	assert.Equal(t, 2, offset)
	assert.Equal(t, 3, g.PosSize())
	assert.Equal(t, 2, g.UserPosOffset())
	pos, ok := g.GetPartOfSpeechString(2)
	require.True(t, ok)
	assert.Equal(t, "感動詞", pos[0])
}

func TestMergeDoesNotTouchConnectionMatrix(t *testing.T) {
	g := fixtureGrammar()
	other := &Grammar{posList: []POS{{"感動詞", "*", "*", "*", "*", "*"}}, numLeft: 9, numRight: 9, matrix: make([]int16, 81)}
	g.Merge(other)
	assert.Equal(t, int16(2), g.NumLeft())
	assert.Equal(t, int16(2), g.NumRight())
}

func TestMatchPOSSelectsByPredicate(t *testing.T) {
	g := fixtureGrammar()
	matcher := g.MatchPOS(func(p POS) bool { return p[0] == "名詞" })
	assert.True(t, matcher.Matches(0))
	assert.False(t, matcher.Matches(1))
}

func TestRegisterPosOverflowFails(t *testing.T) {
	g := &Grammar{posList: make([]POS, math.MaxInt16)}
	_, err := g.RegisterPos(POS{})
	assert.ErrorIs(t, err, ErrPosTableOverflow)
}
