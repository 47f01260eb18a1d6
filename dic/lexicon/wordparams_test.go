package lexicon

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeWordParams(triples [][3]int16) []byte {
	b := make([]byte, len(triples)*6)
	for i, t := range triples {
		binary.LittleEndian.PutUint16(b[i*6:], uint16(t[0]))
		binary.LittleEndian.PutUint16(b[i*6+2:], uint16(t[1]))
		binary.LittleEndian.PutUint16(b[i*6+4:], uint16(t[2]))
	}
	return b
}

func TestWordParamsGetByOffsetArithmetic(t *testing.T) {
	raw := encodeWordParams([][3]int16{{1, 2, 3}, {4, 5, 6}})
	wp, err := newWordParams(raw, 2)
	require.NoError(t, err)
	assert.Equal(t, WordParam{LeftID: 1, RightID: 2, Cost: 3}, wp.Get(0))
	assert.Equal(t, WordParam{LeftID: 4, RightID: 5, Cost: 6}, wp.Get(1))
	assert.Equal(t, 2, wp.Len())
}

func TestWordParamsOverlayTakesPrecedence(t *testing.T) {
	raw := encodeWordParams([][3]int16{{1, 2, 3}})
	wp, err := newWordParams(raw, 1)
	require.NoError(t, err)
	wp.SetCostOverride(0, 99)
	got := wp.Get(0)
	assert.Equal(t, int16(99), got.Cost)
	assert.Equal(t, int16(1), got.LeftID)
}

func TestSentinelCostIndicesFindsPlaceholderCosts(t *testing.T) {
	sentinel := int16(math.MinInt16)
	raw := encodeWordParams([][3]int16{{1, 2, 3}, {1, 2, sentinel}, {1, 2, 5}, {1, 2, sentinel}})
	wp, err := newWordParams(raw, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 3}, wp.SentinelCostIndices())
}

func TestWordParamsTruncatedBufferFails(t *testing.T) {
	raw := encodeWordParams([][3]int16{{1, 2, 3}})
	_, err := newWordParams(raw[:4], 1)
	assert.Error(t, err)
}
