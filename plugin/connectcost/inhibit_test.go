package connectcost

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudachigo/sudachigo/dic/grammar"
)

func buildGrammarBytes(numLeft, numRight int16, matrix []int16) []byte {
	var b []byte
	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], 0) // posSize = 0
	b = append(b, u16[:]...)
	binary.LittleEndian.PutUint16(u16[:], uint16(numLeft))
	b = append(b, u16[:]...)
	binary.LittleEndian.PutUint16(u16[:], uint16(numRight))
	b = append(b, u16[:]...)
	for _, c := range matrix {
		binary.LittleEndian.PutUint16(u16[:], uint16(c))
		b = append(b, u16[:]...)
	}
	return b
}

func TestInhibitConnectionOverridesConfiguredPairsOnly(t *testing.T) {
	g, _, err := grammar.Parse(buildGrammarBytes(2, 2, []int16{0, 1, 2, 3}))
	require.NoError(t, err)

	p := &InhibitConnection{Pairs: [][2]int16{{1, 0}}}
	require.NoError(t, p.SetUp(g))

	assert.Equal(t, grammar.InhibitedConnection, g.GetConnectCost(1, 0))
	assert.Equal(t, int16(0), g.GetConnectCost(0, 0))
	assert.Equal(t, int16(2), g.GetConnectCost(0, 1))
	assert.Equal(t, int16(3), g.GetConnectCost(1, 1))
}
