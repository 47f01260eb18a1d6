package morpheme

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudachigo/sudachigo/analysis/inputtext"
	"github.com/sudachigo/sudachigo/analysis/lattice"
	"github.com/sudachigo/sudachigo/dic/grammar"
	"github.com/sudachigo/sudachigo/dic/lexicon"
)

func utf16Field(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := []byte{byte(len(units))}
	for _, u := range units {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], u)
		out = append(out, b[:]...)
	}
	return out
}

func u32Array(vals []uint32) []byte {
	out := []byte{byte(len(vals))}
	for _, v := range vals {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		out = append(out, b[:]...)
	}
	return out
}

type winfoFixture struct {
	surface, normalized, reading string
	posID                        uint16
	headLen                      byte
}

func encodeWinfo(f winfoFixture) []byte {
	var b []byte
	b = append(b, utf16Field(f.surface)...)
	b = append(b, f.headLen)
	var posBytes [2]byte
	binary.LittleEndian.PutUint16(posBytes[:], f.posID)
	b = append(b, posBytes[:]...)
	b = append(b, utf16Field(f.normalized)...)
	var dicForm [4]byte
	binary.LittleEndian.PutUint32(dicForm[:], uint32(int32(-1)))
	b = append(b, dicForm[:]...)
	b = append(b, utf16Field(f.reading)...)
	b = append(b, u32Array(nil)...) // splitA
	b = append(b, u32Array(nil)...) // splitB
	b = append(b, u32Array(nil)...) // structure
	return b
}

// buildTwoWordLexiconBytes builds a lexicon with two single-character
// ASCII keys "x" and "y", each with one word.
func buildTwoWordLexiconBytes() []byte {
	const nStates = 200
	base := make([]int32, nStates)
	check := make([]int32, nStates)
	base[int('x')+1] = -1
	base[int('y')+1] = -6
	trieUnits := make([]uint32, nStates*2)
	for i := 0; i < nStates; i++ {
		trieUnits[2*i] = uint32(base[i])
		trieUnits[2*i+1] = uint32(check[i])
	}

	widTable := []byte{1, 0, 0, 0, 0, 1, 1, 0, 0, 0}

	var wparams []byte
	for _, triple := range [][3]int16{{0, 0, 1}, {0, 0, 2}} {
		var t [6]byte
		binary.LittleEndian.PutUint16(t[0:], uint16(triple[0]))
		binary.LittleEndian.PutUint16(t[2:], uint16(triple[1]))
		binary.LittleEndian.PutUint16(t[4:], uint16(triple[2]))
		wparams = append(wparams, t[:]...)
	}

	fixtures := []winfoFixture{
		{surface: "x", headLen: 1, posID: 0, normalized: "x", reading: "X"},
		{surface: "y", headLen: 1, posID: 1, normalized: "y", reading: "Y"},
	}
	var winfoRaw []byte
	offsets := make([]uint32, len(fixtures))
	for i, f := range fixtures {
		offsets[i] = uint32(len(winfoRaw))
		winfoRaw = append(winfoRaw, encodeWinfo(f)...)
	}

	var b []byte
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(trieUnits)))
	b = append(b, u32[:]...)
	for _, u := range trieUnits {
		binary.LittleEndian.PutUint32(u32[:], u)
		b = append(b, u32[:]...)
	}
	binary.LittleEndian.PutUint32(u32[:], uint32(len(widTable)))
	b = append(b, u32[:]...)
	b = append(b, widTable...)
	binary.LittleEndian.PutUint32(u32[:], uint32(len(wparams)/6))
	b = append(b, u32[:]...)
	b = append(b, wparams...)
	base2 := uint32(len(b)) + uint32(len(offsets))*4
	for _, off := range offsets {
		binary.LittleEndian.PutUint32(u32[:], base2+off)
		b = append(b, u32[:]...)
	}
	b = append(b, winfoRaw...)
	return b
}

func buildGrammarBytes() []byte {
	var b []byte
	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], 2) // posSize = 2
	b = append(b, u16[:]...)
	for _, pos := range []grammar.POS{
		{"名詞", "*", "*", "*", "*", "*"},
		{"動詞", "*", "*", "*", "*", "*"},
	} {
		for _, field := range pos {
			b = append(b, utf16Field(field)...)
		}
	}
	binary.LittleEndian.PutUint16(u16[:], 1) // leftSize
	b = append(b, u16[:]...)
	binary.LittleEndian.PutUint16(u16[:], 1) // rightSize
	b = append(b, u16[:]...)
	binary.LittleEndian.PutUint16(u16[:], 0) // matrix[0]
	b = append(b, u16[:]...)
	return b
}

func buildBuffer(t *testing.T, text string) *inputtext.Buffer {
	t.Helper()
	buf := inputtext.NewBuffer()
	require.NoError(t, buf.StartBuild(text))
	require.NoError(t, buf.Commit())
	require.NoError(t, buf.Build(nil))
	return buf
}

func TestListBasicAccessors(t *testing.T) {
	buf := buildBuffer(t, "xy")
	lex, err := lexicon.ParseLexicon(buildTwoWordLexiconBytes(), false)
	require.NoError(t, err)
	lexSet := lexicon.NewSet(lex)
	g, _, err := grammar.Parse(buildGrammarBytes())
	require.NoError(t, err)

	info0, err := lexSet.GetWordInfo(lexicon.NewWordID(0, 0))
	require.NoError(t, err)
	info1, err := lexSet.GetWordInfo(lexicon.NewWordID(0, 1))
	require.NoError(t, err)

	nodes := []ResultNode{
		{Node: lattice.Node{Begin: 0, End: 1, WordID: lexicon.NewWordID(0, 0)}, BeginBytes: 0, EndBytes: 1, Info: info0},
		{Node: lattice.Node{Begin: 1, End: 2, WordID: lexicon.NewWordID(0, 1)}, BeginBytes: 1, EndBytes: 2, Info: info1},
	}
	list := New(buf, g, lexSet, nodes)

	require.Equal(t, 2, list.Len())
	assert.Equal(t, "x", list.Surface(0))
	assert.Equal(t, "y", list.Surface(1))
	assert.Equal(t, grammar.PosID(0), list.PosID(0))
	assert.Equal(t, "名詞", list.POS(0)[0])
	assert.Equal(t, "x", list.NormalizedForm(0))
	assert.Equal(t, "X", list.ReadingForm(0))
	assert.Equal(t, "x", list.DictionaryForm(0))
	assert.Equal(t, 0, list.BeginChar(0))
	assert.Equal(t, 1, list.EndChar(0))
	assert.Equal(t, 1, list.BeginByte(1))
	assert.Equal(t, 2, list.EndByte(1))
	assert.False(t, list.IsOOV(0))
	assert.Equal(t, lexicon.NewWordID(0, 0), list.WordID(0))
	assert.Equal(t, 0, list.DictionaryID(0))
}

func TestListProjectSelectsField(t *testing.T) {
	buf := buildBuffer(t, "x")
	lex, err := lexicon.ParseLexicon(buildTwoWordLexiconBytes(), false)
	require.NoError(t, err)
	lexSet := lexicon.NewSet(lex)
	g, _, err := grammar.Parse(buildGrammarBytes())
	require.NoError(t, err)
	info0, err := lexSet.GetWordInfo(lexicon.NewWordID(0, 0))
	require.NoError(t, err)

	nodes := []ResultNode{{Node: lattice.Node{Begin: 0, End: 1, WordID: lexicon.NewWordID(0, 0)}, BeginBytes: 0, EndBytes: 1, Info: info0}}
	list := New(buf, g, lexSet, nodes)

	assert.Equal(t, "x", list.Project(0, ProjectSurface))
	assert.Equal(t, "x", list.Project(0, ProjectNormalizedForm))
	assert.Equal(t, "X", list.Project(0, ProjectReadingForm))
	assert.Equal(t, "x", list.Project(0, ProjectDictionaryForm))
	assert.Equal(t, "名詞", list.Project(0, ProjectPartOfSpeech))
}

func TestListIsOOVForOOVDictID(t *testing.T) {
	buf := buildBuffer(t, "x")
	lex, err := lexicon.ParseLexicon(buildTwoWordLexiconBytes(), false)
	require.NoError(t, err)
	lexSet := lexicon.NewSet(lex)
	g, _, err := grammar.Parse(buildGrammarBytes())
	require.NoError(t, err)

	nodes := []ResultNode{{Node: lattice.Node{Begin: 0, End: 1, WordID: lexicon.NewWordID(lexicon.OOVDictID, 0)}, BeginBytes: 0, EndBytes: 1}}
	list := New(buf, g, lexSet, nodes)
	assert.True(t, list.IsOOV(0))
}

func TestSplitIntoPopulatesSubNodes(t *testing.T) {
	buf := buildBuffer(t, "xy")
	lex, err := lexicon.ParseLexicon(buildTwoWordLexiconBytes(), false)
	require.NoError(t, err)
	lexSet := lexicon.NewSet(lex)
	g, _, err := grammar.Parse(buildGrammarBytes())
	require.NoError(t, err)

	combined := lexicon.WordInfo{
		Surface:        "xy",
		HeadWordLength: 2,
		AUnitSplit:     []lexicon.WordID{lexicon.NewWordID(0, 0), lexicon.NewWordID(0, 1)},
	}
	nodes := []ResultNode{{Node: lattice.Node{Begin: 0, End: 2, WordID: lexicon.NewWordID(0, 0)}, BeginBytes: 0, EndBytes: 2, Info: combined}}
	list := New(buf, g, lexSet, nodes)

	var sub List
	ok := list.SplitInto(SplitA, 0, &sub)
	require.True(t, ok)
	require.Equal(t, 2, sub.Len())
	assert.Equal(t, "x", sub.Surface(0))
	assert.Equal(t, "y", sub.Surface(1))
	assert.Equal(t, 0, sub.BeginChar(0))
	assert.Equal(t, 1, sub.BeginChar(1))
}

func TestSplitIntoReturnsFalseWhenNoSplit(t *testing.T) {
	buf := buildBuffer(t, "x")
	lex, err := lexicon.ParseLexicon(buildTwoWordLexiconBytes(), false)
	require.NoError(t, err)
	lexSet := lexicon.NewSet(lex)
	g, _, err := grammar.Parse(buildGrammarBytes())
	require.NoError(t, err)

	nodes := []ResultNode{{Node: lattice.Node{Begin: 0, End: 1, WordID: lexicon.NewWordID(0, 0)}, BeginBytes: 0, EndBytes: 1}}
	list := New(buf, g, lexSet, nodes)
	var sub List
	assert.False(t, list.SplitInto(SplitA, 0, &sub))
}
