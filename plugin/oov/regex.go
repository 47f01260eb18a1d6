package oov

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/sudachigo/sudachigo/analysis/inputtext"
	"github.com/sudachigo/sudachigo/dic/grammar"
	"github.com/sudachigo/sudachigo/plugin"
)

// RegexOOV proposes one candidate per boundary from the longest anchored
// match of Pattern against the remaining modified text, capped at
// MaxLength characters (spec.md §4.8). Grounded on github.com/dlclark/regexp2,
// the one example-pack library offering .NET-style anchoring and lookaround
// over a Go string (see DESIGN.md).
type RegexOOV struct {
	Pattern         *regexp2.Regexp
	MaxLength       int
	PosID           grammar.PosID
	LeftID, RightID int16
	Cost            int16
}

// NewRegexOOV compiles pattern anchored at the match start (\G is implied
// by matching against the suffix directly) with the given max length.
func NewRegexOOV(pattern string, maxLength int) (*RegexOOV, error) {
	re, err := regexp2.Compile(`\G(?:`+pattern+`)`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("oov: regex: %w", err)
	}
	return &RegexOOV{Pattern: re, MaxLength: maxLength}, nil
}

func (p *RegexOOV) SetUp(gram *grammar.Grammar) error { return nil }

func (p *RegexOOV) IsInvoke(buf *inputtext.Buffer, charIdx int) bool { return false }

func (p *RegexOOV) Candidates(buf *inputtext.Buffer, charIdx int, hasWord bool, out []plugin.OOVCandidate) ([]plugin.OOVCandidate, error) {
	if hasWord || charIdx >= buf.NumChars() {
		return out, nil
	}
	beginByte := buf.ToCurrentByteIdx(charIdx)
	suffix := buf.Modified()[beginByte:]

	m, err := p.Pattern.FindStringMatch(suffix)
	if err != nil {
		return out, fmt.Errorf("oov: regex match: %w", err)
	}
	if m == nil || m.Length == 0 {
		return out, nil
	}

	matchedBytes := m.Length
	if matchedBytes > len(suffix) {
		matchedBytes = len(suffix)
	}
	endByte := beginByte + byteLenOfRuneCount(suffix, matchedBytes)
	endChar := buf.CharIdxOfByte(endByte)
	if p.MaxLength > 0 && endChar-charIdx > p.MaxLength {
		endChar = charIdx + p.MaxLength
		endByte = buf.ToCurrentByteIdx(endChar)
	}
	if endChar <= charIdx {
		return out, nil
	}

	out = append(out, plugin.OOVCandidate{
		Begin:   uint16(charIdx),
		End:     uint16(endChar),
		LeftID:  p.LeftID,
		RightID: p.RightID,
		Cost:    p.Cost,
		PosID:   p.PosID,
		Surface: buf.Modified()[beginByte:endByte],
	})
	return out, nil
}

// byteLenOfRuneCount returns the byte length of the first runeCount runes
// of s; regexp2's Match.Length is measured in runes, so this re-walks the
// UTF-8 string to recover a byte offset.
func byteLenOfRuneCount(s string, runeCount int) int {
	n := 0
	for i := range s {
		if n >= runeCount {
			return i
		}
		n++
	}
	return len(s)
}
