package inputtext

import (
	"fmt"
	"unicode"

	"github.com/sudachigo/sudachigo/analysis/inputtext"
	"github.com/sudachigo/sudachigo/dic/grammar"
)

// IgnoreYomigana drops a parenthesized reading gloss of at most MaxLength
// hiragana or katakana characters immediately following a kanji character
// (spec.md §4.8). Operates on the rune array, one of the two equally
// valid plugin index spaces spec.md §9 leaves open for this plugin.
type IgnoreYomigana struct {
	MaxLength int
}

// NewIgnoreYomigana builds the plugin with the spec's default window of
// up to 4 characters.
func NewIgnoreYomigana() *IgnoreYomigana {
	return &IgnoreYomigana{MaxLength: 4}
}

func (p *IgnoreYomigana) SetUp(gram *grammar.Grammar) error { return nil }

func isKanji(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

func isKanaRun(r rune) bool {
	return unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r)
}

// Rewrite scans for "kanji（かな）" spans (both full-width and half-width
// parentheses) and deletes the parenthesized portion, including the
// parentheses themselves.
func (p *IgnoreYomigana) Rewrite(buf *inputtext.Buffer) error {
	mod := buf.Modified()
	runes := []rune(mod)
	byteOff := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		byteOff[i] = off
		off += runeLenBytes(r)
	}
	byteOff[len(runes)] = off

	for i := 0; i < len(runes); i++ {
		if !isKanji(runes[i]) {
			continue
		}
		open := i + 1
		if open >= len(runes) || !isOpenParen(runes[open]) {
			continue
		}
		j := open + 1
		for j < len(runes) && isKanaRun(runes[j]) && j-open-1 < p.MaxLength {
			j++
		}
		if j == open+1 || j >= len(runes) || !isCloseParen(runes[j]) {
			continue
		}
		if err := buf.Replace(byteOff[open], byteOff[j+1], ""); err != nil {
			return fmt.Errorf("inputtext: ignore yomigana: %w", err)
		}
	}
	return buf.Commit()
}

func isOpenParen(r rune) bool  { return r == '（' || r == '(' }
func isCloseParen(r rune) bool { return r == '）' || r == ')' }
