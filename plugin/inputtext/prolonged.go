package inputtext

import (
	"fmt"

	"github.com/sudachigo/sudachigo/analysis/inputtext"
	"github.com/sudachigo/sudachigo/dic/grammar"
)

// ProlongedSoundMark collapses runs of 2+ chars drawn from ProlongedChars
// into a single ReplaceChar (spec.md §4.8, §8 scenario 6). Defaults match
// the spec's example set.
type ProlongedSoundMark struct {
	ProlongedChars map[rune]struct{}
	ReplaceChar    string
}

// NewProlongedSoundMark builds the plugin with the spec's default
// character set: {ー, -, ⁓, 〜, 〰} collapsing to ー.
func NewProlongedSoundMark() *ProlongedSoundMark {
	set := map[rune]struct{}{}
	for _, r := range []rune{'ー', '-', '⁓', '〜', '〰'} {
		set[r] = struct{}{}
	}
	return &ProlongedSoundMark{ProlongedChars: set, ReplaceChar: "ー"}
}

// SetUp is a no-op: this plugin has no grammar-dependent settings.
func (p *ProlongedSoundMark) SetUp(gram *grammar.Grammar) error { return nil }

// Rewrite scans modified text for runs of 2+ prolonged-sound-mark
// characters and replaces each run with a single ReplaceChar.
func (p *ProlongedSoundMark) Rewrite(buf *inputtext.Buffer) error {
	mod := buf.Modified()
	runes := []rune(mod)
	byteOff := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		byteOff[i] = off
		off += runeLenBytes(r)
	}
	byteOff[len(runes)] = off

	i := 0
	for i < len(runes) {
		if _, ok := p.ProlongedChars[runes[i]]; !ok {
			i++
			continue
		}
		j := i + 1
		for j < len(runes) {
			if _, ok := p.ProlongedChars[runes[j]]; !ok {
				break
			}
			j++
		}
		if j-i >= 2 {
			if err := buf.Replace(byteOff[i], byteOff[j], p.ReplaceChar); err != nil {
				return fmt.Errorf("inputtext: prolonged sound mark: %w", err)
			}
		}
		i = j
	}
	return buf.Commit()
}

func runeLenBytes(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
