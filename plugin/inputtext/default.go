// Package inputtext bundles the three input-text plugins of spec.md §4.8:
// Default (NFKC-style normalization + replacement table), ProlongedSoundMark
// (collapse runs of long-vowel marks) and IgnoreYomigana (drop bracketed
// readings after kanji).
package inputtext

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/sudachigo/sudachigo/analysis/inputtext"
	"github.com/sudachigo/sudachigo/dic/grammar"
)

// Default performs NFKC-style normalization (delegated to
// golang.org/x/text/unicode/norm, the ecosystem library for exactly this
// transform — see DESIGN.md), plus a user-supplied character replacement
// table, skipping characters that appear in an ignore set.
type Default struct {
	// ReplaceCharMap maps individual runes to their replacement strings
	// (applied before NFKC, mirroring a rewrite-table driven normalizer).
	ReplaceCharMap map[rune]string
	// IgnoreSet lists runes normalization should pass through unchanged.
	IgnoreSet map[rune]struct{}
}

// SetUp validates the plugin's configuration against the grammar. The
// Default plugin has no grammar-dependent settings, so this is a no-op
// that satisfies the InputTextPlugin interface.
func (p *Default) SetUp(gram *grammar.Grammar) error { return nil }

// Rewrite applies the replacement table and NFKC normalization, issuing
// one Buffer.Replace edit per changed span.
func (p *Default) Rewrite(buf *inputtext.Buffer) error {
	mod := buf.Modified()
	runes := []rune(mod)
	byteOff := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		byteOff[i] = off
		off += runeLen(r)
	}
	byteOff[len(runes)] = off

	for i, r := range runes {
		if _, skip := p.IgnoreSet[r]; skip {
			continue
		}
		replaced, ok := p.ReplaceCharMap[r]
		src := string(r)
		if ok {
			src = replaced
		}
		normalized := norm.NFKC.String(src)
		if normalized == string(r) {
			continue
		}
		if err := buf.Replace(byteOff[i], byteOff[i+1], normalized); err != nil {
			return fmt.Errorf("inputtext: default: %w", err)
		}
	}
	return buf.Commit()
}

func runeLen(r rune) int { return runeLenBytes(r) }

