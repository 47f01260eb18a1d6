package pathrewrite

import (
	"strings"
	"unicode"

	"github.com/sudachigo/sudachigo/dic/grammar"
	"github.com/sudachigo/sudachigo/plugin"
)

// JoinKatakanaOOV merges a run of adjacent katakana nodes into one when
// any member is OOV or shorter than MinLength (spec.md §4.8, §8 scenario
// 5). Character categories are not consulted: a merge may start on any
// katakana node, including one whose first character carries NOOOVBOW.
type JoinKatakanaOOV struct {
	MinLength int
}

func (p *JoinKatakanaOOV) SetUp(gram *grammar.Grammar) error { return nil }

func (p *JoinKatakanaOOV) Rewrite(path []plugin.PathNode) ([]plugin.PathNode, error) {
	var out []plugin.PathNode
	i := 0
	for i < len(path) {
		if !isAllKatakana(path[i].Surface) {
			out = append(out, path[i])
			i++
			continue
		}
		j := i + 1
		for j < len(path) && isAllKatakana(path[j].Surface) {
			j++
		}
		run := path[i:j]
		if shouldJoin(run, p.MinLength) {
			out = append(out, mergeKatakana(run))
		} else {
			out = append(out, run...)
		}
		i = j
	}
	return out, nil
}

func isAllKatakana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.Is(unicode.Katakana, r) && r != 'ー' {
			return false
		}
	}
	return true
}

func shouldJoin(run []plugin.PathNode, minLength int) bool {
	if len(run) < 2 {
		return false
	}
	for _, n := range run {
		if n.IsOOV || len([]rune(n.Surface)) < minLength {
			return true
		}
	}
	return false
}

func mergeKatakana(run []plugin.PathNode) plugin.PathNode {
	first := run[0]
	last := run[len(run)-1]
	var sb strings.Builder
	for _, n := range run {
		sb.WriteString(n.Surface)
	}
	return plugin.PathNode{
		Begin:         first.Begin,
		End:           last.End,
		BeginBytes:    first.BeginBytes,
		EndBytes:      last.EndBytes,
		PosID:         first.PosID,
		WordID:        first.WordID,
		Surface:       sb.String(),
		DicFormWordID: -1,
		IsOOV:         true,
	}
}
