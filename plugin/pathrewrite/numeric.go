// Package pathrewrite bundles the best-path rewriting plugins of spec.md
// §4.8: JoinNumeric (collapse numeric runs) and JoinKatakanaOOV (merge
// short/OOV katakana runs).
package pathrewrite

import (
	"strings"

	"github.com/sudachigo/sudachigo/dic/grammar"
	"github.com/sudachigo/sudachigo/dic/lexicon"
	"github.com/sudachigo/sudachigo/plugin"
)

// JoinNumeric collapses runs of NUMERIC/KANJINUMERIC characters, with `,`
// and `.` accepted as digit separators, backtracking to the longest valid
// prefix when trailing separators don't form a valid number (spec.md §4.8,
// §8 scenarios 1-4).
type JoinNumeric struct {
	// Normalize enables computing an arabic-numeral NormalizedForm for the
	// merged node; when false the merged node keeps an empty normalized
	// form override (falls back to its surface).
	Normalize bool
}

func (p *JoinNumeric) SetUp(gram *grammar.Grammar) error { return nil }

// Rewrite scans path for maximal numeric-looking runs and merges each
// valid run into one node.
func (p *JoinNumeric) Rewrite(path []plugin.PathNode) ([]plugin.PathNode, error) {
	var out []plugin.PathNode
	i := 0
	for i < len(path) {
		if !isNumericSurface(path[i].Surface) {
			out = append(out, path[i])
			i++
			continue
		}
		j := i + 1
		for j < len(path) && isNumericSurface(path[j].Surface) {
			j++
		}
		// Backtrack: drop trailing nodes until the concatenated run
		// parses as a valid number (bare separators never do).
		end := j
		for end > i+1 {
			surface := joinSurfaces(path[i:end])
			if _, ok := validateNumeral(surface); ok {
				break
			}
			end--
		}
		if end == i+1 {
			out = append(out, path[i])
			i++
			continue
		}

		merged := mergeRun(path[i:end])
		if p.Normalize {
			if norm, ok := kanjiToArabic(merged.Surface); ok {
				merged.NormalizedForm = norm
			}
		}
		out = append(out, merged)
		i = end
	}
	return out, nil
}

func mergeRun(nodes []plugin.PathNode) plugin.PathNode {
	first := nodes[0]
	last := nodes[len(nodes)-1]
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.Surface)
	}
	return plugin.PathNode{
		Begin:         first.Begin,
		End:           last.End,
		BeginBytes:    first.BeginBytes,
		EndBytes:      last.EndBytes,
		PosID:         first.PosID,
		WordID:        lexicon.NewWordID(lexicon.OOVDictID, 0),
		Surface:       sb.String(),
		DicFormWordID: -1,
		IsOOV:         true,
	}
}

func joinSurfaces(nodes []plugin.PathNode) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.Surface)
	}
	return sb.String()
}

var digitValues = map[rune]int{
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'〇': 0, '一': 1, '二': 2, '三': 3, '四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

var smallUnits = map[rune]int{'十': 10, '百': 100, '千': 1000}
var bigUnits = map[rune]int{'万': 10000, '億': 100000000, '兆': 1000000000000}

func isNumericSurface(s string) bool {
	for _, r := range s {
		if _, ok := digitValues[r]; ok {
			continue
		}
		if _, ok := smallUnits[r]; ok {
			continue
		}
		if _, ok := bigUnits[r]; ok {
			continue
		}
		if r == ',' || r == '.' {
			continue
		}
		return false
	}
	return len(s) > 0
}

// validateNumeral reports whether s parses as a well-formed number: digits
// and kanji numerals freely, but `,`/`.` only between two digit runs (no
// leading, trailing, or doubled separators).
func validateNumeral(s string) (string, bool) {
	runes := []rune(s)
	if len(runes) == 0 {
		return "", false
	}
	if runes[0] == ',' || runes[0] == '.' || runes[len(runes)-1] == ',' {
		return "", false
	}
	for i, r := range runes {
		if r == ',' || r == '.' {
			if i == 0 || i == len(runes)-1 {
				return "", false
			}
			prev, next := runes[i-1], runes[i+1]
			if _, ok := digitValues[prev]; !ok {
				return "", false
			}
			if _, ok := digitValues[next]; !ok {
				return "", false
			}
		}
	}
	return s, true
}

// kanjiToArabic converts a validated numeral surface into a decimal
// string, applying the standard positional algorithm for Japanese
// numerals (digit * trailing small unit, accumulated into sections closed
// by a big unit). A surface containing `,` or `.` is returned with its
// commas removed and is otherwise unchanged.
func kanjiToArabic(s string) (string, bool) {
	if strings.ContainsAny(s, ",.") {
		return strings.ReplaceAll(s, ",", ""), true
	}
	hasKanji := false
	for _, r := range s {
		if _, ok := smallUnits[r]; ok {
			hasKanji = true
		}
		if _, ok := bigUnits[r]; ok {
			hasKanji = true
		}
		if r >= '一' && r <= '九' || r == '〇' {
			hasKanji = true
		}
	}
	if !hasKanji {
		return s, true
	}

	// numStr accumulates a run of bare digits with no unit between them
	// (e.g. "一二三" = the literal decimal string "123", the notation
	// used for multi-digit numbers ahead of a 万/億/兆 unit), and is
	// closed out either by a small unit (multiplies it) or by a big
	// unit / end of string (adds it directly into the section).
	total := 0
	section := 0
	numStr := ""
	for _, r := range s {
		if d, ok := digitValues[r]; ok {
			numStr += string(rune('0' + d))
			continue
		}
		if unit, ok := smallUnits[r]; ok {
			value := 1
			if numStr != "" {
				value = atoiSimple(numStr)
			}
			section += value * unit
			numStr = ""
			continue
		}
		if unit, ok := bigUnits[r]; ok {
			if numStr != "" {
				section += atoiSimple(numStr)
				numStr = ""
			}
			total += section * unit
			section = 0
			continue
		}
	}
	if numStr != "" {
		section += atoiSimple(numStr)
	}
	total += section
	return itoa(total), true
}

func atoiSimple(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digs []byte
	for n > 0 {
		digs = append([]byte{byte('0' + n%10)}, digs...)
		n /= 10
	}
	return string(digs)
}
