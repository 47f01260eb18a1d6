package config

import (
	"fmt"
	"os"

	"github.com/sudachigo/sudachigo/dic"
	"github.com/sudachigo/sudachigo/dic/categories"
	"github.com/sudachigo/sudachigo/plugin"
	"github.com/sudachigo/sudachigo/plugin/connectcost"
	"github.com/sudachigo/sudachigo/plugin/inputtext"
	"github.com/sudachigo/sudachigo/plugin/oov"
	"github.com/sudachigo/sudachigo/plugin/pathrewrite"
)

func loadCategoriesFile(path string) (*categories.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open char.def %s: %w", path, err)
	}
	defer f.Close()
	return categories.Load(f)
}

// newInputTextPlugin resolves one of the three bundled input-text plugin
// classes (spec.md §4.8) by name, decoding desc.Args into its settings.
func newInputTextPlugin(desc plugin.Descriptor) (plugin.InputTextPlugin, error) {
	switch desc.Class {
	case "DefaultInputText":
		var args struct {
			ReplaceCharMap map[string]string `json:"replaceCharMap"`
			IgnoreSet      []string          `json:"ignoreSet"`
		}
		if err := unmarshalArgs(desc.Args, &args); err != nil {
			return nil, fmt.Errorf("plugin %q: %w", desc.Class, err)
		}
		p := &inputtext.Default{
			ReplaceCharMap: runeMapFromStrings(args.ReplaceCharMap),
			IgnoreSet:      runeSetFromStrings(args.IgnoreSet),
		}
		return p, nil
	case "ProlongedSoundMark":
		var args struct {
			Chars       []string `json:"chars"`
			ReplaceChar string   `json:"replaceChar"`
		}
		if err := unmarshalArgs(desc.Args, &args); err != nil {
			return nil, fmt.Errorf("plugin %q: %w", desc.Class, err)
		}
		p := inputtext.NewProlongedSoundMark()
		if len(args.Chars) > 0 {
			p.ProlongedChars = runeSetFromStrings(args.Chars)
		}
		if args.ReplaceChar != "" {
			p.ReplaceChar = args.ReplaceChar
		}
		return p, nil
	case "IgnoreYomigana":
		var args struct {
			MaxLength int `json:"maxLength"`
		}
		if err := unmarshalArgs(desc.Args, &args); err != nil {
			return nil, fmt.Errorf("plugin %q: %w", desc.Class, err)
		}
		p := inputtext.NewIgnoreYomigana()
		if args.MaxLength > 0 {
			p.MaxLength = args.MaxLength
		}
		return p, nil
	default:
		return nil, plugin.ErrUnknownPluginClass(desc.Class)
	}
}

func newOOVPlugin(desc plugin.Descriptor, d *dic.Dictionary) (plugin.OOVPlugin, error) {
	switch desc.Class {
	case "SimpleOOV":
		var args struct {
			PosID   int16 `json:"posId"`
			LeftID  int16 `json:"leftId"`
			RightID int16 `json:"rightId"`
			Cost    int16 `json:"cost"`
		}
		if err := unmarshalArgs(desc.Args, &args); err != nil {
			return nil, fmt.Errorf("plugin %q: %w", desc.Class, err)
		}
		return &oov.SimpleOOV{PosID: args.PosID, LeftID: args.LeftID, RightID: args.RightID, Cost: args.Cost}, nil
	case "MeCabOOV":
		// TODO: decode desc.Args into the per-category (invoke, group,
		// length, templates) rows once an unk.def-style args schema is
		// settled; an empty table makes this plugin a no-op rather than
		// an error, which is safe but not useful on its own.
		return &oov.MeCabOOV{Categories: d.Categories(), Configs: map[categories.Category]oov.CategoryConfig{}}, nil
	case "RegexOOV":
		var args struct {
			Pattern   string `json:"pattern"`
			MaxLength int    `json:"maxLength"`
			PosID     int16  `json:"posId"`
			LeftID    int16  `json:"leftId"`
			RightID   int16  `json:"rightId"`
			Cost      int16  `json:"cost"`
		}
		if err := unmarshalArgs(desc.Args, &args); err != nil {
			return nil, fmt.Errorf("plugin %q: %w", desc.Class, err)
		}
		re, err := oov.NewRegexOOV(args.Pattern, args.MaxLength)
		if err != nil {
			return nil, fmt.Errorf("plugin %q: %w", desc.Class, err)
		}
		re.PosID = args.PosID
		re.LeftID = args.LeftID
		re.RightID = args.RightID
		re.Cost = args.Cost
		return re, nil
	default:
		return nil, plugin.ErrUnknownPluginClass(desc.Class)
	}
}

func newPathRewritePlugin(desc plugin.Descriptor) (plugin.PathRewritePlugin, error) {
	switch desc.Class {
	case "JoinNumeric":
		var args struct {
			Normalize bool `json:"normalize"`
		}
		if err := unmarshalArgs(desc.Args, &args); err != nil {
			return nil, fmt.Errorf("plugin %q: %w", desc.Class, err)
		}
		return &pathrewrite.JoinNumeric{Normalize: args.Normalize}, nil
	case "JoinKatakanaOOV":
		var args struct {
			MinLength int `json:"minLength"`
		}
		if err := unmarshalArgs(desc.Args, &args); err != nil {
			return nil, fmt.Errorf("plugin %q: %w", desc.Class, err)
		}
		if args.MinLength == 0 {
			args.MinLength = 2
		}
		return &pathrewrite.JoinKatakanaOOV{MinLength: args.MinLength}, nil
	default:
		return nil, plugin.ErrUnknownPluginClass(desc.Class)
	}
}

func buildConnectCostPlugins(descs []plugin.Descriptor) ([]plugin.ConnectCostPlugin, error) {
	var out []plugin.ConnectCostPlugin
	for _, desc := range descs {
		switch desc.Class {
		case "InhibitConnection":
			var args struct {
				Pairs [][2]int16 `json:"pairs"`
			}
			if err := unmarshalArgs(desc.Args, &args); err != nil {
				return nil, fmt.Errorf("plugin %q: %w", desc.Class, err)
			}
			out = append(out, &connectcost.InhibitConnection{Pairs: args.Pairs})
		default:
			return nil, plugin.ErrUnknownPluginClass(desc.Class)
		}
	}
	return out, nil
}

func runeMapFromStrings(m map[string]string) map[rune]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[rune]string, len(m))
	for k, v := range m {
		for _, r := range k {
			out[r] = v
			break
		}
	}
	return out
}

func runeSetFromStrings(ss []string) map[rune]struct{} {
	if len(ss) == 0 {
		return nil
	}
	out := make(map[rune]struct{}, len(ss))
	for _, s := range ss {
		for _, r := range s {
			out[r] = struct{}{}
			break
		}
	}
	return out
}
