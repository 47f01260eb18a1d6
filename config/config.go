// Package config assembles a ready-to-use tokenizer from a plain
// resolved configuration object. Per spec.md §6, JSON parsing and path
// resolution are external collaborators; this package only consumes the
// already-resolved values.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sudachigo/sudachigo/analysis/tokenizer"
	"github.com/sudachigo/sudachigo/dic"
	"github.com/sudachigo/sudachigo/dic/categories"
	"github.com/sudachigo/sudachigo/plugin"
)

// PluginDescriptor names a bundled plugin and carries its JSON-decoded
// settings (spec.md §6 "arrays of plugin descriptors {class: string, ...}").
type PluginDescriptor = plugin.Descriptor

// Config is the resolved set of inputs the core needs to build a
// tokenizer: dictionary paths, the character-definition path, and the
// four plugin-stage descriptor lists.
type Config struct {
	SystemDictPath string
	UserDictPaths  []string
	CharDefPath    string

	InputTextPlugins   []PluginDescriptor
	ConnectCostPlugins []PluginDescriptor
	OOVPlugins         []PluginDescriptor
	PathRewritePlugins []PluginDescriptor

	Logger zerolog.Logger
}

// Load opens the dictionary, merges user dictionaries, runs connect-cost
// and input-text/OOV/path-rewrite plugin setup, resolves user-dictionary
// word costs, and returns a StatefulTokenizer ready for Tokenize/AnalyzeBatch.
func Load(cfg Config) (*dic.Dictionary, *tokenizer.StatefulTokenizer, error) {
	var catTable *categories.Table
	if cfg.CharDefPath != "" {
		t, err := loadCategoriesFile(cfg.CharDefPath)
		if err != nil {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
		catTable = t
	}

	d, err := dic.Open(cfg.SystemDictPath, dic.Options{Logger: cfg.Logger, Categories: catTable})
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	for _, path := range cfg.UserDictPaths {
		if err := d.AddUserDictionary(path); err != nil {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
	}

	ccPlugins, err := buildConnectCostPlugins(cfg.ConnectCostPlugins)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	for _, p := range ccPlugins {
		if err := p.SetUp(d.Grammar()); err != nil {
			return nil, nil, fmt.Errorf("config: connect-cost plugin setup: %w", err)
		}
	}

	plugins, err := buildPipelinePlugins(cfg, d)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	tok := tokenizer.New(d, plugins, cfg.Logger)

	if err := tokenizer.ResolveUserDictionaryCosts(d, tok); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	return d, tok, nil
}

func buildPipelinePlugins(cfg Config, d *dic.Dictionary) (tokenizer.Plugins, error) {
	var out tokenizer.Plugins

	for _, desc := range cfg.InputTextPlugins {
		p, err := newInputTextPlugin(desc)
		if err != nil {
			return out, err
		}
		if err := p.SetUp(d.Grammar()); err != nil {
			return out, fmt.Errorf("input-text plugin %q setup: %w", desc.Class, err)
		}
		out.InputText = append(out.InputText, p)
	}

	for _, desc := range cfg.OOVPlugins {
		p, err := newOOVPlugin(desc, d)
		if err != nil {
			return out, err
		}
		if err := p.SetUp(d.Grammar()); err != nil {
			return out, fmt.Errorf("oov plugin %q setup: %w", desc.Class, err)
		}
		out.OOV = append(out.OOV, p)
	}

	for _, desc := range cfg.PathRewritePlugins {
		p, err := newPathRewritePlugin(desc)
		if err != nil {
			return out, err
		}
		if err := p.SetUp(d.Grammar()); err != nil {
			return out, fmt.Errorf("path-rewrite plugin %q setup: %w", desc.Class, err)
		}
		out.PathRewrite = append(out.PathRewrite, p)
	}

	return out, nil
}

func unmarshalArgs(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
