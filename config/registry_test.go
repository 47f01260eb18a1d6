package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudachigo/sudachigo/plugin"
	"github.com/sudachigo/sudachigo/plugin/connectcost"
	"github.com/sudachigo/sudachigo/plugin/inputtext"
	"github.com/sudachigo/sudachigo/plugin/oov"
	"github.com/sudachigo/sudachigo/plugin/pathrewrite"
)

func TestNewInputTextPluginDispatchesByClass(t *testing.T) {
	p, err := newInputTextPlugin(plugin.Descriptor{Class: "DefaultInputText"})
	require.NoError(t, err)
	assert.IsType(t, &inputtext.Default{}, p)

	p, err = newInputTextPlugin(plugin.Descriptor{Class: "ProlongedSoundMark"})
	require.NoError(t, err)
	assert.IsType(t, &inputtext.ProlongedSoundMark{}, p)

	p, err = newInputTextPlugin(plugin.Descriptor{Class: "IgnoreYomigana"})
	require.NoError(t, err)
	assert.IsType(t, &inputtext.IgnoreYomigana{}, p)
}

func TestNewInputTextPluginUnknownClassFails(t *testing.T) {
	_, err := newInputTextPlugin(plugin.Descriptor{Class: "NoSuchPlugin"})
	assert.Error(t, err)
}

func TestNewInputTextPluginDecodesArgs(t *testing.T) {
	args, err := json.Marshal(map[string]interface{}{"maxLength": 7})
	require.NoError(t, err)
	p, err := newInputTextPlugin(plugin.Descriptor{Class: "IgnoreYomigana", Args: args})
	require.NoError(t, err)
	yomi, ok := p.(*inputtext.IgnoreYomigana)
	require.True(t, ok)
	assert.Equal(t, 7, yomi.MaxLength)
}

func TestNewInputTextPluginDefaultReplaceMapAndIgnoreSet(t *testing.T) {
	args, err := json.Marshal(map[string]interface{}{
		"replaceCharMap": map[string]string{"①": "1"},
		"ignoreSet":      []string{"２"},
	})
	require.NoError(t, err)
	p, err := newInputTextPlugin(plugin.Descriptor{Class: "DefaultInputText", Args: args})
	require.NoError(t, err)
	d, ok := p.(*inputtext.Default)
	require.True(t, ok)
	assert.Equal(t, "1", d.ReplaceCharMap['①'])
	_, ignored := d.IgnoreSet['２']
	assert.True(t, ignored)
}

func TestNewOOVPluginDispatchesSimpleAndRegex(t *testing.T) {
	p, err := newOOVPlugin(plugin.Descriptor{Class: "SimpleOOV"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &oov.SimpleOOV{}, p)

	args, err := json.Marshal(map[string]interface{}{"pattern": "[0-9]+", "maxLength": 5})
	require.NoError(t, err)
	p, err = newOOVPlugin(plugin.Descriptor{Class: "RegexOOV", Args: args}, nil)
	require.NoError(t, err)
	re, ok := p.(*oov.RegexOOV)
	require.True(t, ok)
	assert.Equal(t, 5, re.MaxLength)
}

func TestNewOOVPluginUnknownClassFails(t *testing.T) {
	_, err := newOOVPlugin(plugin.Descriptor{Class: "NoSuchPlugin"}, nil)
	assert.Error(t, err)
}

func TestNewPathRewritePluginDispatchesByClass(t *testing.T) {
	p, err := newPathRewritePlugin(plugin.Descriptor{Class: "JoinNumeric"})
	require.NoError(t, err)
	assert.IsType(t, &pathrewrite.JoinNumeric{}, p)

	args, err := json.Marshal(map[string]interface{}{"minLength": 3})
	require.NoError(t, err)
	p, err = newPathRewritePlugin(plugin.Descriptor{Class: "JoinKatakanaOOV", Args: args})
	require.NoError(t, err)
	kat, ok := p.(*pathrewrite.JoinKatakanaOOV)
	require.True(t, ok)
	assert.Equal(t, 3, kat.MinLength)
}

func TestNewPathRewritePluginDefaultsMinLength(t *testing.T) {
	p, err := newPathRewritePlugin(plugin.Descriptor{Class: "JoinKatakanaOOV"})
	require.NoError(t, err)
	kat := p.(*pathrewrite.JoinKatakanaOOV)
	assert.Equal(t, 2, kat.MinLength)
}

func TestBuildConnectCostPluginsDecodesPairs(t *testing.T) {
	args, err := json.Marshal(map[string]interface{}{"pairs": [][2]int16{{1, 2}}})
	require.NoError(t, err)
	plugins, err := buildConnectCostPlugins([]plugin.Descriptor{{Class: "InhibitConnection", Args: args}})
	require.NoError(t, err)
	require.Len(t, plugins, 1)
	inhibit, ok := plugins[0].(*connectcost.InhibitConnection)
	require.True(t, ok)
	assert.Equal(t, [][2]int16{{1, 2}}, inhibit.Pairs)
}

func TestBuildConnectCostPluginsUnknownClassFails(t *testing.T) {
	_, err := buildConnectCostPlugins([]plugin.Descriptor{{Class: "NoSuchPlugin"}})
	assert.Error(t, err)
}

func TestUnmarshalArgsEmptyIsNoOp(t *testing.T) {
	var dest struct{ X int }
	require.NoError(t, unmarshalArgs(nil, &dest))
	assert.Equal(t, 0, dest.X)
}
