package inputtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultNFKCNormalizesFullWidthDigits(t *testing.T) {
	p := &Default{}
	buf := newRWBuffer(t, "１２３")
	require.NoError(t, p.Rewrite(buf))
	assert.Equal(t, "123", buf.Modified())
}

func TestDefaultAppliesReplaceCharMapBeforeNFKC(t *testing.T) {
	p := &Default{ReplaceCharMap: map[rune]string{'①': "1"}}
	buf := newRWBuffer(t, "①")
	require.NoError(t, p.Rewrite(buf))
	assert.Equal(t, "1", buf.Modified())
}

func TestDefaultIgnoreSetSkipsConfiguredRunes(t *testing.T) {
	p := &Default{IgnoreSet: map[rune]struct{}{'１': {}}}
	buf := newRWBuffer(t, "１2")
	require.NoError(t, p.Rewrite(buf))
	assert.Equal(t, "１2", buf.Modified())
}

func TestDefaultNoChangeIsNoOp(t *testing.T) {
	p := &Default{}
	buf := newRWBuffer(t, "hello")
	require.NoError(t, p.Rewrite(buf))
	assert.Equal(t, "hello", buf.Modified())
}
