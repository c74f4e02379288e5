package macro

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefine_LastDefinitionWins(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Define(`\field`, `\mathbb{F}`))
	require.NoError(t, tbl.Define(`\group`, `\mathcal{G}`))
	require.NoError(t, tbl.Define(`\field`, `\mathcal{F}`))

	m, ok := tbl.Lookup(`\field`)
	require.True(t, ok)
	assert.Equal(t, `\mathcal{F}`, m.Template)
	assert.Equal(t, 2, tbl.Len())

	// the key keeps its first position
	defs := tbl.Definitions()
	assert.Equal(t, `\field`, defs[0].Name)
	assert.Equal(t, `\group`, defs[1].Name)

	assert.Equal(t, []Duplicate{{Key: `\field`, Previous: `\mathbb{F}`, Value: `\mathcal{F}`}}, tbl.Duplicates())
}

func TestDefine_Frozen(t *testing.T) {
	tbl := MustFromDefinitions([]Definition{{Name: `\R`, Template: `\mathbb{R}`}})
	assert.True(t, tbl.Frozen())
	err := tbl.Define(`\N`, `\mathbb{N}`)
	assert.True(t, errors.Is(err, ErrFrozen))
}

func TestDefine_InvalidName(t *testing.T) {
	tests := []struct {
		name    string
		macro   string
		wantErr bool
	}{
		{name: "control word", macro: `\R`},
		{name: "control symbol", macro: `\|`},
		{name: "missing backslash", macro: `R`, wantErr: true},
		{name: "bare backslash", macro: `\`, wantErr: true},
		{name: "digits in word", macro: `\R2`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTable().Define(tt.macro, "x")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestArity(t *testing.T) {
	assert.Equal(t, 0, arity(`\mathbb{R}`))
	assert.Equal(t, 1, arity(`\frac{d}{d#1}`))
	assert.Equal(t, 2, arity(`\lim_{#1 \to #2}`))
}

func TestMerge(t *testing.T) {
	a := MustFromDefinitions([]Definition{{Name: `\R`, Template: `\mathbb{R}`}})
	b := MustFromDefinitions([]Definition{{Name: `\R`, Template: `\mathrm{R}`}, {Name: `\N`, Template: `\mathbb{N}`}})
	merged, err := a.Merge(b)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{`\R`: `\mathrm{R}`, `\N`: `\mathbb{N}`}, merged.Map())
	assert.Len(t, merged.Duplicates(), 1)
}
