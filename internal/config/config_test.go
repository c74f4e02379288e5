package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanLara18/study-notes/internal/types"
)

const sample = `
title: Linear Algebra
content: notes
output: public
width: 500
render:
  preset: full
  errorColor: "#cc0000"
  strict: warn
  ignoredClasses: [no-math]
  macros:
    \vspan: '\operatorname{span}\{#1\}'
    \R: '\mathbb{R}^n'
`

func TestParse(t *testing.T) {
	site, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", site.Title)
	assert.Equal(t, "notes", site.ContentDir)
	assert.Equal(t, "public", site.OutputDir)
	assert.Equal(t, 500, site.Width)
	assert.True(t, site.RelativeURLs)

	// unset policy fields keep the preset values
	p := site.Render.DisplayPolicy
	assert.Equal(t, "#cc0000", p.ErrorColor)
	assert.Equal(t, types.StrictWarn, p.Strict)
	assert.Equal(t, 1000, p.MaxExpand)
	assert.True(t, p.Wrap)
	assert.True(t, math.IsInf(p.MaxSize, 1))
}

func TestParse_StrictBool(t *testing.T) {
	site, err := Parse([]byte("render:\n  strict: true\n"))
	require.NoError(t, err)
	assert.Equal(t, types.StrictError, site.Render.Strict)

	site, err = Parse([]byte("render:\n  strict: false\n"))
	require.NoError(t, err)
	assert.Equal(t, types.StrictIgnore, site.Render.Strict)
}

func TestParse_MinimalPreset(t *testing.T) {
	site, err := Parse([]byte("render:\n  preset: minimal\n"))
	require.NoError(t, err)
	cfg, err := site.RenderConfig()
	require.NoError(t, err)
	assert.Len(t, cfg.Delimiters, 4)
	assert.Equal(t, 4, cfg.Macros.Len())
	assert.Equal(t, types.DefaultPolicy(), cfg.Policy)
}

func TestParse_UnknownPreset(t *testing.T) {
	_, err := Parse([]byte("render:\n  preset: huge\n"))
	assert.Error(t, err)
}

func TestRenderConfig_Macros(t *testing.T) {
	site, err := Parse([]byte(sample))
	require.NoError(t, err)
	cfg, err := site.RenderConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Macros.Frozen())
	m, ok := cfg.Macros.Lookup(`\R`)
	require.True(t, ok)
	assert.Equal(t, `\mathbb{R}^n`, m.Template)

	m, ok = cfg.Macros.Lookup(`\vspan`)
	require.True(t, ok)
	assert.Equal(t, 1, m.Arity)
	assert.Equal(t, []string{"no-math"}, cfg.IgnoredClasses)
	assert.Len(t, cfg.Delimiters, 9)
}

func TestParse_DuplicateKeysLastWins(t *testing.T) {
	site, err := Parse([]byte("title: a\ntitle: b\nrender:\n  macros:\n    \\X: x\n    \\X: y\n"))
	require.NoError(t, err)
	assert.Equal(t, "b", site.Title)

	cfg, err := site.RenderConfig()
	require.NoError(t, err)
	m, _ := cfg.Macros.Lookup(`\X`)
	assert.Equal(t, "y", m.Template)
}

func TestLint(t *testing.T) {
	data := []byte(`title: a
render:
  preset: full
  macros:
    \X: x
    \X: y
    \R: '\mathbb{R}^n'
title: b
`)
	issues, err := Lint(data)
	require.NoError(t, err)
	require.Len(t, issues, 3)

	assert.Equal(t, "render.macros", issues[0].Path)
	assert.Equal(t, `\X`, issues[0].Key)
	assert.Equal(t, 6, issues[0].Line)

	assert.Equal(t, "", issues[1].Path)
	assert.Equal(t, "title", issues[1].Key)
	assert.Equal(t, 8, issues[1].Line)

	assert.Equal(t, `\R`, issues[2].Key)
	assert.Contains(t, issues[2].Message, "redefined")
}

func TestLint_Clean(t *testing.T) {
	issues, err := Lint([]byte("title: a\nrender:\n  preset: minimal\n"))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	site, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", site.Title)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
