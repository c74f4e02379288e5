package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanLara18/study-notes/internal/config"
	"github.com/JuanLara18/study-notes/internal/log"
)

func writeContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"math/vectors.md": "---\ntitle: Vectors\ndate: 2024-01-10\ncategory: Math\ntags: [linear algebra]\n---\n" +
			"# Norm\n\nThe norm of $v \\in \\R^n$ is\n\n$$\\|v\\| = \\sqrt{v \\cdot v}$$\n\nBroken: $\\frac{1$\n",
		"math/matrices.md": "---\ntitle: Matrices\ndate: 2024-02-01\ncategory: Math\ntags: [linear algebra]\n---\n" +
			"```python\nprint('$x$')\n```\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuild(t *testing.T) {
	content := writeContent(t)
	out := filepath.Join(t.TempDir(), "build")
	ctx := log.WithTB(context.Background(), t)

	r, err := Build(ctx, Options{ContentDir: content, OutputDir: out, Width: 500})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Notes)
	assert.Equal(t, 3, r.Pages)
	// the broken expression shows up on the note page and in its index excerpt
	assert.Equal(t, 2, r.MathErrors)
	assert.Equal(t, 2, r.Assets)

	index := readFile(t, filepath.Join(out, "index.html"))
	assert.Contains(t, index, `<a href="./math/vectors.html">Vectors</a>`)
	assert.Contains(t, index, `href="./static/style.css"`)
	assert.NotContains(t, index, "live.js")

	page := readFile(t, filepath.Join(out, "math", "vectors.html"))
	assert.Contains(t, page, `href="../static/style.css"`)
	assert.Contains(t, page, `<h1 id="norm">Norm</h1>`)
	assert.Contains(t, page, `<span class="katex">`)
	assert.Contains(t, page, `<div class="math-display" style="overflow: auto; max-width: 100%">`)
	assert.Contains(t, page, `font-size: 90%; overflow-x: auto`)
	assert.Contains(t, page, `class="katex-error"`)
	assert.Contains(t, page, `<a href="../math/matrices.html">Matrices</a>`)
	assert.NotContains(t, page, "MATHSPAN")

	code := readFile(t, filepath.Join(out, "math", "matrices.html"))
	assert.Contains(t, code, `<div class="codehilite">`)
	assert.Contains(t, code, "$x$")
	assert.NotContains(t, code, `class="katex"`)

	css := readFile(t, filepath.Join(out, "static", "style.css"))
	assert.Contains(t, css, "@media (max-width: 767px)")
	assert.FileExists(t, filepath.Join(out, "static", "highlight.css"))
}

func TestBuild_AbsoluteURLs(t *testing.T) {
	cfg := config.Default()
	cfg.RelativeURLs = false
	cfg.BaseURL = "https://notes.example.com/"
	out := t.TempDir()

	_, err := Build(context.Background(), Options{Config: cfg, ContentDir: writeContent(t), OutputDir: out})
	require.NoError(t, err)
	index := readFile(t, filepath.Join(out, "index.html"))
	assert.Contains(t, index, `href="https://notes.example.com/math/vectors.html"`)
	assert.NotContains(t, index, "font-size")
}

func TestBuild_MissingContent(t *testing.T) {
	_, err := Build(context.Background(), Options{ContentDir: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestBuild_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, Options{ContentDir: writeContent(t), OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageByURL(t *testing.T) {
	s, err := New(Options{ContentDir: writeContent(t), OutputDir: t.TempDir(), Live: true})
	require.NoError(t, err)
	ctx := context.Background()

	p, ok, err := s.PageByURL(ctx, "/math/vectors.html")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/math/vectors", p.URL)
	assert.Equal(t, 1, p.MathErrors)

	var b strings.Builder
	require.NoError(t, p.Write(&b, 0))
	assert.Contains(t, b.String(), "static/live.js")
	assert.NotContains(t, b.String(), "font-size")

	p, ok, err = s.PageByURL(ctx, "/")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, IndexURL, p.URL)

	_, ok, err = s.PageByURL(ctx, "/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAsset(t *testing.T) {
	s, err := New(Options{ContentDir: writeContent(t)})
	require.NoError(t, err)

	css, err := s.Asset("/highlight.css")
	require.NoError(t, err)
	assert.Contains(t, string(css), ".chroma")

	_, err = s.Asset("missing.css")
	assert.Error(t, err)

	names, err := s.AssetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"highlight.css", "style.css"}, names)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "index.html", OutputPath(IndexURL))
	assert.Equal(t, "math/vectors.html", OutputPath("/math/vectors"))
}
