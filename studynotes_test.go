package studynotes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/JuanLara18/study-notes/internal/latex"
	"github.com/JuanLara18/study-notes/internal/log"
	"github.com/JuanLara18/study-notes/internal/types"
)

func parseDoc(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func bodyHTML(t *testing.T, doc *html.Node) string {
	t.Helper()
	var b strings.Builder
	for c := body(doc).FirstChild; c != nil; c = c.NextSibling {
		require.NoError(t, html.Render(&b, c))
	}
	return b.String()
}

type countingRenderer struct {
	calls int
	root  *html.Node
	cfg   *RenderConfig
}

func (r *countingRenderer) RenderMathInElement(_ context.Context, root *html.Node, cfg *RenderConfig) error {
	r.calls++
	r.root, r.cfg = root, cfg
	return nil
}

// TestInitialize_CallsRendererOnceOnBody 测试渲染器只在 body 上调用一次
func TestInitialize_CallsRendererOnceOnBody(t *testing.T) {
	doc := parseDoc(t, `<html><head><title>$x$</title></head><body><p>$x$</p></body></html>`)
	r := &countingRenderer{}

	require.NoError(t, Initialize(context.Background(), doc, WithRenderer(r)))
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, "body", r.root.Data)
	assert.Len(t, r.cfg.Delimiters, 9)
	assert.Equal(t, types.FullPolicy(), r.cfg.Policy)
}

func TestInitialize_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RenderConfig)
	}{
		{name: "no delimiters", mutate: func(c *RenderConfig) { c.Delimiters = nil }},
		{name: "empty marker", mutate: func(c *RenderConfig) { c.Delimiters[0].Right = "" }},
		{name: "bad color", mutate: func(c *RenderConfig) { c.Policy.ErrorColor = "red" }},
		{name: "negative expand", mutate: func(c *RenderConfig) { c.Policy.MaxExpand = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig().Clone()
			tt.mutate(cfg)
			r := &countingRenderer{}
			err := Initialize(context.Background(), parseDoc(t, "<p>$x$</p>"), WithConfig(cfg), WithRenderer(r))
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Zero(t, r.calls)
		})
	}
}

// TestInitialize_EnergyScenario 测试公式替换且周围文本保持原样
func TestInitialize_EnergyScenario(t *testing.T) {
	for name, cfg := range map[string]*RenderConfig{"minimal": MinimalConfig(), "full": DefaultConfig()} {
		t.Run(name, func(t *testing.T) {
			ctx := log.WithTB(context.Background(), t)
			doc := parseDoc(t, `<p>Energy: $E=mc^2$</p>`)
			require.NoError(t, Initialize(ctx, doc, WithConfig(cfg)))

			out := bodyHTML(t, doc)
			assert.True(t, strings.HasPrefix(out, `<p>Energy: <span class="katex">`), out)
			assert.Contains(t, out, "E=mc²")
			assert.NotContains(t, out, "$")
		})
	}
}

func TestInitialize_MalformedMath(t *testing.T) {
	var got []error
	doc := parseDoc(t, `<p>$\frac{1$</p>`)
	err := Initialize(context.Background(), doc,
		WithConfig(MinimalConfig()),
		WithErrorCallback(func(_ string, err error) { got = append(got, err) }))
	require.NoError(t, err)
	require.Len(t, got, 1)

	out := bodyHTML(t, doc)
	assert.Contains(t, out, `class="katex-error"`)
	assert.Contains(t, out, `style="color:#dc2626"`)
}

func TestInitialize_ThrowOnError(t *testing.T) {
	cfg := MinimalConfig().Clone()
	cfg.Policy.ThrowOnError = true
	err := Initialize(context.Background(), parseDoc(t, `<p>$\frac{1$</p>`), WithConfig(cfg))
	var pe *latex.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestInitialize_MacroEquivalence(t *testing.T) {
	for name, cfg := range map[string]*RenderConfig{"minimal": MinimalConfig(), "full": DefaultConfig()} {
		t.Run(name, func(t *testing.T) {
			a := parseDoc(t, `<p>$\R$</p>`)
			b := parseDoc(t, `<p>$\mathbb{R}$</p>`)
			require.NoError(t, Initialize(context.Background(), a, WithConfig(cfg)))
			require.NoError(t, Initialize(context.Background(), b, WithConfig(cfg)))
			assert.Equal(t, bodyHTML(t, b), bodyHTML(t, a))
		})
	}
}

// TestInitialize_ScriptedBigOperators 测试带上下标的 \sum、\integral 在完整配置下正常渲染
func TestInitialize_ScriptedBigOperators(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		sym  string
	}{
		{name: "sum", in: `$\sum_{i=1}^{n} i$`, sym: "∑"},
		{name: "integral", in: `$\integral_{0}^{1} f$`, want: `$\int_{0}^{1} f$`, sym: "∫"},
		{name: "limit", in: `$\limit_{x \to 0} f$`, want: `$\lim_{x \to 0} f$`, sym: "lim"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errs []error
			got := parseDoc(t, "<p>"+tt.in+"</p>")
			require.NoError(t, Initialize(context.Background(), got,
				WithErrorCallback(func(_ string, err error) { errs = append(errs, err) })))
			assert.Empty(t, errs)
			assert.NotContains(t, bodyHTML(t, got), "katex-error")
			assert.Contains(t, bodyHTML(t, got), tt.sym)
			if tt.want == "" {
				return
			}
			want := parseDoc(t, "<p>"+tt.want+"</p>")
			require.NoError(t, Initialize(context.Background(), want))
			assert.Equal(t, bodyHTML(t, want), bodyHTML(t, got))
		})
	}
}

func TestInitialize_DoesNotMutateSharedConfig(t *testing.T) {
	before := len(DefaultConfig().Delimiters)
	err := Initialize(context.Background(), parseDoc(t, "<p>$x$</p>"),
		WithErrorCallback(func(string, error) {}))
	require.NoError(t, err)
	assert.Len(t, DefaultConfig().Delimiters, before)
	assert.NotNil(t, DefaultConfig().ErrorCallback)
}

func TestDefaultConfig_DuplicateMacro(t *testing.T) {
	cfg := DefaultConfig()
	m, ok := cfg.Macros.Lookup(`\field`)
	require.True(t, ok)
	assert.Equal(t, `\mathcal{F}`, m.Template)
	require.Len(t, cfg.Macros.Duplicates(), 1)
	assert.Equal(t, `\field`, cfg.Macros.Duplicates()[0].Key)
	assert.Same(t, cfg, DefaultConfig())
}

func TestMinimalConfig(t *testing.T) {
	cfg := MinimalConfig()
	assert.Len(t, cfg.Delimiters, 4)
	assert.Equal(t, 4, cfg.Macros.Len())
	assert.False(t, cfg.Policy.ThrowOnError)
	assert.Equal(t, "#dc2626", cfg.Policy.ErrorColor)
	assert.Equal(t, types.StrictIgnore, cfg.Policy.Strict)
	assert.True(t, cfg.Policy.Trust)
}
