package autorender

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/JuanLara18/study-notes/internal/engine"
	"github.com/JuanLara18/study-notes/internal/latex"
	"github.com/JuanLara18/study-notes/internal/log"
	"github.com/JuanLara18/study-notes/internal/macro"
	"github.com/JuanLara18/study-notes/internal/types"
)

func TestSplit(t *testing.T) {
	delims := types.FullDelimiters()
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			name: "plain text",
			in:   "no math here",
			want: []Segment{{Data: "no math here"}},
		},
		{
			name: "inline dollars",
			in:   "a $x$ b",
			want: []Segment{{Data: "a "}, {Math: true, Data: "x", Raw: "$x$"}, {Data: " b"}},
		},
		{
			name: "display dollars win over single",
			in:   "$$x$$",
			want: []Segment{{Math: true, Data: "x", Raw: "$$x$$", Display: true}},
		},
		{
			name: "brackets and parens",
			in:   `\[a\] and \(b\)`,
			want: []Segment{
				{Math: true, Data: "a", Raw: `\[a\]`, Display: true},
				{Data: " and "},
				{Math: true, Data: "b", Raw: `\(b\)`},
			},
		},
		{
			name: "closing delimiter inside braces",
			in:   `$a{b$c}$`,
			want: []Segment{{Math: true, Data: "a{b$c}", Raw: `$a{b$c}$`}},
		},
		{
			name: "unbalanced braces",
			in:   `$\frac{1$`,
			want: []Segment{{Math: true, Data: `\frac{1`, Raw: `$\frac{1$`}},
		},
		{
			name: "unclosed",
			in:   "costs $5",
			want: []Segment{{Data: "costs "}, {Data: "$5"}},
		},
		{
			name: "environment kept whole",
			in:   `\begin{equation}x=1\end{equation}`,
			want: []Segment{{Math: true, Data: `\begin{equation}x=1\end{equation}`, Raw: `\begin{equation}x=1\end{equation}`, Display: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.in, delims))
		})
	}
}

func parseBody(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<html><body>" + src + "</body></html>"))
	require.NoError(t, err)
	var body *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil && body == nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	require.NotNil(t, body)
	return body
}

func renderChildren(t *testing.T, n *html.Node) string {
	t.Helper()
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		require.NoError(t, html.Render(&b, c))
	}
	return b.String()
}

func minimalConfig() *types.RenderConfig {
	return &types.RenderConfig{
		Delimiters:  types.MinimalDelimiters(),
		Macros:      macro.MustFromDefinitions(types.MinimalMacros()),
		Policy:      types.DefaultPolicy(),
		IgnoredTags: types.DefaultIgnoredTags,
	}
}

func TestRender_PreservesSurroundingText(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	body := parseBody(t, `<p>Energy: $E=mc^2$</p>`)

	stats, err := New(nil).Render(ctx, body, minimalConfig())
	require.NoError(t, err)
	assert.Equal(t, Stats{Rendered: 1}, stats)
	assert.Equal(t,
		`<p>Energy: <span class="katex"><span class="katex-html" aria-hidden="true">E=mc²</span></span></p>`,
		renderChildren(t, body))
}

func TestRender_AllDelimiters(t *testing.T) {
	for _, src := range []string{`$x$`, `$$x$$`, `\(x\)`, `\[x\]`} {
		t.Run(src, func(t *testing.T) {
			body := parseBody(t, "<p>"+src+"</p>")
			stats, err := New(nil).Render(context.Background(), body, minimalConfig())
			require.NoError(t, err)
			assert.Equal(t, 1, stats.Rendered)
			out := renderChildren(t, body)
			assert.Contains(t, out, `class="katex"`)
			assert.NotContains(t, out, src)
		})
	}
}

func TestRender_MacroMatchesExpansion(t *testing.T) {
	a := parseBody(t, `<p>$\R$</p>`)
	b := parseBody(t, `<p>$\mathbb{R}$</p>`)
	require.NoError(t, New(nil).RenderMathInElement(context.Background(), a, minimalConfig()))
	require.NoError(t, New(nil).RenderMathInElement(context.Background(), b, minimalConfig()))
	assert.Equal(t, renderChildren(t, b), renderChildren(t, a))
}

func TestRender_Ignored(t *testing.T) {
	cfg := minimalConfig()
	cfg.IgnoredClasses = []string{"no-math"}
	src := `<pre>$x$</pre><code>$y$</code><div class="note no-math">$z$</div>`
	body := parseBody(t, src)

	stats, err := New(nil).Render(context.Background(), body, cfg)
	require.NoError(t, err)
	assert.Zero(t, stats.Rendered)
	assert.Equal(t, src, renderChildren(t, body))
}

func TestRender_ErrorMarker(t *testing.T) {
	cfg := minimalConfig()
	var calls []error
	var msgs []string
	cfg.ErrorCallback = func(msg string, err error) {
		msgs = append(msgs, msg)
		calls = append(calls, err)
	}
	body := parseBody(t, `<p>$\frac{1$</p>`)

	stats, err := New(nil).Render(context.Background(), body, cfg)
	require.NoError(t, err)
	assert.Equal(t, Stats{Errors: 1}, stats)
	require.Len(t, calls, 1)
	assert.Equal(t, "Failed to parse `\\frac{1` with "+calls[0].Error(), msgs[0])
	assert.Contains(t, msgs[0], "ParseError: ")
	assert.Equal(t,
		`<p><span class="katex-error" title="ParseError: Expected &#39;}&#39;, got &#39;EOF&#39; at end of input" style="color:#dc2626">\frac{1</span></p>`,
		renderChildren(t, body))
}

func TestRender_ErrorColor(t *testing.T) {
	cfg := minimalConfig()
	cfg.Policy.ErrorColor = "#ff0000"
	cfg.ErrorCallback = func(string, error) {}
	body := parseBody(t, `<p>$x^$</p>`)
	require.NoError(t, New(nil).RenderMathInElement(context.Background(), body, cfg))
	assert.Contains(t, renderChildren(t, body), `style="color:#ff0000"`)
}

func TestRender_ThrowOnError(t *testing.T) {
	cfg := minimalConfig()
	cfg.Policy.ThrowOnError = true
	body := parseBody(t, `<p>$\frac{1$</p>`)

	err := New(nil).RenderMathInElement(context.Background(), body, cfg)
	var pe *latex.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, `\frac{1`, pe.Source)
}

func TestRender_TooManyExpansions(t *testing.T) {
	cfg := minimalConfig()
	cfg.Policy.ThrowOnError = true
	cfg.Policy.MaxExpand = 1
	body := parseBody(t, `<p>$\R\N$</p>`)

	err := New(nil).RenderMathInElement(context.Background(), body, cfg)
	assert.True(t, errors.Is(err, macro.ErrTooManyExpansions))
	var pe *latex.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestRender_Idempotent(t *testing.T) {
	body := parseBody(t, `<p>a $x$ b $$y$$</p>`)
	r := New(engine.Unicode{})
	require.NoError(t, r.RenderMathInElement(context.Background(), body, minimalConfig()))
	first := renderChildren(t, body)
	require.NoError(t, r.RenderMathInElement(context.Background(), body, minimalConfig()))
	assert.Equal(t, first, renderChildren(t, body))
}

func TestRender_InvalidConfig(t *testing.T) {
	cfg := minimalConfig()
	cfg.Delimiters = nil
	_, err := New(nil).Render(context.Background(), parseBody(t, "<p>$x$</p>"), cfg)
	assert.Error(t, err)
}

func TestErrorMarkup(t *testing.T) {
	got := ErrorMarkup(`x^`, errors.New("boom"), "")
	assert.Equal(t, `<span class="katex-error" title="ParseError: boom" style="color:#dc2626">x^</span>`, got)
}
