package parser

import (
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	gutil "github.com/yuin/goldmark/util"

	"github.com/JuanLara18/study-notes/internal/mermaid"
	"github.com/JuanLara18/study-notes/internal/util"
)

// DefaultStyle is the chroma style used for the generated stylesheet.
const DefaultStyle = "friendly"

// Highlighter renders fenced code blocks with chroma inside
// <div class="codehilite">, using CSS classes rather than inline styles.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter returns a highlighter for the named chroma style; an
// unknown or empty name selects DefaultStyle.
func NewHighlighter(style string) *Highlighter {
	if style == "" {
		style = DefaultStyle
	}
	return &Highlighter{
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.TabWidth(4)),
	}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (h *Highlighter) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, h.renderFencedCode)
}

func (h *Highlighter) renderFencedCode(w gutil.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	lang := util.NormalizeLanguage(string(n.Language(source)))
	if lang == "mermaid" {
		return ast.WalkSkipChildren, mermaid.WriteFigure(w, code.String())
	}
	return ast.WalkSkipChildren, h.Highlight(w, code.String(), lang)
}

// Highlight writes code as highlighted HTML. Unknown languages are guessed
// from the content, then fall back to plain text.
func (h *Highlighter) Highlight(w io.Writer, code, lang string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		_, werr := io.WriteString(w, `<div class="codehilite"><pre><code>`+html.EscapeString(code)+"</code></pre></div>\n")
		return werr
	}
	if _, err := io.WriteString(w, `<div class="codehilite">`); err != nil {
		return err
	}
	if err := h.formatter.Format(w, h.style, iterator); err != nil {
		return err
	}
	_, err = io.WriteString(w, "</div>\n")
	return err
}

// WriteCSS writes the stylesheet for the highlighter's classes.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}
