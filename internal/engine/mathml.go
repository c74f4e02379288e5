package engine

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"

	"github.com/JuanLara18/study-notes/internal/latex"
	"github.com/JuanLara18/study-notes/internal/types"
)

// MathML renders the MathML half with treeblood; the HTML half is the
// Unicode rendering. Input is validated by the latex package first so the
// error policy behaves like the built-in engine.
type MathML struct {
	mu sync.Mutex
	md goldmark.Markdown
}

func NewMathML() *MathML {
	return &MathML{
		md: goldmark.New(goldmark.WithExtensions(treeblood.MathML())),
	}
}

func (m *MathML) Render(ctx context.Context, tex string, display bool, cfg *types.RenderConfig) (string, error) {
	text, err := renderText(ctx, tex, cfg)
	if err != nil {
		return "", err
	}
	mathml, err := m.convert(tex, display)
	if err != nil {
		return "", err
	}

	p := cfg.Policy
	if p.Output == "" || p.Output == types.OutputHTML {
		p.Output = types.OutputHTMLAndMathML
	}
	return Markup(text, tex, display, p, mathml), nil
}

// convert returns the <math> element treeblood produces for tex.
func (m *MathML) convert(tex string, display bool) (string, error) {
	source := "$" + tex + "$"
	if display {
		source = "$$" + tex + "$$"
	}

	var buf bytes.Buffer
	m.mu.Lock()
	err := m.md.Convert([]byte(source), &buf)
	m.mu.Unlock()
	if err != nil {
		return "", &latex.ParseError{Message: err.Error(), Position: -1, Source: tex}
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", &latex.ParseError{Message: err.Error(), Position: -1, Source: tex}
	}
	sel := doc.Find("math").First()
	if sel.Length() == 0 {
		return "", &latex.ParseError{Message: "no MathML produced", Position: -1, Source: tex}
	}
	out, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", &latex.ParseError{Message: err.Error(), Position: -1, Source: tex}
	}
	return strings.TrimSpace(out), nil
}
