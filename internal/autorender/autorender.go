// Package autorender finds delimited math in the text of an HTML tree and
// replaces it with rendered markup.
package autorender

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"cdr.dev/slog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/JuanLara18/study-notes/internal/engine"
	"github.com/JuanLara18/study-notes/internal/latex"
	"github.com/JuanLara18/study-notes/internal/log"
	"github.com/JuanLara18/study-notes/internal/types"
)

// Stats counts what one pass rendered.
type Stats struct {
	Rendered int
	Errors   int
}

// Renderer renders math in a subtree with a single engine.
type Renderer struct {
	engine engine.Engine
}

func New(e engine.Engine) *Renderer {
	if e == nil {
		e = engine.Unicode{}
	}
	return &Renderer{engine: e}
}

// RenderMathInElement renders every delimited expression below root in place.
// With ThrowOnError the first failure aborts the pass and is returned as a
// *latex.ParseError; otherwise failures become error markers and are
// reported to cfg.ErrorCallback.
func (r *Renderer) RenderMathInElement(ctx context.Context, root *html.Node, cfg *types.RenderConfig) error {
	_, err := r.Render(ctx, root, cfg)
	return err
}

// Render is RenderMathInElement returning counts.
func (r *Renderer) Render(ctx context.Context, root *html.Node, cfg *types.RenderConfig) (Stats, error) {
	if root == nil {
		return Stats{}, fmt.Errorf("nil root")
	}
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	w := &walker{r: r, cfg: cfg}
	err := w.walk(ctx, root)
	return w.stats, err
}

type walker struct {
	r     *Renderer
	cfg   *types.RenderConfig
	stats Stats
}

func (w *walker) walk(ctx context.Context, n *html.Node) error {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.TextNode:
			// adjacent text nodes form one string
			for next != nil && next.Type == html.TextNode {
				c.Data += next.Data
				after := next.NextSibling
				n.RemoveChild(next)
				next = after
			}
			if err := w.text(ctx, n, c); err != nil {
				return err
			}
		case html.ElementNode:
			if !w.ignored(c) {
				if err := w.walk(ctx, c); err != nil {
					return err
				}
			}
		}
		c = next
	}
	return nil
}

// rendered output is never rescanned
var renderedClasses = []string{"katex", "katex-display", "katex-error"}

func (w *walker) ignored(n *html.Node) bool {
	if slices.Contains(w.cfg.IgnoredTags, strings.ToLower(n.Data)) {
		return true
	}
	for _, class := range classes(n) {
		if slices.Contains(w.cfg.IgnoredClasses, class) || slices.Contains(renderedClasses, class) {
			return true
		}
	}
	return false
}

func classes(n *html.Node) []string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			return strings.Fields(a.Val)
		}
	}
	return nil
}

func (w *walker) text(ctx context.Context, parent, n *html.Node) error {
	if !HasMath(n.Data, w.cfg.Delimiters) {
		return nil
	}
	segments := Split(n.Data, w.cfg.Delimiters)
	if len(segments) == 1 && !segments[0].Math {
		return nil
	}

	for _, seg := range segments {
		if !seg.Math {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: seg.Data}, n)
			continue
		}
		nodes, err := w.math(ctx, parent, seg)
		if err != nil {
			return err
		}
		for _, m := range nodes {
			parent.InsertBefore(m, n)
		}
	}
	parent.RemoveChild(n)
	return nil
}

func (w *walker) math(ctx context.Context, parent *html.Node, seg Segment) ([]*html.Node, error) {
	markup, err := w.render(ctx, seg)
	if err == nil {
		nodes, perr := fragment(parent, markup)
		if perr == nil {
			w.stats.Rendered++
			return nodes, nil
		}
		err = perr
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	pe := latex.Wrap(err, seg.Data)
	w.stats.Errors++
	if w.cfg.Policy.ThrowOnError {
		return nil, pe
	}
	w.report(ctx, seg, pe)
	return []*html.Node{errorNode(seg.Data, pe, w.cfg.Policy.ErrorColor)}, nil
}

func (w *walker) render(ctx context.Context, seg Segment) (string, error) {
	tex := seg.Data
	if w.cfg.Macros != nil {
		expanded, err := w.cfg.Macros.Expand(tex, w.cfg.Policy.MaxExpand)
		if err != nil {
			return "", err
		}
		tex = expanded
	}
	out, err := w.r.engine.Render(ctx, tex, seg.Display, w.cfg)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		// report against what the author wrote
		pe := latex.Wrap(err, seg.Data)
		if pe.Source != seg.Data {
			pe = &latex.ParseError{Message: pe.Message, Position: -1, Source: seg.Data, Err: pe.Err}
		}
		return "", pe
	}
	return out, nil
}

func (w *walker) report(ctx context.Context, seg Segment, pe *latex.ParseError) {
	msg := "Failed to parse `" + seg.Data + "` with " + pe.Error()
	if w.cfg.ErrorCallback != nil {
		w.cfg.ErrorCallback(msg, pe)
		return
	}
	log.Warn(ctx, "math render failed", slog.F("tex", seg.Data), slog.F("err", pe))
}

// ErrorMarkup returns the marker left in place of an expression that failed.
func ErrorMarkup(tex string, err error, color string) string {
	var b strings.Builder
	if err := html.Render(&b, errorNode(tex, latex.Wrap(err, tex), color)); err != nil {
		return html.EscapeString(tex)
	}
	return b.String()
}

func errorNode(tex string, pe *latex.ParseError, color string) *html.Node {
	if color == "" {
		color = types.DefaultErrorColor
	}
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr: []html.Attribute{
			{Key: "class", Val: "katex-error"},
			{Key: "title", Val: pe.Error()},
			{Key: "style", Val: "color:" + color},
		},
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: tex})
	return n
}

// fragment parses markup in the context of parent.
func fragment(parent *html.Node, markup string) ([]*html.Node, error) {
	ctxNode := parent
	if ctxNode.Type != html.ElementNode {
		ctxNode = &html.Node{Type: html.ElementNode, Data: "span", DataAtom: atom.Span}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctxNode)
	if err != nil {
		return nil, fmt.Errorf("parse rendered markup: %w", err)
	}
	return nodes, nil
}
