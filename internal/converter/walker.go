package converter

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/JuanLara18/study-notes/internal/buffer"
	"github.com/JuanLara18/study-notes/internal/util"
)

// Heading 目录中的一项
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Walker 遍历 goldmark AST，收集纯文本（用于摘要和搜索）和标题目录。
// 标题 ID 按还原公式后的文本重新生成，避免占位符出现在锚点里。
type Walker struct {
	buf    *buffer.TextBuffer
	source []byte
	spans  *Spans

	headings []Heading
	ids      map[string]int

	// Heading state
	inHeading   bool
	headingText strings.Builder

	// Code block state
	inCodeBlock bool
	listDepth   int
}

// NewWalker 创建新的 Walker
func NewWalker(source []byte, spans *Spans) *Walker {
	return &Walker{
		buf:      buffer.New(),
		source:   source,
		spans:    spans,
		headings: make([]Heading, 0),
		ids:      make(map[string]int),
	}
}

// Walk 遍历 AST 节点
func (w *Walker) Walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	// --- Inline elements ---
	case *ast.Text:
		if entering {
			w.onText(string(n.Segment.Value(w.source)), n.SoftLineBreak(), n.HardLineBreak())
		}

	case *ast.String:
		if entering {
			w.onText(string(n.Value), false, false)
		}

	case *ast.AutoLink:
		if entering {
			w.onText(string(n.URL(w.source)), false, false)
			return ast.WalkSkipChildren, nil
		}

	case *ast.RawHTML:
		// inline tags carry no text
		return ast.WalkSkipChildren, nil

	// --- Block elements ---
	case *ast.Paragraph, *ast.Blockquote, *east.Table, *east.DefinitionList:
		if entering && w.listDepth == 0 {
			w.buf.Break(2)
		}

	case *ast.Heading:
		if entering {
			w.onStartHeading()
		} else {
			w.onEndHeading(n)
		}

	case *ast.List:
		if entering {
			w.buf.Break(2)
			w.listDepth++
		} else {
			w.listDepth--
		}

	case *ast.ListItem, *east.TableRow, *east.TableHeader, *east.DefinitionTerm:
		if entering {
			w.buf.Break(1)
		}

	case *east.TableCell:
		if !entering {
			w.buf.Write(" ")
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			w.onCodeBlock(n)
		}
		return ast.WalkSkipChildren, nil

	case *ast.HTMLBlock:
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

// Result returns the plain text, with math restored, and the table of contents.
func (w *Walker) Result() (string, []Heading) {
	return strings.TrimSpace(w.spans.RestoreText(w.buf.String())), w.headings
}

func (w *Walker) onText(text string, softBreak, hardBreak bool) {
	if softBreak || hardBreak {
		text += "\n"
	}
	if w.inHeading {
		w.headingText.WriteString(text)
	}
	w.buf.Write(text)
}

// --- Heading ---

func (w *Walker) onStartHeading() {
	w.buf.Break(2)
	w.inHeading = true
	w.headingText.Reset()
}

func (w *Walker) onEndHeading(n *ast.Heading) {
	w.inHeading = false
	text := strings.TrimSpace(w.spans.RestoreText(w.headingText.String()))
	id := util.UniqueID(util.Slugify(text), w.ids)
	n.SetAttributeString("id", []byte(id))
	w.headings = append(w.headings, Heading{Level: n.Level, ID: id, Text: text})
	w.buf.Break(1)
}

// --- Code block ---

func (w *Walker) onCodeBlock(n ast.Node) {
	w.buf.Break(2)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		w.buf.Write(string(line.Value(w.source)))
	}
}
