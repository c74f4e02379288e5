// Package parser 把 Markdown 笔记渲染为 HTML。
package parser

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	gutil "github.com/yuin/goldmark/util"

	"github.com/JuanLara18/study-notes/internal/converter"
	"github.com/JuanLara18/study-notes/internal/types"
)

// StandardOptions goldmark 扩展配置，对应原站点的 extra/codehilite/toc
var StandardOptions = []goldmark.Option{
	goldmark.WithExtensions(
		extension.GFM,            // GitHub Flavored Markdown (tables, strikethrough, tasklists)
		extension.DefinitionList, // 定义列表
		extension.Footnote,       // 脚注
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(), // 自动生成标题 ID
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // 笔记里允许内嵌 HTML
	),
}

// Document 一篇 Markdown 的渲染结果
type Document struct {
	HTML string
	Text string // 纯文本，公式保留原文
	TOC  []converter.Heading
	Math int // 被保护的公式个数
}

// New returns a goldmark instance with StandardOptions and chroma
// highlighting for fenced code.
func New(h *Highlighter) goldmark.Markdown {
	if h == nil {
		h = NewHighlighter("")
	}
	opts := append([]goldmark.Option{}, StandardOptions...)
	opts = append(opts, goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(gutil.Prioritized(h, 100)),
	))
	return goldmark.New(opts...)
}

// Parse 保护公式、解析 Markdown、收集目录后渲染为 HTML
func Parse(markdown string, delims []types.Delimiter, h *Highlighter) (*Document, error) {
	if delims == nil {
		delims = types.FullDelimiters()
	}
	md := New(h)

	protected, spans := converter.Protect(markdown, delims)
	source := []byte(protected)
	node := md.Parser().Parse(text.NewReader(source))

	walker := converter.NewWalker(source, spans)
	if err := ast.Walk(node, walker.Walk); err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, node); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	plain, toc := walker.Result()
	return &Document{
		HTML: spans.Restore(buf.String()),
		Text: plain,
		TOC:  toc,
		Math: spans.Len(),
	}, nil
}

// ParseAST 仅解析为 AST，不保护公式
func ParseAST(markdown string) ast.Node {
	md := goldmark.New(StandardOptions...)
	return md.Parser().Parse(text.NewReader([]byte(markdown)))
}
