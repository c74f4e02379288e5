package studynotes

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML 读取完整 HTML 文档，渲染公式，处理块级公式样式后写出。
// width <= 0 时不调用 AdjustSizes。
func RenderHTML(ctx context.Context, r io.Reader, w io.Writer, width int, opts ...Option) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	if err := Initialize(ctx, doc, opts...); err != nil {
		return err
	}
	PrepareDisplayBlocks(doc)
	if width > 0 {
		AdjustSizes(doc, width)
	}
	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// RenderFragment 渲染 body 内的 HTML 片段，返回渲染后的片段
func RenderFragment(ctx context.Context, fragment string, opts ...Option) (string, error) {
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	if err := Initialize(ctx, container, opts...); err != nil {
		return "", err
	}
	PrepareDisplayBlocks(container)

	var b strings.Builder
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}
	return b.String(), nil
}
