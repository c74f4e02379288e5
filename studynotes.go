// Package studynotes 在服务端为 HTML 页面预渲染数学公式
//
// 这个包提供了学习笔记站点所需的数学渲染功能：扫描 HTML 树中的
// 定界符（$...$、$$...$$、\(...\)、\[...\]、LaTeX 环境），展开宏，
// 调用渲染引擎把公式替换为 KaTeX 兼容的标记，并按视口宽度调整
// 块级公式的字号。
//
// 核心功能：
//   - Initialize(): 一次性构建配置并渲染整棵树中的公式
//   - AdjustSizes(): 按宽度调整 .katex-display 块的字号和横向滚动
//   - PrepareDisplayBlocks(): 为 .math-display 容器设置溢出样式
//   - RenderHTML() / RenderFragment(): 面向字节流和片段的便捷封装
//
// 示例：
//
//	doc, _ := html.Parse(r)
//	if err := studynotes.Initialize(ctx, doc); err != nil {
//	    // 只有配置非法或 ThrowOnError=true 时才会出错
//	}
//	studynotes.AdjustSizes(doc, 500)
package studynotes

import (
	"context"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/JuanLara18/study-notes/internal/log"
)

// Renderer 在子树中渲染公式（对应 renderMathInElement）
type Renderer interface {
	RenderMathInElement(ctx context.Context, root *html.Node, cfg *RenderConfig) error
}

// Initialize 构建完整配置后，对 root 的 <body>（没有则为 root 本身）
// 调用一次 Renderer。
//
// 配置非法时在调用渲染器之前返回 ErrInvalidConfig。公式错误不会让
// Initialize 失败，除非 ThrowOnError=true，此时返回第一个
// *latex.ParseError。
func Initialize(ctx context.Context, root *html.Node, opts ...Option) error {
	if root == nil {
		return fmt.Errorf("%w: nil root", ErrInvalidConfig)
	}
	o := applyOptions(opts...)

	cfg := o.Config.Clone()
	if o.ErrorCallback != nil {
		cfg.ErrorCallback = o.ErrorCallback
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch {
	case o.Logger != nil:
		ctx = log.With(ctx, *o.Logger)
	case !log.Has(ctx):
		ctx = log.With(ctx, Logger)
	}

	return o.Renderer.RenderMathInElement(ctx, body(root), cfg)
}

// body returns the <body> element under root, or root itself.
func body(root *html.Node) *html.Node {
	if root.Type == html.ElementNode && root.DataAtom == atom.Body {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Html || c.DataAtom == atom.Body) {
			if b := body(c); b != nil && b.DataAtom == atom.Body {
				return b
			}
		}
	}
	return root
}
