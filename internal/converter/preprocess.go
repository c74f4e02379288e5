// Package converter 保护 Markdown 中的公式不被 Markdown 语法改写，
// 并在 HTML 渲染后原样放回，同时遍历 AST 收集目录和纯文本。
package converter

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/JuanLara18/study-notes/internal/autorender"
	"github.com/JuanLara18/study-notes/internal/types"
)

const (
	placeholderPrefix = "MATHSPAN"
	placeholderSuffix = "END"
)

var (
	// codeRegionRe 匹配代码块和行内代码
	codeRegionRe = regexp.MustCompile("(```[\\s\\S]*?```|~~~[\\s\\S]*?~~~|`[^`\\n]+`)")

	placeholderRe = regexp.MustCompile(placeholderPrefix + `(\d+)` + placeholderSuffix)

	// a display span that is the whole paragraph
	displayParagraphRe = regexp.MustCompile(`<p>(` + placeholderPrefix + `\d+` + placeholderSuffix + `)</p>`)
)

func placeholder(i int) string {
	return fmt.Sprintf("%s%d%s", placeholderPrefix, i, placeholderSuffix)
}

func placeholderIndex(token string) int {
	m := placeholderRe.FindStringSubmatch(token)
	if m == nil {
		return -1
	}
	i, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return i
}

// Protect 把代码区域之外的公式替换为占位符。
// 占位符只含字母和数字，Markdown 不会改写它们。
func Protect(markdown string, delims []types.Delimiter) (string, *Spans) {
	spans := &Spans{}
	if !autorender.HasMath(markdown, delims) {
		return markdown, spans
	}

	parts := codeRegionRe.Split(markdown, -1)
	matches := codeRegionRe.FindAllString(markdown, -1)

	var result strings.Builder
	for i, part := range parts {
		// 偶数索引：非代码区域
		result.WriteString(protectPart(part, delims, spans))
		if i < len(matches) {
			result.WriteString(matches[i])
		}
	}
	return result.String(), spans
}

func protectPart(text string, delims []types.Delimiter, spans *Spans) string {
	segs := autorender.Split(text, delims)
	if len(segs) == 1 && !segs[0].Math {
		return text
	}
	var b strings.Builder
	for _, seg := range segs {
		if !seg.Math {
			b.WriteString(seg.Data)
			continue
		}
		b.WriteString(spans.add(seg.Raw, seg.Display))
	}
	return b.String()
}

// Restore 把 HTML 中的占位符换回转义后的公式原文。
// 独占一个段落的块级公式放进 <div class="math-display">。
func (s *Spans) Restore(rendered string) string {
	if s.Len() == 0 {
		return rendered
	}
	rendered = displayParagraphRe.ReplaceAllStringFunc(rendered, func(p string) string {
		token := displayParagraphRe.FindStringSubmatch(p)[1]
		span, ok := s.lookup(token)
		if !ok || !span.Display {
			return p
		}
		return `<div class="math-display">` + html.EscapeString(span.Raw) + `</div>`
	})
	return placeholderRe.ReplaceAllStringFunc(rendered, func(token string) string {
		if span, ok := s.lookup(token); ok {
			return html.EscapeString(span.Raw)
		}
		return token
	})
}
