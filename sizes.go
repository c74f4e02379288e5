package studynotes

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/JuanLara18/study-notes/internal/style"
)

// Breakpoint 小于该宽度（像素）时缩小块级公式
const Breakpoint = 768

// Scale 某个视口宽度下块级公式的样式
type Scale struct {
	FontSize  string `json:"fontSize"`
	OverflowX string `json:"overflowX,omitempty"`
}

// ScaleFor returns the display-block style for a viewport width.
func ScaleFor(width int) Scale {
	if width < Breakpoint {
		return Scale{FontSize: "90%", OverflowX: "auto"}
	}
	return Scale{FontSize: "100%"}
}

// AdjustSizes 按视口宽度调整每个 .katex-display 元素的内联样式，
// 返回调整的块数。
//
// 样式按属性名合并，重复调用结果不变。
func AdjustSizes(root *html.Node, width int) int {
	if root == nil {
		return 0
	}
	scale := ScaleFor(width)
	blocks := goquery.NewDocumentFromNode(root).Find(".katex-display")
	blocks.Each(func(_ int, s *goquery.Selection) {
		editStyle(s, func(d *style.Declarations) {
			d.Set("font-size", scale.FontSize)
			if scale.OverflowX != "" {
				d.Set("overflow-x", scale.OverflowX)
			} else {
				d.Remove("overflow-x")
			}
		})
	})
	return blocks.Length()
}

// PrepareDisplayBlocks 为每个 .math-display 容器设置
// overflow: auto; max-width: 100%，返回处理的块数。
func PrepareDisplayBlocks(root *html.Node) int {
	if root == nil {
		return 0
	}
	blocks := goquery.NewDocumentFromNode(root).Find(".math-display")
	blocks.Each(func(_ int, s *goquery.Selection) {
		editStyle(s, func(d *style.Declarations) {
			d.Set("overflow", "auto")
			d.Set("max-width", "100%")
		})
	})
	return blocks.Length()
}

func editStyle(s *goquery.Selection, fn func(*style.Declarations)) {
	d := style.Parse(s.AttrOr("style", ""))
	fn(d)
	if d.Len() == 0 {
		s.RemoveAttr("style")
		return
	}
	s.SetAttr("style", d.String())
}
