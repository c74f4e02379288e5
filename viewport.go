package studynotes

import (
	"context"

	"golang.org/x/net/html"
)

// WatchViewport 对 widths 收到的每个宽度调用 AdjustSizes，之后调用 fn
// （可为 nil）。ctx 取消时返回 ctx.Err()，通道关闭时返回 nil。
//
// root 只在调用方的 goroutine 中修改；fn 返回前不会处理下一个宽度。
func WatchViewport(ctx context.Context, root *html.Node, widths <-chan int, fn func(width, adjusted int)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case w, ok := <-widths:
			if !ok {
				return nil
			}
			n := AdjustSizes(root, w)
			if fn != nil {
				fn(w, n)
			}
		}
	}
}
