package latex

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/JuanLara18/study-notes/internal/types"
)

// ParseError 是渲染期唯一的错误类型
type ParseError struct {
	Message  string
	Position int // 字节偏移；-1 表示未知
	Source   string
	Err      error
}

func (e *ParseError) Unwrap() error { return e.Err }

// Wrap converts err into a *ParseError for tex unless it already is one.
func Wrap(err error, tex string) *ParseError {
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return &ParseError{Message: err.Error(), Position: -1, Source: tex, Err: err}
}

func (e *ParseError) Error() string {
	if e.Position >= 0 && e.Position < len(e.Source) {
		return fmt.Sprintf("ParseError: %s at position %d: %s", e.Message, e.Position+1, excerpt(e.Source, e.Position))
	}
	return "ParseError: " + e.Message
}

func excerpt(src string, pos int) string {
	start := max(pos-15, 0)
	end := min(pos+15, len(src))
	return src[start:pos] + "̲" + src[pos:end]
}

// Options 控制解析器对未知命令与受信命令的处理
type Options struct {
	Strict types.StrictMode
	Trust  bool
}

// Result 单个公式的渲染结果
type Result struct {
	Text     string
	Warnings []string
}

// Render 校验并转换一个公式
func Render(tex string, opts Options) (Result, error) {
	if err := Check(tex); err != nil {
		return Result{}, err
	}

	p := NewParser(opts)
	text, err := p.Convert(tex)
	if err != nil {
		return Result{}, err
	}

	if len(p.untrusted) > 0 {
		cmd := p.untrusted[0]
		return Result{}, &ParseError{
			Message:  fmt.Sprintf("%s is not trusted", cmd),
			Position: strings.Index(tex, cmd),
			Source:   tex,
		}
	}

	var res Result
	res.Text = text
	for _, cmd := range dedupe(p.unknown) {
		msg := "Undefined control sequence: " + cmd
		switch opts.Strict {
		case types.StrictError:
			return Result{}, &ParseError{Message: msg, Position: strings.Index(tex, cmd), Source: tex}
		case types.StrictWarn:
			res.Warnings = append(res.Warnings, msg)
		}
	}
	return res, nil
}

func dedupe(in []string) []string {
	if len(in) < 2 {
		return in
	}
	seen := make(map[string]bool, len(in))
	out := in[:0:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// ContainsLatexSymbols 检查内容是否包含 LaTeX 命令
func ContainsLatexSymbols(content string) bool {
	if !strings.Contains(content, `\`) {
		return false
	}
	for _, pattern := range []string{`\frac`, `\sqrt`, `\begin`} {
		if strings.Contains(content, pattern) {
			return true
		}
	}
	for _, cmd := range knownCommands() {
		if len(cmd) > 2 && strings.Contains(content, cmd) {
			return true
		}
	}
	return false
}

// knownCommands returns the symbol table keys, longest first.
var knownCommands = sync.OnceValue(func() []string {
	cmds := make([]string, 0, len(LatexSymbols))
	for cmd := range LatexSymbols {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		if len(cmds[i]) != len(cmds[j]) {
			return len(cmds[i]) > len(cmds[j])
		}
		return cmds[i] < cmds[j]
	})
	return cmds
})
