package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/JuanLara18/study-notes/internal/latex"
	"github.com/JuanLara18/study-notes/internal/types"
)

// Script runs katex.renderToString from a KaTeX-compatible JavaScript
// bundle. A goja.Runtime is not goroutine-safe; calls are serialised.
type Script struct {
	mu     sync.Mutex
	vm     *goja.Runtime
	render goja.Callable
}

// LoadScript reads the bundle at path.
func LoadScript(path string) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return NewScript(path, string(src))
}

// NewScript evaluates src, which must define a global katex object.
func NewScript(name, src string) (*Script, error) {
	vm := goja.New()
	if _, err := vm.RunScript(name, src); err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", name, err)
	}
	katex := vm.Get("katex")
	if katex == nil || goja.IsUndefined(katex) || goja.IsNull(katex) {
		return nil, fmt.Errorf("%s does not define katex", name)
	}
	render, ok := goja.AssertFunction(katex.ToObject(vm).Get("renderToString"))
	if !ok {
		return nil, fmt.Errorf("%s: katex.renderToString is not a function", name)
	}
	return &Script{vm: vm, render: render}, nil
}

func (s *Script) Render(ctx context.Context, tex string, display bool, cfg *types.RenderConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		s.vm.Interrupt(ctx.Err())
	})
	defer func() {
		stop()
		s.vm.ClearInterrupt()
	}()

	v, err := s.render(goja.Undefined(), s.vm.ToValue(tex), s.vm.ToValue(scriptOptions(display, cfg.Policy)))
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return "", fmt.Errorf("render interrupted: %w", ctx.Err())
		}
		return "", &latex.ParseError{Message: s.message(err), Position: -1, Source: tex}
	}
	return v.String(), nil
}

// message extracts the JavaScript error message without KaTeX's prefix.
func (s *Script) message(err error) string {
	msg := err.Error()
	var ex *goja.Exception
	if errors.As(err, &ex) {
		if obj, ok := ex.Value().(*goja.Object); ok {
			if m := obj.Get("message"); m != nil && !goja.IsUndefined(m) {
				msg = m.String()
			}
		}
	}
	return strings.TrimPrefix(msg, "KaTeX parse error: ")
}

func scriptOptions(display bool, p types.DisplayPolicy) map[string]any {
	opts := map[string]any{
		"displayMode":      display,
		"throwOnError":     true,
		"errorColor":       p.ErrorColor,
		"strict":           string(types.StrictIgnore),
		"trust":            p.Trust,
		"output":           string(types.OutputHTML),
		"fleqn":            p.Fleqn,
		"leqno":            p.Leqno,
		"colorIsTextColor": p.ColorIsTextColor,
		"maxExpand":        math.Inf(1),
	}
	if p.Strict != "" {
		opts["strict"] = string(p.Strict)
	}
	if p.Output != "" {
		opts["output"] = string(p.Output)
	}
	if p.MinRuleThickness > 0 {
		opts["minRuleThickness"] = p.MinRuleThickness
	}
	if p.MaxSize > 0 {
		opts["maxSize"] = p.MaxSize
	}
	if p.MaxExpand > 0 {
		opts["maxExpand"] = p.MaxExpand
	}
	return opts
}
