package engine

import (
	"context"

	"cdr.dev/slog"

	"github.com/JuanLara18/study-notes/internal/latex"
	"github.com/JuanLara18/study-notes/internal/log"
	"github.com/JuanLara18/study-notes/internal/types"
)

// Unicode is the built-in engine: it converts TeX to Unicode text with the
// latex package and wraps it in KaTeX markup.
type Unicode struct{}

func (Unicode) Render(ctx context.Context, tex string, display bool, cfg *types.RenderConfig) (string, error) {
	res, err := renderText(ctx, tex, cfg)
	if err != nil {
		return "", err
	}
	return Markup(res, tex, display, cfg.Policy, ""), nil
}

func renderText(ctx context.Context, tex string, cfg *types.RenderConfig) (string, error) {
	res, err := latex.Render(tex, latex.Options{Strict: cfg.Policy.Strict, Trust: cfg.Policy.Trust})
	if err != nil {
		return "", err
	}
	for _, w := range res.Warnings {
		log.Warn(ctx, "latex", slog.F("warning", w), slog.F("tex", tex))
	}
	return res.Text, nil
}
