// Package engine turns a single TeX expression into HTML markup.
package engine

import (
	"context"
	"fmt"

	"github.com/JuanLara18/study-notes/internal/types"
)

// Engine renders one expression. Failures caused by the input are always
// reported as *latex.ParseError.
type Engine interface {
	Render(ctx context.Context, tex string, display bool, cfg *types.RenderConfig) (string, error)
}

const (
	NameUnicode = "unicode"
	NameMathML  = "mathml"
	NameScript  = "script"
)

// Names lists the engines ByName knows.
var Names = []string{NameUnicode, NameMathML, NameScript}

// ByName returns the engine called name. script is the path of a
// KaTeX-compatible bundle and is only used by the script engine.
func ByName(name, script string) (Engine, error) {
	switch name {
	case "", NameUnicode:
		return Unicode{}, nil
	case NameMathML:
		return NewMathML(), nil
	case NameScript:
		if script == "" {
			return nil, fmt.Errorf("engine %q needs a script path", name)
		}
		return LoadScript(script)
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}
