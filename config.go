package studynotes

import (
	"context"
	"errors"
	"sync"

	"cdr.dev/slog"

	"github.com/JuanLara18/study-notes/internal/macro"
	"github.com/JuanLara18/study-notes/internal/types"
)

// 导出类型别名
type (
	RenderConfig  = types.RenderConfig
	DisplayPolicy = types.DisplayPolicy
	Delimiter     = types.Delimiter
	ErrorCallback = types.ErrorCallback
)

// ErrInvalidConfig 配置无法使用（没有定界符、空定界符、非法颜色等）
var ErrInvalidConfig = errors.New("invalid render config")

var (
	defaultConfig     *RenderConfig
	defaultConfigOnce sync.Once

	minimalConfig     *RenderConfig
	minimalConfigOnce sync.Once
)

// DefaultConfig returns the full render configuration (singleton): nine
// delimiters, the complete macro table and the full display policy. Render
// errors are logged at warning level.
//
// The returned value is shared; use Clone before modifying it.
func DefaultConfig() *RenderConfig {
	defaultConfigOnce.Do(func() {
		defaultConfig = &RenderConfig{
			Delimiters:    types.FullDelimiters(),
			Macros:        macro.MustFromDefinitions(types.FullMacros()),
			Policy:        types.FullPolicy(),
			IgnoredTags:   types.DefaultIgnoredTags,
			ErrorCallback: logErrorCallback,
		}
	})
	return defaultConfig
}

// MinimalConfig returns the minimal render configuration (singleton): the four
// basic delimiters and the number-set macros.
func MinimalConfig() *RenderConfig {
	minimalConfigOnce.Do(func() {
		minimalConfig = &RenderConfig{
			Delimiters:  types.MinimalDelimiters(),
			Macros:      macro.MustFromDefinitions(types.MinimalMacros()),
			Policy:      types.DefaultPolicy(),
			IgnoredTags: types.DefaultIgnoredTags,
		}
	})
	return minimalConfig
}

func logErrorCallback(msg string, err error) {
	Logger.Warn(context.Background(), msg, slog.F("err", err))
}
