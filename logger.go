package studynotes

import (
	"cdr.dev/slog"

	"github.com/JuanLara18/study-notes/internal/log"
)

// Logger 全局日志记录器；调用方的 ctx 未携带 logger 时使用
var Logger slog.Logger = log.Default()

// SetLogger 设置自定义日志记录器
func SetLogger(logger slog.Logger) {
	Logger = logger
}
