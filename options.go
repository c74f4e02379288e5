package studynotes

import (
	"cdr.dev/slog"

	"github.com/JuanLara18/study-notes/internal/autorender"
)

// Options holds options for Initialize and the document helpers.
type Options struct {
	Config        *RenderConfig
	Renderer      Renderer
	Logger        *slog.Logger
	ErrorCallback ErrorCallback
}

// Option is a function that configures Options.
type Option func(*Options)

// WithConfig sets a custom RenderConfig.
func WithConfig(config *RenderConfig) Option {
	return func(opts *Options) {
		opts.Config = config
	}
}

// WithRenderer replaces the built-in renderer.
func WithRenderer(r Renderer) Option {
	return func(opts *Options) {
		opts.Renderer = r
	}
}

// WithLogger sets the logger used for this call instead of Logger.
func WithLogger(l slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = &l
	}
}

// WithErrorCallback overrides the configuration's error callback.
func WithErrorCallback(fn ErrorCallback) Option {
	return func(opts *Options) {
		opts.ErrorCallback = fn
	}
}

// defaultOptions returns the default options.
func defaultOptions() *Options {
	return &Options{
		Config:   DefaultConfig(),
		Renderer: autorender.New(nil),
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.Config == nil {
		options.Config = DefaultConfig()
	}
	if options.Renderer == nil {
		options.Renderer = autorender.New(nil)
	}
	return options
}
