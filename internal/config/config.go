// Package config loads studynotes.yaml.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/JuanLara18/study-notes/internal/macro"
	"github.com/JuanLara18/study-notes/internal/types"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "studynotes.yaml"

const (
	PresetMinimal = "minimal"
	PresetFull    = "full"
)

// Site 站点配置
type Site struct {
	Title      string `yaml:"title"`
	BaseURL    string `yaml:"baseURL"`
	ContentDir string `yaml:"content"`
	OutputDir  string `yaml:"output"`
	// Width 构建时 AdjustSizes 使用的视口宽度，0 表示不调整
	Width        int    `yaml:"width"`
	RelativeURLs bool   `yaml:"relativeURLs"`
	Engine       string `yaml:"engine"`
	Script       string `yaml:"script"`
	Render       Render `yaml:"render"`
}

// Render 渲染配置段。未写出的策略字段沿用 preset 的值。
type Render struct {
	Preset         string            `yaml:"preset"`
	Delimiters     []types.Delimiter `yaml:"delimiters"`
	Macros         yaml.MapSlice     `yaml:"macros"`
	IgnoredTags    []string          `yaml:"ignoredTags"`
	IgnoredClasses []string          `yaml:"ignoredClasses"`

	types.DisplayPolicy `yaml:",inline"`
}

// Default returns the configuration used when no file exists.
func Default() *Site {
	return &Site{
		Title:        "Study Notes",
		ContentDir:   "content",
		OutputDir:    "build",
		RelativeURLs: true,
		Engine:       "unicode",
		Render: Render{
			Preset:        PresetFull,
			DisplayPolicy: types.FullPolicy(),
		},
	}
}

// Load reads path. A missing DefaultFile is not an error.
func Load(path string) (*Site, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return site, nil
}

// Parse decodes a configuration document. Duplicate keys are accepted and the
// last one wins; Lint reports them.
func Parse(data []byte) (*Site, error) {
	var head struct {
		Render struct {
			Preset string `yaml:"preset"`
		} `yaml:"render"`
	}
	if err := yaml.UnmarshalWithOptions(data, &head, yaml.AllowDuplicateMapKey()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	site := Default()
	switch head.Render.Preset {
	case "", PresetFull:
	case PresetMinimal:
		site.Render.Preset = PresetMinimal
		site.Render.DisplayPolicy = types.DefaultPolicy()
	default:
		return nil, fmt.Errorf("unknown render preset %q", head.Render.Preset)
	}

	if err := yaml.UnmarshalWithOptions(data, site, yaml.AllowDuplicateMapKey()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return site, nil
}

// RenderConfig builds the render configuration: the preset with the file's
// delimiters, macros and lists applied on top.
func (s *Site) RenderConfig() (*types.RenderConfig, error) {
	r := s.Render
	cfg := &types.RenderConfig{
		Delimiters:     types.FullDelimiters(),
		Policy:         r.DisplayPolicy,
		IgnoredTags:    types.DefaultIgnoredTags,
		IgnoredClasses: r.IgnoredClasses,
	}
	defs := types.FullMacros()
	if r.Preset == PresetMinimal {
		cfg.Delimiters = types.MinimalDelimiters()
		defs = types.MinimalMacros()
	}
	if len(r.Delimiters) > 0 {
		cfg.Delimiters = r.Delimiters
	}
	if len(r.IgnoredTags) > 0 {
		cfg.IgnoredTags = r.IgnoredTags
	}

	table := macro.NewTable()
	for _, d := range defs {
		if err := table.Define(d.Name, d.Template); err != nil {
			return nil, err
		}
	}
	for _, item := range r.Macros {
		name, template, err := macroItem(item)
		if err != nil {
			return nil, err
		}
		if err := table.Define(name, template); err != nil {
			return nil, fmt.Errorf("macro %s: %w", name, err)
		}
	}
	table.Freeze()
	cfg.Macros = table

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func macroItem(item yaml.MapItem) (string, string, error) {
	name, ok := item.Key.(string)
	if !ok {
		return "", "", fmt.Errorf("macro name %v is not a string", item.Key)
	}
	switch v := item.Value.(type) {
	case string:
		return name, v, nil
	case nil:
		return "", "", fmt.Errorf("macro %s has no template", name)
	default:
		return name, fmt.Sprint(v), nil
	}
}
