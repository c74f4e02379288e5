package types

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/JuanLara18/study-notes/internal/macro"
)

// Delimiter 定义一对数学定界符
type Delimiter struct {
	Left    string `yaml:"left" json:"left"`
	Right   string `yaml:"right" json:"right"`
	Display bool   `yaml:"display" json:"display"`
}

// StrictMode 控制对非标准 LaTeX 输入的处理
type StrictMode string

const (
	StrictIgnore StrictMode = "ignore"
	StrictWarn   StrictMode = "warn"
	StrictError  StrictMode = "error"
)

// UnmarshalYAML accepts both the boolean and the string spelling.
func (m *StrictMode) UnmarshalYAML(b []byte) error {
	switch v := strings.Trim(strings.TrimSpace(string(b)), `"'`); v {
	case "false", "":
		*m = StrictIgnore
	case "true":
		*m = StrictError
	case string(StrictIgnore), string(StrictWarn), string(StrictError):
		*m = StrictMode(v)
	default:
		return fmt.Errorf("unknown strict mode %q", v)
	}
	return nil
}

// OutputFormat 输出格式
type OutputFormat string

const (
	OutputHTML          OutputFormat = "html"
	OutputMathML        OutputFormat = "mathml"
	OutputHTMLAndMathML OutputFormat = "htmlAndMathml"
)

// DisplayPolicy 渲染行为标志，原样传递给渲染器
type DisplayPolicy struct {
	ThrowOnError     bool         `yaml:"throwOnError"`
	ErrorColor       string       `yaml:"errorColor"`
	Strict           StrictMode   `yaml:"strict"`
	Trust            bool         `yaml:"trust"`
	Output           OutputFormat `yaml:"output"`
	MinRuleThickness float64      `yaml:"minRuleThickness"`
	// MaxSize 为 0 表示不限制
	MaxSize          float64 `yaml:"maxSize"`
	MaxExpand        int     `yaml:"maxExpand"`
	Fleqn            bool    `yaml:"fleqn"`
	Leqno            bool    `yaml:"leqno"`
	DisplayMode      bool    `yaml:"displayMode"`
	ColorIsTextColor bool    `yaml:"colorIsTextColor"`
	Wrap             bool    `yaml:"wrap"`
}

// ErrorCallback 接收渲染错误（对应 errorCallback）
type ErrorCallback func(msg string, err error)

// RenderConfig 完整的渲染配置
type RenderConfig struct {
	Delimiters     []Delimiter
	Macros         *macro.Table
	Policy         DisplayPolicy
	IgnoredTags    []string
	IgnoredClasses []string
	ErrorCallback  ErrorCallback
}

const DefaultErrorColor = "#dc2626"

// DefaultIgnoredTags 不扫描这些元素内的文本
var DefaultIgnoredTags = []string{"script", "noscript", "style", "textarea", "pre", "code", "option"}

// MinimalDelimiters 基础的四种定界符，$$ 必须排在 $ 之前
func MinimalDelimiters() []Delimiter {
	return []Delimiter{
		{Left: "$$", Right: "$$", Display: true},
		{Left: "$", Right: "$", Display: false},
		{Left: `\[`, Right: `\]`, Display: true},
		{Left: `\(`, Right: `\)`, Display: false},
	}
}

// FullDelimiters 在基础定界符之上加入 LaTeX 环境
func FullDelimiters() []Delimiter {
	d := MinimalDelimiters()
	for _, env := range []string{"equation", "align", "alignat", "gather", "CD"} {
		d = append(d, Delimiter{Left: `\begin{` + env + `}`, Right: `\end{` + env + `}`, Display: true})
	}
	return d
}

// DefaultPolicy returns the policy shared by both configurations.
func DefaultPolicy() DisplayPolicy {
	return DisplayPolicy{
		ThrowOnError: false,
		ErrorColor:   DefaultErrorColor,
		Strict:       StrictIgnore,
		Trust:        true,
		Output:       OutputHTML,
		MaxExpand:    1000,
	}
}

// FullPolicy returns the policy of the full configuration.
func FullPolicy() DisplayPolicy {
	p := DefaultPolicy()
	p.MinRuleThickness = 0.05
	p.MaxSize = math.Inf(1)
	p.Fleqn = false
	p.Leqno = false
	p.DisplayMode = true
	p.ColorIsTextColor = true
	p.Wrap = true
	return p
}

// MinimalMacros 数集宏
func MinimalMacros() []macro.Definition {
	return []macro.Definition{
		{Name: `\R`, Template: `\mathbb{R}`},
		{Name: `\N`, Template: `\mathbb{N}`},
		{Name: `\Z`, Template: `\mathbb{Z}`},
		{Name: `\Q`, Template: `\mathbb{Q}`},
	}
}

// FullMacros 完整宏表。\field 定义了两次，后者生效。
func FullMacros() []macro.Definition {
	return append(MinimalMacros(), []macro.Definition{
		{Name: `\C`, Template: `\mathbb{C}`},

		// 常用运算
		{Name: `\der`, Template: `\frac{d}{d#1}`},
		{Name: `\pder`, Template: `\frac{\partial}{\partial#1}`},
		{Name: `\dx`, Template: `\,dx`},
		{Name: `\dy`, Template: `\,dy`},
		{Name: `\dz`, Template: `\,dz`},

		// 向量与矩阵
		{Name: `\vec`, Template: `\mathbf{#1}`},
		{Name: `\matrix`, Template: `\begin{pmatrix} #1 \end{pmatrix}`},

		{Name: `\eps`, Template: `\varepsilon`},
		{Name: `\phi`, Template: `\varphi`},
		{Name: `\oc`, Template: `^\circ`},

		{Name: `\impl`, Template: `\Rightarrow`},
		{Name: `\iff`, Template: `\Leftrightarrow`},
		{Name: `\to`, Template: `\rightarrow`},

		{Name: `\set`, Template: `\{#1\}`},
		{Name: `\abs`, Template: `\left|#1\right|`},
		{Name: `\norm`, Template: `\left\|#1\right\|`},

		{Name: `\limit`, Template: `\lim_{#1 \to #2}`},
		{Name: `\sum`, Template: `\sum_{#1}^{#2}`},
		{Name: `\integral`, Template: `\int_{#1}^{#2}`},

		{Name: `\prob`, Template: `\mathbb{P}\left(#1\right)`},
		{Name: `\expect`, Template: `\mathbb{E}\left[#1\right]`},
		{Name: `\var`, Template: `\text{Var}\left(#1\right)`},

		{Name: `\real`, Template: `\mathbb{R}`},
		{Name: `\complex`, Template: `\mathbb{C}`},
		{Name: `\field`, Template: `\mathbb{F}`},

		{Name: `\group`, Template: `\mathcal{G}`},
		{Name: `\ring`, Template: `\mathcal{R}`},
		{Name: `\field`, Template: `\mathcal{F}`},
	}...)
}

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate 检查配置是否可用
func (c *RenderConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("nil render config")
	}
	if len(c.Delimiters) == 0 {
		return fmt.Errorf("no delimiters configured")
	}
	for i, d := range c.Delimiters {
		if d.Left == "" || d.Right == "" {
			return fmt.Errorf("delimiter %d has an empty marker", i)
		}
	}
	if c.Policy.ErrorColor != "" && !hexColorRe.MatchString(c.Policy.ErrorColor) {
		return fmt.Errorf("error color %q is not a hex color", c.Policy.ErrorColor)
	}
	if c.Policy.MaxExpand < 0 {
		return fmt.Errorf("maxExpand must not be negative")
	}
	switch c.Policy.Output {
	case "", OutputHTML, OutputMathML, OutputHTMLAndMathML:
	default:
		return fmt.Errorf("unknown output format %q", c.Policy.Output)
	}
	return nil
}

// Clone returns a shallow copy whose slices may be modified independently.
// The macro table is shared; it is immutable once frozen.
func (c *RenderConfig) Clone() *RenderConfig {
	cp := *c
	cp.Delimiters = append([]Delimiter(nil), c.Delimiters...)
	cp.IgnoredTags = append([]string(nil), c.IgnoredTags...)
	cp.IgnoredClasses = append([]string(nil), c.IgnoredClasses...)
	return &cp
}
