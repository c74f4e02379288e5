package latex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanLara18/study-notes/internal/types"
)

// TestConvert_Symbols 测试常见公式到 Unicode 的转换
func TestConvert_Symbols(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "greek", in: `\alpha + \beta`, want: "α + β"},
		{name: "superscript", in: `E=mc^2`, want: "E=mc²"},
		{name: "subscript group", in: `x_{12}`, want: "x₁₂"},
		{name: "vulgar fraction", in: `\frac{1}{2}`, want: "½"},
		{name: "slash fraction", in: `\frac{a+b}{c}`, want: "(a+b)/c"},
		{name: "blackboard", in: `\mathbb{R}`, want: "ℝ"},
		{name: "square root", in: `\sqrt{x}`, want: "√x"},
		{name: "cube root", in: `\sqrt[3]{8}`, want: "∛8"},
		{name: "negated relation", in: `\not\in`, want: "∉"},
		{name: "negated char", in: `a \not= b`, want: "a ≠ b"},
		{name: "combining hat", in: `\hat{x}`, want: "x̂"},
		{name: "left right", in: `\left(\frac{a}{b}\right)`, want: "(a/b)"},
		{name: "binomial", in: `\binom{n}{k}`, want: "C(n,k)"},
		{name: "line break", in: `a \\ b`, want: "a \n b"},
		{name: "cases", in: `\begin{cases} 1 & x>0 \\ 0 & x\leq 0 \end{cases}`, want: "⎧ 1, x>0\n⎩ 0, x≤ 0"},
		{name: "matrix", in: `\begin{pmatrix} a & b \\ c & d \end{pmatrix}`, want: "(a  b\nc  d)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewParser(Options{Trust: true}).Convert(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestCheck 测试结构校验
func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantMsg string
	}{
		{name: "valid scripts", in: `x^{2}_{i}`},
		{name: "valid nested group", in: `{x^2}^3`},
		{name: "valid optional", in: `\sqrt[3]{x}`},
		{name: "valid env", in: `\begin{aligned} a &= b \end{aligned}`},
		{name: "unclosed brace", in: `\frac{1`, wantMsg: "Expected '}', got 'EOF' at end of input"},
		{name: "extra brace", in: `x}`, wantMsg: "Extra }"},
		{name: "dangling superscript", in: `x^`, wantMsg: "Expected group after '^' at end of input"},
		{name: "double superscript", in: `x^2^3`, wantMsg: "Double superscript"},
		{name: "double superscript group", in: `x^{a}^{b}`, wantMsg: "Double superscript"},
		{name: "missing right", in: `\left( x`, wantMsg: `Expected '\right', got 'EOF' at end of input`},
		{name: "extra right", in: `x \right)`, wantMsg: `Extra \right`},
		{name: "env mismatch", in: `\begin{a} x \end{b}`, wantMsg: `Mismatch: \begin{a} matched by \end{b}`},
		{name: "missing argument", in: `\frac{1}`, wantMsg: `Expected group after '\frac' at end of input`},
		{name: "trailing backslash", in: `x \`, wantMsg: "Expected control sequence at end of input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.in)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %v", err)
			assert.Equal(t, tt.wantMsg, pe.Message)
			assert.Equal(t, tt.in, pe.Source)
		})
	}
}

func TestParseError_Error(t *testing.T) {
	eof := &ParseError{Message: "Expected '}', got 'EOF' at end of input", Position: 7, Source: `\frac{1`}
	assert.Equal(t, "ParseError: Expected '}', got 'EOF' at end of input", eof.Error())

	mid := &ParseError{Message: "Extra }", Position: 1, Source: `x}`}
	assert.Contains(t, mid.Error(), "at position 2")
}

// TestRender_Strict 测试 strict 对未知命令的处理
func TestRender_Strict(t *testing.T) {
	const tex = `\foo + 1`

	res, err := Render(tex, Options{Strict: types.StrictIgnore, Trust: true})
	require.NoError(t, err)
	assert.Equal(t, `\foo + 1`, res.Text)
	assert.Empty(t, res.Warnings)

	res, err = Render(tex, Options{Strict: types.StrictWarn, Trust: true})
	require.NoError(t, err)
	assert.Equal(t, []string{`Undefined control sequence: \foo`}, res.Warnings)

	_, err = Render(tex, Options{Strict: types.StrictError, Trust: true})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, pe.Position)
}

func TestRender_Trust(t *testing.T) {
	const tex = `\href{https://example.com}{x}`

	res, err := Render(tex, Options{Trust: true})
	require.NoError(t, err)
	assert.Equal(t, "x", res.Text)

	_, err = Render(tex, Options{Trust: false})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Message, "not trusted")
}

func TestRender_Malformed(t *testing.T) {
	_, err := Render(`\frac{1`, Options{Trust: true})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, `\frac{1`, pe.Source)
}

func TestContainsLatexSymbols(t *testing.T) {
	assert.True(t, ContainsLatexSymbols(`\frac{a}{b}`))
	assert.True(t, ContainsLatexSymbols(`x \in A`))
	assert.False(t, ContainsLatexSymbols(`plain text`))
}
