package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := FromDefinitions([]Definition{
		{Name: `\R`, Template: `\mathbb{R}`},
		{Name: `\der`, Template: `\frac{d}{d#1}`},
		{Name: `\pder`, Template: `\frac{\partial}{\partial#1}`},
		{Name: `\abs`, Template: `\left|#1\right|`},
		{Name: `\limit`, Template: `\lim_{#1 \to #2}`},
		{Name: `\to`, Template: `\rightarrow`},
		{Name: `\sum`, Template: `\sum_{#1}^{#2}`},
		{Name: `\dx`, Template: `\,dx`},
		{Name: `\integral`, Template: `\int_{#1}^{#2}`},
	})
	require.NoError(t, err)
	return tbl
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no macros", in: `E=mc^2`, want: `E=mc^2`},
		{name: "zero arity", in: `x \in \R`, want: `x \in \mathbb{R}`},
		{name: "braced argument", in: `\der{x} f`, want: `\frac{d}{dx} f`},
		{name: "single token argument", in: `\der t`, want: `\frac{d}{dt}`},
		{name: "control word boundary", in: `\pder{x}`, want: `\frac{\partial}{\partial x}`},
		{name: "nested call in argument", in: `\abs{\abs{x}}`, want: `\left|\left|x\right|\right|`},
		{name: "macro inside template", in: `\limit{x}{0}`, want: `\lim_{x \rightarrow 0}`},
		{name: "self reference is primitive", in: `\sum{i=1}{n} i`, want: `\sum_{i=1}^{n} i`},
		{name: "self reference with subscript is primitive", in: `\sum_{i=1}^{n} i`, want: `\sum_{i=1}^{n} i`},
		{name: "self reference with superscript first", in: `\sum ^n_{k=0} a_k`, want: `\sum ^n_{k=0} a_k`},
		{name: "scripted call uses template head", in: `\integral_{0}^{1} f \dx`, want: `\int_{0}^{1} f \,dx`},
		{name: "scripted call of nested macro", in: `\limit_{x \to 0} f`, want: `\lim_{x \rightarrow 0} f`},
		{name: "scripts after other macro still expand", in: `\der{x}^2`, want: `\frac{d}{dx}^2`},
		{name: "unknown command untouched", in: `\alpha + \beta`, want: `\alpha + \beta`},
		{name: "trailing letter after expansion", in: `\int f \dx`, want: `\int f \,dx`},
	}
	tbl := testTable(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.Expand(tt.in, 1000)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_PrimitiveNotCounted(t *testing.T) {
	tbl := testTable(t)
	got, err := tbl.Expand(`\sum_{i=1}^{n} \sum_{j=1}^{m} x`, 1)
	require.NoError(t, err)
	assert.Equal(t, `\sum_{i=1}^{n} \sum_{j=1}^{m} x`, got)
}

func TestExpand_Idempotent(t *testing.T) {
	tbl := testTable(t)
	first, err := tbl.Expand(`\abs{\der{x}}`, 1000)
	require.NoError(t, err)
	second, err := tbl.Expand(`\abs{\der{x}}`, 1000)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExpand_MissingArgument(t *testing.T) {
	_, err := testTable(t).Expand(`\limit{x}`, 1000)
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestExpand_Limit(t *testing.T) {
	tbl := testTable(t)
	_, err := tbl.Expand(`\R\R\R`, 2)
	assert.ErrorIs(t, err, ErrTooManyExpansions)

	got, err := tbl.Expand(`\R\R\R`, 0)
	require.NoError(t, err)
	assert.Equal(t, `\mathbb{R}\mathbb{R}\mathbb{R}`, got)
}

func TestExpand_EmptyTable(t *testing.T) {
	got, err := NewTable().Expand(`\R`, 10)
	require.NoError(t, err)
	assert.Equal(t, `\R`, got)
}
