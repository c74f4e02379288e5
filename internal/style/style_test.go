package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "single", in: "color:red", want: "color: red"},
		{name: "spacing and trailing semicolon", in: " color : red ; margin:0; ", want: "color: red; margin: 0"},
		{name: "malformed dropped", in: "color; margin: 0; :x", want: "margin: 0"},
		{name: "duplicate keeps first position", in: "a: 1; b: 2; A: 3", want: "a: 3; b: 2"},
		{name: "url with colon", in: "background: url(http://x/y.png)", want: "background: url(http://x/y.png)"},
		{name: "data url with semicolon", in: "background: url(data:image/png;base64,AAAA); color: red", want: "background: url(data:image/png;base64,AAAA); color: red"},
		{name: "quoted semicolon", in: `font-family: "a;b", serif; margin: 0`, want: `font-family: "a;b", serif; margin: 0`},
		{name: "escaped quote", in: `content: "x\";y"; margin: 0`, want: `content: "x\";y"; margin: 0`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in).String())
		})
	}
}

func TestDeclarations_SetKeepsDataURL(t *testing.T) {
	d := Parse("background: url(data:image/png;base64,AAAA)")
	d.Set("font-size", "90%")
	assert.Equal(t, "background: url(data:image/png;base64,AAAA); font-size: 90%", d.String())
}

func TestDeclarations_SetRemove(t *testing.T) {
	d := Parse("color: red; font-size: 100%")
	d.Set("font-size", "90%")
	d.Set("overflow-x", "auto")
	assert.Equal(t, "color: red; font-size: 90%; overflow-x: auto", d.String())

	d.Set("Font-Size", "90%")
	assert.Equal(t, 3, d.Len())

	d.Remove("overflow-x")
	v, ok := d.Get("font-size")
	assert.True(t, ok)
	assert.Equal(t, "90%", v)
	assert.Equal(t, "color: red; font-size: 90%", d.String())
}
