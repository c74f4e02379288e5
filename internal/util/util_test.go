package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Eigen-values & vectors!", "eigen-values-vectors"},
		{`The $\mathbb{R}^n$ space`, "the-mathbb-r-n-space"},
		{"Señal 2", "señal-2"},
		{"???", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestUniqueID(t *testing.T) {
	seen := map[string]int{}
	assert.Equal(t, "intro", UniqueID("intro", seen))
	assert.Equal(t, "intro-1", UniqueID("intro", seen))
	assert.Equal(t, "intro-2", UniqueID("intro", seen))
	assert.Equal(t, "section", UniqueID("", seen))
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "python", NormalizeLanguage("Py"))
	assert.Equal(t, "python", NormalizeLanguage("python {linenos=true}"))
	assert.Equal(t, "go", NormalizeLanguage("go"))
	assert.Equal(t, "plaintext", NormalizeLanguage(""))
}

func TestURLPath(t *testing.T) {
	assert.Equal(t, "/math/linear-algebra", URLPath("math/linear-algebra.md"))
	assert.Equal(t, "/intro", URLPath("intro.md"))
	assert.Equal(t, "/a/b", URLPath("/a/./b.md"))
}

func TestRelativeRoot(t *testing.T) {
	assert.Equal(t, "./", RelativeRoot("/intro"))
	assert.Equal(t, "../", RelativeRoot("/math/vectors"))
	assert.Equal(t, "../../", RelativeRoot("/a/b/c/"))
}
