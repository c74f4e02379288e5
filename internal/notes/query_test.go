package notes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadAll(t *testing.T) Notes {
	t.Helper()
	g, _ := newContent(t)
	notes, err := g.All(context.Background())
	require.NoError(t, err)
	return notes
}

func urls(ns Notes) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.URL)
	}
	return out
}

func TestCategoriesAndTags(t *testing.T) {
	notes := loadAll(t)

	cats := notes.Categories()
	assert.Equal(t, []string{"CS", "Math", "uncategorized"}, SortedKeys(cats))
	assert.Equal(t, []string{"/math/matrices", "/math/vectors"}, urls(cats["Math"]))

	tags := notes.Tags()
	assert.Equal(t, []string{"graphs", "linear algebra", "vectors"}, SortedKeys(tags))
	assert.Equal(t, []string{"/math/vectors", "/cs/graphs"}, urls(tags["vectors"]))
}

func TestByURL(t *testing.T) {
	notes := loadAll(t)
	n, ok := notes.ByURL("math/vectors")
	require.True(t, ok)
	assert.Equal(t, "Vectors", n.Metadata.Title)

	_, ok = notes.ByURL("/nope")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	notes := loadAll(t)
	tests := []struct {
		query string
		want  []string
	}{
		{"MATRICES", []string{"/math/matrices"}},
		{"adjacency", []string{"/cs/graphs"}},
		{"linear", []string{"/math/matrices", "/math/vectors"}},
		{`\R^n`, []string{"/math/vectors"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, urls(notes.Search(tt.query)))
		})
	}
}

func TestFilter(t *testing.T) {
	notes := loadAll(t)
	tests := []struct {
		name string
		opts FilterOptions
		want []string
	}{
		{"category", FilterOptions{Category: "math"}, []string{"/math/matrices", "/math/vectors"}},
		{"tag", FilterOptions{Tag: "Graphs"}, []string{"/cs/graphs"}},
		{"range", FilterOptions{From: "2024-01-01", To: "2024-01-31"}, []string{"/math/vectors"}},
		{"inclusive", FilterOptions{From: "2024-02-01"}, []string{"/plain", "/math/matrices"}},
		{"combined", FilterOptions{Category: "Math", Tag: "vectors"}, []string{"/math/vectors"}},
		{"none", FilterOptions{}, []string{"/plain", "/math/matrices", "/math/vectors", "/cs/graphs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := notes.Filter(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, urls(got))
		})
	}

	_, err := notes.Filter(FilterOptions{From: "yesterday"})
	assert.Error(t, err)
}

func TestRelated(t *testing.T) {
	notes := loadAll(t)
	vectors, ok := notes.ByURL("/math/vectors")
	require.True(t, ok)

	// matrices: category + "linear algebra" = 2, graphs: "vectors" = 1
	assert.Equal(t, []string{"/math/matrices", "/cs/graphs"}, urls(notes.Related(vectors, 0)))
	assert.Equal(t, []string{"/math/matrices"}, urls(notes.Related(vectors, 1)))
}
