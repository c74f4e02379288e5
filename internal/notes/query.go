package notes

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Notes 笔记列表，按日期倒序
type Notes []*Note

// Categories 按分类分组
func (ns Notes) Categories() map[string]Notes {
	out := make(map[string]Notes)
	for _, n := range ns {
		c := n.Metadata.Category
		out[c] = append(out[c], n)
	}
	return out
}

// Tags 按标签分组
func (ns Notes) Tags() map[string]Notes {
	out := make(map[string]Notes)
	for _, n := range ns {
		for _, t := range n.Metadata.Tags {
			out[t] = append(out[t], n)
		}
	}
	return out
}

// SortedKeys returns the keys of a grouping in alphabetical order.
func SortedKeys(groups map[string]Notes) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ByURL returns the note at url; leading slashes are ignored.
func (ns Notes) ByURL(url string) (*Note, bool) {
	url = strings.TrimLeft(url, "/")
	for _, n := range ns {
		if strings.TrimLeft(n.URL, "/") == url {
			return n, true
		}
	}
	return nil, false
}

// Search matches query case-insensitively against titles, content and tags.
func (ns Notes) Search(query string) Notes {
	query = strings.ToLower(query)
	var out Notes
	for _, n := range ns {
		if strings.Contains(strings.ToLower(n.Metadata.Title), query) ||
			strings.Contains(strings.ToLower(n.Text), query) ||
			containsTag(n.Metadata.Tags, query) {
			out = append(out, n)
		}
	}
	return out
}

func containsTag(tags []string, query string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}

// FilterOptions 过滤条件，空值表示不过滤。From/To 为 YYYY-MM-DD，包含边界。
type FilterOptions struct {
	Category string
	Tag      string
	From     string
	To       string
}

// Filter returns the notes matching every set option.
func (ns Notes) Filter(opts FilterOptions) (Notes, error) {
	var from, to time.Time
	var err error
	if opts.From != "" {
		if from, err = time.Parse(DateLayout, opts.From); err != nil {
			return nil, fmt.Errorf("filter from: %w", err)
		}
	}
	if opts.To != "" {
		if to, err = time.Parse(DateLayout, opts.To); err != nil {
			return nil, fmt.Errorf("filter to: %w", err)
		}
	}

	var out Notes
	for _, n := range ns {
		if opts.Category != "" && !strings.EqualFold(n.Metadata.Category, opts.Category) {
			continue
		}
		if opts.Tag != "" && !hasTag(n.Metadata.Tags, opts.Tag) {
			continue
		}
		if opts.From != "" || opts.To != "" {
			d, err := time.Parse(DateLayout, n.Metadata.Date)
			if err != nil {
				continue
			}
			if opts.From != "" && d.Before(from) {
				continue
			}
			if opts.To != "" && d.After(to) {
				continue
			}
		}
		out = append(out, n)
	}
	return out, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// DefaultRelated is the default limit for Related.
const DefaultRelated = 5

// Related ranks the other notes by one point for the same category plus one
// per shared tag, best first, dropping notes that score zero. limit <= 0
// means DefaultRelated.
func (ns Notes) Related(note *Note, limit int) Notes {
	if limit <= 0 {
		limit = DefaultRelated
	}
	tags := make(map[string]bool, len(note.Metadata.Tags))
	for _, t := range note.Metadata.Tags {
		tags[t] = true
	}

	type scored struct {
		score int
		note  *Note
	}
	var candidates []scored
	for _, other := range ns {
		if other.URL == note.URL {
			continue
		}
		score := 0
		if other.Metadata.Category == note.Metadata.Category {
			score++
		}
		shared := make(map[string]bool)
		for _, t := range other.Metadata.Tags {
			if tags[t] && !shared[t] {
				shared[t] = true
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{score, other})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make(Notes, len(candidates))
	for i, c := range candidates {
		out[i] = c.note
	}
	return out
}
