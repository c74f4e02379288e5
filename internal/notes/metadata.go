package notes

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrValidation is wrapped by every metadata validation error.
var ErrValidation = errors.New("content validation")

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// RequiredMetadata 必填的 front matter 字段
var RequiredMetadata = []string{"title", "date", "category"}

// Metadata front matter 规范化后的结果
type Metadata struct {
	Title    string         `json:"title"`
	Date     string         `json:"date"`
	Category string         `json:"category"`
	Tags     []string       `json:"tags"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// ValidateMetadata checks the required fields and normalises the rest:
// dates become YYYY-MM-DD, a comma separated tags string becomes a list and
// every tag is lowercased. Missing tags yield an empty list.
func ValidateMetadata(meta map[string]any, path string) (Metadata, error) {
	for _, field := range RequiredMetadata {
		if _, ok := meta[field]; !ok {
			return Metadata{}, fmt.Errorf("%w: required field %q missing in %s", ErrValidation, field, path)
		}
	}

	date, err := normalizeDate(meta["date"])
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: invalid date in %s: %w", ErrValidation, path, err)
	}

	m := Metadata{
		Title:    fmt.Sprint(meta["title"]),
		Date:     date,
		Category: fmt.Sprint(meta["category"]),
		Tags:     normalizeTags(meta["tags"]),
	}
	for k, v := range meta {
		switch k {
		case "title", "date", "category", "tags":
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]any)
		}
		m.Extra[k] = v
	}
	return m, nil
}

// withDefaults fills title, date and category the way notes without front
// matter expect: the file name, today, "uncategorized".
func withDefaults(meta map[string]any, path string, now time.Time) map[string]any {
	if meta == nil {
		meta = make(map[string]any)
	}
	if _, ok := meta["title"]; !ok {
		meta["title"] = filepath.Base(path)
	}
	if _, ok := meta["date"]; !ok {
		meta["date"] = now.Format(DateLayout)
	}
	if _, ok := meta["category"]; !ok {
		meta["category"] = "uncategorized"
	}
	return meta
}

func normalizeDate(v any) (string, error) {
	switch d := v.(type) {
	case string:
		if _, err := time.Parse(DateLayout, d); err != nil {
			return "", err
		}
		return d, nil
	case time.Time:
		return d.Format(DateLayout), nil
	default:
		return "", fmt.Errorf("unsupported date value %v", v)
	}
}

func normalizeTags(v any) []string {
	var tags []string
	switch t := v.(type) {
	case nil:
	case []any:
		for _, tag := range t {
			tags = append(tags, fmt.Sprint(tag))
		}
	case []string:
		tags = append(tags, t...)
	default:
		for _, tag := range strings.Split(fmt.Sprint(t), ",") {
			tags = append(tags, strings.TrimSpace(tag))
		}
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
