// Package notes loads markdown notes with YAML front matter and answers the
// listing, grouping and search queries the site is built from.
package notes

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"cdr.dev/slog"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"

	"github.com/JuanLara18/study-notes/internal/buffer"
	"github.com/JuanLara18/study-notes/internal/converter"
	"github.com/JuanLara18/study-notes/internal/log"
	"github.com/JuanLara18/study-notes/internal/parser"
	"github.com/JuanLara18/study-notes/internal/types"
	"github.com/JuanLara18/study-notes/internal/util"
)

// Pattern selects note files under the content directory.
const Pattern = "**/*.md"

// ExcerptLength 摘要的最大字符数
const ExcerptLength = 200

// Note 一篇渲染后的笔记。Content 中的公式保持原文，交给渲染器处理。
type Note struct {
	Content    string              `json:"content"`
	Metadata   Metadata            `json:"metadata"`
	URL        string              `json:"url"`
	SourcePath string              `json:"source_path"`
	TOC        []converter.Heading `json:"toc"`
	Excerpt    string              `json:"excerpt"`
	Text       string              `json:"-"`
	Math       int                 `json:"-"`
}

// Generator reads notes from ContentDir.
type Generator struct {
	ContentDir string
	Delimiters []types.Delimiter

	highlighter *parser.Highlighter
	now         func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithDelimiters sets the math delimiters protected from markdown.
func WithDelimiters(d []types.Delimiter) Option {
	return func(g *Generator) { g.Delimiters = d }
}

// WithHighlighter sets the code highlighter.
func WithHighlighter(h *parser.Highlighter) Option {
	return func(g *Generator) { g.highlighter = h }
}

// WithClock sets the clock used for the default date.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New returns a Generator for dir, which must exist.
func New(dir string, opts ...Option) (*Generator, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content directory %s is not a directory", dir)
	}
	g := &Generator{
		ContentDir: dir,
		Delimiters: types.FullDelimiters(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.highlighter == nil {
		g.highlighter = parser.NewHighlighter("")
	}
	return g, nil
}

// Load reads one note.
func (g *Generator) Load(path string) (*Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	front, body := splitFrontMatter(data)

	var meta map[string]any
	if len(front) > 0 {
		if err := yaml.UnmarshalWithOptions(front, &meta, yaml.AllowDuplicateMapKey()); err != nil {
			return nil, fmt.Errorf("%w: front matter in %s: %w", ErrValidation, path, err)
		}
	}
	m, err := ValidateMetadata(withDefaults(meta, path, g.now()), path)
	if err != nil {
		return nil, err
	}

	doc, err := parser.Parse(string(body), g.Delimiters, g.highlighter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	url, err := g.url(path)
	if err != nil {
		return nil, err
	}

	excerpt := buffer.Excerpt(doc.Text, ExcerptLength)
	if d, ok := m.Extra["description"].(string); ok && d != "" {
		excerpt = d
	}
	return &Note{
		Content:    doc.HTML,
		Metadata:   m,
		URL:        url,
		SourcePath: path,
		TOC:        doc.TOC,
		Excerpt:    excerpt,
		Text:       doc.Text,
		Math:       doc.Math,
	}, nil
}

func (g *Generator) url(path string) (string, error) {
	rel, err := filepath.Rel(g.ContentDir, path)
	if err != nil {
		return "", fmt.Errorf("note url: %w", err)
	}
	return util.URLPath(filepath.ToSlash(rel)), nil
}

// All loads every note under the content directory, newest first. Notes that
// fail to load are logged and skipped.
func (g *Generator) All(ctx context.Context) (Notes, error) {
	matches, err := doublestar.Glob(os.DirFS(g.ContentDir), Pattern)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	sort.Strings(matches)

	notes := make(Notes, 0, len(matches))
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(g.ContentDir, filepath.FromSlash(m))
		n, err := g.Load(path)
		if err != nil {
			log.Warn(ctx, "skipping note", slog.F("path", path), slog.F("err", err))
			continue
		}
		notes = append(notes, n)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Metadata.Date > notes[j].Metadata.Date
	})
	log.Debug(ctx, "notes loaded", slog.F("count", len(notes)), slog.F("dir", g.ContentDir))
	return notes, nil
}

var frontMatterFence = []byte("---")

// splitFrontMatter cuts a leading "---" delimited YAML block from data.
func splitFrontMatter(data []byte) (front, body []byte) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if !bytes.HasPrefix(data, frontMatterFence) {
		return nil, data
	}
	first := bytes.IndexByte(data, '\n')
	if first < 0 || len(bytes.TrimSpace(data[:first])) != len(frontMatterFence) {
		return nil, data
	}
	rest := data[first+1:]
	for off := 0; off < len(rest); {
		end := bytes.IndexByte(rest[off:], '\n')
		line := rest[off:]
		if end >= 0 {
			line = rest[off : off+end]
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), frontMatterFence) {
			front = rest[:off]
			if end < 0 {
				return front, nil
			}
			return front, rest[off+end+1:]
		}
		if end < 0 {
			break
		}
		off += end + 1
	}
	return nil, data
}
