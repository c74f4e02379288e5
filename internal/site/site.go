// Package site builds the static study-notes site: every note page plus the
// index, with math rendered server side.
package site

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"cdr.dev/slog"
	"golang.org/x/net/html"

	studynotes "github.com/JuanLara18/study-notes"
	"github.com/JuanLara18/study-notes/internal/autorender"
	"github.com/JuanLara18/study-notes/internal/config"
	"github.com/JuanLara18/study-notes/internal/engine"
	"github.com/JuanLara18/study-notes/internal/log"
	"github.com/JuanLara18/study-notes/internal/notes"
	"github.com/JuanLara18/study-notes/internal/parser"
	"github.com/JuanLara18/study-notes/internal/types"
	"github.com/JuanLara18/study-notes/internal/util"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// IndexURL is the URL of the note listing.
const IndexURL = "/index"

// Options 构建参数。ContentDir、OutputDir、Width 非零时覆盖 Config 中的值。
type Options struct {
	Config     *config.Site
	ContentDir string
	OutputDir  string
	Width      int

	// Engine renders single expressions; nil selects the one named in Config.
	Engine engine.Engine
	// Live adds the live-reload script to every page.
	Live bool
	// Concurrency bounds the number of pages rendered at once; 0 means 8.
	Concurrency int
}

// Site renders pages from the notes in the content directory.
type Site struct {
	opts        Options
	render      *types.RenderConfig
	renderer    studynotes.Renderer
	highlighter *parser.Highlighter
	generator   *notes.Generator
	pages       map[string]*template.Template
	now         func() time.Time
}

// New resolves opts and prepares the templates.
func New(opts Options) (*Site, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.ContentDir == "" {
		opts.ContentDir = opts.Config.ContentDir
	}
	if opts.OutputDir == "" {
		opts.OutputDir = opts.Config.OutputDir
	}
	if opts.Width == 0 {
		opts.Width = opts.Config.Width
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}

	rc, err := opts.Config.RenderConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", studynotes.ErrInvalidConfig, err)
	}
	if opts.Engine == nil {
		opts.Engine, err = engine.ByName(opts.Config.Engine, opts.Config.Script)
		if err != nil {
			return nil, err
		}
	}

	s := &Site{
		opts:        opts,
		render:      rc,
		renderer:    autorender.New(opts.Engine),
		highlighter: parser.NewHighlighter(""),
		pages:       make(map[string]*template.Template),
		now:         time.Now,
	}
	s.generator, err = notes.New(opts.ContentDir,
		notes.WithDelimiters(rc.Delimiters),
		notes.WithHighlighter(s.highlighter),
	)
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"href": s.href,
		// note bodies come from our own markdown renderer
		"safe": func(s string) template.HTML { return template.HTML(s) },
	}
	for _, name := range []string{"index", "note"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		s.pages[name] = t
	}
	return s, nil
}

// Options returns the resolved options.
func (s *Site) Options() Options { return s.opts }

// Notes loads every note.
func (s *Site) Notes(ctx context.Context) (notes.Notes, error) {
	return s.generator.All(ctx)
}

// href links url from a page whose path back to the root is root.
func (s *Site) href(root, url string) string {
	if !s.opts.Config.RelativeURLs {
		return strings.TrimRight(s.opts.Config.BaseURL, "/") + url + ".html"
	}
	return root + strings.TrimPrefix(url, "/") + ".html"
}

// OutputPath is the slash-separated file a page URL is written to.
func OutputPath(url string) string {
	return strings.TrimPrefix(url, "/") + ".html"
}

type category struct {
	Name  string
	Notes notes.Notes
}

type pageData struct {
	SiteName   string
	Year       int
	Root       string
	Live       bool
	Categories []category
	Note       *notes.Note
	Related    notes.Notes
}

func (s *Site) data(url string) pageData {
	root := "/"
	if s.opts.Config.RelativeURLs {
		root = util.RelativeRoot(url)
	}
	return pageData{
		SiteName: s.opts.Config.Title,
		Year:     s.now().Year(),
		Root:     root,
		Live:     s.opts.Live,
	}
}

// Page is a rendered page tree.
type Page struct {
	URL        string
	Doc        *html.Node
	MathErrors int
}

// IndexPage renders the note listing grouped by category.
func (s *Site) IndexPage(ctx context.Context, all notes.Notes) (*Page, error) {
	d := s.data(IndexURL)
	groups := all.Categories()
	for _, name := range notes.SortedKeys(groups) {
		d.Categories = append(d.Categories, category{Name: name, Notes: groups[name]})
	}
	return s.page(ctx, IndexURL, "index", d)
}

// NotePage renders one note with its related notes.
func (s *Site) NotePage(ctx context.Context, all notes.Notes, n *notes.Note) (*Page, error) {
	d := s.data(n.URL)
	d.Note = n
	d.Related = all.Related(n, notes.DefaultRelated)
	return s.page(ctx, n.URL, "note", d)
}

// PageByURL renders the page at url: the index for "/" or IndexURL, a note
// otherwise. ok is false when no note has that URL.
func (s *Site) PageByURL(ctx context.Context, url string) (*Page, bool, error) {
	all, err := s.Notes(ctx)
	if err != nil {
		return nil, false, err
	}
	url = "/" + strings.TrimSuffix(strings.Trim(url, "/"), ".html")
	if url == "/" || url == IndexURL {
		p, err := s.IndexPage(ctx, all)
		return p, err == nil, err
	}
	n, ok := all.ByURL(url)
	if !ok {
		return nil, false, nil
	}
	p, err := s.NotePage(ctx, all, n)
	return p, err == nil, err
}

func (s *Site) page(ctx context.Context, url, name string, d pageData) (*Page, error) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "base", d); err != nil {
		return nil, fmt.Errorf("execute %s template: %w", name, err)
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", url, err)
	}

	errs := 0
	ctx = log.Named(ctx, "render")
	err = studynotes.Initialize(ctx, doc,
		studynotes.WithConfig(s.render),
		studynotes.WithRenderer(s.renderer),
		studynotes.WithErrorCallback(func(msg string, err error) {
			errs++
			log.Warn(ctx, msg, slog.F("page", url), slog.F("err", err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("render math in %s: %w", url, err)
	}
	studynotes.PrepareDisplayBlocks(doc)
	return &Page{URL: url, Doc: doc, MathErrors: errs}, nil
}

// Write adjusts the page for width (when > 0) and writes it as HTML.
func (p *Page) Write(w io.Writer, width int) error {
	if width > 0 {
		studynotes.AdjustSizes(p.Doc, width)
	}
	return html.Render(w, p.Doc)
}

// Asset returns an embedded static file, or the generated highlight.css.
func (s *Site) Asset(name string) ([]byte, error) {
	name = path.Clean(strings.TrimPrefix(name, "/"))
	if name == "highlight.css" {
		var buf bytes.Buffer
		if err := s.highlighter.WriteCSS(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return fs.ReadFile(staticFS, "static/"+name)
}

// AssetNames lists the files served under /static/.
func (s *Site) AssetNames() ([]string, error) {
	entries, err := fs.ReadDir(staticFS, "static")
	if err != nil {
		return nil, err
	}
	names := []string{"highlight.css"}
	for _, e := range entries {
		if e.Name() == "live.js" && !s.opts.Live {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
