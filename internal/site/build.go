package site

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cdr.dev/slog"
	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/JuanLara18/study-notes/internal/log"
)

// Report 构建结果统计
type Report struct {
	Notes      int           `json:"notes"`
	Pages      int           `json:"pages"`
	Assets     int           `json:"assets"`
	MathErrors int           `json:"math_errors"`
	Duration   time.Duration `json:"duration"`
}

// Build loads the notes in opts.ContentDir and freezes the site into
// opts.OutputDir.
func Build(ctx context.Context, opts Options) (*Report, error) {
	s, err := New(opts)
	if err != nil {
		return nil, err
	}
	return s.Build(ctx)
}

// Build renders every page concurrently and writes each file atomically.
// The first failing page cancels the rest.
func (s *Site) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	all, err := s.Notes(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	// one slot per page, index last
	mathErrors := make([]int, len(all)+1)
	written := make([]bool, len(all)+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, n := range all {
		if n.URL == IndexURL {
			log.Warn(ctx, "note shadowed by the index page", slog.F("path", n.SourcePath))
			continue
		}
		g.Go(func() error {
			p, err := s.NotePage(gctx, all, n)
			if err != nil {
				return err
			}
			mathErrors[i] = p.MathErrors
			written[i] = true
			return s.writePage(p)
		})
	}
	g.Go(func() error {
		p, err := s.IndexPage(gctx, all)
		if err != nil {
			return err
		}
		mathErrors[len(all)] = p.MathErrors
		written[len(all)] = true
		return s.writePage(p)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	assets, err := s.writeAssets()
	if err != nil {
		return nil, err
	}

	r := &Report{Notes: len(all), Assets: assets, Duration: time.Since(start)}
	for i := range written {
		if written[i] {
			r.Pages++
			r.MathErrors += mathErrors[i]
		}
	}
	log.Info(ctx, "site built",
		slog.F("out", s.opts.OutputDir),
		slog.F("pages", r.Pages),
		slog.F("math_errors", r.MathErrors),
		slog.F("duration", r.Duration),
	)
	return r, nil
}

func (s *Site) writePage(p *Page) error {
	var buf bytes.Buffer
	if err := p.Write(&buf, s.opts.Width); err != nil {
		return fmt.Errorf("render %s: %w", p.URL, err)
	}
	return s.writeFile(OutputPath(p.URL), buf.Bytes())
}

func (s *Site) writeAssets() (int, error) {
	names, err := s.AssetNames()
	if err != nil {
		return 0, err
	}
	for _, name := range names {
		data, err := s.Asset(name)
		if err != nil {
			return 0, fmt.Errorf("asset %s: %w", name, err)
		}
		if err := s.writeFile("static/"+name, data); err != nil {
			return 0, err
		}
	}
	return len(names), nil
}

func (s *Site) writeFile(rel string, data []byte) error {
	target := filepath.Join(s.opts.OutputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
	}
	if err := atomic.WriteFile(target, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
