// Package server is the local preview server: pages rendered on request,
// live reload when content changes and display-math sizing driven by the
// browser's viewport width.
package server

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net"
	"net/http"
	"path"
	"sync"
	"time"

	"cdr.dev/slog"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/JuanLara18/study-notes/internal/log"
	"github.com/JuanLara18/study-notes/internal/site"
)

// Server 预览服务器
type Server struct {
	ctx  context.Context
	site *site.Site
	e    *echo.Echo

	// OnChange runs before clients are told to reload.
	OnChange func(ctx context.Context) error

	clientsMu sync.Mutex
	closing   bool
	clientsWG sync.WaitGroup
	clients   map[*client]struct{}
}

// New returns a server for s. ctx carries the logger and bounds the lifetime
// of websocket clients.
func New(ctx context.Context, s *site.Site) *Server {
	srv := &Server{
		ctx:     log.Named(ctx, "server"),
		site:    s,
		clients: make(map[*client]struct{}),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []slog.Field{
				slog.F("method", v.Method),
				slog.F("uri", v.URI),
				slog.F("status", v.Status),
				slog.F("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, slog.F("err", v.Error))
			}
			log.Debug(srv.ctx, "request", fields...)
			return nil
		},
	}))

	e.GET("/", srv.handlePage)
	e.GET("/ws", srv.handleWS)
	e.GET("/static/*", srv.handleStatic)
	e.GET("/*", srv.handlePage)
	srv.e = e
	return srv
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.e }

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, l)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, l net.Listener) error {
	hs := &http.Server{Handler: s.e, ReadHeaderTimeout: 10 * time.Second}
	log.Info(s.ctx, "listening", slog.F("url", "http://"+l.Addr().String()))

	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(l) }()

	select {
	case err := <-errc:
		s.close()
		return err
	case <-ctx.Done():
	}

	s.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func (s *Server) handlePage(c echo.Context) error {
	ctx := c.Request().Context()
	p, ok, err := s.site.PageByURL(ctx, c.Request().URL.Path)
	if err != nil {
		log.Error(s.ctx, "render page", slog.F("path", c.Request().URL.Path), slog.F("err", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render page")
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such note")
	}
	var buf bytes.Buffer
	if err := p.Write(&buf, 0); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) handleStatic(c echo.Context) error {
	name := c.Param("*")
	data, err := s.site.Asset(name)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such asset")
	}
	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = echo.MIMEOctetStream
	}
	return c.Blob(http.StatusOK, ct, data)
}
