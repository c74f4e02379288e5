package server

import (
	"context"
	"net/http"
	"time"

	"cdr.dev/slog"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"

	studynotes "github.com/JuanLara18/study-notes"
	"github.com/JuanLara18/study-notes/internal/log"
)

const (
	TypeSizes  = "sizes"
	TypeReload = "reload"
)

// Message is sent from the server to the browser.
type Message struct {
	Type      string `json:"type"`
	FontSize  string `json:"fontSize,omitempty"`
	OverflowX string `json:"overflowX,omitempty"`
	Blocks    int    `json:"blocks,omitempty"`
}

// Viewport is sent by the browser on load and after each resize.
type Viewport struct {
	Width int `json:"width"`
}

type client struct {
	c *websocket.Conn
}

func (cl *client) write(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return wsjson.Write(ctx, cl.c, msg)
}

// handleWS keeps a private copy of the client's page and resizes its display
// blocks for every width the browser reports.
func (s *Server) handleWS(c echo.Context) error {
	s.clientsMu.Lock()
	if s.closing {
		s.clientsMu.Unlock()
		return echo.NewHTTPError(http.StatusServiceUnavailable, "server shutting down")
	}
	s.clientsWG.Add(1)
	s.clientsMu.Unlock()
	defer s.clientsWG.Done()

	page, ok, err := s.site.PageByURL(c.Request().Context(), c.QueryParam("page"))
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such note")
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		return err
	}
	defer conn.CloseNow()

	cl := &client{c: conn}
	s.clientsMu.Lock()
	s.clients[cl] = struct{}{}
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, cl)
		s.clientsMu.Unlock()
	}()

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	widths := make(chan int)
	go func() {
		defer close(widths)
		for {
			var v Viewport
			if err := wsjson.Read(ctx, conn, &v); err != nil {
				cancel()
				return
			}
			select {
			case widths <- v.Width:
			case <-ctx.Done():
				return
			}
		}
	}()

	err = studynotes.WatchViewport(ctx, page.Doc, widths, func(width, adjusted int) {
		scale := studynotes.ScaleFor(width)
		msg := Message{Type: TypeSizes, FontSize: scale.FontSize, OverflowX: scale.OverflowX, Blocks: adjusted}
		if err := cl.write(ctx, msg); err != nil {
			log.Debug(s.ctx, "write sizes", slog.F("err", err))
			cancel()
		}
	})
	if err == nil || ctx.Err() != nil {
		conn.Close(websocket.StatusNormalClosure, "")
		return nil
	}
	return err
}

// Broadcast sends msg to every connected client.
func (s *Server) Broadcast(msg Message) {
	s.clientsMu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for cl := range s.clients {
		clients = append(clients, cl)
	}
	s.clientsMu.Unlock()

	log.Info(s.ctx, "broadcasting", slog.F("type", msg.Type), slog.F("clients", len(clients)))
	for _, cl := range clients {
		if err := cl.write(s.ctx, msg); err != nil {
			log.Debug(s.ctx, "broadcast", slog.F("err", err))
		}
	}
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}

func (s *Server) close() {
	s.clientsMu.Lock()
	if s.closing {
		s.clientsMu.Unlock()
		return
	}
	s.closing = true
	clients := make([]*client, 0, len(s.clients))
	for cl := range s.clients {
		clients = append(clients, cl)
	}
	s.clientsMu.Unlock()

	for _, cl := range clients {
		cl.c.Close(websocket.StatusGoingAway, "server shutting down")
	}
	s.clientsWG.Wait()
}
