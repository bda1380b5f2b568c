package reload

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/zerr"
)

//go:embed assets/livereload.js
var clientScript []byte

const shutdownTimeout = 2 * time.Second

// Server is the development server: it serves the static root, the
// live-reload client script and the websocket endpoint backed by a Hub.
type Server struct {
	hub      *Hub
	logger   ports.Logger
	router   *gin.Engine
	upgrader websocket.Upgrader
	addr     string
}

// NewServer creates a Server for cfg. root is the absolute directory served
// statically.
func NewServer(hub *Hub, cfg domain.Server, root string, logger ports.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		hub:    hub,
		logger: logger,
		router: router,
		// Pages may be opened from any local origin.
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
	}
	s.setupRoutes(root)
	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) setupRoutes(root string) {
	s.router.GET("/livereload.js", s.handleClientScript)
	s.router.GET("/livereload", s.handleSocket)
	s.router.NoRoute(gin.WrapH(http.FileServer(http.Dir(root))))
}

func (s *Server) handleClientScript(c *gin.Context) {
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", clientScript)
}

func (s *Server) handleSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		return
	}
	s.hub.serve(conn)
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return zerr.With(domain.Wrap(err, domain.ErrReloadServerFailed), "addr", s.addr)
	}
	s.logger.Info("serving on http://" + ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return domain.Wrap(err, domain.ErrReloadServerFailed)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		// Hijacked websocket connections are not tracked by Shutdown.
		s.hub.closeAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return domain.Wrap(err, domain.ErrReloadServerFailed)
		}
		return nil
	}
}
