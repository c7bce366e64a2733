// Package replay serves a captured provider stream over HTTP so clients can
// be exercised without network access or API keys.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/papercomputeco/llmstream/pkg/logger"
	"github.com/papercomputeco/llmstream/pkg/sse"
)

// ErrEmptyCapture is returned when a capture holds no bytes.
var ErrEmptyCapture = errors.New("capture is empty")

// Config holds replay server settings.
type Config struct {
	// ListenAddr is the address Run listens on, e.g. ":8089".
	ListenAddr string

	// Delay is slept after every blank line, i.e. between SSE events.
	Delay time.Duration
}

// Server replays one capture to every POST request, on any path.
type Server struct {
	config Config
	logger *slog.Logger
	app    *fiber.App
	served atomic.Int64

	mu      sync.RWMutex
	capture []byte
}

// Load reads a capture file from disk.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading capture: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyCapture)
	}
	return data, nil
}

// NewServer creates a replay server for capture.
func NewServer(config Config, capture []byte, l *slog.Logger) (*Server, error) {
	if len(capture) == 0 {
		return nil, ErrEmptyCapture
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		capture: capture,
		logger:  logger.OrNop(l),
		app:     app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/*", s.handleReplay)

	return s, nil
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting replay server",
		"listen", s.config.ListenAddr,
		"bytes", len(s.Capture()),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Handler exposes the server as a net/http handler.
func (s *Server) Handler() http.Handler {
	return adaptor.FiberApp(s.app)
}

// Served returns how many replays have been started.
func (s *Server) Served() int64 {
	return s.served.Load()
}

// Capture returns the capture currently being replayed.
func (s *Server) Capture() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capture
}

// SetCapture swaps the capture. Replays already in flight finish with the
// previous one.
func (s *Server) SetCapture(capture []byte) error {
	if len(capture) == 0 {
		return ErrEmptyCapture
	}
	s.mu.Lock()
	s.capture = capture
	s.mu.Unlock()
	return nil
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "served": s.Served()})
}

func (s *Server) handleReplay(c *fiber.Ctx) error {
	requestID := c.Get("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}

	n := s.served.Add(1)
	s.logger.Debug("replaying capture",
		"path", c.Path(),
		"request_id", requestID,
		"replay", n,
	)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("X-Request-Id", requestID)

	// Same body-stream approach as a streaming proxy: pw.Write blocks until
	// fasthttp drains the chunk, so the delay between events is observable.
	pr, pw := io.Pipe()
	go s.writeCapture(pw, s.Capture())
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

func (s *Server) writeCapture(pw *io.PipeWriter, capture []byte) {
	lr := sse.NewLineReader(bytes.NewReader(capture))
	for {
		line, err := lr.Next()
		if errors.Is(err, io.EOF) {
			_ = pw.Close()
			return
		}
		if err != nil {
			s.logger.Error("reading capture", "error", err)
			_ = pw.CloseWithError(err)
			return
		}

		if _, err := io.WriteString(pw, line+"\n"); err != nil {
			// Client went away.
			s.logger.Debug("replay aborted", "error", err)
			return
		}

		if line == "" && s.config.Delay > 0 {
			time.Sleep(s.config.Delay)
		}
	}
}
