package debug

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/window"
)

// EventMessage is an event frame received on /events.
type EventMessage struct {
	Kind string  `json:"kind"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
}

// ResultMessage answers an EventMessage.
type ResultMessage struct {
	Result string `json:"result,omitempty"`
	Grab   string `json:"grab,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Health is the /health response.
type Health struct {
	Status string       `json:"status"`
	Window string       `json:"window"`
	Grab   string       `json:"grab"`
	Stats  window.Stats `json:"stats"`
}

// Server exposes one window.
type Server struct {
	window   *window.Window
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   chi.Router

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGatherer serves g on /metrics instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// New returns a server for w.
func New(w *window.Window, opts ...Option) *Server {
	s := &Server{
		window:   w,
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "debug"))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/tree", s.handleTree)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/events", s.handleEvents)
	s.router = r
	return s
}

// Handler returns the routes, for mounting or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and serves in the background. It returns the bound
// address, which differs from addr when the port is 0.
func (s *Server) Start(addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.listener.Addr().String(), nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("debug server listen: %w", err)
	}
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	s.server, s.listener = srv, ln

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("debug server stopped", slog.Any("error", err))
			s.mu.Lock()
			s.server, s.listener = nil, nil
			s.mu.Unlock()
		}
	}()

	s.logger.Info("debug server listening", slog.String("addr", ln.Addr().String()))
	return ln.Addr().String(), nil
}

// Shutdown stops a started server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server, s.listener = nil, nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	snap, err := s.window.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := snap.Dump(w); err != nil {
			s.logger.Warn("tree dump failed", slog.Any("error", err))
		}
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, Health{
		Status: "ok",
		Window: s.window.ID().String(),
		Grab:   s.window.Grab().String(),
		Stats:  s.window.Stats(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("event socket closed", slog.Any("error", err))
			}
			return
		}
		reply := s.dispatch(r.Context(), data)
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, data []byte) ResultMessage {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ResultMessage{Error: "invalid event: " + err.Error()}
	}
	kind, err := item.ParseMouseEventKind(msg.Kind)
	if err != nil {
		return ResultMessage{Error: err.Error()}
	}

	out, err := s.window.DispatchOutcome(ctx, item.MouseEvent{
		Pos:  item.Point{X: msg.X, Y: msg.Y},
		Kind: kind,
	})
	reply := ResultMessage{Grab: out.Grab.String()}
	if err != nil {
		reply.Error = err.Error()
		return reply
	}
	reply.Result = out.Result.String()
	return reply
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
