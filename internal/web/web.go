package web

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/Joseda-hg/devtasks/internal/db"
	"github.com/Joseda-hg/devtasks/internal/metrics"
	"github.com/Joseda-hg/devtasks/internal/model"
)

//go:embed static
var staticFS embed.FS

// TaskStore is the persistence the API needs. *db.Store satisfies it.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, taskID int64) (model.Task, error)
	CreateTask(ctx context.Context, input db.CreateInput) (int64, error)
	UpdateTask(ctx context.Context, taskID int64, input db.UpdateInput) (db.Outcome, error)
	DeleteTask(ctx context.Context, taskID int64) (db.Outcome, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	store   TaskStore
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func NewServer(store TaskStore, opts ...Option) *Server {
	s := &Server{store: store, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.Handle("GET /", s.staticHandler())
	mux.HandleFunc("GET /api/tasks", s.listTasksHandler)
	mux.HandleFunc("GET /api/tasks/{id}", s.getTaskHandler)
	mux.HandleFunc("POST /api/tasks", s.createTaskHandler)
	mux.HandleFunc("PUT /api/tasks/{id}", s.updateTaskHandler)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.deleteTaskHandler)
	return s.logRequests(s.metrics.Middleware(mux))
}

// NewHTTPServer wraps Handler in an *http.Server listening on addr.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	database := "connected"
	if p, ok := s.store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			s.logger.Warn("health ping failed", "error", err)
			database = "disconnected"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		"database":  database,
	})
}

func (s *Server) staticHandler() http.Handler {
	public, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(public)
}
