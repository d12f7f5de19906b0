package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/routinely/internal/logging"
	"github.com/aretw0/routinely/internal/runtime"
	"github.com/aretw0/routinely/pkg/domain"
	"github.com/aretw0/routinely/pkg/ports"
)

// Engine is the control surface the HTTP layer drives.
type Engine interface {
	Start(ctx context.Context, routineID string, opts runtime.StartOptions) (*domain.Session, error)
	Snapshot() *domain.Session
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Skip(ctx context.Context) error
	CompleteTask(ctx context.Context) error
	Confirm(ctx context.Context) error
	Snooze(ctx context.Context, seconds int) error
	AdjustTime(ctx context.Context, seconds int) error
	Cancel(ctx context.Context) error
}

// Server exposes the engine, catalog and history over a JSON API.
type Server struct {
	engine  Engine
	catalog ports.Catalog
	history ports.HistoryStore
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithHistory wires the history listing endpoint.
func WithHistory(h ports.HistoryStore) Option {
	return func(s *Server) { s.history = h }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewHandler builds the HTTP handler for the engine and catalog.
func NewHandler(engine Engine, catalog ports.Catalog, opts ...Option) http.Handler {
	s := &Server{engine: engine, catalog: catalog, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.getHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", s.listTasks)
		r.Get("/routines", s.listRoutines)
		r.Get("/history", s.listHistory)
		r.Post("/routines/{id}/start", s.startRoutine)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Post("/pause", s.command(Engine.Pause))
			r.Post("/resume", s.command(Engine.Resume))
			r.Post("/skip", s.command(Engine.Skip))
			r.Post("/complete", s.command(Engine.CompleteTask))
			r.Post("/confirm", s.command(Engine.Confirm))
			r.Post("/cancel", s.command(Engine.Cancel))
			r.Post("/snooze", s.secondsCommand(Engine.Snooze))
			r.Post("/adjust", s.secondsCommand(Engine.AdjustTime))
		})
	})

	return r
}

type startRequest struct {
	SkipTaskIDs []string `json:"skip_task_ids,omitempty"`
	TaskOrder   []string `json:"task_order,omitempty"`
}

type secondsRequest struct {
	Seconds int `json:"seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.catalog.Tasks()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) listRoutines(w http.ResponseWriter, r *http.Request) {
	routines, err := s.catalog.Routines()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routines)
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []domain.HistoryRecord{})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, &domain.ValidationError{Field: "limit", Reason: "must be a non-negative integer"})
			return
		}
		limit = n
	}

	records, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) startRoutine(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, &domain.ValidationError{Field: "body", Reason: "invalid JSON"})
			return
		}
	}

	session, err := s.engine.Start(r.Context(), chi.URLParam(r, "id"), runtime.StartOptions{
		SkipTaskIDs: body.SkipTaskIDs,
		TaskOrder:   body.TaskOrder,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session := s.engine.Snapshot()
	if session == nil {
		s.writeError(w, domain.ErrSessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// command adapts a no-argument engine operation into a handler.
func (s *Server) command(op func(Engine, context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := op(s.engine, r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.engine.Snapshot())
	}
}

// secondsCommand adapts an engine operation taking a seconds argument.
func (s *Server) secondsCommand(op func(Engine, context.Context, int) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body secondsRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				s.writeError(w, &domain.ValidationError{Field: "body", Reason: "invalid JSON"})
				return
			}
		}
		if err := op(s.engine, r.Context(), body.Seconds); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.engine.Snapshot())
	}
}

// writeError maps domain errors onto HTTP statuses: validation errors are
// 400, unknown resources 404, state conflicts 409.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case domain.IsConflict(err):
		status = http.StatusConflict
	default:
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
