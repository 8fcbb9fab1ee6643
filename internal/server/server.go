package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lazypower/stayintouch/internal/digest"
	"github.com/lazypower/stayintouch/internal/draft"
	"github.com/lazypower/stayintouch/internal/reminder"
	"github.com/lazypower/stayintouch/internal/store"
)

// Options carries the optional collaborators of a Server.
type Options struct {
	Version     string
	Drafter     *draft.Drafter     // nil: drafts always fall back
	Dispatcher  *digest.Dispatcher // nil: send endpoints answer 503
	Clock       reminder.Clock     // nil: system clock
	CORSOrigins []string           // empty: "*"
	Logger      *slog.Logger
}

// Server is the stayintouch HTTP API server.
type Server struct {
	db         *store.DB
	router     chi.Router
	drafter    *draft.Drafter
	dispatcher *digest.Dispatcher
	evaluator  *reminder.Evaluator
	origins    []string
	log        *slog.Logger
	version    string
	started    time.Time
}

// New creates a Server over db.
func New(db *store.DB, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	drafter := opts.Drafter
	if drafter == nil {
		drafter = draft.New(nil, log)
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		db:         db,
		drafter:    drafter,
		dispatcher: opts.Dispatcher,
		evaluator:  reminder.NewEvaluator(opts.Clock),
		origins:    origins,
		log:        log.With("component", "server"),
		version:    opts.Version,
		started:    time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", s.handleListContacts)
		r.Post("/", s.handleCreateContact)
		r.Get("/{contactID}", s.handleGetContact)
		r.Put("/{contactID}", s.handleUpdateContact)
		r.Delete("/{contactID}", s.handleDeleteContact)
		r.Post("/{contactID}/log", s.handleLogContact)
		r.Get("/{contactID}/logs", s.handleListLogs)
	})

	r.Get("/reminders", s.handleReminders)
	r.Post("/draft-message/{contactID}", s.handleDraftMessage)
	r.Post("/test-email", s.handleTestEmail)
	r.Post("/send-reminders-now", s.handleSendRemindersNow)
	r.Get("/calendar.ics", s.handleCalendar)

	s.router = r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "StayInTouch API is running!",
		"current_time": s.evaluator.Clock.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// internalError logs err and answers 500 without leaking details.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// contactID parses the {contactID} URL parameter, answering 400 on failure.
func contactID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "contactID"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid contact id")
		return 0, false
	}
	return id, true
}
