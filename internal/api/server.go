package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/ukane-philemon/srecords/internal/admin"
	"github.com/ukane-philemon/srecords/internal/auth"
	"github.com/ukane-philemon/srecords/internal/db"
	"github.com/ukane-philemon/srecords/internal/report"
	"github.com/ukane-philemon/srecords/internal/student"
)

// Config holds the dependencies of a *Server.
type Config struct {
	Guard    *db.Guard
	Students student.Repository
	Reporter *report.Reporter
	// Admins and Tokens are only required when RequireAuth is set.
	Admins      admin.Repository
	Tokens      auth.Manager
	RequireAuth bool
	// Logger receives one access log line per request. Defaults to
	// slog.Default().
	Logger *slog.Logger
	// RateLimit is the number of requests per minute allowed for a client
	// IP. Zero disables rate limiting.
	RateLimit int
}

// Server serves the student records and reporter endpoints.
type Server struct {
	guard       *db.Guard
	students    student.Repository
	reporter    *report.Reporter
	admins      admin.Repository
	tokens      auth.Manager
	requireAuth bool
	rateLimit   int
	logger      *slog.Logger
	validate    *validator.Validate
}

// New creates and returns a new instance of *Server.
func New(cfg Config) (*Server, error) {
	if cfg.Guard == nil || cfg.Students == nil || cfg.Reporter == nil {
		return nil, errors.New("guard, students and reporter are required")
	}

	if cfg.RequireAuth && (cfg.Admins == nil || cfg.Tokens == nil) {
		return nil, errors.New("admins and tokens are required when auth is enabled")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		guard:       cfg.Guard,
		students:    cfg.Students,
		reporter:    cfg.Reporter,
		admins:      cfg.Admins,
		tokens:      cfg.Tokens,
		requireAuth: cfg.RequireAuth,
		rateLimit:   cfg.RateLimit,
		logger:      logger,
		validate:    newValidator(),
	}, nil
}

// Router returns the http.Handler for all endpoints.
func (s *Server) Router() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.RequestLogger(&requestLogFormatter{logger: s.logger}))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.RequestSize(maxBodyBytes))
	if s.rateLimit > 0 {
		mux.Use(httprate.LimitByIP(s.rateLimit, time.Minute))
	}
	if s.requireAuth {
		mux.Use(AuthMiddleware(s.tokens))
	}

	mux.Get("/", s.home)
	mux.Get("/test-mongo", s.testMongo)

	mux.Route("/students", func(r chi.Router) {
		r.Get("/", s.listStudents)
		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Post("/", s.createStudent)
			r.Put("/", s.updateStudent)
			r.Delete("/", s.deleteStudent)
		})
	})

	mux.Route("/batches", func(r chi.Router) {
		r.Get("/", s.listBatches)
		r.With(s.adminOnly).Post("/", s.createBatch)
	})

	mux.Route("/reporter", func(r chi.Router) {
		r.Get("/", s.reporterPage)
		r.With(s.adminOnly).Post("/", s.submitReporterForm)
	})

	if s.requireAuth {
		mux.Post("/admin/login", s.login)
	}

	return mux
}

// adminOnly rejects unauthenticated requests when auth is required.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	if !s.requireAuth {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !reqAuthenticated(r.Context()) {
			handleUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
