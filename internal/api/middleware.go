package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/ukane-philemon/srecords/internal/auth"
)

type ctxKey string

const (
	authTokenHeader = "Student-Records-Auth-Token"
	adminCtxKey     = ctxKey("adminID")
)

// AuthMiddleware ensures the correct and valid auth token is provided in this
// request. Requests without a token pass through unauthenticated.
func AuthMiddleware(tokens auth.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
			authToken := req.Header.Get(authTokenHeader)
			if authToken == "" {
				next.ServeHTTP(res, req)
				return
			}

			adminID, validToken := tokens.IsValid(authToken)
			if !validToken {
				writeError(res, req, http.StatusForbidden, "not authorized")
				return
			}

			// Set the adminCtxKey for use by subsequent handlers.
			req = req.WithContext(context.WithValue(req.Context(), adminCtxKey, adminID))
			next.ServeHTTP(res, req)
		})
	}
}

// reqAuthenticated checks that the request is authenticated.
func reqAuthenticated(ctx context.Context) bool {
	adminID, _ := ctx.Value(adminCtxKey).(string)
	return adminID != ""
}

// requestLogFormatter writes chi access log entries through slog.
type requestLogFormatter struct {
	logger *slog.Logger
}

// NewLogEntry implements middleware.LogFormatter.
func (f *requestLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &requestLogEntry{
		logger: f.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		),
	}
}

type requestLogEntry struct {
	logger *slog.Logger
}

func (e *requestLogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	e.logger.Info("request served", "status", status, "bytes", bytes, "elapsed", elapsed)
}

func (e *requestLogEntry) Panic(v interface{}, stack []byte) {
	e.logger.Error("request panicked", "panic", v, "stack", string(stack))
}
