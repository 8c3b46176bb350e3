package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/belimuno/workhub/internal/core"
	"github.com/belimuno/workhub/internal/domain/actor"
)

// respWriter wraps http.ResponseWriter to capture the status code for logging.
type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logging logs each request with method, path, status, and duration.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &respWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rw, r)

			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// Recover converts panics into 500 responses instead of tearing down the server.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic in handler",
						"error", rec,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					WriteJSON(w, http.StatusInternalServerError, Envelope{
						Success: false,
						Message: "An unexpected error occurred.",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticate resolves the bearer session token against the session store and
// places the acting principal in the request context. Requests without a valid
// session are rejected.
func Authenticate(store core.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				WriteJSON(w, http.StatusUnauthorized, Envelope{
					Success: false,
					Message: "Authentication required.",
				})
				return
			}

			sess, err := store.Get(r.Context(), token)
			if err != nil {
				WriteError(w, err)
				return
			}

			ctx := SetActorInContext(r.Context(), sess.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequireRole restricts a route group to one role. Admins pass every group;
// the finer ownership and assignment guards live in the lifecycle validator.
func RequireRole(role actor.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			act, ok := ActorFromContext(r.Context())
			if !ok {
				WriteJSON(w, http.StatusUnauthorized, Envelope{
					Success: false,
					Message: "Authentication required.",
				})
				return
			}
			if act.Role != role && !act.IsAdmin() {
				WriteJSON(w, http.StatusForbidden, Envelope{
					Success: false,
					Message: "You do not have access to this resource.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
