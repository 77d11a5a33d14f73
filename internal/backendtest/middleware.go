package backendtest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func extractToken(r *http.Request) string {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return ""
	}
	return strings.TrimPrefix(tokenString, "Bearer ")
}

func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

func AuthMiddleware(b *Backend) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				b.Logger.Warn().Msg("Missing authorization token")
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			id, err := b.JWT.ValidateToken(tokenString)
			if err != nil {
				b.Logger.Warn().Err(err).Msg("Invalid authorization token")
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FaultMiddleware counts calls per route and applies scripted faults.
func FaultMiddleware(b *Backend) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var name string
			if route := mux.CurrentRoute(r); route != nil {
				name = route.GetName()
			}
			f, ok := b.record(name)
			if ok && (f.match == "" || strings.Contains(r.URL.RequestURI(), f.match)) {
				if f.delay > 0 {
					select {
					case <-time.After(f.delay):
					case <-r.Context().Done():
						return
					}
				}
				if f.status != 0 {
					writeError(w, f.status, f.message)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func LoggingMiddleware(b *Backend) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			b.Logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", r.Header.Get("X-Request-ID")).
				Dur("duration", time.Since(start)).
				Msg("Request handled")
		})
	}
}
