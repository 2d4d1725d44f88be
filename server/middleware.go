package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"artiststudio/core/account"
	"artiststudio/core/apperr"
	"artiststudio/logger"
	"artiststudio/model"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey contextKey = "requestId"
	adminUserKey contextKey = "adminUser"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const adminRealm = `Basic realm="artiststudio-admin"`

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// AdminFromContext returns the administrator authenticated for this request.
func AdminFromContext(ctx context.Context) (*model.UserView, bool) {
	u, ok := ctx.Value(adminUserKey).(*model.UserView)
	return u, ok
}

// corsMiddleware answers preflight requests and decorates every response.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

// accessLog tags the request with an id and logs it once it completes.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))

		logger.Info("HTTP request",
			logger.String("requestId", id),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rec.status),
			logger.Duration("duration", time.Since(start)))
	})
}

// recoverer turns a handler panic into a JSON 500. A response that has
// already started is left alone and the panic is only logged.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			err := fmt.Errorf("panic: %v", v)
			if rec.wroteHeader {
				logger.Error("Panic after response started",
					logger.String("method", r.Method),
					logger.String("path", r.URL.Path),
					logger.String("requestId", requestIDFrom(r.Context())),
					logger.Int("status", rec.status),
					logger.ErrorField(err))
				return
			}
			writeError(w, r, err, false)
		}()
		next.ServeHTTP(rec, r)
	})
}

// AdminOnly requires HTTP Basic credentials of an active ROLE_ADMIN account.
// Credentials are verified again on every request. When required is false
// the check is skipped entirely.
func AdminOnly(accounts *account.Service, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !required {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := r.BasicAuth()
			if !ok || email == "" || password == "" {
				w.Header().Set("WWW-Authenticate", adminRealm)
				writeError(w, r, apperr.Unauthorized("administrator credentials required"), false)
				return
			}

			user, err := accounts.Authorize(r.Context(), email, password, model.RoleAdmin)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindUnauthorized {
					w.Header().Set("WWW-Authenticate", adminRealm)
				}
				writeError(w, r, err, false)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminUserKey, user)))
		})
	}
}
