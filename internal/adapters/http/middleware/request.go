package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type ctxKey string

const ctxRequestID ctxKey = "request_id"

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID, id)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(ctxRequestID).(string)
	return v
}

// NewRequestIDMiddleware tags each request with a uuid. Behind a trusted
// proxy a well-formed upstream X-Request-ID is kept so log lines correlate.
func NewRequestIDMiddleware(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := ""
			if trustProxy {
				if id, err := uuid.Parse(r.Header.Get(requestIDHeader)); err == nil {
					rid = id.String()
				}
			}
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, rid)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), rid)))
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// NewRequestLogger logs one line per request, keyed by the same client
// address the rate limiter uses.
func NewRequestLogger(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Printf("[http] %s %s %d %dB %s key=%s rid=%s",
				r.Method, r.URL.Path, rec.status, rec.bytes, time.Since(start).Round(time.Microsecond),
				ClientIP(r, trustProxy), RequestID(r.Context()))
		})
	}
}
