// Package middleware disponibiliza middlewares HTTP específicos da aplicação.
package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/DesignrKnight/shield/internal/core/ports"
)

const (
	rateLimitExceededMessage = "you have reached the maximum number of requests or actions allowed within a certain time frame"
	bannedMessage            = "your address has been banned"
)

// RateLimiterOptions configures the collaborators around the core limiter.
type RateLimiterOptions struct {
	// Banner is invoked when a key exceeds the limit. Nil disables banning.
	Banner ports.Banner
	// Checker rejects keys that are already banned. Nil disables the check.
	Checker    ports.BanChecker
	BanReason  string
	BanTimeout time.Duration
	TrustProxy bool
}

func NewRateLimiterMiddleware(limiter ports.RateLimiter, opts RateLimiterOptions) func(http.Handler) http.Handler {
	if opts.BanTimeout <= 0 {
		opts.BanTimeout = 5 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := ClientIP(r, opts.TrustProxy)
			if key == "" {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}

			if opts.Checker != nil {
				reason, banned, err := opts.Checker.Reason(r.Context(), key)
				if err != nil {
					log.Printf("[ratelimit] ban check failed for %s: %v", key, err)
				} else if banned {
					writeText(w, http.StatusForbidden, bannedBody(reason))
					return
				}
			}

			decision := limiter.RecordEvent(key)
			if !decision.Exceeded {
				next.ServeHTTP(w, r)
				return
			}

			log.Printf("[ratelimit] limit exceeded key=%s samples=%d rate=%.2f request_id=%s",
				key, decision.Samples, decision.Rate, RequestID(r.Context()))

			if opts.Banner != nil {
				ctx, cancel := context.WithTimeout(r.Context(), opts.BanTimeout)
				if err := opts.Banner.Ban(ctx, key, opts.BanReason); err != nil {
					log.Printf("[ratelimit] ban failed for %s: %v", key, err)
				}
				cancel()
			}

			writeText(w, http.StatusTooManyRequests, rateLimitExceededMessage)
		})
	}
}

func bannedBody(reason string) string {
	if reason == "" {
		return bannedMessage
	}
	return bannedMessage + ": " + reason
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
