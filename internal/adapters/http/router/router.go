// Package router monta as rotas HTTP do serviço.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/DesignrKnight/shield/internal/adapters/http/handlers"
	httpMiddleware "github.com/DesignrKnight/shield/internal/adapters/http/middleware"
	"github.com/DesignrKnight/shield/internal/core/ports"
)

type Deps struct {
	Limiter     ports.RateLimiter
	Store       handlers.KeyCounter
	Window      time.Duration
	RateLimit   float64
	Options     httpMiddleware.RateLimiterOptions
	CORSOrigins []string
	// Bans enables DELETE /bans/{key} when set.
	Bans ports.BanLifter
}

func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(httpMiddleware.NewRequestIDMiddleware(deps.Options.TrustProxy))
	r.Use(httpMiddleware.NewRequestLogger(deps.Options.TrustProxy))
	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.CORSOrigins,
			AllowedMethods: []string{"GET", "DELETE", "OPTIONS"},
			ExposedHeaders: []string{"X-Request-ID"},
		}))
	}
	r.Use(httpMiddleware.NewRateLimiterMiddleware(deps.Limiter, deps.Options))

	r.Get("/", handlers.Index)
	r.Get("/stats", handlers.NewStatsHandler(deps.Store, deps.Window, deps.RateLimit))
	if deps.Bans != nil {
		r.Delete("/bans/{key}", handlers.NewUnbanHandler(deps.Bans))
	}

	return r
}
