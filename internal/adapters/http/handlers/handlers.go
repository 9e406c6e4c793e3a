// Package handlers agrupa os handlers HTTP expostos pelo serviço.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DesignrKnight/shield/internal/core/ports"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Index responde com uma mensagem simples para verificar o limiter.
func Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Request successful"})
}

// KeyCounter reports how many keys currently hold history.
type KeyCounter interface {
	Len() int
}

type statsResponse struct {
	TrackedKeys   int     `json:"tracked_keys"`
	WindowSeconds float64 `json:"window_seconds"`
	RateLimit     float64 `json:"rate_limit"`
}

// NewStatsHandler exposes the size of the window store and the active limits.
func NewStatsHandler(counter KeyCounter, window time.Duration, rateLimit float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statsResponse{
			TrackedKeys:   counter.Len(),
			WindowSeconds: window.Seconds(),
			RateLimit:     rateLimit,
		})
	}
}

// NewUnbanHandler lifts the ban on the {key} URL parameter. Unknown keys get
// 404 so operators can tell a typo from a lifted ban.
func NewUnbanHandler(bans ports.BanLifter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if key == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
			return
		}

		banned, err := bans.IsBanned(r.Context(), key)
		if err != nil {
			log.Printf("[http] ban lookup failed for %s: %v", key, err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "ban list unavailable"})
			return
		}
		if !banned {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "key is not banned"})
			return
		}

		if err := bans.Unban(r.Context(), key); err != nil {
			log.Printf("[http] unban failed for %s: %v", key, err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "ban list unavailable"})
			return
		}
		log.Printf("[http] ban lifted key=%s", key)
		w.WriteHeader(http.StatusNoContent)
	}
}
