// Package domain concentra entidades e estruturas centrais do rate limiter.
package domain

import "time"

// Settings agrupa as constantes fixadas na inicialização.
type Settings struct {
	// Window é a duração da janela deslizante.
	Window time.Duration
	// RateLimit é o máximo de eventos por segundo antes de sinalizar excesso.
	RateLimit float64
	// ScanPeriod é o intervalo entre varreduras do evictor.
	ScanPeriod time.Duration
}

// Validate checks the settings against the startup constraints.
func (s Settings) Validate() error {
	if s.Window <= 0 {
		return ErrInvalidWindow
	}
	if s.RateLimit <= 0 {
		return ErrInvalidRateLimit
	}
	if s.ScanPeriod <= 0 || s.ScanPeriod > s.Window {
		return ErrInvalidScanPeriod
	}
	return nil
}

type Decision struct {
	Key      string
	Exceeded bool
	// Rate is zero when fewer than two samples are retained.
	Rate    float64
	Samples int
}
