// Package ban reúne as ações executadas quando um cliente excede o limite.
package ban

import (
	"context"
	"log"

	"github.com/DesignrKnight/shield/internal/core/ports"
)

// LogBanner only records the ban in the process log.
type LogBanner struct{}

var _ ports.Banner = LogBanner{}

func (LogBanner) Ban(_ context.Context, key, reason string) error {
	log.Printf("[ban] key=%s reason=%q", key, reason)
	return nil
}
