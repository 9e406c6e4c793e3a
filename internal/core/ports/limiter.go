// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"time"

	"github.com/DesignrKnight/shield/internal/core/domain"
)

type RateLimiter interface {
	RecordEvent(key string) domain.Decision
}

// Clock returns the current time. Injected so tests can drive time explicitly.
type Clock func() time.Time
