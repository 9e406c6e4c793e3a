package services

import (
	"fmt"
	"time"

	"github.com/DesignrKnight/shield/internal/core/domain"
	"github.com/DesignrKnight/shield/internal/core/ports"
)

// RateLimiterService implementa a lógica central de rate limiting.
type RateLimiterService struct {
	store     ports.WindowStore
	evaluator RateEvaluator
	now       ports.Clock
}

var _ ports.RateLimiter = (*RateLimiterService)(nil)

// NewRateLimiterService cria uma nova instância do serviço. Sem clock,
// usa time.Now.
func NewRateLimiterService(store ports.WindowStore, settings domain.Settings, clock ports.Clock) (*RateLimiterService, error) {
	if store == nil {
		return nil, fmt.Errorf("window store is required")
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if clock == nil {
		clock = time.Now
	}

	return &RateLimiterService{
		store:     store,
		evaluator: NewRateEvaluator(settings.RateLimit),
		now:       clock,
	}, nil
}

// RecordEvent records one event for key at the current time and reports
// whether the key's observed rate is above the limit. The store lock is
// released before the decision is returned.
func (s *RateLimiterService) RecordEvent(key string) domain.Decision {
	stamps := s.store.Record(key, s.now())
	eval := s.evaluator.Evaluate(stamps)

	return domain.Decision{
		Key:      key,
		Exceeded: eval.Exceeded,
		Rate:     eval.Rate,
		Samples:  eval.Samples,
	}
}
