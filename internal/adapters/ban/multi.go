package ban

import (
	"context"
	"errors"

	"github.com/DesignrKnight/shield/internal/core/ports"
)

// Multi fans a ban out to every banner, returning the joined errors.
type Multi []ports.Banner

func (m Multi) Ban(ctx context.Context, key, reason string) error {
	var errs []error
	for _, b := range m {
		if err := b.Ban(ctx, key, reason); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
