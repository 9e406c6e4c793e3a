package ports

import "context"

// Banner is the action taken when a key exceeds the rate limit.
// Implementations must be idempotent: the same key may be banned repeatedly.
type Banner interface {
	Ban(ctx context.Context, key, reason string) error
}

// BanChecker looks up an active ban and the reason it was recorded with.
type BanChecker interface {
	Reason(ctx context.Context, key string) (reason string, banned bool, err error)
}

// BanLifter lets operators inspect and lift bans.
type BanLifter interface {
	IsBanned(ctx context.Context, key string) (bool, error)
	Unban(ctx context.Context, key string) error
}
