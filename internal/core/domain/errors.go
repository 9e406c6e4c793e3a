package domain

import "errors"

var (
	ErrInvalidWindow     = errors.New("window must be positive")
	ErrInvalidRateLimit  = errors.New("rate limit must be positive")
	ErrInvalidScanPeriod = errors.New("scan period must be positive and not exceed the window")
)

func IsInvalidSettingsError(err error) bool {
	return errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrInvalidRateLimit) ||
		errors.Is(err, ErrInvalidScanPeriod)
}
