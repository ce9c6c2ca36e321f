package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations for the domain.
// Every timestamp the economy writes (claims, allotment regeneration,
// gate windows) is taken from here so tests can drive the clock.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Until(t time.Time) time.Duration
	// Sleep blocks for d or until ctx is done, whichever comes first
	Sleep(ctx context.Context, d time.Duration) error
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
