package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// TrackerStore holds abuse-gate trackers outside the transactional store
type TrackerStore interface {
	// Update loads (or lazily creates) the tracker of accountID, applies fn and
	// saves the result. Updates of the same account are serialized.
	Update(ctx context.Context, accountID uint64, fn func(tracker *entity.AbuseTracker)) error

	// Sweep removes trackers that are unblocked and idle since at least idle. Returns the number removed.
	Sweep(ctx context.Context, now time.Time, idle time.Duration) (int, error)
}
