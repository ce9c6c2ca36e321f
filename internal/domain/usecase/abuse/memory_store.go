package abuse

import (
	"context"
	"sync"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// MemoryStore keeps trackers in process memory.
// Trackers are created on first use and removed by Sweep.
type MemoryStore struct {
	mu       sync.Mutex
	trackers map[uint64]*entity.AbuseTracker
}

// NewMemoryStore creates an empty in-process tracker store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trackers: make(map[uint64]*entity.AbuseTracker)}
}

// Update implements persistence.TrackerStore
func (s *MemoryStore) Update(ctx context.Context, accountID uint64, fn func(tracker *entity.AbuseTracker)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tracker, ok := s.trackers[accountID]
	if !ok {
		tracker = entity.NewAbuseTracker(accountID)
		s.trackers[accountID] = tracker
	}
	fn(tracker)
	return nil
}

// Sweep implements persistence.TrackerStore
func (s *MemoryStore) Sweep(_ context.Context, now time.Time, idle time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, tracker := range s.trackers {
		if tracker.Idle(now, idle) {
			delete(s.trackers, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of live trackers
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trackers)
}
