package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
)

// Options configures the Redis tracker store
type Options struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	// TTL expires idle trackers; it replaces the in-process sweep
	TTL time.Duration
	// MaxRetries bounds optimistic-lock retries of one update
	MaxRetries int
}

// TrackerStore keeps abuse trackers in Redis so several processes share one view.
// Updates are optimistic: WATCH the key, read, apply, write in MULTI.
type TrackerStore struct {
	client *goredis.Client
	opts   Options
}

var _ persistence.TrackerStore = (*TrackerStore)(nil)

// NewTrackerStore connects to Redis and verifies the connection
func NewTrackerStore(ctx context.Context, opts Options) (*TrackerStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return NewTrackerStoreWithClient(client, opts), nil
}

// NewTrackerStoreWithClient wraps an existing client
func NewTrackerStoreWithClient(client *goredis.Client, opts Options) *TrackerStore {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "booster:gate:"
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	return &TrackerStore{client: client, opts: opts}
}

func (s *TrackerStore) key(accountID uint64) string {
	return s.opts.KeyPrefix + strconv.FormatUint(accountID, 10)
}

// Update implements persistence.TrackerStore
func (s *TrackerStore) Update(ctx context.Context, accountID uint64, fn func(tracker *entity.AbuseTracker)) error {
	key := s.key(accountID)

	txf := func(tx *goredis.Tx) error {
		tracker := entity.NewAbuseTracker(accountID)
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, goredis.Nil):
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(raw, tracker); err != nil {
				return fmt.Errorf("failed to decode tracker %s: %w", key, err)
			}
			if tracker.Actions == nil {
				tracker.Actions = make(map[string][]time.Time)
			}
		}

		fn(tracker)

		data, err := json.Marshal(tracker)
		if err != nil {
			return fmt.Errorf("failed to encode tracker %s: %w", key, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.opts.TTL)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < s.opts.MaxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, goredis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("tracker %s: too much contention after %d attempts", key, s.opts.MaxRetries)
}

// Sweep implements persistence.TrackerStore. Keys expire on their own, so nothing is swept.
func (s *TrackerStore) Sweep(context.Context, time.Time, time.Duration) (int, error) {
	return 0, nil
}

// Close releases the client
func (s *TrackerStore) Close() error {
	return s.client.Close()
}

// Ping checks the connection, used by the health endpoint
func (s *TrackerStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
