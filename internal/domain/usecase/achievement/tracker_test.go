package achievement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/economy"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/rarity"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/random"
	timeadapter "github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/time"
	mockcore "github.com/amirhossein-jamali/booster-economy/mocks/port/core"
	mockusecase "github.com/amirhossein-jamali/booster-economy/mocks/port/usecase"
)

var trackerStart = time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

type openGate struct{}

func (openGate) Check(context.Context, uint64, string) error { return nil }

type discardSink struct{}

func (discardSink) Record(context.Context, coreport.AuditEvent) {}

type brokenDefinitions struct {
	persistence.AchievementRepository
}

func (brokenDefinitions) ListDefinitions(context.Context) ([]entity.Achievement, error) {
	return nil, errors.New("relation \"achievements\" does not exist")
}

type brokenStore struct {
	*memory.Store
}

func (s brokenStore) GetAchievementRepository(ctx context.Context) persistence.AchievementRepository {
	return brokenDefinitions{s.Store.GetAchievementRepository(ctx)}
}

func definitions() []entity.Achievement {
	return []entity.Achievement{
		{ID: 1, Name: "First Pack", Kind: entity.KindBoostersOpened, Threshold: 2, Reward: 50, Active: true},
		{ID: 2, Name: "Collector", Kind: entity.KindDistinctCards, Threshold: 10, Reward: 100, Active: true},
		{ID: 3, Name: "Romance Dawn Fan", Kind: entity.KindScopeDistinctCards, ScopeID: "OP01", Threshold: 3, Reward: 75, Active: true},
		{ID: 4, Name: "Starter Fan", Kind: entity.KindScopeDistinctCards, ScopeID: "ST01", Threshold: 2, Reward: 25, Active: true},
		{ID: 5, Name: "Retired", Kind: entity.KindBoostersOpened, Threshold: 1, Reward: 999, Active: false},
	}
}

func newTestTracker(t *testing.T, cfg Config) (*Tracker, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.PutCards(
		entity.Card{ID: 1, Name: "Luffy", Rarity: entity.RarityLeader, ScopeID: "OP01", Active: true},
		entity.Card{ID: 2, Name: "Zoro", Rarity: entity.RaritySuperRare, ScopeID: "OP01", Active: true},
		entity.Card{ID: 3, Name: "Nami", Rarity: entity.RarityRare, ScopeID: "OP01", Active: true},
		entity.Card{ID: 4, Name: "Usopp", Rarity: entity.RarityCommon, ScopeID: "OP01", Active: true},
		entity.Card{ID: 5, Name: "Kid", Rarity: entity.RarityCommon, ScopeID: "ST01", Active: true},
	)
	store.PutAchievements(definitions()...)
	store.PutAccounts(*entity.NewAccount(1, 0, 3, trackerStart))

	clock := timeadapter.NewManualTimeProvider(trackerStart)
	log := logger.NewNoopLogger()
	engine := economy.NewEngine(store, clock, discardSink{}, metrics.NewNoop(), log, economy.DefaultTxConfig())
	return NewTracker(engine, openGate{}, discardSink{}, clock, log, cfg), store
}

func recordOpenings(t *testing.T, store *memory.Store, accountID uint64, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		require.NoError(t, store.GetBoosterRepository(ctx).RecordOpening(ctx, &entity.BoosterOpening{
			ID: "opening", AccountID: accountID, BoosterID: 1, Source: entity.SourceAllotment, OpenedAt: trackerStart,
		}))
	}
}

func progressOf(t *testing.T, store *memory.Store, accountID, achievementID uint64) *entity.AchievementProgress {
	t.Helper()
	p, err := store.GetAchievementRepository(context.Background()).GetProgress(context.Background(), accountID, achievementID)
	require.NoError(t, err)
	return p
}

func TestRecompute(t *testing.T) {
	// Arrange
	tracker, store := newTestTracker(t, DefaultConfig())
	ctx := context.Background()
	recordOpenings(t, store, 1, 5)
	for _, card := range []uint64{1, 2, 3, 5} {
		store.PutInventory(1, card, 1)
	}

	// Act
	err := tracker.Recompute(ctx, 1, "")

	// Assert
	require.NoError(t, err)

	t.Run("progress is clamped to the plausible ceiling", func(t *testing.T) {
		p := progressOf(t, store, 1, 1)
		assert.Equal(t, 2, p.Progress)
		require.NotNil(t, p.CompletedAt)
		assert.Equal(t, trackerStart, *p.CompletedAt)
	})

	t.Run("distinct cards", func(t *testing.T) {
		p := progressOf(t, store, 1, 2)
		assert.Equal(t, 4, p.Progress)
		assert.Nil(t, p.CompletedAt)
	})

	t.Run("scope distinct cards", func(t *testing.T) {
		assert.Equal(t, 3, progressOf(t, store, 1, 3).Progress)
		assert.Equal(t, 1, progressOf(t, store, 1, 4).Progress)
	})

	t.Run("inactive achievements are ignored", func(t *testing.T) {
		assert.Zero(t, progressOf(t, store, 1, 5).Progress)
	})

	t.Run("progress never decreases", func(t *testing.T) {
		store.PutInventory(1, 1, 0)
		store.PutInventory(1, 2, 0)

		require.NoError(t, tracker.Recompute(ctx, 1, ""))

		assert.Equal(t, 4, progressOf(t, store, 1, 2).Progress)
		assert.Equal(t, 3, progressOf(t, store, 1, 3).Progress)
	})
}

func TestRecomputeScopeFilter(t *testing.T) {
	tracker, store := newTestTracker(t, DefaultConfig())
	store.PutInventory(1, 4, 1)
	store.PutInventory(1, 5, 1)

	require.NoError(t, tracker.Recompute(context.Background(), 1, "ST01"))

	assert.Equal(t, 1, progressOf(t, store, 1, 4).Progress)
	assert.Zero(t, progressOf(t, store, 1, 3).Progress)
	assert.Equal(t, 2, progressOf(t, store, 1, 2).Progress)
}

func TestClaim(t *testing.T) {
	ctx := context.Background()
	tracker, store := newTestTracker(t, DefaultConfig())
	recordOpenings(t, store, 1, 2)
	require.NoError(t, tracker.Recompute(ctx, 1, ""))

	t.Run("incomplete achievement", func(t *testing.T) {
		_, err := tracker.Claim(ctx, 1, 2)
		assert.ErrorIs(t, err, errs.ErrAchievementIncomplete)
	})

	t.Run("completed achievement pays once", func(t *testing.T) {
		result, err := tracker.Claim(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(50), result.Amount)
		assert.Equal(t, int64(50), result.Balance)
		assert.Equal(t, "1", result.RewardKey)
		assert.True(t, progressOf(t, store, 1, 1).Claimed)

		_, err = tracker.Claim(ctx, 1, 1)
		assert.ErrorIs(t, err, errs.ErrAlreadyClaimed)
	})

	t.Run("unknown or retired achievement", func(t *testing.T) {
		_, err := tracker.Claim(ctx, 1, 404)
		assert.ErrorIs(t, err, errs.ErrAchievementNotFound)

		_, err = tracker.Claim(ctx, 1, 5)
		assert.ErrorIs(t, err, errs.ErrAchievementNotFound)
	})

	t.Run("gate rejection", func(t *testing.T) {
		gate := mockusecase.NewMockGatekeeper(t)
		gate.EXPECT().Check(mock.Anything, uint64(1), "claim_achievement").Return(errs.ErrBlocked).Once()
		blocked := NewTracker(tracker.engine, gate, discardSink{}, tracker.clock, logger.NewNoopLogger(), DefaultConfig())

		_, err := blocked.Claim(ctx, 1, 1)

		assert.ErrorIs(t, err, errs.ErrBlocked)
	})
}

func TestClaimConcurrentlyPaysOnce(t *testing.T) {
	// Arrange
	ctx := context.Background()
	tracker, store := newTestTracker(t, DefaultConfig())
	recordOpenings(t, store, 1, 3)
	require.NoError(t, tracker.Recompute(ctx, 1, ""))

	// Act
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tracker.Claim(ctx, 1, 1); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Assert
	assert.Equal(t, 1, wins)
	acc, err := store.GetAccountRepository(ctx).GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), acc.Balance)
}

func TestAfterBoosterOpened(t *testing.T) {
	booster := &entity.Booster{ID: 1, ScopeID: "OP01", Price: 100, Active: true}

	t.Run("sync", func(t *testing.T) {
		tracker, store := newTestTracker(t, DefaultConfig())
		recordOpenings(t, store, 1, 1)

		tracker.AfterBoosterOpened(context.Background(), 1, booster)

		assert.Equal(t, 1, progressOf(t, store, 1, 1).Progress)
	})

	t.Run("async outlives the request context", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Async = true
		tracker, store := newTestTracker(t, cfg)
		recordOpenings(t, store, 1, 2)
		ctx, cancel := context.WithCancel(context.Background())

		tracker.AfterBoosterOpened(ctx, 1, booster)
		cancel()
		tracker.Wait()

		assert.Equal(t, 2, progressOf(t, store, 1, 1).Progress)
	})

	t.Run("failures are logged", func(t *testing.T) {
		tracker, store := newTestTracker(t, DefaultConfig())
		log := mockcore.NewMockLogger(t)
		log.EXPECT().Warn("Achievement recompute failed", mock.Anything).Return().Once()
		tracker.logger = log
		tracker.uow = brokenStore{store}

		tracker.AfterBoosterOpened(context.Background(), 1, booster)
	})
}

func TestListProgress(t *testing.T) {
	ctx := context.Background()
	tracker, store := newTestTracker(t, DefaultConfig())
	recordOpenings(t, store, 1, 1)
	require.NoError(t, tracker.Recompute(ctx, 1, ""))

	statuses, err := tracker.ListProgress(ctx, 1)

	require.NoError(t, err)
	require.Len(t, statuses, 4)
	assert.Equal(t, uint64(1), statuses[0].Achievement.ID)
	assert.Equal(t, 1, statuses[0].Progress.Progress)
	for _, s := range statuses {
		assert.True(t, s.Achievement.Active)
	}

	t.Run("new account sees zero progress", func(t *testing.T) {
		statuses, err := tracker.ListProgress(ctx, 99)
		require.NoError(t, err)
		require.Len(t, statuses, 4)
		assert.Zero(t, statuses[3].Progress.Progress)
	})
}

func TestTrackerDrivesEconomy(t *testing.T) {
	// Arrange
	ctx := context.Background()
	tracker, store := newTestTracker(t, DefaultConfig())
	store.PutBoosters(entity.Booster{ID: 1, Name: "Romance Dawn", ScopeID: "OP01", Price: 100, Active: true})
	generator, err := rarity.NewGenerator(rarity.DefaultConfig(), random.NewSeeded(3), nil)
	require.NoError(t, err)
	service := economy.NewService(tracker.engine, openGate{}, generator, rarity.NewRepositorySource(store),
		tracker, discardSink{}, tracker.clock, logger.NewNoopLogger(), economy.DefaultConfig())

	// Act
	_, err = service.OpenBooster(ctx, 1, 1)
	require.NoError(t, err)
	_, err = service.OpenBooster(ctx, 1, 1)
	require.NoError(t, err)

	// Assert
	p := progressOf(t, store, 1, 1)
	assert.Equal(t, 2, p.Progress)
	result, err := tracker.Claim(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.Balance)
}
