package economy

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/abuse"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/rarity"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/random"
	timeadapter "github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/time"
	mockusecase "github.com/amirhossein-jamali/booster-economy/mocks/port/usecase"
)

var testStart = time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)

type recordingSink struct {
	mu     sync.Mutex
	events []coreport.AuditEvent
}

func (s *recordingSink) Record(_ context.Context, event coreport.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) count(action string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Action == action {
			n++
		}
	}
	return n
}

type openGate struct{}

func (openGate) Check(context.Context, uint64, string) error { return nil }

type noProgress struct{}

func (noProgress) AfterBoosterOpened(context.Context, uint64, *entity.Booster) {}

// testCatalog returns two cards of every tier in scope OP01
func testCatalog() []entity.Card {
	var cards []entity.Card
	id := uint64(1)
	for _, r := range entity.Rarities {
		for i := 0; i < 2; i++ {
			cards = append(cards, entity.Card{ID: id, Name: fmt.Sprintf("%s %d", r, i), Rarity: r, ScopeID: "OP01", Active: true})
			id++
		}
	}
	return cards
}

type fixture struct {
	store   *memory.Store
	clock   *timeadapter.ManualTimeProvider
	sink    *recordingSink
	service *Service
}

func newFixture(t *testing.T, cards ...entity.Card) *fixture {
	t.Helper()
	if len(cards) == 0 {
		cards = testCatalog()
	}

	store := memory.NewStore()
	store.PutCards(cards...)
	store.PutBoosters(
		entity.Booster{ID: 1, Name: "Romance Dawn", ScopeID: "OP01", Price: 100, Active: true},
		entity.Booster{ID: 2, Name: "Retired Set", ScopeID: "OP01", Price: 100, Active: false},
	)

	clock := timeadapter.NewManualTimeProvider(testStart)
	sink := &recordingSink{}
	log := logger.NewNoopLogger()
	engine := NewEngine(store, clock, sink, metrics.NewNoop(), log, DefaultTxConfig())
	generator, err := rarity.NewGenerator(rarity.DefaultConfig(), random.NewSeeded(1), nil)
	require.NoError(t, err)

	service := NewService(engine, openGate{}, generator, rarity.NewRepositorySource(store),
		noProgress{}, sink, clock, log, DefaultConfig())
	return &fixture{store: store, clock: clock, sink: sink, service: service}
}

func (f *fixture) account(t *testing.T, id uint64) *entity.Account {
	t.Helper()
	acc, err := f.store.GetAccountRepository(context.Background()).GetByID(context.Background(), id)
	require.NoError(t, err)
	return acc
}

func (f *fixture) heldCards(t *testing.T, id uint64) int {
	t.Helper()
	items, err := f.store.GetInventoryRepository(context.Background()).ListByAccount(context.Background(), id)
	require.NoError(t, err)
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func TestBuyBooster(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.store.PutAccounts(*entity.NewAccount(1, 100, 3, testStart))
	progress := mockusecase.NewMockProgressTracker(t)
	progress.EXPECT().AfterBoosterOpened(mock.Anything, uint64(1), mock.Anything).Return().Once()
	f.service.progress = progress
	ctx := context.Background()

	// Act
	result, err := f.service.BuyBooster(ctx, 1, 1)

	// Assert
	require.NoError(t, err)
	assert.Len(t, result.Cards, DefaultConfig().BoosterSize)
	assert.Equal(t, int64(0), result.Balance)
	assert.Equal(t, entity.SourceCurrency, result.Opening.Source)
	assert.Equal(t, 5, f.heldCards(t, 1))
	assert.Equal(t, 3, f.account(t, 1).AvailableBoosters)
	assert.Equal(t, 1, f.sink.count(coreport.AuditBoosterPurchased))

	t.Run("insufficient funds changes nothing", func(t *testing.T) {
		_, err := f.service.BuyBooster(ctx, 1, 1)

		var fundsErr *errs.InsufficientFundsError
		require.ErrorAs(t, err, &fundsErr)
		assert.Equal(t, int64(100), fundsErr.Required)
		assert.Equal(t, int64(0), fundsErr.Available)
		assert.Equal(t, int64(0), f.account(t, 1).Balance)
		assert.Equal(t, 5, f.heldCards(t, 1))
	})
}

func TestOpenBoosterAllotment(t *testing.T) {
	ctx := context.Background()

	t.Run("empty allotment is rejected without mutation", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		next := testStart.Add(time.Hour)
		acc := entity.NewAccount(1, 500, 0, testStart)
		acc.NextBoosterAt = &next
		f.store.PutAccounts(*acc)

		// Act
		_, err := f.service.OpenBooster(ctx, 1, 1)

		// Assert
		assert.ErrorIs(t, err, errs.ErrInsufficientAllotment)
		assert.Equal(t, 0, f.heldCards(t, 1))
		after := f.account(t, 1)
		assert.Equal(t, int64(500), after.Balance)
		assert.Equal(t, next, *after.NextBoosterAt)
		assert.Equal(t, 1, f.sink.count(coreport.AuditOperationRejected))
	})

	t.Run("last booster schedules regeneration", func(t *testing.T) {
		f := newFixture(t)
		f.store.PutAccounts(*entity.NewAccount(1, 0, 1, testStart))

		result, err := f.service.OpenBooster(ctx, 1, 1)

		require.NoError(t, err)
		assert.Equal(t, 0, result.AvailableBoosters)
		require.NotNil(t, result.NextBoosterAt)
		assert.Equal(t, testStart.Add(DefaultConfig().AllotmentInterval), *result.NextBoosterAt)
	})

	t.Run("due allotment is refilled before consuming", func(t *testing.T) {
		f := newFixture(t)
		past := testStart.Add(-time.Minute)
		acc := entity.NewAccount(1, 0, 0, testStart.Add(-24*time.Hour))
		acc.NextBoosterAt = &past
		f.store.PutAccounts(*acc)

		result, err := f.service.OpenBooster(ctx, 1, 1)

		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().MaxAllotment-1, result.AvailableBoosters)
		assert.Nil(t, result.NextBoosterAt)
	})

	t.Run("inactive booster", func(t *testing.T) {
		f := newFixture(t)
		f.store.PutAccounts(*entity.NewAccount(1, 0, 3, testStart))

		_, err := f.service.OpenBooster(ctx, 1, 2)

		assert.ErrorIs(t, err, errs.ErrBoosterInactive)
		assert.ErrorIs(t, err, errs.ErrInvalidTarget)
		assert.Equal(t, 3, f.account(t, 1).AvailableBoosters)
	})

	t.Run("unknown booster", func(t *testing.T) {
		f := newFixture(t)
		f.store.PutAccounts(*entity.NewAccount(1, 0, 3, testStart))

		_, err := f.service.OpenBooster(ctx, 1, 99)

		assert.ErrorIs(t, err, errs.ErrBoosterNotFound)
	})

	t.Run("unknown account", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.OpenBooster(ctx, 42, 1)

		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	})
}

func TestOpenBoosterGateRejection(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.store.PutAccounts(*entity.NewAccount(1, 0, 3, testStart))
	gate := mockusecase.NewMockGatekeeper(t)
	gate.EXPECT().Check(mock.Anything, uint64(1), "open_booster").
		Return(&errs.RateLimitedError{AccountID: 1, Action: "open_booster", Reason: "per_minute", Err: errs.ErrRateLimited}).Once()
	f.service.gate = gate

	// Act
	_, err := f.service.OpenBooster(context.Background(), 1, 1)

	// Assert
	assert.ErrorIs(t, err, errs.ErrRateLimited)
	assert.Equal(t, 3, f.account(t, 1).AvailableBoosters)
	assert.Equal(t, 0, f.heldCards(t, 1))
}

func TestRapidOpensAgainstPerMinuteCap(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.store.PutAccounts(*entity.NewAccount(1, 10_000, 3, testStart))
	gateCfg := abuse.DefaultConfig()
	gateCfg.Limits = map[string]abuse.ActionLimit{"buy_booster": {PerMinute: 10}}
	f.service.gate = abuse.NewGate(gateCfg, abuse.NewMemoryStore(), f.clock, f.sink, metrics.NewNoop(), logger.NewNoopLogger())
	ctx := context.Background()
	accepted, rejected := 0, 0

	// Act
	for i := 0; i < 20; i++ {
		_, err := f.service.BuyBooster(ctx, 1, 1)
		if err == nil {
			accepted++
		} else {
			assert.True(t, errs.IsGateRejection(err))
			rejected++
		}
		f.clock.Advance(2 * time.Second)
	}

	// Assert
	assert.Equal(t, 10, accepted)
	assert.GreaterOrEqual(t, rejected, 10)
	assert.Equal(t, int64(10_000-10*100), f.account(t, 1).Balance)
	assert.Equal(t, 10*DefaultConfig().BoosterSize, f.heldCards(t, 1))

	openings, err := f.store.GetBoosterRepository(ctx).CountOpenings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, openings)
}

func TestBoosterAlwaysYieldsBoosterSize(t *testing.T) {
	testCases := []struct {
		name  string
		cards []entity.Card
	}{
		{"full catalog", testCatalog()},
		{"single card", []entity.Card{{ID: 9, Name: "Lonely", Rarity: entity.RaritySecretRare, ScopeID: "OP01", Active: true}}},
		{"other scope only", []entity.Card{{ID: 9, Name: "Elsewhere", Rarity: entity.RarityCommon, ScopeID: "ST01", Active: true}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.cards...)
			f.store.PutAccounts(*entity.NewAccount(1, 5_000, 3, testStart))

			for i := 0; i < 20; i++ {
				result, err := f.service.BuyBooster(context.Background(), 1, 1)
				require.NoError(t, err)
				assert.Len(t, result.Cards, DefaultConfig().BoosterSize)
				assert.Len(t, result.Opening.CardIDs, DefaultConfig().BoosterSize)
			}
			assert.Equal(t, 20*DefaultConfig().BoosterSize, f.heldCards(t, 1))
		})
	}

	t.Run("empty catalog", func(t *testing.T) {
		f := newFixture(t, entity.Card{ID: 9, Name: "Retired", Rarity: entity.RarityCommon, ScopeID: "OP01"})
		f.store.PutAccounts(*entity.NewAccount(1, 5_000, 3, testStart))

		_, err := f.service.BuyBooster(context.Background(), 1, 1)

		assert.ErrorIs(t, err, errs.ErrCatalogEmpty)
		assert.Equal(t, int64(5_000), f.account(t, 1).Balance)
	})
}

func TestSellCard(t *testing.T) {
	ctx := context.Background()
	// Card 1 is common (1 each), card 11 is secret rare (200 each)
	f := newFixture(t)
	f.store.PutAccounts(*entity.NewAccount(1, 0, 3, testStart))
	f.store.PutInventory(1, 1, 3)
	f.store.PutInventory(1, 11, 2)

	t.Run("sells and keeps one copy", func(t *testing.T) {
		result, err := f.service.SellCard(ctx, 1, 1, 2)

		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Proceeds)
		assert.Equal(t, int64(2), result.Balance)
		assert.Equal(t, 1, result.Remaining)
	})

	t.Run("last copy cannot be sold", func(t *testing.T) {
		_, err := f.service.SellCard(ctx, 1, 1, 1)

		assert.ErrorIs(t, err, errs.ErrNotOwned)
		assert.Equal(t, int64(2), f.account(t, 1).Balance)
	})

	t.Run("price follows rarity", func(t *testing.T) {
		result, err := f.service.SellCard(ctx, 1, 11, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(200), result.Proceeds)
		assert.Equal(t, int64(202), result.Balance)
	})

	t.Run("selling more than held", func(t *testing.T) {
		_, err := f.service.SellCard(ctx, 1, 11, 5)
		assert.ErrorIs(t, err, errs.ErrNotOwned)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		_, err := f.service.SellCard(ctx, 1, 11, 0)
		assert.ErrorIs(t, err, errs.ErrInvalidQuantity)
	})

	t.Run("unknown card", func(t *testing.T) {
		_, err := f.service.SellCard(ctx, 1, 999, 1)
		assert.ErrorIs(t, err, errs.ErrCardNotFound)
	})

	t.Run("balance cap rolls back the removal", func(t *testing.T) {
		g := newFixture(t)
		g.store.PutAccounts(*entity.NewAccount(1, DefaultConfig().MaxBalance-10, 3, testStart))
		g.store.PutInventory(1, 11, 2)

		_, err := g.service.SellCard(ctx, 1, 11, 1)

		assert.ErrorIs(t, err, errs.ErrLimitExceeded)
		entry, err := g.store.GetInventoryRepository(ctx).Get(ctx, 1, 11)
		require.NoError(t, err)
		assert.Equal(t, 2, entry.Quantity)
	})
}

func TestClaimDailyReward(t *testing.T) {
	ctx := context.Background()

	t.Run("once per cooldown", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.store.PutAccounts(*entity.NewAccount(1, 0, 3, testStart))

		// Act
		first, err := f.service.ClaimDailyReward(ctx, 1)
		require.NoError(t, err)
		_, second := f.service.ClaimDailyReward(ctx, 1)
		f.clock.Advance(24 * time.Hour)
		third, err := f.service.ClaimDailyReward(ctx, 1)

		// Assert
		assert.Equal(t, int64(100), first.Balance)
		assert.Equal(t, "2026-03-14T00:00:00Z", first.RewardKey)
		assert.ErrorIs(t, second, errs.ErrAlreadyClaimed)
		require.NoError(t, err)
		assert.Equal(t, int64(200), third.Balance)
		assert.Equal(t, 2, f.sink.count(coreport.AuditDailyRewardClaimed))
	})

	t.Run("ledger key blocks a second claim in the same period", func(t *testing.T) {
		f := newFixture(t)
		f.service.cfg.DailyCooldown = time.Hour
		f.store.PutAccounts(*entity.NewAccount(1, 0, 3, testStart))

		_, err := f.service.ClaimDailyReward(ctx, 1)
		require.NoError(t, err)
		f.clock.Advance(2 * time.Hour)

		_, err = f.service.ClaimDailyReward(ctx, 1)

		assert.ErrorIs(t, err, errs.ErrAlreadyClaimed)
		assert.Equal(t, int64(100), f.account(t, 1).Balance)
	})

	t.Run("concurrent claims credit exactly once", func(t *testing.T) {
		f := newFixture(t)
		f.store.PutAccounts(*entity.NewAccount(1, 0, 3, testStart))

		var wg sync.WaitGroup
		var mu sync.Mutex
		wins, losses := 0, 0
		for i := 0; i < 12; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.service.ClaimDailyReward(ctx, 1)
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					wins++
				} else if assert.ErrorIs(t, err, errs.ErrAlreadyClaimed) {
					losses++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
		assert.Equal(t, 11, losses)
		assert.Equal(t, int64(100), f.account(t, 1).Balance)
	})
}

func TestClaimNotificationReward(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.PutAccounts(*entity.NewAccount(1, 0, 3, testStart), *entity.NewAccount(2, 0, 3, testStart))
	notifications := f.store.GetNotificationRepository(ctx)
	gift := &entity.Notification{AccountID: 1, Title: "Welcome gift", Reward: 250, CreatedAt: testStart}
	plain := &entity.Notification{AccountID: 1, Title: "Maintenance tonight", CreatedAt: testStart}
	require.NoError(t, notifications.Create(ctx, gift))
	require.NoError(t, notifications.Create(ctx, plain))

	t.Run("claims once", func(t *testing.T) {
		result, err := f.service.ClaimNotificationReward(ctx, 1, gift.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(250), result.Balance)
		assert.Equal(t, entity.RewardNotification, result.RewardType)

		_, err = f.service.ClaimNotificationReward(ctx, 1, gift.ID)
		assert.ErrorIs(t, err, errs.ErrAlreadyClaimed)
		assert.Equal(t, int64(250), f.account(t, 1).Balance)
	})

	t.Run("someone else's notification", func(t *testing.T) {
		_, err := f.service.ClaimNotificationReward(ctx, 2, gift.ID)
		assert.ErrorIs(t, err, errs.ErrNotificationNotFound)
	})

	t.Run("nothing to claim", func(t *testing.T) {
		_, err := f.service.ClaimNotificationReward(ctx, 1, plain.ID)
		assert.ErrorIs(t, err, errs.ErrNoReward)
	})

	t.Run("listed newest first", func(t *testing.T) {
		list, err := f.service.ListNotifications(ctx, 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, plain.ID, list[0].ID)
	})
}

func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.service.cfg.StartingBalance = 50

	t.Run("register is idempotent", func(t *testing.T) {
		first, err := f.service.RegisterAccount(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(50), first.Balance)
		assert.Equal(t, DefaultConfig().MaxAllotment, first.AvailableBoosters)

		require.NoError(t, f.store.GetAccountRepository(ctx).DebitBalance(ctx, 7, 20))
		again, err := f.service.RegisterAccount(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(30), again.Balance)
	})

	t.Run("zero id is rejected", func(t *testing.T) {
		_, err := f.service.RegisterAccount(ctx, 0)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("view regenerates a due allotment", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := f.service.OpenBooster(ctx, 7, 1)
			require.NoError(t, err)
		}
		view, err := f.service.GetAccount(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 0, view.Account.AvailableBoosters)
		assert.Equal(t, DefaultConfig().AllotmentInterval, view.TimeToNextBooster)

		f.clock.Advance(DefaultConfig().AllotmentInterval)
		view, err = f.service.GetAccount(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().MaxAllotment, view.Account.AvailableBoosters)
		assert.Zero(t, view.TimeToNextBooster)
	})

	t.Run("favorites", func(t *testing.T) {
		items, err := f.service.ListInventory(ctx, 7)
		require.NoError(t, err)
		require.NotEmpty(t, items)

		require.NoError(t, f.service.SetFavorite(ctx, 7, items[0].CardID, true))
		assert.ErrorIs(t, f.service.SetFavorite(ctx, 7, 999, true), errs.ErrNotOwned)

		items, err = f.service.ListInventory(ctx, 7)
		require.NoError(t, err)
		favorites := 0
		for _, item := range items {
			if item.Favorite {
				favorites++
			}
		}
		assert.Equal(t, 1, favorites)
	})
}

func TestCurrencyConservation(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	accounts := []uint64{1, 2, 3}
	for _, id := range accounts {
		f.store.PutAccounts(*entity.NewAccount(id, 1_000, 3, testStart))
	}
	expected := int64(3_000)

	// Act
	for i := 0; i < 90; i++ {
		id := accounts[i%len(accounts)]
		switch i % 4 {
		case 0:
			if _, err := f.service.BuyBooster(ctx, id, 1); err == nil {
				expected -= 100
			}
		case 1:
			items, err := f.service.ListInventory(ctx, id)
			require.NoError(t, err)
			for _, item := range items {
				if item.Quantity >= 2 {
					result, err := f.service.SellCard(ctx, id, item.CardID, item.Quantity-1)
					require.NoError(t, err)
					expected += result.Proceeds
					break
				}
			}
		case 2:
			if result, err := f.service.ClaimDailyReward(ctx, id); err == nil {
				expected += result.Amount
			}
		case 3:
			_, _ = f.service.OpenBooster(ctx, id, 1)
		}
		f.clock.Advance(3 * time.Hour)
	}

	// Assert
	total, err := f.store.GetAccountRepository(ctx).TotalBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, total)
	for _, id := range accounts {
		acc := f.account(t, id)
		assert.GreaterOrEqual(t, acc.Balance, int64(0))
		assert.LessOrEqual(t, acc.AvailableBoosters, DefaultConfig().MaxAllotment)
		assert.GreaterOrEqual(t, acc.AvailableBoosters, 0)
	}
}
