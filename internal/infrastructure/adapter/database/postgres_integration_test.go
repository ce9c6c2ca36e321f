package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/logger"
)

func setupPostgres(t *testing.T) (*TestDBManager, *UnitOfWork) {
	t.Helper()
	SkipUnlessTestDB(t)

	testDB := NewTestDBManager(t, logger.NewNoopLogger())
	testDB.Connect(t)
	t.Cleanup(func() { testDB.Close(t) })
	testDB.SetupTestDB(t)
	return testDB, testDB.Manager.CreateUnitOfWork()
}

func TestPostgresAccountConditionalUpdates(t *testing.T) {
	testDB, uow := setupPostgres(t)
	ctx := context.Background()
	accounts := uow.GetAccountRepository(ctx)

	t.Run("debit below zero is rejected with the available balance", func(t *testing.T) {
		// Arrange
		testDB.TruncateEconomyTables(t)
		testDB.CreateTestAccount(t, 1, 50, 3)

		// Act
		err := accounts.DebitBalance(ctx, 1, 80)

		// Assert
		var insufficient *errs.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(50), insufficient.Available)
		acc, err := accounts.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(50), acc.Balance)
	})

	t.Run("credit past the ceiling is rejected", func(t *testing.T) {
		// Arrange
		testDB.TruncateEconomyTables(t)
		testDB.CreateTestAccount(t, 1, 90, 3)

		// Act
		err := accounts.CreditBalance(ctx, 1, 20, 100)

		// Assert
		assert.ErrorIs(t, err, errs.ErrLimitExceeded)
	})

	t.Run("last booster schedules regeneration", func(t *testing.T) {
		// Arrange
		testDB.TruncateEconomyTables(t)
		testDB.CreateTestAccount(t, 1, 0, 1)
		regenAt := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)

		// Act
		require.NoError(t, accounts.ConsumeBooster(ctx, 1, regenAt))
		err := accounts.ConsumeBooster(ctx, 1, regenAt)

		// Assert
		assert.ErrorIs(t, err, errs.ErrInsufficientAllotment)
		acc, err := accounts.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, acc.AvailableBoosters)
		require.NotNil(t, acc.NextBoosterAt)
		assert.True(t, regenAt.Equal(*acc.NextBoosterAt))

		refilled, err := accounts.RefillBoosters(ctx, 1, regenAt, 3)
		require.NoError(t, err)
		assert.True(t, refilled)
	})

	t.Run("missing account", func(t *testing.T) {
		testDB.TruncateEconomyTables(t)

		err := accounts.DebitBalance(ctx, 42, 1)

		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	})
}

func TestPostgresClaimLedgerRejectsDuplicates(t *testing.T) {
	// Arrange
	testDB, uow := setupPostgres(t)
	testDB.TruncateEconomyTables(t)
	ctx := context.Background()
	claim := &entity.Claim{
		AccountID:  1,
		RewardType: entity.RewardAchievement,
		RewardKey:  entity.AchievementRewardKey(3),
		Amount:     100,
		ClaimedAt:  time.Now(),
	}

	// Act
	first := uow.GetClaimRepository(ctx).Insert(ctx, claim)
	second := uow.GetClaimRepository(ctx).Insert(ctx, claim)

	// Assert
	require.NoError(t, first)
	assert.ErrorIs(t, second, errs.ErrAlreadyClaimed)
	exists, err := uow.GetClaimRepository(ctx).Exists(ctx, 1, entity.RewardAchievement, entity.AchievementRewardKey(3))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPostgresUnitOfWork(t *testing.T) {
	testDB, uow := setupPostgres(t)

	t.Run("rollback discards every write", func(t *testing.T) {
		// Arrange
		testDB.TruncateEconomyTables(t)
		testDB.CreateTestAccount(t, 1, 100, 3)
		ctx, err := uow.Begin(context.Background())
		require.NoError(t, err)

		// Act
		require.NoError(t, uow.GetAccountRepository(ctx).DebitBalance(ctx, 1, 60))
		require.NoError(t, uow.GetInventoryRepository(ctx).Add(ctx, 1, 1, 2, time.Now()))
		require.NoError(t, uow.Rollback(ctx))

		// Assert
		plain := context.Background()
		acc, err := uow.GetAccountRepository(plain).GetByID(plain, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), acc.Balance)
		_, err = uow.GetInventoryRepository(plain).Get(plain, 1, 1)
		assert.ErrorIs(t, err, errs.ErrNotOwned)
	})

	t.Run("nested begin is rejected", func(t *testing.T) {
		ctx, err := uow.Begin(context.Background())
		require.NoError(t, err)
		defer func() { _ = uow.Rollback(ctx) }()

		_, err = uow.Begin(ctx)

		assert.ErrorIs(t, err, errs.ErrInternalServer)
	})

	t.Run("concurrent debits never overdraw", func(t *testing.T) {
		// Arrange
		testDB.TruncateEconomyTables(t)
		testDB.CreateTestAccount(t, 1, 100, 3)
		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0

		// Act
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ctx, err := uow.Begin(context.Background())
				if err != nil {
					return
				}
				if err := uow.GetAccountRepository(ctx).DebitBalance(ctx, 1, 30); err != nil {
					_ = uow.Rollback(ctx)
					return
				}
				if err := uow.Commit(ctx); err != nil {
					assert.True(t, errors.Is(err, errs.ErrTransactionConflict), err.Error())
					return
				}
				mu.Lock()
				succeeded++
				mu.Unlock()
			}()
		}
		wg.Wait()

		// Assert
		plain := context.Background()
		acc, err := uow.GetAccountRepository(plain).GetByID(plain, 1)
		require.NoError(t, err)
		assert.LessOrEqual(t, succeeded, 3)
		assert.Equal(t, int64(100-30*succeeded), acc.Balance)
	})
}

func TestPostgresInventoryAndListings(t *testing.T) {
	testDB, uow := setupPostgres(t)
	ctx := context.Background()
	inventory := uow.GetInventoryRepository(ctx)
	listings := uow.GetListingRepository(ctx)

	t.Run("remove honors the keep floor", func(t *testing.T) {
		// Arrange
		testDB.TruncateEconomyTables(t)
		require.NoError(t, inventory.Add(ctx, 1, 1, 2, time.Now()))

		// Act
		err := inventory.Remove(ctx, 1, 1, 2, 1)

		// Assert
		assert.ErrorIs(t, err, errs.ErrNotOwned)
		require.NoError(t, inventory.Remove(ctx, 1, 1, 1, 1))
		entry, err := inventory.Get(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, entry.Quantity)
	})

	t.Run("listing transitions once", func(t *testing.T) {
		// Arrange
		testDB.TruncateEconomyTables(t)
		listing := &entity.Listing{SellerID: 1, CardID: 1, Price: 100, Status: entity.ListingActive, CreatedAt: time.Now()}
		require.NoError(t, listings.Create(ctx, listing))
		buyer := uint64(2)

		// Act
		first := listings.Transition(ctx, listing.ID, entity.ListingSold, &buyer, time.Now())
		second := listings.Transition(ctx, listing.ID, entity.ListingCancelled, nil, time.Now())

		// Assert
		require.NoError(t, first)
		assert.ErrorIs(t, second, errs.ErrListingUnavailable)
		assert.ErrorIs(t, listings.Transition(ctx, 999, entity.ListingSold, &buyer, time.Now()), errs.ErrListingNotFound)
		active, err := listings.ListActive(ctx, entity.ListingFilter{Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, active)
	})
}
