package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/repository"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const txKey contextKey = "tx"

// UnitOfWork implements persistence.UnitOfWork over SERIALIZABLE PostgreSQL transactions
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	errorMapper  *ErrorMapper
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
		errorMapper:  NewErrorMapper(),
	}
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

// Begin starts a new database transaction
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return ctx, fmt.Errorf("%w: nested transaction", errs.ErrInternalServer)
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, u.errorMapper.MapError(tx.Error, "begin transaction")
	}

	if err := tx.Exec("SET TRANSACTION ISOLATION LEVEL SERIALIZABLE").Error; err != nil {
		tx.Rollback()
		u.logger.Error("Failed to set transaction isolation level", map[string]any{"error": err.Error()})
		return ctx, u.errorMapper.MapError(err, "set isolation level")
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("%w: no transaction found in context", errs.ErrInternalServer)
	}

	if err := tx.Commit().Error; err != nil {
		mapped := u.errorMapper.MapError(err, "commit")
		if errors.Is(mapped, errs.ErrTransactionConflict) {
			u.logger.Debug("Transaction lost a serialization race at commit", map[string]any{"error": err.Error()})
		} else {
			u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		}
		return mapped
	}
	return nil
}

// Rollback rolls back the current transaction. Rolling back a finished
// transaction is a no-op.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return nil
	}

	err := tx.Rollback().Error
	if err == nil || errors.Is(err, sql.ErrTxDone) || errors.Is(err, gorm.ErrInvalidTransaction) {
		return nil
	}
	u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
	return u.errorMapper.MapError(err, "rollback")
}

// GetAccountRepository returns an account repository in the current transaction
func (u *UnitOfWork) GetAccountRepository(ctx context.Context) persistence.AccountRepository {
	return repository.NewAccountRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger)
}

// GetCardRepository returns a card repository in the current transaction
func (u *UnitOfWork) GetCardRepository(ctx context.Context) persistence.CardRepository {
	return repository.NewCardRepository(u.getDbFromContext(ctx), u.logger)
}

// GetBoosterRepository returns a booster repository in the current transaction
func (u *UnitOfWork) GetBoosterRepository(ctx context.Context) persistence.BoosterRepository {
	return repository.NewBoosterRepository(u.getDbFromContext(ctx), u.logger)
}

// GetInventoryRepository returns an inventory repository in the current transaction
func (u *UnitOfWork) GetInventoryRepository(ctx context.Context) persistence.InventoryRepository {
	return repository.NewInventoryRepository(u.getDbFromContext(ctx), u.logger)
}

// GetListingRepository returns a listing repository in the current transaction
func (u *UnitOfWork) GetListingRepository(ctx context.Context) persistence.ListingRepository {
	return repository.NewListingRepository(u.getDbFromContext(ctx), u.logger)
}

// GetAchievementRepository returns an achievement repository in the current transaction
func (u *UnitOfWork) GetAchievementRepository(ctx context.Context) persistence.AchievementRepository {
	return repository.NewAchievementRepository(u.getDbFromContext(ctx), u.logger)
}

// GetClaimRepository returns the claim ledger in the current transaction
func (u *UnitOfWork) GetClaimRepository(ctx context.Context) persistence.ClaimRepository {
	return repository.NewClaimRepository(u.getDbFromContext(ctx), u.logger)
}

// GetNotificationRepository returns a notification repository in the current transaction
func (u *UnitOfWork) GetNotificationRepository(ctx context.Context) persistence.NotificationRepository {
	return repository.NewNotificationRepository(u.getDbFromContext(ctx), u.logger)
}

// getDbFromContext retrieves the transaction from context, or the pool when there is none
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok && tx != nil {
		return tx
	}
	return u.db.WithContext(ctx)
}
