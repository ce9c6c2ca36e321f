package economy

import (
	"context"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
)

// CreditClaim inserts a one-time claim and credits its amount, returning the new balance.
// The ledger's uniqueness decides concurrent duplicates. Must run inside a transaction.
func CreditClaim(txCtx context.Context, uow persistence.UnitOfWork, claim *entity.Claim, maxBalance int64) (int64, error) {
	if err := uow.GetClaimRepository(txCtx).Insert(txCtx, claim); err != nil {
		return 0, err
	}

	accounts := uow.GetAccountRepository(txCtx)
	if claim.Amount > 0 {
		if err := accounts.CreditBalance(txCtx, claim.AccountID, claim.Amount, maxBalance); err != nil {
			return 0, err
		}
	}

	account, err := accounts.GetByID(txCtx, claim.AccountID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// Transfer moves amount from one account to another. Must run inside a transaction.
func Transfer(txCtx context.Context, uow persistence.UnitOfWork, fromID, toID uint64, amount, maxBalance int64) error {
	accounts := uow.GetAccountRepository(txCtx)
	if err := accounts.DebitBalance(txCtx, fromID, amount); err != nil {
		return err
	}
	return accounts.CreditBalance(txCtx, toID, amount, maxBalance)
}
