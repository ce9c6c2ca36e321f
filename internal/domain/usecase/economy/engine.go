package economy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
)

// TxConfig controls transaction retries and deadlines
type TxConfig struct {
	MaxRetries   int
	RetryBackoff time.Duration
	Timeout      time.Duration
}

// DefaultTxConfig returns stock transaction settings
func DefaultTxConfig() TxConfig {
	return TxConfig{MaxRetries: 3, RetryBackoff: 20 * time.Millisecond, Timeout: 5 * time.Second}
}

// Engine runs economy actions as single serializable units of work.
// Every precondition is re-verified inside the unit by conditional updates;
// any error rolls back every row the action touched.
type Engine struct {
	uow     persistence.UnitOfWork
	clock   coreport.TimeProvider
	audit   coreport.AuditSink
	metrics coreport.Metrics
	logger  coreport.Logger
	cfg     TxConfig
}

// NewEngine creates a transaction engine
func NewEngine(
	uow persistence.UnitOfWork,
	clock coreport.TimeProvider,
	audit coreport.AuditSink,
	metrics coreport.Metrics,
	logger coreport.Logger,
	cfg TxConfig,
) *Engine {
	return &Engine{uow: uow, clock: clock, audit: audit, metrics: metrics, logger: logger, cfg: cfg}
}

// UnitOfWork returns the unit of work the engine runs on
func (e *Engine) UnitOfWork() persistence.UnitOfWork {
	return e.uow
}

type commitThenFail struct {
	err error
}

func (c *commitThenFail) Error() string { return c.err.Error() }
func (c *commitThenFail) Unwrap() error { return c.err }

// CommitAndFail makes Execute commit the work done so far and then return err.
// Used when a failed action still has to persist a state change, such as
// cancelling a listing whose seller no longer holds the card.
func CommitAndFail(err error) error {
	return &commitThenFail{err: err}
}

// Execute runs fn in a transaction, retrying serialization conflicts
func (e *Engine) Execute(ctx context.Context, operation string, accountID uint64, fn func(ctx context.Context) error) error {
	start := e.clock.Now()

	var err error
	for attempt := 0; ; attempt++ {
		err = e.runOnce(ctx, fn)
		if err == nil || !errors.Is(err, errs.ErrTransactionConflict) || attempt >= e.cfg.MaxRetries {
			break
		}

		backoff := e.cfg.RetryBackoff * time.Duration(1<<attempt)
		e.logger.Warn("Transaction conflict, retrying", map[string]any{
			"operation":   operation,
			"account_id":  accountID,
			"attempt":     attempt + 1,
			"max_retries": e.cfg.MaxRetries,
			"retry_after": backoff.String(),
		})
		if sleepErr := e.clock.Sleep(ctx, backoff); sleepErr != nil {
			err = fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, sleepErr)
			break
		}
	}

	e.metrics.ObserveOperation(operation, Outcome(err), e.clock.Since(start))
	e.report(ctx, operation, accountID, err)
	return err
}

func (e *Engine) runOnce(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = e.clock.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	txCtx, err := e.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = e.uow.Rollback(txCtx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		var keep *commitThenFail
		if errors.As(err, &keep) {
			if commitErr := e.uow.Commit(txCtx); commitErr != nil {
				return fmt.Errorf("failed to commit transaction: %w", commitErr)
			}
			return keep.err
		}

		if rbErr := e.uow.Rollback(txCtx); rbErr != nil {
			e.logger.Error("Failed to roll back transaction", map[string]any{
				"error":          rbErr.Error(),
				"original_error": err.Error(),
			})
		}
		return err
	}

	if err := e.uow.Commit(txCtx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (e *Engine) report(ctx context.Context, operation string, accountID uint64, err error) {
	if err == nil {
		return
	}

	fields := map[string]any{
		"operation":  operation,
		"account_id": accountID,
		"error":      err.Error(),
		"error_code": errs.ErrorCode(err),
	}

	if !errs.IsDomainRejection(err) {
		e.logger.Error("Economy operation failed", fields)
		return
	}

	e.logger.Warn("Economy operation rejected", fields)
	e.audit.Record(ctx, coreport.AuditEvent{
		ID:        uuid.NewString(),
		Action:    coreport.AuditOperationRejected,
		AccountID: accountID,
		Severity:  coreport.SeverityInfo,
		Details: map[string]any{
			"operation": operation,
			"reason":    Outcome(err),
		},
		At: e.clock.Now(),
	})
}

// Outcome names the result of an operation for metrics and audit details
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch errs.ErrorCode(err) {
	case errs.CodeInsufficientFunds:
		return "insufficient_funds"
	case errs.CodeInsufficientAllotment:
		return "insufficient_allotment"
	case errs.CodeAlreadyClaimed:
		return "already_claimed"
	case errs.CodeNotOwned:
		return "not_owned"
	case errs.CodeInvalidTarget:
		return "invalid_target"
	case errs.CodeLimitExceeded:
		return "limit_exceeded"
	case errs.CodeAccountNotFound:
		return "account_not_found"
	case errs.CodeInvalidRequest:
		return "invalid_request"
	case errs.CodeRateLimited:
		return "rate_limited"
	case errs.CodeBlocked:
		return "blocked"
	case errs.CodeStorageUnavailable:
		return "storage_unavailable"
	default:
		return "internal_error"
	}
}
