package repository

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	ConflictError     ErrorType = "conflict"
	ConnectionError   ErrorType = "connection"
	ConstraintError   ErrorType = "constraint"
	NotFoundError     ErrorType = "not_found"
	UnknownError      ErrorType = "unknown"
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// ErrorClassifier classifies gorm and pgx errors by SQLSTATE
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error
func (c *ErrorClassifier) Classify(err error) ErrorType {
	if err == nil {
		return ""
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return DuplicateKeyError
		case pgErr.Code == pgSerializationFailure, pgErr.Code == pgDeadlockDetected, pgErr.Code == pgLockNotAvailable:
			return ConflictError
		case pgErr.Code == pgCheckViolation, pgErr.Code == pgForeignKeyViolation:
			return ConstraintError
		case len(pgErr.Code) == 5 && (pgErr.Code[:2] == "08" || pgErr.Code[:2] == "53" || pgErr.Code[:2] == "57"):
			// connection exception, insufficient resources, operator intervention
			return ConnectionError
		}
		return UnknownError
	}

	if c.IsConnectionError(err) {
		return ConnectionError
	}
	return UnknownError
}

// IsDuplicateKeyError checks if the error is a unique violation
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	return c.Classify(err) == DuplicateKeyError
}

// IsConflictError checks if the error is a serialization failure or deadlock
func (c *ErrorClassifier) IsConflictError(err error) bool {
	return c.Classify(err) == ConflictError
}

// IsConnectionError checks if the error is related to database connectivity
func (c *ErrorClassifier) IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	var connectErr *pgconn.ConnectError
	return errors.As(err, &netErr) ||
		errors.As(err, &connectErr) ||
		pgconn.Timeout(err) ||
		errors.Is(err, context.DeadlineExceeded)
}

// ToDomain maps a database error onto the domain taxonomy.
// notFound replaces gorm.ErrRecordNotFound; duplicate replaces unique violations when set.
func (c *ErrorClassifier) ToDomain(err, notFound, duplicate error) error {
	switch c.Classify(err) {
	case "":
		return nil
	case NotFoundError:
		if notFound != nil {
			return notFound
		}
		return fmt.Errorf("%w: %v", errs.ErrInternalServer, err)
	case DuplicateKeyError:
		if duplicate != nil {
			return duplicate
		}
		return fmt.Errorf("%w: %v", errs.ErrTransactionConflict, err)
	case ConflictError:
		return fmt.Errorf("%w: %v", errs.ErrTransactionConflict, err)
	case ConnectionError:
		return fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
	case ConstraintError:
		return fmt.Errorf("%w: constraint violated: %v", errs.ErrInvalidRequest, err)
	default:
		return fmt.Errorf("%w: %v", errs.ErrInternalServer, err)
	}
}

// base carries what every repository needs
type base struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

func newBase(db *gorm.DB, logger coreport.Logger) base {
	return base{db: db, logger: logger, errorClassifier: NewErrorClassifier()}
}

// handleDatabaseError standardizes database error handling.
// Expected outcomes (not found, duplicates) are not logged.
func (b *base) handleDatabaseError(operation string, err, notFound, duplicate error, fields map[string]any) error {
	mapped := b.errorClassifier.ToDomain(err, notFound, duplicate)
	switch b.errorClassifier.Classify(err) {
	case NotFoundError, DuplicateKeyError:
	case ConflictError:
		b.logger.Debug(fmt.Sprintf("Transaction conflict when %s", operation), withError(fields, err))
	default:
		b.logger.Error(fmt.Sprintf("Database error when %s", operation), withError(fields, err))
	}
	return mapped
}

func withError(fields map[string]any, err error) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
