package database

import (
	"fmt"

	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/repository"
)

// ErrorMapper maps transaction-level database errors to domain errors.
// Row-level errors are mapped by the repositories themselves.
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{classifier: repository.NewErrorClassifier()}
}

// MapError maps a database error to a domain error.
// A serialization failure at commit becomes ErrTransactionConflict so the engine retries it.
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, m.classifier.ToDomain(err, nil, nil))
}

// IsTransient reports whether the operation may succeed if repeated
func (m *ErrorMapper) IsTransient(err error) bool {
	switch m.classifier.Classify(err) {
	case repository.ConflictError, repository.ConnectionError:
		return true
	}
	return false
}
