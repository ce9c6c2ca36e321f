package rarity

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
)

// RepositorySource builds a fresh pool from the card repository on every call
type RepositorySource struct {
	uow persistence.UnitOfWork
}

// NewRepositorySource creates a PoolSource reading the active catalog
func NewRepositorySource(uow persistence.UnitOfWork) *RepositorySource {
	return &RepositorySource{uow: uow}
}

// Pool implements PoolSource
func (s *RepositorySource) Pool(ctx context.Context) (*Pool, error) {
	cards, err := s.uow.GetCardRepository(ctx).ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active cards: %w", err)
	}
	return NewPool(cards), nil
}
