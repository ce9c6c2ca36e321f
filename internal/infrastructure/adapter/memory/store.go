package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
)

type contextKey string

const txKey contextKey = "memory_tx"

type inventoryKey struct {
	accountID uint64
	cardID    uint64
}

type progressKey struct {
	accountID     uint64
	achievementID uint64
}

type claimKey struct {
	accountID  uint64
	rewardType entity.RewardType
	rewardKey  string
}

// state is one consistent snapshot of every table
type state struct {
	accounts           map[uint64]entity.Account
	cards              map[uint64]entity.Card
	boosters           map[uint64]entity.Booster
	openings           []entity.BoosterOpening
	inventory          map[inventoryKey]entity.InventoryEntry
	listings           map[uint64]entity.Listing
	achievements       map[uint64]entity.Achievement
	progress           map[progressKey]entity.AchievementProgress
	claims             map[claimKey]entity.Claim
	notifications      map[uint64]entity.Notification
	nextListingID      uint64
	nextNotificationID uint64
}

func newState() *state {
	return &state{
		accounts:           make(map[uint64]entity.Account),
		cards:              make(map[uint64]entity.Card),
		boosters:           make(map[uint64]entity.Booster),
		inventory:          make(map[inventoryKey]entity.InventoryEntry),
		listings:           make(map[uint64]entity.Listing),
		achievements:       make(map[uint64]entity.Achievement),
		progress:           make(map[progressKey]entity.AchievementProgress),
		claims:             make(map[claimKey]entity.Claim),
		notifications:      make(map[uint64]entity.Notification),
		nextListingID:      1,
		nextNotificationID: 1,
	}
}

func (s *state) clone() *state {
	return &state{
		accounts:           maps.Clone(s.accounts),
		cards:              maps.Clone(s.cards),
		boosters:           maps.Clone(s.boosters),
		openings:           slices.Clip(s.openings),
		inventory:          maps.Clone(s.inventory),
		listings:           maps.Clone(s.listings),
		achievements:       maps.Clone(s.achievements),
		progress:           maps.Clone(s.progress),
		claims:             maps.Clone(s.claims),
		notifications:      maps.Clone(s.notifications),
		nextListingID:      s.nextListingID,
		nextNotificationID: s.nextNotificationID,
	}
}

type tx struct {
	working *state
	done    bool
}

// Store is an in-process store with serializable transactions.
// One transaction runs at a time against a private copy of the data;
// Commit publishes the copy, Rollback discards it.
type Store struct {
	sem       chan struct{}
	committed *state
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{sem: make(chan struct{}, 1), committed: newState()}
}

var _ persistence.UnitOfWork = (*Store)(nil)

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", errs.ErrTransactionConflict, ctx.Err())
	}
}

func (s *Store) release() {
	<-s.sem
}

// Begin implements persistence.UnitOfWork
func (s *Store) Begin(ctx context.Context) (context.Context, error) {
	if _, ok := ctx.Value(txKey).(*tx); ok {
		return nil, fmt.Errorf("%w: nested transaction", errs.ErrInternalServer)
	}
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	return context.WithValue(ctx, txKey, &tx{working: s.committed.clone()}), nil
}

// Commit implements persistence.UnitOfWork
func (s *Store) Commit(ctx context.Context) error {
	t, ok := ctx.Value(txKey).(*tx)
	if !ok || t.done {
		return fmt.Errorf("%w: no transaction in context", errs.ErrInternalServer)
	}
	t.done = true
	s.committed = t.working
	s.release()
	return nil
}

// Rollback implements persistence.UnitOfWork
func (s *Store) Rollback(ctx context.Context) error {
	t, ok := ctx.Value(txKey).(*tx)
	if !ok || t.done {
		return nil
	}
	t.done = true
	s.release()
	return nil
}

// run applies fn to the transaction's working copy, or to the committed
// state under the store lock when ctx carries no transaction
func (s *Store) run(ctx context.Context, fn func(st *state) error) error {
	if t, ok := ctx.Value(txKey).(*tx); ok {
		if t.done {
			return fmt.Errorf("%w: transaction already finished", errs.ErrInternalServer)
		}
		return fn(t.working)
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return fn(s.committed)
}

func (s *Store) GetAccountRepository(context.Context) persistence.AccountRepository {
	return &accountRepository{store: s}
}

func (s *Store) GetCardRepository(context.Context) persistence.CardRepository {
	return &cardRepository{store: s}
}

func (s *Store) GetBoosterRepository(context.Context) persistence.BoosterRepository {
	return &boosterRepository{store: s}
}

func (s *Store) GetInventoryRepository(context.Context) persistence.InventoryRepository {
	return &inventoryRepository{store: s}
}

func (s *Store) GetListingRepository(context.Context) persistence.ListingRepository {
	return &listingRepository{store: s}
}

func (s *Store) GetAchievementRepository(context.Context) persistence.AchievementRepository {
	return &achievementRepository{store: s}
}

func (s *Store) GetClaimRepository(context.Context) persistence.ClaimRepository {
	return &claimRepository{store: s}
}

func (s *Store) GetNotificationRepository(context.Context) persistence.NotificationRepository {
	return &notificationRepository{store: s}
}
