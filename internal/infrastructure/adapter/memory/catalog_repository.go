package memory

import (
	"context"
	"slices"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
)

type cardRepository struct {
	store *Store
}

func (r *cardRepository) GetByID(ctx context.Context, id uint64) (*entity.Card, error) {
	var out *entity.Card
	err := r.store.run(ctx, func(st *state) error {
		c, ok := st.cards[id]
		if !ok {
			return errs.ErrCardNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *cardRepository) ListActive(ctx context.Context) ([]entity.Card, error) {
	var out []entity.Card
	err := r.store.run(ctx, func(st *state) error {
		for _, c := range st.cards {
			if c.Active {
				out = append(out, c)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.Card) int { return compareID(a.ID, b.ID) })
	return out, err
}

type boosterRepository struct {
	store *Store
}

func (r *boosterRepository) GetByID(ctx context.Context, id uint64) (*entity.Booster, error) {
	var out *entity.Booster
	err := r.store.run(ctx, func(st *state) error {
		b, ok := st.boosters[id]
		if !ok {
			return errs.ErrBoosterNotFound
		}
		out = &b
		return nil
	})
	return out, err
}

func (r *boosterRepository) RecordOpening(ctx context.Context, opening *entity.BoosterOpening) error {
	return r.store.run(ctx, func(st *state) error {
		o := *opening
		o.CardIDs = slices.Clone(opening.CardIDs)
		st.openings = append(st.openings, o)
		return nil
	})
}

func (r *boosterRepository) CountOpenings(ctx context.Context, accountID uint64) (int, error) {
	count := 0
	err := r.store.run(ctx, func(st *state) error {
		for _, o := range st.openings {
			if o.AccountID == accountID {
				count++
			}
		}
		return nil
	})
	return count, err
}

type notificationRepository struct {
	store *Store
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint64) (*entity.Notification, error) {
	var out *entity.Notification
	err := r.store.run(ctx, func(st *state) error {
		n, ok := st.notifications[id]
		if !ok {
			return errs.ErrNotificationNotFound
		}
		out = &n
		return nil
	})
	return out, err
}

func (r *notificationRepository) ListByAccount(ctx context.Context, accountID uint64) ([]entity.Notification, error) {
	var out []entity.Notification
	err := r.store.run(ctx, func(st *state) error {
		for _, n := range st.notifications {
			if n.AccountID == accountID {
				out = append(out, n)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.Notification) int { return compareID(b.ID, a.ID) })
	return out, err
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return r.store.run(ctx, func(st *state) error {
		notification.ID = st.nextNotificationID
		st.nextNotificationID++
		st.notifications[notification.ID] = *notification
		return nil
	})
}

func compareID(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
