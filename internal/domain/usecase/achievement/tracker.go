package achievement

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/economy"
)

const (
	opRecompute = "recompute_achievements"
	opClaim     = "claim_achievement"
)

// Config controls the tracker
type Config struct {
	// Async runs the post-opening recompute on its own goroutine
	Async bool
	// Timeout bounds one async recompute
	Timeout    time.Duration
	MaxBalance int64
}

// DefaultConfig returns stock tracker settings
func DefaultConfig() Config {
	return Config{Async: false, Timeout: 5 * time.Second, MaxBalance: 1_000_000_000}
}

// Tracker implements usecase.AchievementUseCase
type Tracker struct {
	engine *economy.Engine
	uow    persistence.UnitOfWork
	gate   usecase.Gatekeeper
	audit  coreport.AuditSink
	clock  coreport.TimeProvider
	logger coreport.Logger
	cfg    Config
	wg     sync.WaitGroup
}

var _ usecase.AchievementUseCase = (*Tracker)(nil)

// NewTracker creates an achievement tracker running its writes through engine
func NewTracker(
	engine *economy.Engine,
	gate usecase.Gatekeeper,
	audit coreport.AuditSink,
	clock coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) *Tracker {
	return &Tracker{
		engine: engine,
		uow:    engine.UnitOfWork(),
		gate:   gate,
		audit:  audit,
		clock:  clock,
		logger: logger,
		cfg:    cfg,
	}
}

// AfterBoosterOpened refreshes progress once an opening has committed.
// Errors are logged; the opening itself has already succeeded.
func (t *Tracker) AfterBoosterOpened(ctx context.Context, accountID uint64, booster *entity.Booster) {
	scopeID := ""
	if booster != nil {
		scopeID = booster.ScopeID
	}

	if !t.cfg.Async {
		t.recomputeLogged(ctx, accountID, scopeID)
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		bg := context.WithoutCancel(ctx)
		if t.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			bg, cancel = t.clock.WithTimeout(bg, t.cfg.Timeout)
			defer cancel()
		}
		t.recomputeLogged(bg, accountID, scopeID)
	}()
}

// Wait blocks until every async recompute has finished
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func (t *Tracker) recomputeLogged(ctx context.Context, accountID uint64, scopeID string) {
	if err := t.Recompute(ctx, accountID, scopeID); err != nil {
		t.logger.Warn("Achievement recompute failed", map[string]any{
			"account_id": accountID,
			"scope_id":   scopeID,
			"error":      err.Error(),
		})
	}
}

type aggregates struct {
	boostersOpened int
	distinctCards  int
	scopeDistinct  map[string]int
}

func (a *aggregates) value(def *entity.Achievement) int {
	switch def.Kind {
	case entity.KindBoostersOpened:
		return a.boostersOpened
	case entity.KindDistinctCards:
		return a.distinctCards
	case entity.KindScopeDistinctCards:
		return a.scopeDistinct[def.ScopeID]
	}
	return 0
}

// Recompute refreshes every active achievement of the account. A non-empty
// scopeID limits scope achievements to that scope.
func (t *Tracker) Recompute(ctx context.Context, accountID uint64, scopeID string) error {
	defs, err := t.uow.GetAchievementRepository(ctx).ListDefinitions(ctx)
	if err != nil {
		return err
	}
	defs = relevant(defs, scopeID)
	if len(defs) == 0 {
		return nil
	}

	agg, err := t.collect(ctx, accountID, defs)
	if err != nil {
		return err
	}

	return t.engine.Execute(ctx, opRecompute, accountID, func(txCtx context.Context) error {
		repo := t.uow.GetAchievementRepository(txCtx)
		now := t.clock.Now()
		for i := range defs {
			def := &defs[i]
			value := def.ClampProgress(agg.value(def))
			if err := repo.RaiseProgress(txCtx, accountID, def.ID, value, def.Threshold, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func relevant(defs []entity.Achievement, scopeID string) []entity.Achievement {
	out := defs[:0:0]
	for _, def := range defs {
		if !def.Active || !def.Kind.Valid() {
			continue
		}
		if def.Kind == entity.KindScopeDistinctCards && scopeID != "" && def.ScopeID != scopeID {
			continue
		}
		out = append(out, def)
	}
	return out
}

// collect reads the aggregates the definitions need, in parallel
func (t *Tracker) collect(ctx context.Context, accountID uint64, defs []entity.Achievement) (*aggregates, error) {
	var needOpened, needDistinct bool
	scopes := make(map[string]struct{})
	for _, def := range defs {
		switch def.Kind {
		case entity.KindBoostersOpened:
			needOpened = true
		case entity.KindDistinctCards:
			needDistinct = true
		case entity.KindScopeDistinctCards:
			scopes[def.ScopeID] = struct{}{}
		}
	}

	agg := &aggregates{scopeDistinct: make(map[string]int, len(scopes))}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	if needOpened {
		g.Go(func() error {
			n, err := t.uow.GetBoosterRepository(gctx).CountOpenings(gctx, accountID)
			agg.boostersOpened = n
			return err
		})
	}
	if needDistinct {
		g.Go(func() error {
			n, err := t.uow.GetInventoryRepository(gctx).CountDistinct(gctx, accountID)
			agg.distinctCards = n
			return err
		})
	}
	for scope := range scopes {
		g.Go(func() error {
			n, err := t.uow.GetInventoryRepository(gctx).CountDistinctInScope(gctx, accountID, scope)
			if err != nil {
				return err
			}
			mu.Lock()
			agg.scopeDistinct[scope] = n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return agg, nil
}

// ListProgress returns every active achievement with the account's progress
func (t *Tracker) ListProgress(ctx context.Context, accountID uint64) ([]entity.AchievementStatus, error) {
	repo := t.uow.GetAchievementRepository(ctx)
	defs, err := repo.ListDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := repo.ListProgress(ctx, accountID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint64]entity.AchievementProgress, len(progress))
	for _, p := range progress {
		byID[p.AchievementID] = p
	}

	out := make([]entity.AchievementStatus, 0, len(defs))
	for _, def := range defs {
		if !def.Active {
			continue
		}
		p, ok := byID[def.ID]
		if !ok {
			p = entity.AchievementProgress{AccountID: accountID, AchievementID: def.ID}
		}
		out = append(out, entity.AchievementStatus{Achievement: def, Progress: p})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Achievement.ID < out[j].Achievement.ID })
	return out, nil
}
