package economy

import (
	"context"

	"github.com/google/uuid"

	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/rarity"
)

// Service implements usecase.EconomyUseCase
type Service struct {
	engine    *Engine
	uow       persistence.UnitOfWork
	gate      usecase.Gatekeeper
	generator *rarity.Generator
	pools     rarity.PoolSource
	progress  usecase.ProgressTracker
	audit     coreport.AuditSink
	clock     coreport.TimeProvider
	logger    coreport.Logger
	cfg       Config
}

// NewService wires the economy operations
func NewService(
	engine *Engine,
	gate usecase.Gatekeeper,
	generator *rarity.Generator,
	pools rarity.PoolSource,
	progress usecase.ProgressTracker,
	audit coreport.AuditSink,
	clock coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) *Service {
	return &Service{
		engine:    engine,
		uow:       engine.UnitOfWork(),
		gate:      gate,
		generator: generator,
		pools:     pools,
		progress:  progress,
		audit:     audit,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
	}
}

var _ usecase.EconomyUseCase = (*Service)(nil)

func (s *Service) record(ctx context.Context, action string, accountID uint64, details map[string]any) {
	s.audit.Record(ctx, coreport.AuditEvent{
		ID:        uuid.NewString(),
		Action:    action,
		AccountID: accountID,
		Severity:  coreport.SeverityInfo,
		Details:   details,
		At:        s.clock.Now(),
	})
}
