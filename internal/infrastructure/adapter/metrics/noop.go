package metrics

import (
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
)

// Noop discards every observation
type Noop struct{}

// NewNoop returns metrics that record nothing
func NewNoop() core.Metrics {
	return Noop{}
}

func (Noop) ObserveOperation(string, string, time.Duration) {}
func (Noop) GateDecision(string, string) {}
func (Noop) CardDrawn(string, string) {}
func (Noop) AuditDropped() {}
