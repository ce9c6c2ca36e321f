package core

import "time"

// Metrics receives counters from the economy, the gate and the generator
type Metrics interface {
	// ObserveOperation records one economy operation and its outcome code
	ObserveOperation(operation, outcome string, elapsed time.Duration)
	// GateDecision records one abuse-gate decision (accepted, rate_limited, blocked...)
	GateDecision(action, decision string)
	// CardDrawn records the rarity of a generated card and the fallback step that produced it
	CardDrawn(rarity, fallback string)
	// AuditDropped records an audit event dropped because the sink buffer was full
	AuditDropped()
}
