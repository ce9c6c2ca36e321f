package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"

	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
)

const defaultBufferSize = 1024

// AsyncSink hands audit events to a background writer over a bounded buffer.
// When the buffer is full the event is dropped and counted.
type AsyncSink struct {
	events       chan coreport.AuditEvent
	logger       coreport.Logger
	metrics      coreport.Metrics
	timeProvider coreport.TimeProvider
	mutex        sync.RWMutex
	closed       bool
	done         chan struct{}
}

// NewAsyncSink starts the writer goroutine. Close must be called to drain it.
func NewAsyncSink(bufferSize int, logger coreport.Logger, metrics coreport.Metrics, timeProvider coreport.TimeProvider) *AsyncSink {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	s := &AsyncSink{
		events:       make(chan coreport.AuditEvent, bufferSize),
		logger:       logger,
		metrics:      metrics,
		timeProvider: timeProvider,
		done:         make(chan struct{}),
	}
	go s.run()
	return s
}

// Record implements core.AuditSink
func (s *AsyncSink) Record(_ context.Context, event coreport.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = s.timeProvider.Now()
	}
	if event.Severity == "" {
		event.Severity = coreport.SeverityInfo
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		s.metrics.AuditDropped()
		return
	}

	select {
	case s.events <- event:
	default:
		s.metrics.AuditDropped()
	}
}

// Close stops accepting events and waits until the buffer is written out
func (s *AsyncSink) Close(ctx context.Context) error {
	s.mutex.Lock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	s.mutex.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AsyncSink) run() {
	defer close(s.done)
	for event := range s.events {
		s.write(event)
	}
}

func (s *AsyncSink) write(event coreport.AuditEvent) {
	fields := make(map[string]any, len(event.Details)+5)
	for k, v := range event.Details {
		fields[k] = v
	}
	fields["audit_id"] = event.ID
	fields["action"] = event.Action
	fields["account_id"] = event.AccountID
	fields["severity"] = string(event.Severity)
	fields["at"] = event.At

	switch event.Severity {
	case coreport.SeveritySuspicious, coreport.SeverityCritical:
		s.logger.Warn("Audit event", fields)
	default:
		s.logger.Info("Audit event", fields)
	}
}

var _ coreport.AuditSink = (*AsyncSink)(nil)
