package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/metrics"
	timeadapter "github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/time"
	mocks "github.com/amirhossein-jamali/booster-economy/mocks/port/core"
)

type countingMetrics struct {
	metrics.Noop
	dropped atomic.Int32
}

func (m *countingMetrics) AuditDropped() {
	m.dropped.Add(1)
}

// blockingLogger parks the writer on its first event until released
type blockingLogger struct {
	coreport.Logger
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	mu      sync.Mutex
	written []map[string]any
}

func newBlockingLogger() *blockingLogger {
	return &blockingLogger{
		Logger:  logger.NewNoopLogger(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (l *blockingLogger) Info(_ string, fields map[string]any) {
	l.once.Do(func() {
		close(l.entered)
		<-l.release
	})
	l.mu.Lock()
	defer l.mu.Unlock()
	l.written = append(l.written, fields)
}

func TestAsyncSink(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)

	t.Run("writes events with generated id and timestamp", func(t *testing.T) {
		// Arrange
		log := mocks.NewMockLogger(t)
		var got map[string]any
		log.EXPECT().Info("Audit event", mock.Anything).Run(func(_ string, fields map[string]any) {
			got = fields
		}).Return().Once()
		sink := NewAsyncSink(8, log, metrics.NewNoop(), timeadapter.NewManualTimeProvider(start))

		// Act
		sink.Record(ctx, coreport.AuditEvent{
			Action:    coreport.AuditCardSold,
			AccountID: 7,
			Details:   map[string]any{"card_id": uint64(3)},
		})
		require.NoError(t, sink.Close(ctx))

		// Assert
		require.NotNil(t, got)
		assert.Equal(t, coreport.AuditCardSold, got["action"])
		assert.Equal(t, uint64(7), got["account_id"])
		assert.Equal(t, "info", got["severity"])
		assert.Equal(t, uint64(3), got["card_id"])
		assert.Equal(t, start, got["at"])
		assert.NotEmpty(t, got["audit_id"])
	})

	t.Run("suspicious events are written at warn", func(t *testing.T) {
		log := mocks.NewMockLogger(t)
		log.EXPECT().Warn("Audit event", mock.Anything).Return().Once()
		sink := NewAsyncSink(8, log, metrics.NewNoop(), timeadapter.NewManualTimeProvider(start))

		sink.Record(ctx, coreport.AuditEvent{Action: coreport.AuditAutomationDetected, Severity: coreport.SeveritySuspicious})
		require.NoError(t, sink.Close(ctx))
	})

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		// Arrange
		log := newBlockingLogger()
		counter := &countingMetrics{}
		sink := NewAsyncSink(1, log, counter, timeadapter.NewManualTimeProvider(start))

		// Act
		sink.Record(ctx, coreport.AuditEvent{Action: "first"})
		<-log.entered
		sink.Record(ctx, coreport.AuditEvent{Action: "second"})
		sink.Record(ctx, coreport.AuditEvent{Action: "third"})
		close(log.release)
		require.NoError(t, sink.Close(ctx))

		// Assert
		assert.Equal(t, int32(1), counter.dropped.Load())
		require.Len(t, log.written, 2)
		assert.Equal(t, "first", log.written[0]["action"])
		assert.Equal(t, "second", log.written[1]["action"])
	})

	t.Run("record after close is dropped", func(t *testing.T) {
		counter := &countingMetrics{}
		sink := NewAsyncSink(4, logger.NewNoopLogger(), counter, timeadapter.NewManualTimeProvider(start))
		require.NoError(t, sink.Close(ctx))
		require.NoError(t, sink.Close(ctx))

		sink.Record(ctx, coreport.AuditEvent{Action: "late"})

		assert.Equal(t, int32(1), counter.dropped.Load())
	})

	t.Run("close honors context", func(t *testing.T) {
		log := newBlockingLogger()
		sink := NewAsyncSink(4, log, metrics.NewNoop(), timeadapter.NewManualTimeProvider(start))
		sink.Record(ctx, coreport.AuditEvent{Action: "stuck"})
		<-log.entered

		closeCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		err := sink.Close(closeCtx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		close(log.release)
	})
}
