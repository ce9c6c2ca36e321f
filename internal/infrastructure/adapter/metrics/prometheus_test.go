package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCounters(t *testing.T) {
	// Arrange
	m := NewPrometheus("booster")

	// Act
	m.ObserveOperation("open_booster", "ok", 20*time.Millisecond)
	m.ObserveOperation("open_booster", "ok", 10*time.Millisecond)
	m.GateDecision("open_booster", "per_minute")
	m.CardDrawn("common", "none")
	m.AuditDropped()

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("open_booster", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gate.WithLabelValues("open_booster", "per_minute")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cards.WithLabelValues("common", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditDropped))
}

func TestPrometheusHandler(t *testing.T) {
	m := NewPrometheus("booster")
	m.GateDecision("sell_card", "accepted")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "booster_gate_decisions_total"))
}
