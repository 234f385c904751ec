package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/tickets", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/api/tickets", "GET", 200, 7*time.Millisecond)
	m.RecordError("/api/tickets/:id", "GET", "not_found")
	m.RecordFlush("memory", nil)
	m.RecordFlush("memory", errors.New("disk full"))
	m.RecordFrame("ticket:created", true)
	m.RecordFrame("ticket:created", false)
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/tickets", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/api/tickets/:id", "GET", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.flushes.WithLabelValues("memory", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.frames.WithLabelValues("ticket:created", "dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connections))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "x")
		m.RecordFlush("file", nil)
		m.RecordFrame("x", true)
		m.ConnectionOpened()
		m.ConnectionClosed()
	})
	assert.Nil(t, m.Registry())
}
