package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/classify", "POST", 200, 10*time.Millisecond)
	m.RecordRequest("/api/classify", "POST", 200, 30*time.Millisecond)
	m.RecordError("/api/classify", "POST", "UPSTREAM_FORMAT")
	m.RecordClassification("ok")
	m.RecordClassification("fallback")
	m.RecordClassification("ok")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/classify|POST|200"])
	assert.InDelta(t, 20.0, snap.AvgLatencyMS["/api/classify|POST|200"], 0.001)
	assert.Equal(t, int64(1), snap.Errors["/api/classify|POST|UPSTREAM_FORMAT"])
	assert.Equal(t, int64(2), snap.Classifications["classify|ok"])
	assert.Equal(t, int64(1), snap.Classifications["classify|fallback"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordClassification("ok")
	assert.Empty(t, m.Snapshot().Requests)
}
