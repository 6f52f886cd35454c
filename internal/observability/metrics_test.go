package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAPI("GET", "/x", "200", time.Millisecond)
		m.ObserveSubmission("beginner", "ok", time.Second)
		m.IncNarrativeSection("executive_summary", "ai")
		m.IncCooldownRejection()
		m.IncClubCache("hit")
		m.ObserveTopScore(50)
		m.IncOutputQuality("skill_gap", IssueSchemaValidation)
		m.ApiInflightInc()
		m.ApiInflightDec()
	})
}

func TestMetricsCount(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveSubmission("beginner", "ok", time.Second)
	m.ObserveSubmission("beginner", "ok", time.Second)
	m.ObserveSubmission("advanced", "cooldown", 0)
	m.IncNarrativeSection("executive_summary", "fallback")
	m.IncCooldownRejection()
	m.IncOutputQuality("skill_gap", IssueContentCheck)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("beginner", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("advanced", "cooldown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.narrativeSections.WithLabelValues("executive_summary", "fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cooldownRejections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outputQuality.WithLabelValues("skill_gap", IssueContentCheck)))

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
