package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cownect/cownect-backend/internal/platform/logger"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver so callers never
// need to check whether metrics were initialized.
type Metrics struct {
	Registry *prometheus.Registry

	apiRequests        *prometheus.CounterVec
	apiLatency         *prometheus.HistogramVec
	apiInflight        prometheus.Gauge
	llmRequests        *prometheus.CounterVec
	llmLatency         *prometheus.HistogramVec
	llmTokens          *prometheus.CounterVec
	submissions        *prometheus.CounterVec
	submissionLatency  prometheus.Histogram
	narrativeSections  *prometheus.CounterVec
	cooldownRejections prometheus.Counter
	clubCache          *prometheus.CounterVec
	outputQuality      *prometheus.CounterVec
	topScore           prometheus.Histogram
}

var (
	metricsOnce sync.Once
	current     *Metrics
)

func Current() *Metrics { return current }

// Init registers the process-wide collectors once and returns them.
func Init(log *logger.Logger) *Metrics {
	metricsOnce.Do(func() {
		current = NewMetrics(prometheus.NewRegistry())
		if log != nil {
			log.Info("prometheus metrics initialized")
		}
	})
	return current
}

// NewMetrics registers a fresh set of collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cownect_api_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cownect_api_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "cownect_api_inflight_requests",
			Help: "HTTP requests currently being served.",
		}),
		llmRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cownect_llm_requests_total",
			Help: "Model calls by model, endpoint and status.",
		}, []string{"model", "endpoint", "status"}),
		llmLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cownect_llm_request_duration_seconds",
			Help:    "Model call latency.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45, 90},
		}, []string{"model", "endpoint"}),
		llmTokens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cownect_llm_tokens_total",
			Help: "Model tokens by direction.",
		}, []string{"model", "direction"}),
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cownect_quiz_submissions_total",
			Help: "Quiz submissions by level and outcome.",
		}, []string{"level", "outcome"}),
		submissionLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cownect_quiz_submission_duration_seconds",
			Help:    "End-to-end latency of accepted quiz submissions.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 45, 90},
		}),
		narrativeSections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cownect_narrative_sections_total",
			Help: "Narrative sections by name and source (ai or fallback).",
		}, []string{"section", "source"}),
		cooldownRejections: f.NewCounter(prometheus.CounterOpts{
			Name: "cownect_quiz_cooldown_rejections_total",
			Help: "Submissions rejected by the per-user cooldown.",
		}),
		clubCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cownect_club_cache_lookups_total",
			Help: "Club recommendation cache lookups by result.",
		}, []string{"result"}),
		outputQuality: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cownect_model_output_rejections_total",
			Help: "Model replies rejected after arrival, by stage and issue.",
		}, []string{"stage", "issue"}),
		topScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cownect_top_career_score",
			Help:    "Score of the top career per accepted submission.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveLLMRequest(model, endpoint, status string, dur time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(model, endpoint, status).Inc()
	m.llmLatency.WithLabelValues(model, endpoint).Observe(dur.Seconds())
	if inputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

func (m *Metrics) ObserveSubmission(level, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(level, outcome).Inc()
	if outcome == "ok" {
		m.submissionLatency.Observe(dur.Seconds())
	}
}

func (m *Metrics) IncNarrativeSection(section, source string) {
	if m != nil {
		m.narrativeSections.WithLabelValues(section, source).Inc()
	}
}

func (m *Metrics) IncCooldownRejection() {
	if m != nil {
		m.cooldownRejections.Inc()
	}
}

func (m *Metrics) IncClubCache(result string) {
	if m != nil {
		m.clubCache.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveTopScore(score float64) {
	if m != nil {
		m.topScore.Observe(score)
	}
}

func (m *Metrics) IncOutputQuality(stage, issue string) {
	if m != nil {
		m.outputQuality.WithLabelValues(stage, issue).Inc()
	}
}
