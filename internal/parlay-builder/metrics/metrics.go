package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

// Metrics agrupa os coletores do parlay-builder
type Metrics struct {
	Runs      *prometheus.CounterVec
	Bundles   *prometheus.CounterVec
	Rejected  *prometheus.CounterVec
	Discarded *prometheus.CounterVec
	Errors    *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	Attempts  prometheus.Histogram
	Throttled prometheus.Counter
}

// New cria e registra os coletores no registry informado
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parlay_builder_runs_total", Help: "execuções por esporte e status",
		}, []string{"sport", "status"}),
		Bundles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parlay_builder_bundles_total", Help: "parlays confirmados",
		}, []string{"sport"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parlay_builder_candidates_rejected_total", Help: "linhas de entrada descartadas por estarem malformadas",
		}, []string{"sport"}),
		Discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parlay_builder_attempts_discarded_total", Help: "tentativas descartadas por motivo",
		}, []string{"sport", "reason"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parlay_builder_errors_total", Help: "erros por estágio",
		}, []string{"stage"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parlay_builder_run_duration_seconds",
			Help:    "duração do motor por execução",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"sport"}),
		Attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "parlay_builder_attempts",
			Help:    "tentativas consumidas por execução",
			Buckets: prometheus.LinearBuckets(0, 4, 10),
		}),
		Throttled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parlay_builder_trigger_throttled_total", Help: "disparos manuais recusados pelo rate limit",
		}),
	}
	reg.MustRegister(m.Runs, m.Bundles, m.Rejected, m.Discarded, m.Errors, m.Duration, m.Attempts, m.Throttled)
	return m
}

// ObserveRun é o callback OnRun do runner
func (m *Metrics) ObserveRun(r model.RunResult) {
	m.Runs.WithLabelValues(r.Sport, string(r.Status)).Inc()
	m.Bundles.WithLabelValues(r.Sport).Add(float64(len(r.Bundles)))
	m.Rejected.WithLabelValues(r.Sport).Add(float64(r.CandidatesRejected))
	m.Discarded.WithLabelValues(r.Sport, "incomplete").Add(float64(r.DiscardedIncomplete))
	m.Discarded.WithLabelValues(r.Sport, "duplicate").Add(float64(r.DiscardedDuplicate))
	m.Attempts.Observe(float64(r.Attempts))
	if !r.FinishedAt.IsZero() {
		m.Duration.WithLabelValues(r.Sport).Observe(r.FinishedAt.Sub(r.StartedAt).Seconds())
	}
}

// ObserveError é o callback OnError do runner
func (m *Metrics) ObserveError(stage string) {
	m.Errors.WithLabelValues(stage).Inc()
}

