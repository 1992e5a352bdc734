package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kkusima/commitpulse/internal/stats"
)

// Metrics holds the Prometheus instruments for the badge pipeline.
type Metrics struct {
	GenerationsTotal  prometheus.Counter
	GenerationsFailed prometheus.Counter
	FetchDuration     prometheus.Histogram
	ActiveDays        prometheus.Gauge
	ConsistencyPct    prometheus.Gauge
	TotalActivity     prometheus.Gauge
}

// New registers the pipeline metrics on a fresh registry and returns both.
func New() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		GenerationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "commitpulse_generations_total",
			Help: "Number of badge generation runs.",
		}),
		GenerationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "commitpulse_generations_failed_total",
			Help: "Number of badge generation runs that failed.",
		}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "commitpulse_fetch_duration_seconds",
			Help:    "Duration of contribution calendar fetches.",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveDays: factory.NewGauge(prometheus.GaugeOpts{
			Name: "commitpulse_active_days",
			Help: "Active days in the most recent summary.",
		}),
		ConsistencyPct: factory.NewGauge(prometheus.GaugeOpts{
			Name: "commitpulse_consistency_percent",
			Help: "Consistency percentage in the most recent summary.",
		}),
		TotalActivity: factory.NewGauge(prometheus.GaugeOpts{
			Name: "commitpulse_total_activity",
			Help: "Total contributions in the most recent summary.",
		}),
	}

	return m, reg
}

// ObserveSummary records the latest summary values.
func (m *Metrics) ObserveSummary(summary *stats.Summary) {
	m.ActiveDays.Set(float64(summary.ActiveDays))
	m.ConsistencyPct.Set(summary.ConsistencyPercent)
	m.TotalActivity.Set(float64(summary.TotalActivity))
}

// Handler returns the /metrics HTTP handler for the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
