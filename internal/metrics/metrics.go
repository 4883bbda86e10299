package metrics

import "github.com/prometheus/client_golang/prometheus"

// Validation and population Prometheus metrics.
var (
	PagesValidatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carpages",
			Name:      "pages_validated_total",
			Help:      "Total number of validated pages",
		},
		[]string{"status"}, // "ok" / "invalid"
	)

	DiagnosticsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carpages",
			Name:      "diagnostics_total",
			Help:      "Total validation diagnostics produced",
		},
		[]string{"kind", "severity"},
	)

	ValidationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "carpages",
			Name:      "validation_duration_seconds",
			Help:      "Submission file validation duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	PagesPopulatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "carpages",
			Name:      "pages_populated_total",
			Help:      "Total number of populated pages emitted",
		},
	)

	ParagraphsPopulatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "carpages",
			Name:      "paragraphs_populated_total",
			Help:      "Total number of paragraph references placed on populated pages",
		},
	)

	CorpusLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carpages",
			Name:      "corpus_lookups_total",
			Help:      "Corpus index lookups",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)
)

var registered bool

// Register registers all Prometheus metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(PagesValidatedTotal)
	prometheus.MustRegister(DiagnosticsTotal)
	prometheus.MustRegister(ValidationDuration)
	prometheus.MustRegister(PagesPopulatedTotal)
	prometheus.MustRegister(ParagraphsPopulatedTotal)
	prometheus.MustRegister(CorpusLookupsTotal)
	registered = true
}
