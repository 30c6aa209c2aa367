package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics exposes the import pipeline counters.
type Metrics struct {
	ImportsTotal *prometheus.CounterVec
	RowsTotal    *prometheus.CounterVec
	RowErrors    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ImportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "approvly",
			Name:      "imports_total",
			Help:      "File imports by format and outcome.",
		}, []string{"format", "status"}),
		RowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "approvly",
			Name:      "import_rows_total",
			Help:      "Rows processed by format and upsert outcome.",
		}, []string{"format", "outcome"}),
		RowErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "approvly",
			Name:      "import_row_errors_total",
			Help:      "Row-level errors accumulated during imports.",
		}, []string{"format"}),
	}

	reg.MustRegister(m.ImportsTotal, m.RowsTotal, m.RowErrors)
	return m
}

func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func provideRegisterer(reg *prometheus.Registry) prometheus.Registerer {
	return reg
}

var Module = fx.Module("observability.metrics",
	fx.Provide(NewRegistry),
	fx.Provide(provideRegisterer),
	fx.Provide(New),
)
