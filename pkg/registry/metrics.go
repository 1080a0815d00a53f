package registry

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the registry's Prometheus instruments.
type Metrics struct {
	// PluginLoadsTotal counts Load calls by outcome.
	PluginLoadsTotal *prometheus.CounterVec

	// PluginsLoaded tracks the number of currently registered plugins.
	PluginsLoaded prometheus.Gauge
}

// Load outcome label values.
const (
	outcomeSuccess     = "success"
	outcomeImport      = "import_failed"
	outcomeLink        = "link_failed"
	outcomeSymbol      = "missing_symbol"
	outcomeInit        = "init_failed"
	outcomeRequirement = "version_rejected"
)

// NewMetrics creates and registers the registry metrics.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		PluginLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comet_plugin_loads_total",
				Help: "Total number of plugin load attempts",
			},
			[]string{"outcome"},
		),
		PluginsLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "comet_plugins_loaded",
				Help: "Number of currently registered plugins",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.PluginLoadsTotal, m.PluginsLoaded)
	}
	return m
}

func (m *Metrics) observeLoad(outcome string) {
	if m == nil {
		return
	}
	m.PluginLoadsTotal.WithLabelValues(outcome).Inc()
	if outcome == outcomeSuccess {
		m.PluginsLoaded.Inc()
	}
}
