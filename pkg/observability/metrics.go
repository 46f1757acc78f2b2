package observability

import (
	"net/http"
	"strconv"

	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the panel collectors.
type Metrics struct {
	registry *prometheus.Registry

	Edits        *prometheus.CounterVec
	Renames      prometheus.Counter
	Toggles      *prometheus.CounterVec
	SchemaMisses *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Edits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylepanel_layer_edits_total",
				Help: "Total number of layer edits by group kind",
			},
			[]string{"kind", "layer_type"},
		),
		Renames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stylepanel_layer_renames_total",
			Help: "Total number of layer rename requests",
		}),
		Toggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylepanel_group_toggles_total",
				Help: "Total number of group expand/collapse actions",
			},
			[]string{"active"},
		),
		SchemaMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylepanel_schema_misses_total",
				Help: "Layers shown with a type unknown to the schema",
			},
			[]string{"layer_type"},
		),
	}
	m.registry.MustRegister(m.Edits, m.Renames, m.Toggles, m.SchemaMisses)
	return m
}

// Registry exposes the registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLayerChanged: func(e *domain.LayerEvent) {
			m.Edits.WithLabelValues(string(e.Kind), e.LayerType).Inc()
		},
		OnLayerRenamed: func(*domain.RenameEvent) {
			m.Renames.Inc()
		},
		OnGroupToggled: func(e *domain.ToggleEvent) {
			m.Toggles.WithLabelValues(strconv.FormatBool(e.Active)).Inc()
		},
		OnSchemaMiss: func(e *domain.SchemaMissEvent) {
			m.SchemaMisses.WithLabelValues(e.LayerType).Inc()
		},
	}
}
