package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusConfig configures a PrometheusObserver.
type PrometheusConfig struct {
	// Namespace prefixes every metric name (default: "recordstore").
	Namespace string

	// Registry receives the observer's collectors.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// PrometheusOption configures a PrometheusObserver.
type PrometheusOption func(*PrometheusConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) PrometheusOption {
	return func(c *PrometheusConfig) {
		c.Namespace = namespace
	}
}

// WithRegistry sets the Prometheus registerer.
func WithRegistry(registry prometheus.Registerer) PrometheusOption {
	return func(c *PrometheusConfig) {
		c.Registry = registry
	}
}

func defaultPrometheusConfig() PrometheusConfig {
	return PrometheusConfig{
		Namespace: "recordstore",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// PrometheusObserver counts events by type and level, and tracks the size of
// every collection that reports one. Events carrying both a "collection" and
// an integer "size" attribute update the collection_size gauge.
type PrometheusObserver struct {
	events *prometheus.CounterVec
	sizes  *prometheus.GaugeVec
}

// NewPrometheusObserver registers the observer's collectors and returns it.
// Registering twice against the same registry panics, as with promauto.
func NewPrometheusObserver(opts ...PrometheusOption) *PrometheusObserver {
	cfg := defaultPrometheusConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &PrometheusObserver{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "events_total",
			Help:      "Total number of store events by type and level",
		}, []string{"type", "level"}),

		sizes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "collection_size",
			Help:      "Number of records held by each collection",
		}, []string{"collection"}),
	}
}

func (o *PrometheusObserver) OnEvent(ctx context.Context, event Event) {
	o.events.WithLabelValues(string(event.Type), event.Level.String()).Inc()

	name, ok := event.Data["collection"].(string)
	if !ok {
		return
	}
	if size, ok := event.Data["size"].(int); ok {
		o.sizes.WithLabelValues(name).Set(float64(size))
	}
}
