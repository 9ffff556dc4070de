// Package prometheus exports the counters and the running transcode of the
// engine in the Prometheus format.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics interface {
	Register(cs prometheus.Collector) error
	UnregisterAll()
	Reader
}

type Reader interface {
	HTTPHandler() http.Handler
}

type Config struct {
	// Runtime adds the metrics of the Go runtime and of the process.
	Runtime bool
}

type metrics struct {
	registry   *prometheus.Registry
	collectors []prometheus.Collector
}

func New(config Config) (Metrics, error) {
	m := &metrics{
		registry: prometheus.NewRegistry(),
	}

	if config.Runtime {
		for _, cs := range []prometheus.Collector{
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		} {
			if err := m.Register(cs); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (m *metrics) Register(cs prometheus.Collector) error {
	if err := m.registry.Register(cs); err != nil {
		return err
	}

	m.collectors = append(m.collectors, cs)

	return nil
}

func (m *metrics) UnregisterAll() {
	for _, cs := range m.collectors {
		m.registry.Unregister(cs)
	}

	m.collectors = nil
}

func (m *metrics) HTTPHandler() http.Handler {
	return promhttp.InstrumentMetricHandler(m.registry, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
