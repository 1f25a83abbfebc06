package server

import (
	"net/http/pprof"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistrar exposes Gatherer on /metrics. A nil Gatherer falls back
// to the default registry.
type MetricsRegistrar struct {
	Gatherer prometheus.Gatherer
}

type DebugRegistrar struct{}

func (m *MetricsRegistrar) RegisterRoutes(router Router) {
	gatherer := m.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	metricsGroup := router.Group("/metrics")
	metricsGroup.Handle("", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

func (dr *DebugRegistrar) RegisterRoutes(router Router) {
	debugGroup := router.Group("/debug/pprof")
	debugGroup.HandleFunc("/", pprof.Index)
	debugGroup.HandleFunc("/cmdline", pprof.Cmdline)
	debugGroup.HandleFunc("/profile", pprof.Profile)
	debugGroup.HandleFunc("/trace", pprof.Trace)
	debugGroup.HandleFunc("/symbol", pprof.Symbol)
	for _, name := range []string{"heap", "goroutine", "threadcreate", "block", "mutex", "allocs"} {
		debugGroup.Handle("/"+name, pprof.Handler(name))
	}
}
