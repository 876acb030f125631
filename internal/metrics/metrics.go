// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the inventory counters. Each instance owns its registry so tests can build
// as many as they need.
type Metrics struct {
	Registry  *prometheus.Registry
	Mutations *prometheus.CounterVec
	Items     prometheus.Counter
	Uploads   *prometheus.CounterVec
	Exports   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockledger",
			Name:      "mutations_total",
			Help:      "Stock movements applied, by kind.",
		}, []string{"kind"}),
		Items: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stockledger",
			Name:      "items_registered_total",
			Help:      "Items registered through add_barang.",
		}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockledger",
			Name:      "upload_rows_total",
			Help:      "Initial-stock rows reconciled, by outcome.",
		}, []string{"outcome"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockledger",
			Name:      "exports_total",
			Help:      "Spreadsheet exports served, by table.",
		}, []string{"table"}),
	}

	m.Registry.MustRegister(
		m.Mutations,
		m.Items,
		m.Uploads,
		m.Exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}
