// Package metrics exposes the service's Prometheus collectors. Counters are
// package-level so the platform and generation clients can record outcomes
// without threading a registry through every constructor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generations counts text-generation attempts by result kind
	// (success, validation_failure, remote_failure).
	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopseo_generation_total",
		Help: "Text generation attempts by outcome kind.",
	}, []string{"result"})

	// Mutations counts platform writes by feature area and result kind.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopseo_mutation_total",
		Help: "Shopify mutations by area and outcome kind.",
	}, []string{"area", "result"})

	// BulkRuns counts completed bulk jobs by area and mode.
	BulkRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopseo_bulk_runs_total",
		Help: "Completed bulk jobs by area and mode.",
	}, []string{"area", "mode"})

	// PageFetches counts catalog page loads by area.
	PageFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopseo_page_fetches_total",
		Help: "Catalog pages fetched from the platform by area.",
	}, []string{"area"})
)
