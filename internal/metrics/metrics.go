// Package metrics counts domain operations for the Prometheus endpoint.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	registry = prometheus.NewRegistry()

	operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "retail",
		Name:      "operations_total",
		Help:      "Domain operations by name and outcome.",
	}, []string{"operation", "outcome"})

	unitsOrdered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "retail",
		Name:      "units_ordered_total",
		Help:      "Product units sold through placed orders.",
	})

	unitsSupplied = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "retail",
		Name:      "units_supplied_total",
		Help:      "Product units granted by supply requests.",
	})

	rejections []error
)

func init() {
	registry.MustRegister(
		operations,
		unitsOrdered,
		unitsSupplied,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RegisterRejections marks errors that mean "the request was refused" rather
// than "something broke". Modules call it from init with their sentinels.
func RegisterRejections(errs ...error) {
	rejections = append(rejections, errs...)
}

// Observe records one run of operation; call it with the operation's final error.
func Observe(operation string, err error) {
	operations.WithLabelValues(operation, outcome(err)).Inc()
}

// UnitsOrdered adds n to the units sold counter.
func UnitsOrdered(n int) { unitsOrdered.Add(float64(n)) }

// UnitsSupplied adds n to the units granted counter.
func UnitsSupplied(n int) { unitsSupplied.Add(float64(n)) }

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

func isRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case isRejection(err):
		return OutcomeRejected
	}
	return OutcomeError
}
