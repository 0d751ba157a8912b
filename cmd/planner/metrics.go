package main

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the request/ALNS telemetry registered on the service's
// prometheus registry (SPEC_FULL.md §11).
type metrics struct {
	requestLatency  *prometheus.HistogramVec
	iterationsTotal prometheus.Counter
	acceptedTotal   prometheus.Counter
	improvedTotal   prometheus.Counter
}

func newMetrics(registry *prometheus.Registry) *metrics {
	m := &metrics{
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planner_request_duration_seconds",
			Help:    "Latency of planner HTTP endpoints.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		iterationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alns_iterations_total",
			Help: "Total ALNS iterations executed across all requests.",
		}),
		acceptedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alns_accepted_total",
			Help: "Total ALNS runs that completed without cancellation.",
		}),
		improvedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alns_improved_total",
			Help: "Total ALNS runs that improved on the greedy plan's profit.",
		}),
	}
	registry.MustRegister(m.requestLatency, m.iterationsTotal, m.acceptedTotal, m.improvedTotal)
	return m
}
