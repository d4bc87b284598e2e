// Package metrics defines the Prometheus collectors used by the API and the
// OCR worker and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AllergyChecksTotal  *prometheus.CounterVec
	AllergyCheckLatency prometheus.Histogram
	UnsafeItemsTotal    prometheus.Counter
	MenuImportsTotal    *prometheus.CounterVec
	DishesImportedTotal prometheus.Counter
	OCRJobsTotal        *prometheus.CounterVec
	LoginsTotal         *prometheus.CounterVec
}

// New creates all collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		AllergyChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allergy_checks_total",
				Help: "Allergy filter calls by outcome (ok, no_allergens, error).",
			},
			[]string{"outcome"},
		),
		AllergyCheckLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "allergy_check_duration_seconds",
				Help:    "Allergy filter latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		UnsafeItemsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "allergy_unsafe_items_total",
				Help: "Menu items flagged unsafe across all checks.",
			},
		),
		MenuImportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menu_imports_total",
				Help: "Menu imports by source (csv, ocr) and status.",
			},
			[]string{"source", "status"},
		),
		DishesImportedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "menu_dishes_imported_total",
				Help: "Dishes written to the menu by imports.",
			},
		),
		OCRJobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ocr_jobs_total",
				Help: "OCR upload jobs processed by final status.",
			},
			[]string{"status"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logins_total",
				Help: "Login attempts by result.",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AllergyChecksTotal,
		m.AllergyCheckLatency,
		m.UnsafeItemsTotal,
		m.MenuImportsTotal,
		m.DishesImportedTotal,
		m.OCRJobsTotal,
		m.LoginsTotal,
	)

	return m
}

// NewUnregistered builds collectors on a throwaway registry. Tests and
// one-shot CLI commands use it.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
