package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogItemsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_items_loaded",
		Help: "Number of items in the loaded catalog",
	})

	CatalogLoadFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_load_failures_total",
		Help: "Total number of failed catalog loads",
	}, []string{"source"})

	CatalogQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "Total number of catalog queries",
	}, []string{"sort"})

	CatalogQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_query_latency_seconds",
		Help:    "Latency of catalog filter and sort",
		Buckets: prometheus.DefBuckets,
	})

	CatalogQueryResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_query_results",
		Help:    "Number of items returned per catalog query",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	})

	CardSessionsOpenedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "card_sessions_opened_total",
		Help: "Total number of card sessions opened",
	})

	OptionChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "card_option_changes_total",
		Help: "Total number of option selections applied",
	}, []string{"result"})

	ContactPlansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_plans_total",
		Help: "Total number of contact dispatch plans issued",
	}, []string{"kind", "channel"})

	DispatchAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_attempts_total",
		Help: "Total number of contact dispatch attempts",
	}, []string{"channel"})

	ClipboardFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_clipboard_failures_total",
		Help: "Total number of clipboard writes that failed or timed out",
	})

	FallbacksFiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_fallbacks_fired_total",
		Help: "Total number of fallback links opened after the delay",
	}, []string{"channel"})

	ContactsObservedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contacts_observed_total",
		Help: "Contact events consumed from the event stream",
	}, []string{"channel", "kind"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
