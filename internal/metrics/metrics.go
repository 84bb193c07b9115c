package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PricingDecisions counts priced shipments by path and review outcome.
	PricingDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightdesk_pricing_decisions_total",
		Help: "Total number of pricing decisions by path and review flag",
	}, []string{"path", "needs_review"})

	// PricingErrors counts decisions aborted by a store failure.
	PricingErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freightdesk_pricing_errors_total",
		Help: "Total number of pricing decisions that failed",
	})

	// PricingDuration tracks end-to-end decision latency.
	PricingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "freightdesk_pricing_duration_seconds",
		Help:    "Time taken to decide and price a shipment",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"path"})

	// TariffCacheRequests counts tariff cache lookups by result (hit, miss).
	TariffCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightdesk_tariff_cache_requests_total",
		Help: "Total number of tariff cache lookups by result",
	}, []string{"result"})

	// TariffsImported counts tariff rows accepted by spreadsheet imports.
	TariffsImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freightdesk_tariffs_imported_total",
		Help: "Total number of tariff rows imported from spreadsheets",
	})

	// HTTPRequests counts served requests by route template and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightdesk_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// ReviewAlertClients tracks connected review-alert websocket clients.
	ReviewAlertClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "freightdesk_review_alert_clients",
		Help: "Number of connected review alert websocket clients",
	})
)

// CacheHit and CacheMiss feed TariffCacheRequests.
func CacheHit()  { TariffCacheRequests.WithLabelValues("hit").Inc() }
func CacheMiss() { TariffCacheRequests.WithLabelValues("miss").Inc() }
