// Package metrics provides Prometheus metrics for the collection backend.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokecollect_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokecollect_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LoginRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokecollect_login_rate_limited_total",
			Help: "Login checks rejected by the rate limiter",
		},
	)

	// Price Metrics
	PriceCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokecollect_price_cache_hits_total",
			Help: "Card price lookups served from the LRU cache",
		},
	)

	PriceCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokecollect_price_cache_misses_total",
			Help: "Card price lookups that went to the database",
		},
	)

	PricesUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokecollect_prices_upserted_total",
			Help: "Catalog prices created or updated",
		},
	)

	// Collection Metrics
	CollectionsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokecollect_collections_total",
			Help: "Number of collections across all users",
		},
	)

	CollectionCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokecollect_collection_cards_total",
			Help: "Total quantity of cards across all collections",
		},
	)

	CollectionValueUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokecollect_collection_value_usd",
			Help: "Total estimated value of all collections in USD",
		},
	)

	UsersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokecollect_users_total",
			Help: "Number of registered users",
		},
	)

	// Snapshot Metrics
	SnapshotsTaken = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokecollect_snapshots_taken_total",
			Help: "Collection value snapshots recorded",
		},
	)
)

// UpdateCollectionMetrics refreshes the collection gauges. totalValue is
// passed in because valuation lives in the price service.
func UpdateCollectionMetrics(db *gorm.DB, totalValue float64) {
	var collections, users int64
	var cards int
	db.Model(&models.Collection{}).Count(&collections)
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.CollectionCard{}).Select("COALESCE(SUM(quantity), 0)").Scan(&cards)

	CollectionsTotal.Set(float64(collections))
	UsersTotal.Set(float64(users))
	CollectionCardsTotal.Set(float64(cards))
	CollectionValueUSD.Set(totalValue)
}
