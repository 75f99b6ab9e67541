package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "minierp_orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersCanceledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "minierp_orders_canceled_total",
		Help: "Total number of orders deleted/canceled",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minierp_orders_failed_total",
		Help: "Total number of rejected order operations",
	}, []string{"reason"})

	StockDecrementedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "minierp_stock_decremented_total",
		Help: "Total units of stock decremented by fulfilled order writes",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "minierp_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minierp_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
