package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Total number of products added to the catalog",
	})

	ProductsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "Total number of products removed from the catalog",
	})

	SalesRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_recorded_total",
		Help: "Total number of sales recorded",
	})

	ReceiptsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipts_created_total",
		Help: "Total number of receipts stored",
	})

	ReceiptsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipts_deleted_total",
		Help: "Total number of receipts deleted",
	})

	BarcodeScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barcode_scans_total",
		Help: "Total number of barcode scan attempts",
	}, []string{"result"})

	ForecastRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_runs_total",
		Help: "Total number of forecast report runs",
	})

	LowStockAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "low_stock_alerts_total",
		Help: "Total number of low stock conditions observed after a sale",
	})

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
