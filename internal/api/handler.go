package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/service"
	"pos-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog  *service.CatalogService
	sales    *service.SalesService
	receipts *service.ReceiptService
	barcode  *service.BarcodeService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	sales *service.SalesService,
	receipts *service.ReceiptService,
	barcode *service.BarcodeService,
) *Handler {
	return &Handler{
		catalog:  catalog,
		sales:    sales,
		receipts: receipts,
		barcode:  barcode,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/", h.root)
	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:barcode", h.getProduct)
		api.POST("/products", h.createProduct)
		api.PUT("/products/:barcode", h.updateProduct)
		api.DELETE("/products/:barcode", h.deleteProduct)

		api.POST("/sales", h.recordSale)
		api.GET("/sales", h.listSales)
		api.GET("/forecast", h.runForecast)

		api.POST("/receipts", h.createReceipt)
		api.GET("/receipts", h.listReceipts)
		api.GET("/receipts/:id", h.getReceipt)
		api.DELETE("/receipts/:id", h.deleteReceipt)

		api.POST("/barcode/scan", h.scanBarcode)
		api.GET("/barcode/validate/:barcode", h.validateBarcode)
	}
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Billing System API is running!",
	})
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalog.Get(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.catalog.Create(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully"})
}

func (h *Handler) updateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.catalog.Update(c.Request.Context(), c.Param("barcode"), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("barcode")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *Handler) recordSale(c *gin.Context) {
	var req service.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if _, err := h.sales.Record(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sale recorded successfully"})
}

func (h *Handler) listSales(c *gin.Context) {
	sales, err := h.sales.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *Handler) runForecast(c *gin.Context) {
	report, err := h.sales.Forecast(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if report == nil {
		c.JSON(http.StatusOK, gin.H{"message": "No sales data available for analysis"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) createReceipt(c *gin.Context) {
	var req service.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	receiptID, err := h.receipts.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Receipt created successfully",
		"receipt_id": receiptID,
	})
}

func (h *Handler) listReceipts(c *gin.Context) {
	receipts, err := h.receipts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipts)
}

func (h *Handler) getReceipt(c *gin.Context) {
	receipt, err := h.receipts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *Handler) deleteReceipt(c *gin.Context) {
	if err := h.receipts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receipt deleted successfully"})
}

type scanRequest struct {
	Image string `json:"image"`
}

func (h *Handler) scanBarcode(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image data provided"})
		return
	}

	result, err := h.barcode.Scan(c.Request.Context(), req.Image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) validateBarcode(c *gin.Context) {
	result, err := h.barcode.Validate(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondError maps the service error taxonomy onto HTTP statuses with a
// structured error body. Anything unclassified is an internal error.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidArgument), errors.Is(err, service.ErrConflict):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
