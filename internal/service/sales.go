package service

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesStore is the persistence used by the sales recorder and forecast
type SalesStore interface {
	RecordSale(ctx context.Context, sale *models.Sale) error
	ListSales(ctx context.Context) ([]models.Sale, error)
	TopSeller(ctx context.Context) (*models.TopSeller, error)
	GetProduct(ctx context.Context, barcode string) (*models.Product, error)
}

// EventPublisher emits POS domain events. Publishing is best-effort: the
// services log failures and never surface them to the caller.
type EventPublisher interface {
	PublishSaleRecorded(ctx context.Context, event *models.SaleRecordedEvent) error
	PublishReceiptCreated(ctx context.Context, event *models.ReceiptCreatedEvent) error
	PublishLowStock(ctx context.Context, event *models.LowStockEvent) error
}

// SalesService records sales and runs the top-seller stock analysis
type SalesService struct {
	store             SalesStore
	events            EventPublisher
	lowStockThreshold int
	logger            *zap.Logger
}

// NewSalesService creates a new sales service. events may be nil when no
// broker is configured.
func NewSalesService(store SalesStore, events EventPublisher, lowStockThreshold int) *SalesService {
	return &SalesService{
		store:             store,
		events:            events,
		lowStockThreshold: lowStockThreshold,
		logger:            util.GetLogger(),
	}
}

// RecordSaleRequest represents a sale to record. Name and price are the
// point-of-sale snapshot, not a catalog lookup.
type RecordSaleRequest struct {
	Barcode string           `json:"barcode"`
	Name    string           `json:"name"`
	Price   *decimal.Decimal `json:"price"`
}

// Record appends a sale and decrements the matching product's stock by one,
// clamped at zero. A sale for an unknown or out-of-stock product is still
// recorded.
func (s *SalesService) Record(ctx context.Context, req *RecordSaleRequest) (*models.Sale, error) {
	ctx, span := util.StartSpan(ctx, "SalesService.Record")
	defer span.End()

	if req.Barcode == "" || req.Name == "" || req.Price == nil {
		return nil, invalidf("Missing required fields")
	}
	if req.Price.IsNegative() {
		return nil, invalidf("Invalid price value")
	}

	sale := &models.Sale{
		Barcode: req.Barcode,
		Name:    req.Name,
		Price:   *req.Price,
	}
	if err := s.store.RecordSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	util.SalesRecordedTotal.Inc()
	s.logger.Info("Sale recorded",
		zap.Int64("sale_id", sale.ID),
		zap.String("barcode", sale.Barcode))

	s.publishSaleRecorded(ctx, sale)
	s.checkLowStock(ctx, sale.Barcode)

	return sale, nil
}

// List returns all sales, newest first
func (s *SalesService) List(ctx context.Context) ([]models.Sale, error) {
	ctx, span := util.StartSpan(ctx, "SalesService.List")
	defer span.End()

	return s.store.ListSales(ctx)
}

// Forecast returns the top-seller stock report, or nil when there is no
// sales data to analyze.
func (s *SalesService) Forecast(ctx context.Context) (*models.ForecastReport, error) {
	ctx, span := util.StartSpan(ctx, "SalesService.Forecast")
	defer span.End()

	util.ForecastRunsTotal.Inc()

	top, err := s.store.TopSeller(ctx)
	if err != nil {
		return nil, err
	}
	if top == nil {
		return nil, nil
	}

	// A product deleted since its sales were recorded counts as zero stock.
	product, err := s.store.GetProduct(ctx, top.Barcode)
	if err != nil {
		return nil, err
	}
	if product != nil {
		top.CurrentStock = product.Stock
	}

	report := &models.ForecastReport{
		TopSeller: *top,
		Alert:     top.CurrentStock < s.lowStockThreshold,
		Message: fmt.Sprintf("High demand detected for '%s' with %d units sold. Current stock: %d units.",
			top.Name, top.SalesCount, top.CurrentStock),
	}
	if report.Alert {
		report.Recommendation = "Restock this item immediately"
	} else {
		report.Recommendation = "Stock levels appear adequate"
	}

	return report, nil
}

func (s *SalesService) publishSaleRecorded(ctx context.Context, sale *models.Sale) {
	if s.events == nil {
		return
	}

	event := &models.SaleRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleRecorded,
			Timestamp: time.Now(),
		},
		SaleID:  sale.ID,
		Barcode: sale.Barcode,
		Name:    sale.Name,
		Price:   sale.Price,
	}
	if err := s.events.PublishSaleRecorded(ctx, event); err != nil {
		s.logger.Error("Failed to publish SaleRecorded event", zap.Error(err))
	}
}

func (s *SalesService) checkLowStock(ctx context.Context, barcode string) {
	product, err := s.store.GetProduct(ctx, barcode)
	if err != nil {
		s.logger.Error("Failed to check stock after sale", zap.Error(err))
		return
	}
	if product == nil || product.Stock >= s.lowStockThreshold {
		return
	}

	util.LowStockAlertsTotal.Inc()
	s.logger.Warn("Stock below threshold",
		zap.String("barcode", product.Barcode),
		zap.Int("stock", product.Stock),
		zap.Int("threshold", s.lowStockThreshold))

	if s.events == nil {
		return
	}
	event := &models.LowStockEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeLowStock,
			Timestamp: time.Now(),
		},
		Barcode:   product.Barcode,
		Name:      product.Name,
		Stock:     product.Stock,
		Threshold: s.lowStockThreshold,
	}
	if err := s.events.PublishLowStock(ctx, event); err != nil {
		s.logger.Error("Failed to publish LowStock event", zap.Error(err))
	}
}
