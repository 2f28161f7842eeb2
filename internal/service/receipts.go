package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptStore is the persistence used by the receipt ledger
type ReceiptStore interface {
	InsertReceipt(ctx context.Context, r *models.Receipt) error
	ListReceipts(ctx context.Context) ([]models.Receipt, error)
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)
	DeleteReceipt(ctx context.Context, receiptID string) (bool, error)
}

// ReceiptService stores and serves immutable transaction receipts
type ReceiptService struct {
	store  ReceiptStore
	events EventPublisher
	logger *zap.Logger
}

// NewReceiptService creates a new receipt service. events may be nil when
// no broker is configured.
func NewReceiptService(store ReceiptStore, events EventPublisher) *ReceiptService {
	return &ReceiptService{
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// CreateReceiptRequest represents a receipt to store. Items is kept as the
// JSON document the client sent; line items round-trip unchanged.
type CreateReceiptRequest struct {
	Items         json.RawMessage  `json:"items"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	PaymentMethod string           `json:"payment_method"`
	PaymentStatus string           `json:"payment_status"`
	AmountPaid    *decimal.Decimal `json:"amount_paid"`
	CustomerName  string           `json:"customer_name"`
	CustomerPhone string           `json:"customer_phone"`
}

// Create stores a new receipt and returns its generated id
func (s *ReceiptService) Create(ctx context.Context, req *CreateReceiptRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "ReceiptService.Create")
	defer span.End()

	if len(req.Items) == 0 || req.TotalAmount == nil || req.AmountPaid == nil ||
		req.PaymentMethod == "" || req.PaymentStatus == "" {
		return "", invalidf("Missing required fields")
	}

	change := req.AmountPaid.Sub(*req.TotalAmount)
	if change.IsNegative() {
		change = decimal.Zero
	}

	customerName := req.CustomerName
	if customerName == "" {
		customerName = "Customer"
	}

	receipt := &models.Receipt{
		ReceiptID:     uuid.New().String(),
		Items:         types.JSONText(req.Items),
		TotalAmount:   *req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
		CustomerName:  customerName,
		CustomerPhone: req.CustomerPhone,
		AmountPaid:    *req.AmountPaid,
		ChangeAmount:  change,
	}
	if err := s.store.InsertReceipt(ctx, receipt); err != nil {
		return "", fmt.Errorf("failed to store receipt: %w", err)
	}

	util.ReceiptsCreatedTotal.Inc()
	s.logger.Info("Receipt created", zap.String("receipt_id", receipt.ReceiptID))

	s.publishReceiptCreated(ctx, receipt)

	return receipt.ReceiptID, nil
}

// List returns all receipts in normalized form, newest first
func (s *ReceiptService) List(ctx context.Context) ([]models.ReceiptView, error) {
	ctx, span := util.StartSpan(ctx, "ReceiptService.List")
	defer span.End()

	receipts, err := s.store.ListReceipts(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.ReceiptView, 0, len(receipts))
	for i := range receipts {
		views = append(views, receipts[i].View())
	}
	return views, nil
}

// Get returns one receipt in normalized form
func (s *ReceiptService) Get(ctx context.Context, receiptID string) (*models.ReceiptView, error) {
	ctx, span := util.StartSpan(ctx, "ReceiptService.Get")
	defer span.End()

	receipt, err := s.store.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, notFoundf("Receipt not found")
	}

	view := receipt.View()
	return &view, nil
}

// Delete removes a receipt
func (s *ReceiptService) Delete(ctx context.Context, receiptID string) error {
	ctx, span := util.StartSpan(ctx, "ReceiptService.Delete")
	defer span.End()

	deleted, err := s.store.DeleteReceipt(ctx, receiptID)
	if err != nil {
		return err
	}
	if !deleted {
		return notFoundf("Receipt not found")
	}

	util.ReceiptsDeletedTotal.Inc()
	s.logger.Info("Receipt deleted", zap.String("receipt_id", receiptID))
	return nil
}

func (s *ReceiptService) publishReceiptCreated(ctx context.Context, receipt *models.Receipt) {
	if s.events == nil {
		return
	}

	event := &models.ReceiptCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeReceiptCreated,
			Timestamp: time.Now(),
		},
		ReceiptID:     receipt.ReceiptID,
		TotalAmount:   receipt.TotalAmount,
		PaymentMethod: receipt.PaymentMethod,
		PaymentStatus: receipt.PaymentStatus,
	}
	if err := s.events.PublishReceiptCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish ReceiptCreated event", zap.Error(err))
	}
}
