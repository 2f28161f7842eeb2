package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeSaleRecorded   = "SALE_RECORDED"
	EventTypeReceiptCreated = "RECEIPT_CREATED"
	EventTypeLowStock       = "LOW_STOCK"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleRecordedEvent published when a sale is recorded
type SaleRecordedEvent struct {
	BaseEvent
	SaleID  int64           `json:"sale_id"`
	Barcode string          `json:"barcode"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
}

// ReceiptCreatedEvent published when a receipt is stored
type ReceiptCreatedEvent struct {
	BaseEvent
	ReceiptID     string          `json:"receipt_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
}

// LowStockEvent published when the stock of a sold product drops below
// the configured threshold
type LowStockEvent struct {
	BaseEvent
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}
