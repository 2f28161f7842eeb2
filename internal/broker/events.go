package broker

import (
	"context"
	"fmt"

	"pos-service/internal/models"
)

// EventPublisher handles publishing POS domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishSaleRecorded publishes SaleRecorded event
func (ep *EventPublisher) PublishSaleRecorded(ctx context.Context, event *models.SaleRecordedEvent) error {
	key := fmt.Sprintf("sale-%d", event.SaleID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishReceiptCreated publishes ReceiptCreated event
func (ep *EventPublisher) PublishReceiptCreated(ctx context.Context, event *models.ReceiptCreatedEvent) error {
	key := fmt.Sprintf("receipt-%s", event.ReceiptID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishLowStock publishes LowStock event
func (ep *EventPublisher) PublishLowStock(ctx context.Context, event *models.LowStockEvent) error {
	key := fmt.Sprintf("stock-%s", event.Barcode)
	return ep.producer.PublishEvent(ctx, key, event)
}
