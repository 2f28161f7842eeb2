package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pos-service/internal/models"
)

// memStore is an in-memory stand-in for store.Store with the same observable
// behavior: name-ordered catalog, newest-first listings, clamped stock
// decrement, and top-seller ties resolving to the lowest barcode.
type memStore struct {
	products    map[string]*models.Product
	sales       []models.Sale
	receipts    []models.Receipt
	nextSaleID  int64
	updateCalls int
	now         time.Time
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]*models.Product{},
		now:      time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetProduct(ctx context.Context, barcode string) (*models.Product, error) {
	p, ok := m.products[barcode]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) InsertProduct(ctx context.Context, p *models.Product) error {
	if _, ok := m.products[p.Barcode]; ok {
		return fmt.Errorf("duplicate key: %s", p.Barcode)
	}
	cp := *p
	m.products[p.Barcode] = &cp
	return nil
}

func (m *memStore) UpdateProduct(ctx context.Context, barcode string, patch models.ProductPatch) (bool, error) {
	m.updateCalls++
	p, ok := m.products[barcode]
	if !ok {
		return false, nil
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	return true, nil
}

func (m *memStore) DeleteProduct(ctx context.Context, barcode string) (bool, error) {
	if _, ok := m.products[barcode]; !ok {
		return false, nil
	}
	delete(m.products, barcode)
	return true, nil
}

func (m *memStore) RecordSale(ctx context.Context, sale *models.Sale) error {
	m.nextSaleID++
	sale.ID = m.nextSaleID
	sale.Timestamp = m.tick()
	m.sales = append(m.sales, *sale)

	if p, ok := m.products[sale.Barcode]; ok && p.Stock > 0 {
		p.Stock--
	}
	return nil
}

func (m *memStore) ListSales(ctx context.Context) ([]models.Sale, error) {
	out := make([]models.Sale, 0, len(m.sales))
	for i := len(m.sales) - 1; i >= 0; i-- {
		out = append(out, m.sales[i])
	}
	return out, nil
}

func (m *memStore) TopSeller(ctx context.Context) (*models.TopSeller, error) {
	if len(m.sales) == 0 {
		return nil, nil
	}

	counts := map[string]int{}
	names := map[string]string{}
	for _, s := range m.sales {
		counts[s.Barcode]++
		if s.Name > names[s.Barcode] {
			names[s.Barcode] = s.Name
		}
	}

	var top models.TopSeller
	for barcode, count := range counts {
		if count > top.SalesCount || (count == top.SalesCount && (top.Barcode == "" || barcode < top.Barcode)) {
			top = models.TopSeller{Barcode: barcode, Name: names[barcode], SalesCount: count}
		}
	}
	return &top, nil
}

func (m *memStore) InsertReceipt(ctx context.Context, r *models.Receipt) error {
	r.ID = int64(len(m.receipts) + 1)
	r.Timestamp = m.tick()
	m.receipts = append(m.receipts, *r)
	return nil
}

func (m *memStore) ListReceipts(ctx context.Context) ([]models.Receipt, error) {
	out := make([]models.Receipt, 0, len(m.receipts))
	for i := len(m.receipts) - 1; i >= 0; i-- {
		out = append(out, m.receipts[i])
	}
	return out, nil
}

func (m *memStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	for i := range m.receipts {
		if m.receipts[i].ReceiptID == receiptID {
			cp := m.receipts[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) DeleteReceipt(ctx context.Context, receiptID string) (bool, error) {
	for i := range m.receipts {
		if m.receipts[i].ReceiptID == receiptID {
			m.receipts = append(m.receipts[:i], m.receipts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	saleEvents    []*models.SaleRecordedEvent
	receiptEvents []*models.ReceiptCreatedEvent
	lowStockEvent []*models.LowStockEvent
}

func (p *capturingPublisher) PublishSaleRecorded(ctx context.Context, e *models.SaleRecordedEvent) error {
	p.saleEvents = append(p.saleEvents, e)
	return nil
}

func (p *capturingPublisher) PublishReceiptCreated(ctx context.Context, e *models.ReceiptCreatedEvent) error {
	p.receiptEvents = append(p.receiptEvents, e)
	return nil
}

func (p *capturingPublisher) PublishLowStock(ctx context.Context, e *models.LowStockEvent) error {
	p.lowStockEvent = append(p.lowStockEvent, e)
	return nil
}
