package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

func init() {
	// Money fields are emitted as JSON numbers, matching what the POS
	// frontend expects.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalog entry, keyed by its barcode.
type Product struct {
	Barcode string          `db:"barcode" json:"barcode"`
	Name    string          `db:"name" json:"name"`
	Price   decimal.Decimal `db:"price" json:"price"`
	Stock   int             `db:"stock" json:"stock"`
}

// ProductPatch carries the fields of a partial product update. A nil field
// means the caller did not send it and the stored value must be kept.
type ProductPatch struct {
	Name  *string
	Price *decimal.Decimal
	Stock *int
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Stock == nil
}

// Sale is an append-only record of one item sold. Name and price are
// snapshots taken at sale time, not live lookups.
type Sale struct {
	ID        int64           `db:"id" json:"id"`
	Barcode   string          `db:"barcode" json:"barcode"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Timestamp time.Time       `db:"timestamp" json:"timestamp"`
}

// Receipt is an immutable record of one completed transaction. Items holds
// the line items exactly as the client sent them, as a JSON document.
type Receipt struct {
	ID            int64           `db:"id" json:"-"`
	ReceiptID     string          `db:"receipt_id" json:"receipt_id"`
	Items         types.JSONText  `db:"items" json:"items"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	PaymentStatus string          `db:"payment_status" json:"payment_status"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	CustomerPhone string          `db:"customer_phone" json:"customer_phone"`
	AmountPaid    decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	ChangeAmount  decimal.Decimal `db:"change_amount" json:"change_amount"`
	Timestamp     time.Time       `db:"timestamp" json:"timestamp"`
}

// ReceiptView is the external shape of a receipt, with field names
// normalized for API consumers.
type ReceiptView struct {
	ReceiptID     string          `json:"receipt_id"`
	Items         types.JSONText  `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Change        decimal.Decimal `json:"change"`
	CreatedAt     time.Time       `json:"created_at"`
}

// View converts a stored receipt into its normalized external shape.
func (r *Receipt) View() ReceiptView {
	return ReceiptView{
		ReceiptID:     r.ReceiptID,
		Items:         r.Items,
		Total:         r.TotalAmount,
		PaymentMethod: r.PaymentMethod,
		PaymentStatus: r.PaymentStatus,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		AmountPaid:    r.AmountPaid,
		Change:        r.ChangeAmount,
		CreatedAt:     r.Timestamp,
	}
}

// TopSeller is the product with the highest sale count.
type TopSeller struct {
	Barcode      string `db:"barcode" json:"barcode"`
	Name         string `db:"name" json:"name"`
	SalesCount   int    `db:"sales_count" json:"sales_count"`
	CurrentStock int    `db:"-" json:"current_stock"`
}

// ForecastReport is the result of the top-seller stock analysis.
type ForecastReport struct {
	TopSeller      TopSeller `json:"top_seller"`
	Alert          bool      `json:"alert"`
	Message        string    `json:"message"`
	Recommendation string    `json:"recommendation"`
}
