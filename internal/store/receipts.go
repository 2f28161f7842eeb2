package store

import (
	"context"
	"database/sql"
	"errors"

	"pos-service/internal/models"
)

// InsertReceipt stores a new receipt row
func (s *Store) InsertReceipt(ctx context.Context, r *models.Receipt) error {
	query := `
		INSERT INTO receipts (receipt_id, items, total_amount, payment_method,
			payment_status, customer_name, customer_phone, amount_paid, change_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, timestamp`

	return s.db.GetContext(ctx, r, query,
		r.ReceiptID, r.Items, r.TotalAmount, r.PaymentMethod,
		r.PaymentStatus, r.CustomerName, r.CustomerPhone, r.AmountPaid, r.ChangeAmount)
}

// ListReceipts retrieves all receipts, newest first
func (s *Store) ListReceipts(ctx context.Context) ([]models.Receipt, error) {
	receipts := []models.Receipt{}
	err := s.db.SelectContext(ctx, &receipts, "SELECT * FROM receipts ORDER BY timestamp DESC")
	return receipts, err
}

// GetReceipt retrieves one receipt by its generated id, nil when absent
func (s *Store) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := s.db.GetContext(ctx, &receipt, "SELECT * FROM receipts WHERE receipt_id = $1", receiptID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// DeleteReceipt removes a receipt, returning whether it existed
func (s *Store) DeleteReceipt(ctx context.Context, receiptID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM receipts WHERE receipt_id = $1", receiptID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
