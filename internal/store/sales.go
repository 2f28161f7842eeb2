package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pos-service/internal/models"
)

// RecordSale inserts a sale row and decrements the matching product's stock
// in one transaction. The decrement is clamped: it only applies while stock
// is above zero, and a sale for an out-of-stock item is still recorded.
func (s *Store) RecordSale(ctx context.Context, sale *models.Sale) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, sale, `
		INSERT INTO sales (barcode, name, price)
		VALUES ($1, $2, $3)
		RETURNING id, timestamp`,
		sale.Barcode, sale.Name, sale.Price)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE products SET stock = stock - 1 WHERE barcode = $1 AND stock > 0",
		sale.Barcode)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	return tx.Commit()
}

// ListSales retrieves all sales, newest first
func (s *Store) ListSales(ctx context.Context) ([]models.Sale, error) {
	sales := []models.Sale{}
	err := s.db.SelectContext(ctx, &sales, "SELECT * FROM sales ORDER BY timestamp DESC")
	return sales, err
}

// TopSeller returns the product with the most sale rows, or nil when there
// are no sales at all. Ties resolve to the lowest barcode.
func (s *Store) TopSeller(ctx context.Context) (*models.TopSeller, error) {
	var top models.TopSeller
	err := s.db.GetContext(ctx, &top, `
		SELECT barcode, MAX(name) AS name, COUNT(*) AS sales_count
		FROM sales
		GROUP BY barcode
		ORDER BY sales_count DESC, barcode ASC
		LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &top, nil
}
