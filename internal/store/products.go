package store

import (
	"context"
	"database/sql"
	"errors"

	"pos-service/internal/models"
)

// ListProducts retrieves the full catalog ordered by name
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY name ASC")
	return products, err
}

// GetProduct retrieves a product by barcode, returning nil when absent
func (s *Store) GetProduct(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE barcode = $1", barcode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// InsertProduct inserts a new product row
func (s *Store) InsertProduct(ctx context.Context, p *models.Product) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO products (barcode, name, price, stock) VALUES ($1, $2, $3, $4)",
		p.Barcode, p.Name, p.Price, p.Stock)
	return err
}

// UpdateProduct applies only the fields present in the patch. Absent fields
// fall through to the stored value via COALESCE, so no SQL is built from
// request keys. Returns whether a row matched.
func (s *Store) UpdateProduct(ctx context.Context, barcode string, patch models.ProductPatch) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name  = COALESCE($1, name),
		    price = COALESCE($2, price),
		    stock = COALESCE($3, stock)
		WHERE barcode = $4`,
		patch.Name, patch.Price, patch.Stock, barcode)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteProduct removes a product row, returning whether it existed.
// Sale and receipt history referencing the barcode is left untouched.
func (s *Store) DeleteProduct(ctx context.Context, barcode string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE barcode = $1", barcode)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
