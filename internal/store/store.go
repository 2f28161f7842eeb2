package store

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store and ensures the schema exists
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			barcode TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price NUMERIC(12,2) NOT NULL,
			stock INT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sales (
			id SERIAL PRIMARY KEY,
			barcode TEXT NOT NULL,
			name TEXT NOT NULL,
			price NUMERIC(12,2) NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS receipts (
			id SERIAL PRIMARY KEY,
			receipt_id TEXT NOT NULL UNIQUE,
			items JSONB NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL,
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			customer_name TEXT NOT NULL DEFAULT 'Customer',
			customer_phone TEXT NOT NULL DEFAULT '',
			amount_paid NUMERIC(12,2) NOT NULL,
			change_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

// seedProducts is the initial catalog loaded into an empty database.
var seedProducts = []models.Product{
	{Barcode: "8901234567890", Name: "Parle-G Biscuit 50g", Price: decimal.NewFromFloat(10.00), Stock: 100},
	{Barcode: "8901719123456", Name: "Amul Gold Milk 500ml", Price: decimal.NewFromFloat(28.00), Stock: 50},
	{Barcode: "8901030721273", Name: "Tata Salt 1kg", Price: decimal.NewFromFloat(25.00), Stock: 80},
	{Barcode: "9000000000001", Name: "Local Loose Sugar 1kg", Price: decimal.NewFromFloat(45.00), Stock: 40},
	{Barcode: "9000000000002", Name: "Local Loose Rice 1kg", Price: decimal.NewFromFloat(60.00), Stock: 60},
	{Barcode: "8904004400018", Name: "Aashirvaad Atta 5kg", Price: decimal.NewFromFloat(250.00), Stock: 30},
}

// SeedProducts loads the sample catalog if the products table is empty
func (s *Store) SeedProducts(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products"); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range seedProducts {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO products (barcode, name, price, stock) VALUES ($1, $2, $3, $4)",
			p.Barcode, p.Name, p.Price, p.Stock)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Barcode, err)
		}
	}

	return tx.Commit()
}
