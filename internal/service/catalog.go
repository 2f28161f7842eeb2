package service

import (
	"context"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogStore is the product persistence used by the catalog service
type CatalogStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, barcode string) (*models.Product, error)
	InsertProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, barcode string, patch models.ProductPatch) (bool, error)
	DeleteProduct(ctx context.Context, barcode string) (bool, error)
}

// CatalogService handles product CRUD
type CatalogService struct {
	store  CatalogStore
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateProductRequest represents a request to add a product.
// Price and stock accept JSON numbers or numeric strings.
type CreateProductRequest struct {
	Barcode string           `json:"barcode"`
	Name    string           `json:"name"`
	Price   *decimal.Decimal `json:"price"`
	Stock   *decimal.Decimal `json:"stock"`
}

// UpdateProductRequest represents a partial product update. Absent fields
// leave the stored value untouched; an empty request is a valid no-op.
type UpdateProductRequest struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Stock *decimal.Decimal `json:"stock"`
}

// List returns the catalog ordered by product name
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.List")
	defer span.End()

	return s.store.ListProducts(ctx)
}

// Get returns one product by barcode
func (s *CatalogService) Get(ctx context.Context, barcode string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Get")
	defer span.End()

	product, err := s.store.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, notFoundf("Product not found")
	}
	return product, nil
}

// Create adds a new product to the catalog
func (s *CatalogService) Create(ctx context.Context, req *CreateProductRequest) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.Create")
	defer span.End()

	if req.Barcode == "" || req.Name == "" || req.Price == nil || req.Stock == nil {
		return invalidf("Missing required fields")
	}

	stock, err := intStock(*req.Stock)
	if err != nil {
		return err
	}
	if req.Price.IsNegative() {
		return invalidf("Invalid price or stock value")
	}

	existing, err := s.store.GetProduct(ctx, req.Barcode)
	if err != nil {
		return err
	}
	if existing != nil {
		return conflictf("Product with this barcode already exists")
	}

	product := &models.Product{
		Barcode: req.Barcode,
		Name:    req.Name,
		Price:   *req.Price,
		Stock:   stock,
	}
	if err := s.store.InsertProduct(ctx, product); err != nil {
		return err
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product added", zap.String("barcode", product.Barcode))
	return nil
}

// Update applies a partial update to an existing product
func (s *CatalogService) Update(ctx context.Context, barcode string, req *UpdateProductRequest) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.Update")
	defer span.End()

	existing, err := s.store.GetProduct(ctx, barcode)
	if err != nil {
		return err
	}
	if existing == nil {
		return notFoundf("Product not found")
	}

	patch := models.ProductPatch{Name: req.Name, Price: req.Price}
	if req.Stock != nil {
		stock, err := intStock(*req.Stock)
		if err != nil {
			return err
		}
		patch.Stock = &stock
	}
	if req.Price != nil && req.Price.IsNegative() {
		return invalidf("Invalid price or stock value")
	}

	if patch.IsEmpty() {
		return nil
	}

	if _, err := s.store.UpdateProduct(ctx, barcode, patch); err != nil {
		return err
	}

	s.logger.Info("Product updated", zap.String("barcode", barcode))
	return nil
}

// Delete removes a product. Sale and receipt history is not touched.
func (s *CatalogService) Delete(ctx context.Context, barcode string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.Delete")
	defer span.End()

	deleted, err := s.store.DeleteProduct(ctx, barcode)
	if err != nil {
		return err
	}
	if !deleted {
		return notFoundf("Product not found")
	}

	util.ProductsDeletedTotal.Inc()
	s.logger.Info("Product deleted", zap.String("barcode", barcode))
	return nil
}

// intStock converts a stock value to a non-negative integer, rejecting
// fractional or negative input the way the original numeric coercion did.
func intStock(d decimal.Decimal) (int, error) {
	if !d.IsInteger() || d.IsNegative() {
		return 0, invalidf("Invalid price or stock value")
	}
	return int(d.IntPart()), nil
}
