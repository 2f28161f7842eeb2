package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"pos-service/internal/models"
	"pos-service/internal/scanner"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// ProductLookup is the read-only catalog access used by barcode resolution
type ProductLookup interface {
	GetProduct(ctx context.Context, barcode string) (*models.Product, error)
}

// BarcodeService decodes scanned images and resolves barcodes against the
// catalog. A decoded barcode with no catalog match is a valid outcome, not
// an error.
type BarcodeService struct {
	decoder scanner.Decoder
	catalog ProductLookup
	logger  *zap.Logger
}

// NewBarcodeService creates a new barcode service
func NewBarcodeService(decoder scanner.Decoder, catalog ProductLookup) *BarcodeService {
	return &BarcodeService{
		decoder: decoder,
		catalog: catalog,
		logger:  util.GetLogger(),
	}
}

// ScanResult is the outcome of decoding an image and looking the barcode up
type ScanResult struct {
	Success bool            `json:"success"`
	Barcode string          `json:"barcode"`
	Type    string          `json:"type"`
	Product *models.Product `json:"product"`
	Message string          `json:"message,omitempty"`
}

// ValidateResult is the outcome of a catalog existence check
type ValidateResult struct {
	Valid   bool            `json:"valid"`
	Product *models.Product `json:"product,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Scan decodes a base64 image (optionally a data URL) into a barcode and
// resolves it against the catalog.
func (s *BarcodeService) Scan(ctx context.Context, imageB64 string) (*ScanResult, error) {
	ctx, span := util.StartSpan(ctx, "BarcodeService.Scan")
	defer span.End()

	if imageB64 == "" {
		return nil, invalidf("No image data provided")
	}

	if strings.HasPrefix(imageB64, "data:image") {
		if i := strings.Index(imageB64, ","); i >= 0 {
			imageB64 = imageB64[i+1:]
		}
	}

	imageBytes, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return nil, invalidf("Invalid image data")
	}

	decoded, err := s.decoder.Decode(imageBytes)
	if errors.Is(err, scanner.ErrNoBarcode) {
		util.BarcodeScansTotal.WithLabelValues("no_barcode").Inc()
		return nil, notFoundf("No barcode detected")
	}
	if err != nil {
		return nil, fmt.Errorf("barcode scanning failed: %w", err)
	}

	product, err := s.catalog.GetProduct(ctx, decoded.Text)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		Success: true,
		Barcode: decoded.Text,
		Type:    decoded.Format,
		Product: product,
	}
	if product == nil {
		util.BarcodeScansTotal.WithLabelValues("unmatched").Inc()
		result.Message = "Product not found in database"
	} else {
		util.BarcodeScansTotal.WithLabelValues("matched").Inc()
	}

	s.logger.Info("Barcode scanned",
		zap.String("barcode", decoded.Text),
		zap.String("type", decoded.Format),
		zap.Bool("matched", product != nil))

	return result, nil
}

// Validate checks whether a barcode exists in the catalog. Absence is a
// valid result, never an error.
func (s *BarcodeService) Validate(ctx context.Context, barcode string) (*ValidateResult, error) {
	ctx, span := util.StartSpan(ctx, "BarcodeService.Validate")
	defer span.End()

	product, err := s.catalog.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if product == nil {
		return &ValidateResult{Valid: false, Message: "Barcode not found in database"}, nil
	}
	return &ValidateResult{Valid: true, Product: product}, nil
}
