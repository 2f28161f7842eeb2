// Package scanner decodes barcode symbols out of raw image bytes.
package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

// ErrNoBarcode is returned when the image decodes fine but contains no
// readable barcode symbol.
var ErrNoBarcode = errors.New("no barcode detected")

// Result is a decoded barcode: its text content and symbology name
// (for example "EAN_13").
type Result struct {
	Text   string
	Format string
}

// Decoder turns raw image bytes into a decoded barcode
type Decoder interface {
	Decode(imageBytes []byte) (*Result, error)
}

// ZXingDecoder decodes the one-dimensional symbologies used on retail
// packaging (EAN, UPC, Code 39/93/128, ITF).
type ZXingDecoder struct {
	reader gozxing.Reader
}

// NewZXingDecoder creates a decoder for 1D retail barcodes
func NewZXingDecoder() *ZXingDecoder {
	return &ZXingDecoder{
		reader: oned.NewMultiFormatOneDReader(nil),
	}
}

// Decode reads the first barcode found in the image
func (d *ZXingDecoder) Decode(imageBytes []byte) (*Result, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize image: %w", err)
	}

	result, err := d.reader.Decode(bmp, nil)
	if err != nil {
		return nil, ErrNoBarcode
	}

	return &Result{
		Text:   result.GetText(),
		Format: result.GetBarcodeFormat().String(),
	}, nil
}
