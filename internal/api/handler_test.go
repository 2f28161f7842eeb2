package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/scanner"
	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore backs the services with in-memory state so the full HTTP stack
// can be exercised without a database.
type fakeStore struct {
	products   map[string]*models.Product
	sales      []models.Sale
	receipts   []models.Receipt
	nextSaleID int64
	now        time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]*models.Product{},
		now:      time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetProduct(ctx context.Context, barcode string) (*models.Product, error) {
	p, ok := f.products[barcode]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) InsertProduct(ctx context.Context, p *models.Product) error {
	if _, ok := f.products[p.Barcode]; ok {
		return fmt.Errorf("duplicate key: %s", p.Barcode)
	}
	cp := *p
	f.products[p.Barcode] = &cp
	return nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, barcode string, patch models.ProductPatch) (bool, error) {
	p, ok := f.products[barcode]
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

func (f *fakeStore) DeleteProduct(ctx context.Context, barcode string) (bool, error) {
	if _, ok := f.products[barcode]; !ok {
		return false, nil
	}
	delete(f.products, barcode)
	return true, nil
}

func (f *fakeStore) RecordSale(ctx context.Context, sale *models.Sale) error {
	f.nextSaleID++
	sale.ID = f.nextSaleID
	sale.Timestamp = f.tick()
	f.sales = append(f.sales, *sale)
	if p, ok := f.products[sale.Barcode]; ok && p.Stock > 0 {
		p.Stock--
	}
	return nil
}

func (f *fakeStore) ListSales(ctx context.Context) ([]models.Sale, error) {
	out := make([]models.Sale, 0, len(f.sales))
	for i := len(f.sales) - 1; i >= 0; i-- {
		out = append(out, f.sales[i])
	}
	return out, nil
}

func (f *fakeStore) TopSeller(ctx context.Context) (*models.TopSeller, error) {
	if len(f.sales) == 0 {
		return nil, nil
	}
	counts := map[string]int{}
	names := map[string]string{}
	for _, s := range f.sales {
		counts[s.Barcode]++
		names[s.Barcode] = s.Name
	}
	var top models.TopSeller
	for barcode, count := range counts {
		if count > top.SalesCount || (count == top.SalesCount && (top.Barcode == "" || barcode < top.Barcode)) {
			top = models.TopSeller{Barcode: barcode, Name: names[barcode], SalesCount: count}
		}
	}
	return &top, nil
}

func (f *fakeStore) InsertReceipt(ctx context.Context, r *models.Receipt) error {
	r.ID = int64(len(f.receipts) + 1)
	r.Timestamp = f.tick()
	f.receipts = append(f.receipts, *r)
	return nil
}

func (f *fakeStore) ListReceipts(ctx context.Context) ([]models.Receipt, error) {
	out := make([]models.Receipt, 0, len(f.receipts))
	for i := len(f.receipts) - 1; i >= 0; i-- {
		out = append(out, f.receipts[i])
	}
	return out, nil
}

func (f *fakeStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	for i := range f.receipts {
		if f.receipts[i].ReceiptID == receiptID {
			cp := f.receipts[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteReceipt(ctx context.Context, receiptID string) (bool, error) {
	for i := range f.receipts {
		if f.receipts[i].ReceiptID == receiptID {
			f.receipts = append(f.receipts[:i], f.receipts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeDecoder struct {
	result *scanner.Result
	err    error
}

func (d *fakeDecoder) Decode(imageBytes []byte) (*scanner.Result, error) {
	return d.result, d.err
}

func newTestRouter(store *fakeStore, decoder scanner.Decoder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewHandler(
		service.NewCatalogService(store),
		service.NewSalesService(store, nil, 15),
		service.NewReceiptService(store, nil),
		service.NewBarcodeService(decoder, store),
	)
	handler.SetupRoutes(router)
	return router
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seed(store *fakeStore, barcode, name string, price float64, stock int) {
	store.products[barcode] = &models.Product{
		Barcode: barcode,
		Name:    name,
		Price:   decimal.NewFromFloat(price),
		Stock:   stock,
	}
}

func TestRootEndpoint(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeDecoder{})

	w := perform(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Billing System API is running!", decodeBody(t, w)["message"])
}

func TestProductLifecycle(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeDecoder{})

	w := perform(router, http.MethodPost, "/api/products",
		`{"barcode":"1234567890123","name":"Test Soap","price":35.5,"stock":12}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(router, http.MethodGet, "/api/products/1234567890123", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Test Soap", body["name"])
	assert.Equal(t, 35.5, body["price"])
	assert.Equal(t, float64(12), body["stock"])

	w = perform(router, http.MethodPut, "/api/products/1234567890123", `{"price":"40"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodGet, "/api/products/1234567890123", "")
	body = decodeBody(t, w)
	assert.Equal(t, float64(40), body["price"])
	assert.Equal(t, "Test Soap", body["name"])

	w = perform(router, http.MethodDelete, "/api/products/1234567890123", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodGet, "/api/products/1234567890123", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodDelete, "/api/products/1234567890123", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProductErrors(t *testing.T) {
	store := newFakeStore()
	seed(store, "1234567890123", "Existing", 10, 5)
	router := newTestRouter(store, &fakeDecoder{})

	// duplicate barcode
	w := perform(router, http.MethodPost, "/api/products",
		`{"barcode":"1234567890123","name":"Dup","price":1,"stock":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "already exists")

	// missing fields
	w = perform(router, http.MethodPost, "/api/products", `{"barcode":"5550001112223"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unparseable price
	w = perform(router, http.MethodPost, "/api/products",
		`{"barcode":"5550001112223","name":"X","price":"abc","stock":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductsStringNumericCoercion(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeDecoder{})

	// price and stock arrive as numeric strings, as the frontend sends them
	w := perform(router, http.MethodPost, "/api/products",
		`{"barcode":"5550001112223","name":"Stringly","price":"12.50","stock":"7"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(router, http.MethodGet, "/api/products/5550001112223", "")
	body := decodeBody(t, w)
	assert.Equal(t, 12.5, body["price"])
	assert.Equal(t, float64(7), body["stock"])
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	store := newFakeStore()
	seed(store, "1234567890123", "Chips", 20, 10)
	router := newTestRouter(store, &fakeDecoder{})

	w := perform(router, http.MethodPost, "/api/sales",
		`{"barcode":"1234567890123","name":"Chips","price":20}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(router, http.MethodGet, "/api/products/1234567890123", "")
	assert.Equal(t, float64(9), decodeBody(t, w)["stock"])
}

func TestRecordSaleOutOfStock(t *testing.T) {
	store := newFakeStore()
	seed(store, "1234567890123", "Chips", 20, 0)
	router := newTestRouter(store, &fakeDecoder{})

	w := perform(router, http.MethodPost, "/api/sales",
		`{"barcode":"1234567890123","name":"Chips","price":20}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(router, http.MethodGet, "/api/products/1234567890123", "")
	assert.Equal(t, float64(0), decodeBody(t, w)["stock"])

	w = perform(router, http.MethodGet, "/api/sales", "")
	var sales []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sales))
	assert.Len(t, sales, 1)
}

func TestRecordSaleMissingFields(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeDecoder{})

	w := perform(router, http.MethodPost, "/api/sales", `{"barcode":"1234567890123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForecastNoData(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeDecoder{})

	w := perform(router, http.MethodGet, "/api/forecast", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No sales data available for analysis", decodeBody(t, w)["message"])
}

func TestForecastAdequateStock(t *testing.T) {
	store := newFakeStore()
	seed(store, "8901234567890", "Parle-G Biscuit 50g", 10, 103)
	router := newTestRouter(store, &fakeDecoder{})

	for i := 0; i < 3; i++ {
		w := perform(router, http.MethodPost, "/api/sales",
			`{"barcode":"8901234567890","name":"Parle-G Biscuit 50g","price":10}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := perform(router, http.MethodGet, "/api/forecast", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	top := body["top_seller"].(map[string]interface{})
	assert.Equal(t, "8901234567890", top["barcode"])
	assert.Equal(t, float64(3), top["sales_count"])
	assert.Equal(t, float64(100), top["current_stock"])
	assert.Equal(t, false, body["alert"])
}

func TestForecastLowStockAlert(t *testing.T) {
	store := newFakeStore()
	seed(store, "1234567890123", "Milk", 28, 10)
	router := newTestRouter(store, &fakeDecoder{})

	w := perform(router, http.MethodPost, "/api/sales",
		`{"barcode":"1234567890123","name":"Milk","price":28}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(router, http.MethodGet, "/api/forecast", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	top := body["top_seller"].(map[string]interface{})
	assert.Equal(t, float64(9), top["current_stock"])
	assert.Equal(t, true, body["alert"])
	assert.Equal(t, "Restock this item immediately", body["recommendation"])
}

func TestReceiptRoundTrip(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeDecoder{})

	w := perform(router, http.MethodPost, "/api/receipts",
		`{"items":[{"barcode":"A","qty":2}],"total_amount":20,"payment_method":"cash","payment_status":"paid","amount_paid":25}`)
	require.Equal(t, http.StatusCreated, w.Code)
	receiptID := decodeBody(t, w)["receipt_id"].(string)
	require.NotEmpty(t, receiptID)

	w = perform(router, http.MethodGet, "/api/receipts/"+receiptID, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	assert.Equal(t, float64(20), body["total"])
	assert.Equal(t, float64(5), body["change"])
	assert.Equal(t, "Customer", body["customer_name"])
	assert.NotEmpty(t, body["created_at"])

	items, err := json.Marshal(body["items"])
	require.NoError(t, err)
	assert.JSONEq(t, `[{"barcode":"A","qty":2}]`, string(items))
}

func TestReceiptMissingFields(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeDecoder{})

	w := perform(router, http.MethodPost, "/api/receipts", `{"total_amount":20}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceiptNotFound(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeDecoder{})

	w := perform(router, http.MethodGet, "/api/receipts/no-such-receipt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodDelete, "/api/receipts/no-such-receipt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBarcodeScan(t *testing.T) {
	store := newFakeStore()
	seed(store, "8901234567890", "Parle-G Biscuit 50g", 10, 100)
	decoder := &fakeDecoder{result: &scanner.Result{Text: "8901234567890", Format: "EAN_13"}}
	router := newTestRouter(store, decoder)

	payload := base64.StdEncoding.EncodeToString([]byte("pretend image"))
	w := perform(router, http.MethodPost, "/api/barcode/scan",
		fmt.Sprintf(`{"image":%q}`, payload))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "8901234567890", body["barcode"])
	assert.Equal(t, "EAN_13", body["type"])
	assert.NotNil(t, body["product"])
}

func TestBarcodeScanNoImage(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeDecoder{})

	w := perform(router, http.MethodPost, "/api/barcode/scan", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBarcodeScanUndecodable(t *testing.T) {
	decoder := &fakeDecoder{err: scanner.ErrNoBarcode}
	router := newTestRouter(newFakeStore(), decoder)

	payload := base64.StdEncoding.EncodeToString([]byte("pretend image"))
	w := perform(router, http.MethodPost, "/api/barcode/scan",
		fmt.Sprintf(`{"image":%q}`, payload))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBarcodeValidateUnknownIsOK(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeDecoder{})

	w := perform(router, http.MethodGet, "/api/barcode/validate/0000000000000", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["valid"])
}

func TestBarcodeValidateKnown(t *testing.T) {
	store := newFakeStore()
	seed(store, "8901030721273", "Tata Salt 1kg", 25, 80)
	router := newTestRouter(store, &fakeDecoder{})

	w := perform(router, http.MethodGet, "/api/barcode/validate/8901030721273", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["valid"])
	assert.NotNil(t, body["product"])
}
