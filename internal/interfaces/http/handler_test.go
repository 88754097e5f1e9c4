package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	netHTTP "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pralka431/magazynek/internal/application/ledger"
	"github.com/pralka431/magazynek/internal/domain"
	"github.com/pralka431/magazynek/internal/domain/entity"
	"github.com/pralka431/magazynek/internal/domain/repository"
	apphttp "github.com/pralka431/magazynek/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos de persistencia para probar el mapeo error -> status HTTP.
// La lógica del ledger tiene sus propios tests; aquí solo interesa la capa web.
// ──────────────────────────────────────────────────────────────────────────────

type memCategories struct{ byID map[string]*entity.Category }

func (r *memCategories) Create(c *entity.Category) error {
	for _, e := range r.byID {
		if e.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}
func (r *memCategories) GetByID(id string) (*entity.Category, error) { return r.byID[id], nil }
func (r *memCategories) List() ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

type memProducts struct {
	byID map[string]*entity.Product
}

func (r *memProducts) Create(p *entity.Product) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}
func (r *memProducts) GetByID(id string) (*entity.Product, error) { return r.byID[id], nil }
func (r *memProducts) GetByName(name string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProducts) ApplyDelta(id string, delta int64) (*entity.Product, error) {
	p, ok := r.byID[id]
	if !ok || p.Quantity+delta < 0 {
		return nil, nil
	}
	p.Quantity += delta
	return p, nil
}
func (r *memProducts) Merge(id string, addQty int64, unitPrice decimal.Decimal) (*entity.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	p.Quantity += addQty
	p.UnitPrice = unitPrice
	return p, nil
}
func (r *memProducts) List() ([]*entity.ProductView, error) {
	var out []*entity.ProductView
	for _, p := range r.byID {
		out = append(out, &entity.ProductView{Product: *p})
	}
	return out, nil
}
func (r *memProducts) DeleteIfEmpty(id string) (bool, error) {
	p, ok := r.byID[id]
	if !ok || p.Quantity != 0 {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

type memMovements struct{ log []*entity.Movement }

func (r *memMovements) Create(m *entity.Movement) error {
	r.log = append(r.log, m)
	return nil
}
func (r *memMovements) List(limit int) ([]*entity.MovementView, error) {
	var out []*entity.MovementView
	for i := len(r.log) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, &entity.MovementView{Movement: *r.log[i], ProductName: "Hammer"})
	}
	return out, nil
}

type memTx struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
}

func (r *memTx) Run(_ context.Context, fn func(
	products repository.ProductRepository,
	movements repository.MovementRepository,
) error) error {
	return fn(r.products, r.movements)
}

type nopCache struct{}

func (nopCache) GetProducts(context.Context) ([]*entity.ProductView, bool)        { return nil, false }
func (nopCache) SetProducts(context.Context, []*entity.ProductView)               {}
func (nopCache) GetMovements(context.Context, int) ([]*entity.MovementView, bool) { return nil, false }
func (nopCache) SetMovements(context.Context, int, []*entity.MovementView)        {}
func (nopCache) Invalidate(context.Context)                                      {}

// failingProducts simula la capa postgres con la BD en mal estado: List
// devuelve el error que los repositorios reales producirían.
type failingProducts struct {
	*memProducts
	listErr error
}

func (r *failingProducts) List() ([]*entity.ProductView, error) { return nil, r.listErr }

// buildFailingApp construye la app con un repo de productos que falla al listar.
func buildFailingApp(listErr error) *fiber.App {
	categories := &memCategories{byID: map[string]*entity.Category{}}
	products := &failingProducts{memProducts: &memProducts{byID: map[string]*entity.Product{}}, listErr: listErr}
	movements := &memMovements{}
	l := ledger.New(
		&memTx{products: products, movements: movements},
		categories, products, movements, nopCache{},
	)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Ledger: l})
	return app
}

// buildTestApp construye una app Fiber con el router real sobre fakes en memoria.
func buildTestApp() (*fiber.App, *memCategories) {
	categories := &memCategories{byID: map[string]*entity.Category{}}
	products := &memProducts{byID: map[string]*entity.Product{}}
	movements := &memMovements{}
	l := ledger.New(
		&memTx{products: products, movements: movements},
		categories, products, movements, nopCache{},
	)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Ledger: l})
	return app, categories
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *netHTTP.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *netHTTP.Response) map[string]any {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func createProduct(t *testing.T, app *fiber.App, categories *memCategories, qty int64) string {
	t.Helper()
	cat := &entity.Category{ID: "cat-1", Name: "Tools"}
	categories.byID[cat.ID] = cat
	resp := doJSON(t, app, netHTTP.MethodPost, "/api/products", map[string]any{
		"name": "Hammer", "quantity": qty, "unit_price": "9.99", "category_id": cat.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decodeBody(t, resp)["id"].(string)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores a status
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateCategory_NombreVacioEs400(t *testing.T) {
	app, _ := buildTestApp()
	resp := doJSON(t, app, netHTTP.MethodPost, "/api/categories", map[string]any{"name": "  "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeBody(t, resp)["code"])
}

func TestCreateProduct_CategoriaInexistenteEs404(t *testing.T) {
	app, _ := buildTestApp()
	resp := doJSON(t, app, netHTTP.MethodPost, "/api/products", map[string]any{
		"name": "Hammer", "quantity": 1, "category_id": "no-existe",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateProduct_CuerpoInvalidoEs400(t *testing.T) {
	app, _ := buildTestApp()
	req := httptest.NewRequest(netHTTP.MethodPost, "/api/products", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeBody(t, resp)["code"])
}

func TestCreateProduct_AltaDevuelve201(t *testing.T) {
	app, categories := buildTestApp()
	id := createProduct(t, app, categories, 10)
	assert.NotEmpty(t, id)
}

func TestApplyDelta_StockInsuficienteEs409(t *testing.T) {
	app, categories := buildTestApp()
	id := createProduct(t, app, categories, 7)

	resp := doJSON(t, app, netHTTP.MethodPost, fmt.Sprintf("/api/products/%s/movements", id), map[string]any{
		"current_quantity": 7, "delta": -10, "label": "X",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeBody(t, resp)["code"])
}

func TestApplyDelta_EmisionExitosaDevuelveProducto(t *testing.T) {
	app, categories := buildTestApp()
	id := createProduct(t, app, categories, 10)

	resp := doJSON(t, app, netHTTP.MethodPost, fmt.Sprintf("/api/products/%s/movements", id), map[string]any{
		"current_quantity": 10, "delta": -3, "label": "J. Smith",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.EqualValues(t, 7, body["quantity"])
}

func TestDeleteProduct_ConStockEs409(t *testing.T) {
	app, categories := buildTestApp()
	id := createProduct(t, app, categories, 5)

	req := httptest.NewRequest(netHTTP.MethodDelete, "/api/products/"+id, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decodeBody(t, resp)["code"])
}

func TestGetProduct_InexistenteEs404(t *testing.T) {
	app, _ := buildTestApp()
	req := httptest.NewRequest(netHTTP.MethodGet, "/api/products/no-existe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// Una BD caída llega a la capa HTTP como ErrUnavailable (clasificado en el
// repositorio) y debe responder 503, no 500.
func TestListProducts_BDCaidaEs503(t *testing.T) {
	app := buildFailingApp(fmt.Errorf("list products: %w: dial tcp: connection refused", domain.ErrUnavailable))

	req := httptest.NewRequest(netHTTP.MethodGet, "/api/products", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "UNAVAILABLE", decodeBody(t, resp)["code"])
}

// Un error no mapeado responde 500 con un mensaje fijo: el texto del driver o
// del SQL no debe llegar al cliente.
func TestListProducts_ErrorInternoNoFiltraDetalle(t *testing.T) {
	app := buildFailingApp(fmt.Errorf(`list products: ERROR: relation "products" does not exist (SQLSTATE 42P01)`))

	req := httptest.NewRequest(netHTTP.MethodGet, "/api/products", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "INTERNAL", body["code"])
	assert.Equal(t, "error interno", body["message"])
	assert.NotContains(t, body["message"], "SQLSTATE")
}

func TestListMovements_DevuelveTotalYMovimientos(t *testing.T) {
	app, categories := buildTestApp()
	id := createProduct(t, app, categories, 10)
	resp := doJSON(t, app, netHTTP.MethodPost, fmt.Sprintf("/api/products/%s/movements", id), map[string]any{
		"delta": -2,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(netHTTP.MethodGet, "/api/movements?limit=10", nil)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)

	body := decodeBody(t, listResp)
	assert.EqualValues(t, 2, body["total"]) // alta + emisión
	movements, ok := body["movements"].([]any)
	require.True(t, ok)
	require.Len(t, movements, 2)
	newest := movements[0].(map[string]any)
	assert.Equal(t, "out", newest["direction"])
	assert.EqualValues(t, 2, newest["quantity"])
}
