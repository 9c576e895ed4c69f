package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warung-pos/internal/application/analytics"
	"github.com/jhoicas/warung-pos/internal/application/auth"
	"github.com/jhoicas/warung-pos/internal/application/billing"
	"github.com/jhoicas/warung-pos/internal/application/catalog"
	"github.com/jhoicas/warung-pos/internal/application/checkout"
	"github.com/jhoicas/warung-pos/internal/application/directory"
	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/application/ledger"
	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/application/seed"
	"github.com/jhoicas/warung-pos/internal/infrastructure/memory"
	"github.com/jhoicas/warung-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/warung-pos/internal/infrastructure/session"
	apphttp "github.com/jhoicas/warung-pos/internal/interfaces/http"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type terminal struct {
	app     *fiber.App
	store   *memory.Store
	catalog *catalog.Catalog
}

// newTerminal arma la terminal completa sobre el store en memoria con los datos de demostración.
func newTerminal(t *testing.T) terminal {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()
	store := memory.NewStore()

	cat := catalog.NewCatalog(store, log)
	dir := directory.NewDirectory(store, log)
	led := ledger.NewLedger(store, log)
	for _, c := range []interface{ Start(context.Context) error }{cat, dir, led} {
		require.NoError(t, c.Start(ctx))
	}
	t.Cleanup(func() { cat.Stop(); dir.Stop(); led.Stop() })

	_, err := seed.Run(ctx, store, dir, "123", log)
	require.NoError(t, err)

	sessions := auth.NewSessionManager(dir, session.NewFileStore(filepath.Join(t.TempDir(), "wk_session")),
		auth.SessionConfig{Secret: "test-secret", Issuer: "warung-pos-test", TTL: time.Hour}, log)
	engine := checkout.NewEngine(led, sessions, log, checkout.WithTerminalID("kasir-test"))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:     "warung-pos-test",
		Sessions:    sessions,
		Catalog:     cat,
		Directory:   dir,
		Engine:      engine,
		HistoryUC:   analytics.NewHistoryUseCase(led),
		DashboardUC: analytics.NewDashboardUseCase(led),
		ReceiptUC: billing.NewReceiptUseCase(led, pdf.NewMarotoReceiptGenerator(),
			ports.ReceiptHeader{ShopName: "WARUNG KAPTEN"}),
	})
	return terminal{app: app, store: store, catalog: cat}
}

// do lanza la petición con cuerpo JSON opcional y decodifica la respuesta en out si no es nil.
func (tm terminal) do(t *testing.T, method, path string, body any, out any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := tm.app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (tm terminal) login(t *testing.T, username string) {
	t.Helper()
	var acc dto.AccountResponse
	resp := tm.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: username, Secret: "123"}, &acc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, username, acc.Username)
}

func (tm terminal) itemID(t *testing.T, name string) string {
	t.Helper()
	for _, it := range tm.catalog.Items() {
		if it.Name == name {
			return it.ID
		}
	}
	t.Fatalf("plato %q no sembrado", name)
	return ""
}

func (tm terminal) categoryID(t *testing.T, name string) string {
	t.Helper()
	for _, c := range tm.catalog.Categories() {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("categoría %q no sembrada", name)
	return ""
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión y roles
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	tm := newTerminal(t)
	resp := tm.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSinSesion_Retorna401(t *testing.T) {
	tm := newTerminal(t)
	resp := tm.do(t, http.MethodGet, "/api/menu", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "NO_SESSION", errorCode(t, resp))
}

func TestLogin_Credenciales(t *testing.T) {
	tm := newTerminal(t)

	resp := tm.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "kasir1", Secret: "mal"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "BAD_CREDENTIAL", errorCode(t, resp))

	resp = tm.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "nadie", Secret: "123"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = tm.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "", Secret: ""}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	tm.login(t, "kasir1")
	var me dto.AccountResponse
	resp = tm.do(t, http.MethodGet, "/api/auth/me", nil, &me)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CASHIER", me.Role)

	resp = tm.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = tm.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCajero_BloqueadoEnRutasDeOwner(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "kasir1")

	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/api/menu"},
		{http.MethodDelete, "/api/categories/x"},
		{http.MethodGet, "/api/accounts"},
		{http.MethodGet, "/api/dashboard"},
	} {
		resp := tm.do(t, r.method, r.path, nil, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, r.path)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Menú
// ──────────────────────────────────────────────────────────────────────────────

func TestMenu_FiltroPorCategoria(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "kasir1")

	var all []dto.MenuItemResponse
	tm.do(t, http.MethodGet, "/api/menu", nil, &all)
	assert.Len(t, all, 7)

	var drinks []dto.MenuItemResponse
	tm.do(t, http.MethodGet, "/api/menu?category=Minuman", nil, &drinks)
	assert.Len(t, drinks, 2)
}

func TestOwner_CatalogoYCuentas(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "admin")

	resp := tm.do(t, http.MethodDelete, "/api/categories/"+tm.categoryID(t, "Minuman"), nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INTEGRITY_CONFLICT", errorCode(t, resp))

	resp = tm.do(t, http.MethodPost, "/api/menu", dto.MenuItemRequest{Name: "Sate", Price: decimal.Zero, Category: "Camilan"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var created dto.IDResponse
	resp = tm.do(t, http.MethodPost, "/api/menu",
		dto.MenuItemRequest{Name: "Sate Ayam", Price: decimal.NewFromInt(20000), Category: "Camilan"}, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.ID)

	resp = tm.do(t, http.MethodDelete, "/api/accounts/admin", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "PROTECTED_ACCOUNT", errorCode(t, resp))

	resp = tm.do(t, http.MethodPost, "/api/accounts",
		dto.CreateAccountRequest{Username: "Kasir2", Name: "Sari", Role: "CASHIER", Secret: "456"}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var accounts []dto.AccountResponse
	tm.do(t, http.MethodGet, "/api/accounts", nil, &accounts)
	assert.Len(t, accounts, 3)

	var summary dto.DashboardSummaryDTO
	resp = tm.do(t, http.MethodGet, "/api/dashboard?range=weekly", nil, &summary)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "weekly", summary.Range)
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_CobroCompleto(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "kasir1")
	nasi := tm.itemID(t, "Nasi Goreng Kapten")

	tm.do(t, http.MethodPost, "/api/checkout/items", dto.AddCartItemRequest{ItemID: nasi}, nil)
	tm.do(t, http.MethodPatch, "/api/checkout/items/"+nasi, dto.AdjustQuantityRequest{Delta: 1}, nil)
	var cart dto.CartResponse
	tm.do(t, http.MethodPost, "/api/checkout/items", dto.AddCartItemRequest{ItemID: tm.itemID(t, "Es Teh Manis")}, &cart)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(55000)))
	assert.Equal(t, "BUILDING", cart.State)

	resp := tm.do(t, http.MethodPost, "/api/checkout/settle", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CART_NOT_READY", errorCode(t, resp))

	tm.do(t, http.MethodPut, "/api/checkout/customer", dto.CustomerLabelRequest{CustomerName: "Meja 4"}, nil)
	tm.do(t, http.MethodPut, "/api/checkout/tendered", dto.TenderedRequest{AmountPaid: decimal.NewFromInt(60000)}, &cart)
	assert.Equal(t, "READY", cart.State)
	assert.True(t, cart.Change.Equal(decimal.NewFromInt(5000)))

	var order dto.OrderResponse
	resp = tm.do(t, http.MethodPost, "/api/checkout/settle", nil, &order)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(55000)))
	assert.Equal(t, "Budi Kasir", order.CashierName)
	assert.Equal(t, "kasir-test", order.TerminalID)

	tm.do(t, http.MethodGet, "/api/checkout", nil, &cart)
	assert.Equal(t, "EMPTY", cart.State)
	assert.Empty(t, cart.Items)

	var history dto.OrderHistoryResponse
	tm.do(t, http.MethodGet, "/api/orders", nil, &history)
	require.Equal(t, 1, history.Count)
	assert.Equal(t, "Nasi Goreng Kapten (2), Es Teh Manis (1)", history.Orders[0].Summary)

	resp = tm.do(t, http.MethodGet, "/api/orders/"+order.ID+"/receipt", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdfBytes, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestCheckout_TenderedNegativo(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "kasir1")
	resp := tm.do(t, http.MethodPut, "/api/checkout/tendered", dto.TenderedRequest{AmountPaid: decimal.NewFromInt(-1)}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckout_PlatoInexistente(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "kasir1")
	resp := tm.do(t, http.MethodPost, "/api/checkout/items", dto.AddCartItemRequest{ItemID: "nada"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckout_FueraDeLineaConservaCarrito(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "kasir1")
	tm.do(t, http.MethodPost, "/api/checkout/items", dto.AddCartItemRequest{ItemID: tm.itemID(t, "Jus Alpukat")}, nil)
	tm.do(t, http.MethodPut, "/api/checkout/customer", dto.CustomerLabelRequest{CustomerName: "Andi"}, nil)
	tm.do(t, http.MethodPut, "/api/checkout/tendered", dto.TenderedRequest{AmountPaid: decimal.NewFromInt(20000)}, nil)

	tm.store.SetOffline(true)
	resp := tm.do(t, http.MethodPost, "/api/checkout/settle", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "CONNECTIVITY", errorCode(t, resp))

	var cart dto.CartResponse
	tm.do(t, http.MethodGet, "/api/checkout", nil, &cart)
	assert.Equal(t, "READY", cart.State)

	tm.store.SetOffline(false)
	resp = tm.do(t, http.MethodPost, "/api/checkout/settle", nil, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestLogout_DescartaCarrito(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "kasir1")
	tm.do(t, http.MethodPost, "/api/checkout/items", dto.AddCartItemRequest{ItemID: tm.itemID(t, "Pisang Keju")}, nil)
	tm.do(t, http.MethodPost, "/api/auth/logout", nil, nil)

	tm.login(t, "kasir1")
	var cart dto.CartResponse
	tm.do(t, http.MethodGet, "/api/checkout", nil, &cart)
	assert.Equal(t, "EMPTY", cart.State)
}

func TestMetrics_ExponeLatenciaHTTP(t *testing.T) {
	tm := newTerminal(t)
	tm.do(t, http.MethodGet, "/health", nil, nil)

	resp := tm.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "warung_pos_http_request_duration_seconds")
}
