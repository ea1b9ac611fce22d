package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/analytics"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
)

type apiEnv struct {
	*authEnv
	app   *fiber.App
	stock *inventory.StockService
}

// newAPI levanta el router completo sobre la infraestructura en memoria.
func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	env := newAuthEnv(t)
	store := env.store
	ctx := context.Background()

	locations := memory.NewLocationRepository(store)
	meds := memory.NewMedicineRepository(store)
	manufacturers := memory.NewManufacturerRepository(store)
	patients := memory.NewPatientRepository(store)
	invRepo := memory.NewInventoryRepository(store)
	logRepo := memory.NewLogRepository(store)
	txRunner := memory.NewTxRunner(store)

	require.NoError(t, manufacturers.Create(ctx, &entity.Manufacturer{ID: "MFR01", Name: "Genfar"}))
	require.NoError(t, meds.Create(ctx, &entity.Medicine{
		ID: "MED001", Name: "Acetaminofén 500mg",
		Price: decimal.NewFromInt(100), TaxRate: decimal.RequireFromString("0.12"), DefaultMinStock: 10,
	}))

	stock := inventory.NewStockService(txRunner, invRepo)
	alerts := analytics.NewStockAlertUseCase(locations, meds, invRepo)
	roles := usecase.NewRolePermissionService(memory.NewRolePermissionRepository(store))

	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         env.auth,
		Recorder:       inventory.NewRecorderUseCase(txRunner, locations, manufacturers, patients, "warehouse", zerolog.Nop()),
		InventoryQuery: inventory.NewQueryUseCase(stock, logRepo),
		StockAlerts:    alerts,
		Ledger:         analytics.NewLedgerUseCase(locations, invRepo, logRepo, nil, nil),
		DashboardUC:    analytics.NewDashboardUseCase(logRepo, alerts, nil),
		MedicineUC:     usecase.NewMedicineUseCase(meds, manufacturers),
		ManufacturerUC: usecase.NewManufacturerUseCase(manufacturers),
		CatalogUC:      usecase.NewCatalogUseCase(memory.NewCatalogRepository(store)),
		LocationUC:     usecase.NewLocationUseCase(locations),
		PatientUC:      usecase.NewPatientUseCase(patients, "IN"),
		UserUC:         env.users,
		RolePerms:      roles,
		WarehouseID:    "warehouse",
	})
	return &apiEnv{authEnv: env, app: app, stock: stock}
}

func (e *apiEnv) do(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func saleBody(store string, qty int64) dto.RecordSaleRequest {
	return dto.RecordSaleRequest{
		StoreID:     store,
		PaymentMode: "cash",
		Lines:       []dto.LineRequest{{MedicineID: "MED001", Quantity: qty}},
	}
}

func TestLoginEndpoint(t *testing.T) {
	api := newAPI(t)
	_, err := api.users.Create(context.Background(), dto.CreateUserRequest{
		Email: "caja@farmacia.test", Password: testPassword, Name: "Caja", Role: entity.RoleVendedor, LocationIDs: []string{"STR002"},
	})
	require.NoError(t, err)

	resp := api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "caja@farmacia.test", Password: testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decodeBody(t, resp, &out)
	assert.NotEmpty(t, out.Token)
	assert.Contains(t, out.Permissions, "/sales")

	resp = api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "caja@farmacia.test", Password: "incorrecta"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/auth/logout", "Bearer "+out.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/auth/me", "Bearer "+out.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRecordSale_Created(t *testing.T) {
	api := newAPI(t)
	require.NoError(t, api.stock.Increment(context.Background(), "STR002", "MED001", "", 100))
	header := api.login(t, entity.RoleVendedor, "STR002")

	resp := api.do(t, http.MethodPost, "/api/sales", header, saleBody("STR002", 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.LogRecordResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "sale", out.Kind)
	require.NotNil(t, out.Total)
	assert.True(t, decimal.RequireFromString("224").Equal(*out.Total), "2 x 100 + 12% IVA")

	q, err := api.stock.Get(context.Background(), "STR002", "MED001")
	require.NoError(t, err)
	assert.Equal(t, int64(98), q)
}

func TestRecordSale_TiendaAjena_Retorna403(t *testing.T) {
	api := newAPI(t)
	require.NoError(t, api.stock.Increment(context.Background(), "STR003", "MED001", "", 10))
	header := api.login(t, entity.RoleVendedor, "STR002")

	resp := api.do(t, http.MethodPost, "/api/sales", header, saleBody("STR003", 1))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	q, _ := api.stock.Get(context.Background(), "STR003", "MED001")
	assert.Equal(t, int64(10), q, "el stock no debe cambiar")
}

func TestRecordSale_StockInsuficiente_Retorna409(t *testing.T) {
	api := newAPI(t)
	require.NoError(t, api.stock.Increment(context.Background(), "STR002", "MED001", "", 3))
	header := api.login(t, entity.RoleVendedor, "STR002")

	resp := api.do(t, http.MethodPost, "/api/sales", header, saleBody("STR002", 5))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var out apphttp.InsufficientStockResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	assert.Equal(t, "STR002", out.LocationID)
	assert.Equal(t, "MED001", out.MedicineID)
	assert.Equal(t, int64(5), out.Requested)
	assert.Equal(t, int64(3), out.Available)
}

func TestRecordSale_Validacion_Retorna400(t *testing.T) {
	api := newAPI(t)
	header := api.login(t, entity.RoleVendedor, "STR002")

	body := saleBody("STR002", 0)
	body.PaymentMode = "trueque"
	resp := api.do(t, http.MethodPost, "/api/sales", header, body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out apphttp.ValidationErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Equal(t, "oneof", out.Fields["RecordSaleRequest.PaymentMode"])
	assert.Equal(t, "required", out.Fields["RecordSaleRequest.Lines[0].Quantity"])
}

func TestRecordPurchase_DuplicadaRetorna409(t *testing.T) {
	api := newAPI(t)
	header := api.login(t, entity.RoleBodeguero, "warehouse")
	cost := decimal.NewFromInt(60)
	body := dto.RecordPurchaseRequest{
		InvoiceNo: "F-001", ManufacturerID: "MFR01",
		Lines: []dto.LineRequest{{MedicineID: "MED001", Quantity: 50, UnitPrice: &cost}},
	}

	resp := api.do(t, http.MethodPost, "/api/purchases", header, body)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/purchases", header, body)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	q, _ := api.stock.Get(context.Background(), "warehouse", "MED001")
	assert.Equal(t, int64(50), q, "la factura repetida no suma dos veces")
}

func TestRecordPurchase_VendedorSinPermiso(t *testing.T) {
	api := newAPI(t)
	header := api.login(t, entity.RoleVendedor, "STR002")
	resp := api.do(t, http.MethodPost, "/api/purchases", header, dto.RecordPurchaseRequest{})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestInventoryAndAlerts(t *testing.T) {
	api := newAPI(t)
	require.NoError(t, api.stock.Increment(context.Background(), "STR002", "MED001", "Acetaminofén 500mg", 4))
	header := api.login(t, entity.RoleVendedor, "STR002")

	resp := api.do(t, http.MethodGet, "/api/inventory", header, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []dto.InventoryItemResponse
	decodeBody(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, int64(4), items[0].Quantity)

	resp = api.do(t, http.MethodGet, "/api/alerts", header, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alerts struct {
		Total  int                 `json:"total"`
		Alerts []dto.StockAlertDTO `json:"alerts"`
	}
	decodeBody(t, resp, &alerts)
	require.Equal(t, 1, alerts.Total)
	assert.Equal(t, "STR002", alerts.Alerts[0].LocationID)
	assert.Equal(t, "low", alerts.Alerts[0].Severity)

	resp = api.do(t, http.MethodGet, "/api/inventory?location_id=STR003", header, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLedgerJSON(t *testing.T) {
	api := newAPI(t)
	require.NoError(t, api.stock.Increment(context.Background(), "STR002", "MED001", "", 10))
	header := api.login(t, entity.RoleAdmin)

	resp := api.do(t, http.MethodPost, "/api/sales", header, saleBody("STR002", 4))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/reports/ledger?location_id=STR002&from=2000-01-01&to=2999-12-31", header, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LedgerResponse
	decodeBody(t, resp, &out)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, int64(4), out.Rows[0].Sold)
	assert.Equal(t, int64(6), out.Rows[0].Balance)

	resp = api.do(t, http.MethodGet, "/api/reports/ledger?from=fecha", header, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardAISummary_SinProveedor_Retorna503(t *testing.T) {
	api := newAPI(t)
	resp := api.do(t, http.MethodGet, "/api/dashboard/ai-summary", api.login(t, entity.RoleAdmin), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMasters_LecturaLibreEscrituraConPermiso(t *testing.T) {
	api := newAPI(t)
	vendedor := api.login(t, entity.RoleVendedor, "STR002")
	bodeguero := api.login(t, entity.RoleBodeguero, "warehouse")
	body := dto.CreateManufacturerRequest{Name: "Tecnoquímicas"}

	resp := api.do(t, http.MethodGet, "/api/medicines", vendedor, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/manufacturers", vendedor, body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/manufacturers", bodeguero, body)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body.Name = "TECNOQUIMICAS"
	resp = api.do(t, http.MethodPost, "/api/manufacturers", bodeguero, body)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "el nombre se compara sin mayúsculas ni tildes")
}

func TestUsers_SoloAdmin(t *testing.T) {
	api := newAPI(t)
	resp := api.do(t, http.MethodGet, "/api/users", api.login(t, entity.RoleBodeguero, "warehouse"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := api.login(t, entity.RoleAdmin)
	resp = api.do(t, http.MethodPut, "/api/roles/vendedor/permissions", admin, dto.RolePermissionsRequest{Paths: []string{"/sales", "/inventory"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var perms dto.RolePermissionsResponse
	decodeBody(t, resp, &perms)
	assert.Equal(t, []string{"/inventory", "/sales"}, perms.Paths)
}
