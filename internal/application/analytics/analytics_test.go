package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/analytics"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
)

var admin = entity.Principal{UserID: "u-admin", Role: entity.RoleAdmin, Permissions: []string{entity.PermissionAll}}

type env struct {
	stock     *inventory.StockService
	recorder  *inventory.RecorderUseCase
	alerts    *analytics.StockAlertUseCase
	ledger    *analytics.LedgerUseCase
	dashboard *analytics.DashboardUseCase
	clock     time.Time
}

func newEnv(t *testing.T, llm *fakeLLM) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	locations := memory.NewLocationRepository(store)
	require.NoError(t, locations.Create(ctx, &entity.Location{ID: "warehouse", Name: "Bodega", Kind: entity.LocationKindWarehouse}))
	require.NoError(t, locations.Create(ctx, &entity.Location{ID: "STR002", Name: "Tienda Norte", Kind: entity.LocationKindStore}))
	require.NoError(t, locations.Create(ctx, &entity.Location{ID: "STR003", Name: "Tienda Sur", Kind: entity.LocationKindStore}))

	meds := memory.NewMedicineRepository(store)
	require.NoError(t, meds.Create(ctx, &entity.Medicine{
		ID: "MED001", Name: "Acetaminofén 500mg", Price: decimal.NewFromInt(10),
		DefaultMinStock: 10, MinStock: map[string]int64{"STR003": 0},
	}))
	require.NoError(t, meds.Create(ctx, &entity.Medicine{ID: "MED002", Name: "Loratadina 10mg", Price: decimal.NewFromInt(20)}))

	manufacturers := memory.NewManufacturerRepository(store)
	require.NoError(t, manufacturers.Create(ctx, &entity.Manufacturer{ID: "MFR01", Name: "Genfar"}))

	txRunner := memory.NewTxRunner(store)
	invRepo := memory.NewInventoryRepository(store)
	logRepo := memory.NewLogRepository(store)

	e := &env{clock: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	e.stock = inventory.NewStockService(txRunner, invRepo)
	e.recorder = inventory.NewRecorderUseCase(txRunner, locations, manufacturers, memory.NewPatientRepository(store), "warehouse", zerolog.Nop()).
		WithClock(func() time.Time { return e.clock })
	e.alerts = analytics.NewStockAlertUseCase(locations, meds, invRepo)
	e.ledger = analytics.NewLedgerUseCase(locations, invRepo, logRepo, nil, nil)
	var port ports.LLMService
	if llm != nil {
		port = llm
	}
	e.dashboard = analytics.NewDashboardUseCase(logRepo, e.alerts, port)
	return e
}

func lines(med string, qty int64) []inventory.LineInput {
	return []inventory.LineInput{{MedicineID: med, Quantity: qty}}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas
// ──────────────────────────────────────────────────────────────────────────────

func TestStockAlerts_ThresholdsAndSeverity(t *testing.T) {
	e := newEnv(t, nil)
	require.NoError(t, e.stock.Increment(context.Background(), "STR002", "MED001", "", 4))

	alerts, err := e.alerts.StockAlerts(context.Background(), admin, "")
	require.NoError(t, err)

	// MED002 sin umbral; STR003 con umbral 0 explícito
	require.Len(t, alerts, 2)
	assert.Equal(t, "STR002", alerts[0].LocationID)
	assert.Equal(t, analytics.SeverityLow, alerts[0].Severity)
	assert.Equal(t, int64(6), alerts[0].Deficit)
	assert.Equal(t, int64(11), alerts[0].SuggestedOrderQty)
	assert.Equal(t, "warehouse", alerts[1].LocationID)
	assert.Equal(t, analytics.SeverityOutOfStock, alerts[1].Severity)
}

func TestStockAlerts_AtThresholdAlerts(t *testing.T) {
	e := newEnv(t, nil)
	require.NoError(t, e.stock.Increment(context.Background(), "STR002", "MED001", "", 10))

	alerts, err := e.alerts.StockAlerts(context.Background(), admin, "STR002")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, int64(0), alerts[0].Deficit)
}

func TestStockAlerts_ScopedToPrincipal(t *testing.T) {
	e := newEnv(t, nil)
	seller := entity.Principal{Role: entity.RoleVendedor, LocationIDs: []string{"STR002"}}

	alerts, err := e.alerts.StockAlerts(context.Background(), seller, "")
	require.NoError(t, err)
	for _, a := range alerts {
		assert.Equal(t, "STR002", a.LocationID)
	}

	_, err = e.alerts.StockAlerts(context.Background(), seller, "warehouse")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.alerts.StockAlerts(context.Background(), admin, "STR999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro de inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerReport_RebuildsPeriod(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	require.NoError(t, e.stock.Increment(ctx, "warehouse", "MED001", "Acetaminofén 500mg", 100))

	// antes del período
	e.clock = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := e.recorder.RecordPurchase(ctx, inventory.PurchaseInput{
		InvoiceNo: "P-1", ManufacturerID: "MFR01",
		Lines: []inventory.LineInput{{MedicineID: "MED001", Quantity: 50, UnitPrice: decimalPtr("4")}},
	})
	require.NoError(t, err)

	// dentro del período
	e.clock = time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	_, err = e.recorder.RecordTransfer(ctx, inventory.TransferInput{FromID: "warehouse", ToID: "STR002", Lines: lines("MED001", 30)})
	require.NoError(t, err)
	e.clock = time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)
	_, err = e.recorder.RecordSale(ctx, inventory.SaleInput{StoreID: "STR002", Lines: lines("MED001", 5)})
	require.NoError(t, err)
	_, err = e.recorder.RecordDamagedStock(ctx, inventory.DamagedStockInput{LocationID: "warehouse", MedicineID: "MED001", Quantity: 2, Reason: "roto"})
	require.NoError(t, err)

	// después del período
	e.clock = time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)
	_, err = e.recorder.RecordSale(ctx, inventory.SaleInput{StoreID: "STR002", Lines: lines("MED001", 3)})
	require.NoError(t, err)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	report, err := e.ledger.LedgerReport(ctx, admin, "", from, to)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	store := report.Rows[0]
	assert.Equal(t, "STR002", store.LocationID)
	assert.Equal(t, int64(0), store.Opening)
	assert.Equal(t, int64(30), store.Received)
	assert.Equal(t, int64(5), store.Sold)
	assert.Equal(t, int64(25), store.Balance)

	wh := report.Rows[1]
	assert.Equal(t, "warehouse", wh.LocationID)
	assert.Equal(t, int64(150), wh.Opening)
	assert.Equal(t, int64(30), wh.TransferredOut)
	assert.Equal(t, int64(2), wh.Damaged)
	assert.Equal(t, int64(118), wh.Balance)
}

func TestLedgerReport_InvalidRangeAndScope(t *testing.T) {
	e := newEnv(t, nil)
	now := time.Now()
	_, err := e.ledger.LedgerReport(context.Background(), admin, "", now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	seller := entity.Principal{Role: entity.RoleVendedor, LocationIDs: []string{"STR002"}}
	_, err = e.ledger.LedgerReport(context.Background(), seller, "warehouse", now.Add(-time.Hour), now)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestExportLedger_UnknownFormat(t *testing.T) {
	e := newEnv(t, nil)
	now := time.Now()
	_, err := e.ledger.ExportLedger(context.Background(), admin, "", now.Add(-time.Hour), now, "csv")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

type fakeLLM struct {
	got dto.DashboardMetricsDTO
}

func (f *fakeLLM) SummarizeDashboard(_ context.Context, m dto.DashboardMetricsDTO) (*dto.DashboardAISummaryDTO, error) {
	f.got = m
	return &dto.DashboardAISummaryDTO{Headline: "Ventas estables"}, nil
}

func TestDashboard_MetricsAndSummary(t *testing.T) {
	llm := &fakeLLM{}
	e := newEnv(t, llm)
	ctx := context.Background()
	e.clock = time.Now()
	require.NoError(t, e.stock.Increment(ctx, "STR002", "MED002", "", 10))

	_, err := e.recorder.RecordSale(ctx, inventory.SaleInput{StoreID: "STR002", Lines: lines("MED002", 3)})
	require.NoError(t, err)

	metrics, err := e.dashboard.GetMetrics(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.TodaySaleCount)
	assert.True(t, metrics.TodaySales.Equal(decimal.NewFromInt(60)), metrics.TodaySales.String())
	require.Len(t, metrics.TopMedicines, 1)
	assert.Equal(t, int64(3), metrics.TopMedicines[0].QuantitySold)
	// MED001 agotado en bodega y STR002
	assert.Equal(t, 2, metrics.OutOfStockCount)

	summary, err := e.dashboard.Summarize(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, "Ventas estables", summary.Headline)
	assert.Equal(t, 1, llm.got.MonthlySaleCount)
}

func TestDashboard_SummaryWithoutLLM(t *testing.T) {
	e := newEnv(t, nil)
	_, err := e.dashboard.Summarize(context.Background(), admin)
	assert.Error(t, err)
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
