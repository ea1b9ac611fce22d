package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 100 u a 10 + 50 u a 16 = 1800 / 150 = 12
	got := inventory.CostCalculator(100, dec("10"), 50, dec("16"))
	assert.True(t, got.Equal(dec("12")), "got %s", got)

	assert.True(t, inventory.CostCalculator(0, dec("0"), 0, dec("5")).IsZero())
}

func TestCalculateSaleTotals(t *testing.T) {
	lines := []entity.LogLine{
		{MedicineID: "MED001", Quantity: 2, UnitPrice: dec("50"), TaxRate: dec("0.12")},
		{MedicineID: "MED002", Quantity: 1, UnitPrice: dec("100"), TaxRate: dec("0.05")},
	}
	totals, err := inventory.CalculateSaleTotals(lines, dec("10"))
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("200")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(dec("17")), "tax %s", totals.Tax)
	assert.True(t, totals.GrandTotal.Equal(dec("207")), "total %s", totals.GrandTotal)
	assert.True(t, lines[0].Amount.Equal(dec("100")))
}

func TestCalculateSaleTotals_DescuentoInvalido(t *testing.T) {
	lines := []entity.LogLine{{MedicineID: "MED001", Quantity: 1, UnitPrice: dec("10")}}

	_, err := inventory.CalculateSaleTotals(lines, dec("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.CalculateSaleTotals(lines, dec("10.01"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildLedger_SaldosPorPeriodo(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }
	from, to := day(10), day(20)

	// Estado actual tras todas las operaciones.
	snapshot := []*entity.InventoryRecord{
		{LocationID: "warehouse", MedicineID: "MED001", MedicineName: "Paracetamol", Quantity: 440},
		{LocationID: "STR002", MedicineID: "MED001", MedicineName: "Paracetamol", Quantity: 130},
	}
	line := func(q int64) []entity.LogLine {
		return []entity.LogLine{{MedicineID: "MED001", MedicineName: "Paracetamol", Quantity: q}}
	}
	logs := []entity.LogRecord{
		// antes del período: ya incluido en el saldo inicial
		&entity.Purchase{LogHeader: entity.LogHeader{ID: "INV-1", OccurredAt: day(1), Lines: line(100)}, LocationID: "warehouse"},
		// dentro del período
		&entity.Transfer{LogHeader: entity.LogHeader{ID: "T1", OccurredAt: day(12), Lines: line(50)}, FromID: "warehouse", ToID: "STR002"},
		&entity.Sale{LogHeader: entity.LogHeader{ID: "S1", OccurredAt: day(13), Lines: line(20)}, StoreID: "STR002"},
		&entity.DamagedStockEntry{LogHeader: entity.LogHeader{ID: "D1", OccurredAt: day(14), Lines: line(10)}, LocationID: "warehouse"},
		// después del período: se descuenta del snapshot
		&entity.Sale{LogHeader: entity.LogHeader{ID: "S2", OccurredAt: day(25), Lines: line(0)}, StoreID: "STR002"},
		&entity.Purchase{LogHeader: entity.LogHeader{ID: "INV-2", OccurredAt: day(26), Lines: line(0)}, LocationID: "warehouse"},
	}

	rows := inventory.BuildLedger(snapshot, logs, from, to)
	require.Len(t, rows, 2)

	store, wh := rows[0], rows[1]
	assert.Equal(t, "STR002", store.LocationID)
	assert.Equal(t, int64(100), store.Opening)
	assert.Equal(t, int64(50), store.Received)
	assert.Equal(t, int64(20), store.Sold)
	assert.Equal(t, int64(130), store.Balance)

	assert.Equal(t, "warehouse", wh.LocationID)
	assert.Equal(t, int64(500), wh.Opening)
	assert.Equal(t, int64(50), wh.TransferredOut)
	assert.Equal(t, int64(10), wh.Damaged)
	assert.Equal(t, int64(440), wh.Balance)
	assert.Equal(t, "Paracetamol", wh.MedicineName)
}

func TestBuildLedger_DescuentaOperacionesPosteriores(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	snapshot := []*entity.InventoryRecord{
		{LocationID: "STR002", MedicineID: "MED001", Quantity: 70},
	}
	logs := []entity.LogRecord{
		&entity.Sale{
			LogHeader: entity.LogHeader{ID: "S1", OccurredAt: to.Add(time.Hour),
				Lines: []entity.LogLine{{MedicineID: "MED001", Quantity: 30}}},
			StoreID: "STR002",
		},
	}

	rows := inventory.BuildLedger(snapshot, logs, from, to)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(100), rows[0].Balance, "saldo al cierre antes de la venta posterior")
	assert.Equal(t, int64(100), rows[0].Opening)
	assert.Equal(t, int64(0), rows[0].Sold)
}
