package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: bodega + dos tiendas + dos medicamentos + un laboratorio
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	stock    *inventory.StockService
	recorder *inventory.RecorderUseCase
	logs     *memory.LogRepo
	meds     *memory.MedicineRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	locations := memory.NewLocationRepository(store)
	for _, l := range []entity.Location{
		{ID: "warehouse", Name: "Bodega central", Kind: entity.LocationKindWarehouse},
		{ID: "STR002", Name: "Tienda Norte", Kind: entity.LocationKindStore},
		{ID: "STR003", Name: "Tienda Sur", Kind: entity.LocationKindStore},
	} {
		require.NoError(t, locations.Create(ctx, &l))
	}

	meds := memory.NewMedicineRepository(store)
	require.NoError(t, meds.Create(ctx, &entity.Medicine{
		ID: "MED001", Name: "Acetaminofén 500mg", Price: decimal.NewFromInt(100), TaxRate: decimal.RequireFromString("0.12"),
	}))
	require.NoError(t, meds.Create(ctx, &entity.Medicine{
		ID: "MED002", Name: "Amoxicilina 500mg", Price: decimal.NewFromInt(50), TaxRate: decimal.Zero,
	}))

	manufacturers := memory.NewManufacturerRepository(store)
	require.NoError(t, manufacturers.Create(ctx, &entity.Manufacturer{ID: "MFR01", Name: "Genfar", GSTIN: "GST-1"}))

	patients := memory.NewPatientRepository(store)
	require.NoError(t, patients.Create(ctx, &entity.Patient{ID: "PAT01", Name: "Ana Pérez"}))

	txRunner := memory.NewTxRunner(store)
	invRepo := memory.NewInventoryRepository(store)
	return &fixture{
		stock:    inventory.NewStockService(txRunner, invRepo),
		recorder: inventory.NewRecorderUseCase(txRunner, locations, manufacturers, patients, "warehouse", zerolog.Nop()),
		logs:     memory.NewLogRepository(store),
		meds:     meds,
	}
}

func (f *fixture) seed(t *testing.T, location, medicine string, qty int64) {
	t.Helper()
	require.NoError(t, f.stock.Increment(context.Background(), location, medicine, "", qty))
}

func (f *fixture) qty(t *testing.T, location, medicine string) int64 {
	t.Helper()
	q, err := f.stock.Get(context.Background(), location, medicine)
	require.NoError(t, err)
	return q
}

func (f *fixture) countLogs(t *testing.T, kind entity.LogKind) int {
	t.Helper()
	recs, err := f.logs.List(context.Background(), repository.LogFilter{Kinds: []entity.LogKind{kind}})
	require.NoError(t, err)
	return len(recs)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Almacén de inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_GetAbsentIsZero(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, int64(0), f.qty(t, "STR002", "MED001"))
}

func TestStock_DecrementInsufficientLeavesQuantity(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "STR002", "MED001", 5)

	err := f.stock.Decrement(context.Background(), "STR002", "MED001", 6)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(6), stockErr.Requested)
	assert.Equal(t, int64(5), stockErr.Available)
	assert.Equal(t, int64(5), f.qty(t, "STR002", "MED001"))
}

func TestStock_NonPositiveDeltaIsInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assert.ErrorIs(t, f.stock.Increment(ctx, "STR002", "MED001", "", 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.stock.Decrement(ctx, "STR002", "MED001", -3), domain.ErrInvalidInput)
}

func TestStock_ConcurrentDecrementsNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "STR002", "MED001", 100)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.stock.Decrement(context.Background(), "STR002", "MED001", 80)
		}(i)
	}
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			short++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, short)
	assert.Equal(t, int64(20), f.qty(t, "STR002", "MED001"))
}

func TestStock_MoveIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "warehouse", "MED001", 10)
	f.seed(t, "warehouse", "MED002", 1)

	err := f.stock.Move(context.Background(), "warehouse", "STR002", []inventory.MoveItem{
		{MedicineID: "MED001", Quantity: 5},
		{MedicineID: "MED002", Quantity: 2},
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.qty(t, "warehouse", "MED001"))
	assert.Equal(t, int64(0), f.qty(t, "STR002", "MED001"))
}

func TestStock_MoveSameLocationIsInvalid(t *testing.T) {
	f := newFixture(t)
	err := f.stock.Move(context.Background(), "STR002", "STR002", []inventory.MoveItem{{MedicineID: "MED001", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSale_ComputesTotalsAndDecrements(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "STR002", "MED001", 10)

	sale, err := f.recorder.RecordSale(context.Background(), inventory.SaleInput{
		StoreID:     "STR002",
		PatientID:   "PAT01",
		PaymentMode: "cash",
		Discount:    decimal.NewFromInt(10),
		Lines:       []inventory.LineInput{{MedicineID: "MED001", Quantity: 2}},
		ActorID:     "user-1",
	})

	require.NoError(t, err)
	assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(200)), sale.Subtotal.String())
	assert.True(t, sale.Tax.Equal(decimal.NewFromInt(24)), sale.Tax.String())
	assert.True(t, sale.GrandTotal.Equal(decimal.NewFromInt(214)), sale.GrandTotal.String())
	assert.Equal(t, "Acetaminofén 500mg", sale.Lines[0].MedicineName)
	assert.Equal(t, int64(8), f.qty(t, "STR002", "MED001"))
	assert.Equal(t, 1, f.countLogs(t, entity.LogKindSale))
}

func TestRecordSale_ShortLineRollsBackWholeSale(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "STR002", "MED001", 100)
	f.seed(t, "STR002", "MED002", 500)

	_, err := f.recorder.RecordSale(context.Background(), inventory.SaleInput{
		StoreID:     "STR002",
		PaymentMode: "cash",
		Lines: []inventory.LineInput{
			{MedicineID: "MED001", Quantity: 10},
			{MedicineID: "MED002", Quantity: 600},
		},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "MED002", stockErr.MedicineID)
	assert.Equal(t, int64(600), stockErr.Requested)
	assert.Equal(t, int64(500), stockErr.Available)
	assert.Equal(t, int64(100), f.qty(t, "STR002", "MED001"))
	assert.Equal(t, int64(500), f.qty(t, "STR002", "MED002"))
	assert.Equal(t, 0, f.countLogs(t, entity.LogKindSale))
}

func TestRecordSale_RequiresStoreLocation(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "warehouse", "MED001", 10)
	_, err := f.recorder.RecordSale(context.Background(), inventory.SaleInput{
		StoreID: "warehouse",
		Lines:   []inventory.LineInput{{MedicineID: "MED001", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordSale_UnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.recorder.RecordSale(ctx, inventory.SaleInput{
		StoreID: "STR999",
		Lines:   []inventory.LineInput{{MedicineID: "MED001", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.seed(t, "STR002", "MED001", 1)
	_, err = f.recorder.RecordSale(ctx, inventory.SaleInput{
		StoreID: "STR002",
		Lines:   []inventory.LineInput{{MedicineID: "MED404", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.recorder.RecordSale(ctx, inventory.SaleInput{
		StoreID:   "STR002",
		PatientID: "PAT404",
		Lines:     []inventory.LineInput{{MedicineID: "MED001", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(1), f.qty(t, "STR002", "MED001"))
}

func TestRecordSale_DuplicateInvoiceDoesNotDecrementTwice(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "STR002", "MED001", 10)
	in := inventory.SaleInput{
		InvoiceNo: "FV-0001",
		StoreID:   "STR002",
		Lines:     []inventory.LineInput{{MedicineID: "MED001", Quantity: 3}},
	}

	_, err := f.recorder.RecordSale(context.Background(), in)
	require.NoError(t, err)
	_, err = f.recorder.RecordSale(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, int64(7), f.qty(t, "STR002", "MED001"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPurchase_IncrementsWarehouseAndAveragesCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.recorder.RecordPurchase(ctx, inventory.PurchaseInput{
		InvoiceNo:      "PROV-1",
		ManufacturerID: "MFR01",
		Lines:          []inventory.LineInput{{MedicineID: "MED001", Quantity: 100, UnitPrice: price("8")}},
	})
	require.NoError(t, err)
	p, err := f.recorder.RecordPurchase(ctx, inventory.PurchaseInput{
		InvoiceNo:      "PROV-2",
		ManufacturerID: "MFR01",
		Lines:          []inventory.LineInput{{MedicineID: "MED001", Quantity: 100, UnitPrice: price("10")}},
	})
	require.NoError(t, err)

	assert.True(t, p.Total.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, int64(200), f.qty(t, "warehouse", "MED001"))
	med, err := f.meds.GetByID(ctx, "MED001")
	require.NoError(t, err)
	assert.True(t, med.Cost.Equal(decimal.NewFromInt(9)), med.Cost.String())
}

func TestRecordPurchase_ConcurrentAverageCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, unit := range []string{"8", "10"} {
		wg.Add(1)
		go func(i int, unit string) {
			defer wg.Done()
			_, errs[i] = f.recorder.RecordPurchase(ctx, inventory.PurchaseInput{
				InvoiceNo:      "PROV-" + unit,
				ManufacturerID: "MFR01",
				Lines:          []inventory.LineInput{{MedicineID: "MED001", Quantity: 100, UnitPrice: price(unit)}},
			})
		}(i, unit)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	assert.Equal(t, int64(200), f.qty(t, "warehouse", "MED001"))
	med, err := f.meds.GetByID(ctx, "MED001")
	require.NoError(t, err)
	assert.True(t, med.Cost.Equal(decimal.NewFromInt(9)), med.Cost.String())
}

func TestRecordPurchase_ReplayIsDuplicate(t *testing.T) {
	f := newFixture(t)
	in := inventory.PurchaseInput{
		InvoiceNo:      "PROV-1",
		ManufacturerID: "MFR01",
		Lines:          []inventory.LineInput{{MedicineID: "MED001", Quantity: 100, UnitPrice: price("8")}},
	}

	_, err := f.recorder.RecordPurchase(context.Background(), in)
	require.NoError(t, err)
	_, err = f.recorder.RecordPurchase(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, int64(100), f.qty(t, "warehouse", "MED001"))
	assert.Equal(t, 1, f.countLogs(t, entity.LogKindPurchase))
}

func TestRecordPurchase_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lines := []inventory.LineInput{{MedicineID: "MED001", Quantity: 1, UnitPrice: price("1")}}

	_, err := f.recorder.RecordPurchase(ctx, inventory.PurchaseInput{ManufacturerID: "MFR01", Lines: lines})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.recorder.RecordPurchase(ctx, inventory.PurchaseInput{
		InvoiceNo: "X", ManufacturerID: "MFR01",
		Lines: []inventory.LineInput{{MedicineID: "MED001", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.recorder.RecordPurchase(ctx, inventory.PurchaseInput{InvoiceNo: "X", ManufacturerID: "MFR99", Lines: lines})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados y devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordTransfer_MovesStock(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "warehouse", "MED001", 500)
	f.seed(t, "STR002", "MED001", 100)

	tr, err := f.recorder.RecordTransfer(context.Background(), inventory.TransferInput{
		FromID: "warehouse",
		ToID:   "STR002",
		Lines:  []inventory.LineInput{{MedicineID: "MED001", Quantity: 50}},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.LogKindTransfer, tr.Kind())
	assert.Equal(t, entity.TransferStatusCompleted, tr.Status)
	assert.Equal(t, int64(450), f.qty(t, "warehouse", "MED001"))
	assert.Equal(t, int64(150), f.qty(t, "STR002", "MED001"))
}

func TestRecordTransfer_ShortageRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "warehouse", "MED001", 500)
	f.seed(t, "warehouse", "MED002", 10)

	_, err := f.recorder.RecordTransfer(context.Background(), inventory.TransferInput{
		FromID: "warehouse",
		ToID:   "STR002",
		Lines: []inventory.LineInput{
			{MedicineID: "MED001", Quantity: 50},
			{MedicineID: "MED002", Quantity: 11},
		},
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(500), f.qty(t, "warehouse", "MED001"))
	assert.Equal(t, int64(0), f.qty(t, "STR002", "MED001"))
	assert.Equal(t, 0, f.countLogs(t, entity.LogKindTransfer))
}

func TestRecordReturn_StoreToWarehouseOnly(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "STR002", "MED001", 20)
	ctx := context.Background()

	_, err := f.recorder.RecordReturn(ctx, inventory.TransferInput{
		FromID: "STR002", ToID: "STR003",
		Lines: []inventory.LineInput{{MedicineID: "MED001", Quantity: 5}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ret, err := f.recorder.RecordReturn(ctx, inventory.TransferInput{
		FromID: "STR002", ToID: "warehouse",
		Lines: []inventory.LineInput{{MedicineID: "MED001", Quantity: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LogKindReturn, ret.Kind())
	assert.Equal(t, int64(15), f.qty(t, "STR002", "MED001"))
	assert.Equal(t, int64(5), f.qty(t, "warehouse", "MED001"))
}

func TestRecordTransferAndReturn_SpanNames(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "warehouse", "MED001", 10)
	spans := tracetest.NewSpanRecorder()
	f.recorder.WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)))
	ctx := context.Background()

	_, err := f.recorder.RecordTransfer(ctx, inventory.TransferInput{
		FromID: "warehouse", ToID: "STR002",
		Lines: []inventory.LineInput{{MedicineID: "MED001", Quantity: 4}},
	})
	require.NoError(t, err)
	_, err = f.recorder.RecordReturn(ctx, inventory.TransferInput{
		FromID: "STR002", ToID: "warehouse",
		Lines: []inventory.LineInput{{MedicineID: "MED001", Quantity: 1}},
	})
	require.NoError(t, err)

	var names []string
	for _, s := range spans.Ended() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"inventory.RecordTransfer", "inventory.RecordReturn"}, names)
}

func TestRecordManufacturerReturn_IdempotentOnDebitNote(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "warehouse", "MED002", 30)
	in := inventory.ManufacturerReturnInput{
		DebitNoteNo:    "ND-77",
		ManufacturerID: "MFR01",
		Reason:         "lote vencido",
		Lines:          []inventory.LineInput{{MedicineID: "MED002", Quantity: 10}},
	}

	ret, err := f.recorder.RecordManufacturerReturn(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "warehouse", ret.LocationID)
	_, err = f.recorder.RecordManufacturerReturn(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, int64(20), f.qty(t, "warehouse", "MED002"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Bajas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordDamagedStock(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "STR003", "MED001", 4)
	ctx := context.Background()

	_, err := f.recorder.RecordDamagedStock(ctx, inventory.DamagedStockInput{
		LocationID: "STR003", MedicineID: "MED001", Quantity: 1, Reason: "  ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.recorder.RecordDamagedStock(ctx, inventory.DamagedStockInput{
		LocationID: "STR003", MedicineID: "MED001", Quantity: 5, Reason: "frasco roto",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	entry, err := f.recorder.RecordDamagedStock(ctx, inventory.DamagedStockInput{
		LocationID: "STR003", MedicineID: "MED001", Quantity: 4, Reason: "frasco roto",
	})
	require.NoError(t, err)
	assert.Equal(t, "frasco roto", entry.Reason)
	assert.Equal(t, int64(0), f.qty(t, "STR003", "MED001"))
	assert.Equal(t, 1, f.countLogs(t, entity.LogKindDamaged))
}

func TestRecorder_CancelledContextRollsBack(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "STR002", "MED001", 10)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := f.recorder.RecordDamagedStock(ctx, inventory.DamagedStockInput{
		LocationID: "STR002", MedicineID: "MED001", Quantity: 1, Reason: "vencido",
	})

	assert.Error(t, err)
	assert.Equal(t, int64(10), f.qty(t, "STR002", "MED001"))
}
