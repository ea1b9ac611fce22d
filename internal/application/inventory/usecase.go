package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

const tracerName = "github.com/jhoicas/Farmacia-api/internal/application/inventory"

// RecorderUseCase registra operaciones de inventario (venta, compra, traslado, devolución, baja)
// de forma transaccional: el registro append-only y las mutaciones de stock se confirman juntos.
type RecorderUseCase struct {
	txRunner         TxRunner
	locationRepo     repository.LocationRepository
	manufacturerRepo repository.ManufacturerRepository
	patientRepo      repository.PatientRepository
	warehouseID      string
	log              zerolog.Logger
	tracer           trace.Tracer
	now              func() time.Time
}

// NewRecorderUseCase construye el caso de uso. warehouseID es la ubicación que recibe las compras.
func NewRecorderUseCase(
	txRunner TxRunner,
	locationRepo repository.LocationRepository,
	manufacturerRepo repository.ManufacturerRepository,
	patientRepo repository.PatientRepository,
	warehouseID string,
	log zerolog.Logger,
) *RecorderUseCase {
	return &RecorderUseCase{
		txRunner:         txRunner,
		locationRepo:     locationRepo,
		manufacturerRepo: manufacturerRepo,
		patientRepo:      patientRepo,
		warehouseID:      warehouseID,
		log:              log.With().Str("component", "inventory_recorder").Logger(),
		tracer:           otel.Tracer(tracerName),
		now:              time.Now,
	}
}

// LineInput renglón de entrada común a todas las operaciones.
// UnitPrice es opcional en ventas (se toma del maestro) y obligatorio en compras.
type LineInput struct {
	MedicineID string
	Quantity   int64
	UnitPrice  *decimal.Decimal
}

func (uc *RecorderUseCase) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return uc.tracer.Start(ctx, "inventory."+name, trace.WithAttributes(attrs...))
}

// endSpan marca el span con el resultado de la operación.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// requireLocation valida que la ubicación exista.
func (uc *RecorderUseCase) requireLocation(ctx context.Context, id string) (*entity.Location, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return loc, nil
}

func (uc *RecorderUseCase) requireManufacturer(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	m, err := uc.manufacturerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	return nil
}

// validateLines exige al menos un renglón, medicamento y cantidad positiva.
func validateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, l := range lines {
		if l.MedicineID == "" || l.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// resolveLines carga los medicamentos (dentro de la tx) y arma los renglones del registro.
func resolveLines(ctx context.Context, medicineRepo repository.MedicineRepository, in []LineInput) ([]entity.LogLine, []*entity.Medicine, error) {
	lines := make([]entity.LogLine, 0, len(in))
	meds := make([]*entity.Medicine, 0, len(in))
	for _, l := range in {
		med, err := medicineRepo.GetByID(ctx, l.MedicineID)
		if err != nil {
			return nil, nil, err
		}
		if med == nil {
			return nil, nil, domain.ErrNotFound
		}
		line := entity.LogLine{
			MedicineID:   med.ID,
			MedicineName: med.Name,
			Quantity:     l.Quantity,
			UnitPrice:    med.Price,
			TaxRate:      med.TaxRate,
		}
		if l.UnitPrice != nil {
			line.UnitPrice = *l.UnitPrice
		}
		lines = append(lines, line)
		meds = append(meds, med)
	}
	return lines, meds, nil
}

func moveItems(lines []entity.LogLine) []MoveItem {
	items := make([]MoveItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, MoveItem{MedicineID: l.MedicineID, MedicineName: l.MedicineName, Quantity: l.Quantity})
	}
	return items
}

// WithClock reemplaza el reloj usado para OccurredAt (cargas históricas y pruebas).
func (uc *RecorderUseCase) WithClock(now func() time.Time) *RecorderUseCase {
	uc.now = now
	return uc
}

// WithTracerProvider usa un proveedor de trazas propio en lugar del global.
func (uc *RecorderUseCase) WithTracerProvider(tp trace.TracerProvider) *RecorderUseCase {
	uc.tracer = tp.Tracer(tracerName)
	return uc
}
