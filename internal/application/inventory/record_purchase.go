package inventory

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// PurchaseInput entrada para registrar una compra a un laboratorio.
// InvoiceNo (factura del proveedor) es obligatorio y funciona como clave de idempotencia.
type PurchaseInput struct {
	InvoiceNo      string
	ManufacturerID string
	Lines          []LineInput // UnitPrice = costo unitario, obligatorio
	ActorID        string
}

// RecordPurchase suma el stock en bodega, recalcula el costo promedio ponderado y registra la compra.
// Repetir un InvoiceNo devuelve domain.ErrDuplicate sin volver a sumar stock.
func (uc *RecorderUseCase) RecordPurchase(ctx context.Context, in PurchaseInput) (purchase *entity.Purchase, err error) {
	ctx, span := uc.startSpan(ctx, "RecordPurchase",
		attribute.String("invoice.no", in.InvoiceNo),
		attribute.String("location.id", uc.warehouseID),
	)
	defer func() { endSpan(span, err) }()

	if in.InvoiceNo == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	for _, l := range in.Lines {
		if l.UnitPrice == nil || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	if err := uc.requireManufacturer(ctx, in.ManufacturerID); err != nil {
		return nil, err
	}
	warehouse, err := uc.requireLocation(ctx, uc.warehouseID)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		logRepo repository.LogRepository,
		medicineRepo repository.MedicineRepository,
	) error {
		lines, _, err := resolveLines(ctx, medicineRepo, in.Lines)
		if err != nil {
			return err
		}
		rec := &entity.Purchase{
			LogHeader: entity.LogHeader{
				ID:         in.InvoiceNo,
				OccurredAt: now,
				ActorID:    in.ActorID,
				Lines:      lines,
			},
			LocationID:     warehouse.ID,
			ManufacturerID: in.ManufacturerID,
			Total:          domaininv.LinesTotal(lines),
		}
		if err := logRepo.Append(ctx, rec); err != nil {
			return err
		}
		for _, l := range lines {
			if err := uc.applyPurchaseCost(ctx, invRepo, medicineRepo, warehouse.ID, l); err != nil {
				return err
			}
			if err := increment(ctx, invRepo, warehouse.ID, l.MedicineID, l.MedicineName, l.Quantity); err != nil {
				return err
			}
		}
		purchase = rec
		return nil
	})
	if err != nil {
		uc.logFailure("purchase", uc.warehouseID, err)
		return nil, err
	}

	uc.log.Info().
		Str("invoice_no", purchase.ID).
		Str("manufacturer_id", purchase.ManufacturerID).
		Int("lines", len(purchase.Lines)).
		Msg("compra registrada")
	return purchase, nil
}

// applyPurchaseCost actualiza el costo promedio con el stock de bodega previo a la entrada.
// La fila del medicamento queda bloqueada antes de leer costo y cantidad, así compras
// concurrentes del mismo medicamento se promedian en serie. Solo cuenta el stock de bodega.
func (uc *RecorderUseCase) applyPurchaseCost(
	ctx context.Context,
	invRepo repository.InventoryRepository,
	medicineRepo repository.MedicineRepository,
	locationID string,
	line entity.LogLine,
) error {
	med, err := medicineRepo.GetForUpdate(ctx, line.MedicineID)
	if err != nil {
		return err
	}
	if med == nil {
		return domain.ErrNotFound
	}
	var current int64
	rec, err := invRepo.Get(ctx, locationID, line.MedicineID)
	if err != nil {
		return err
	}
	if rec != nil {
		current = rec.Quantity
	}
	newCost := domaininv.CostCalculator(current, med.Cost, line.Quantity, line.UnitPrice)
	return medicineRepo.UpdateCost(ctx, med.ID, newCost)
}
