package inventory

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ManufacturerReturnInput devolución de mercancía al laboratorio (vencidos, retiros de lote).
// DebitNoteNo es obligatorio y funciona como clave de idempotencia.
type ManufacturerReturnInput struct {
	DebitNoteNo    string
	ManufacturerID string
	LocationID     string // vacío = bodega
	Reason         string
	Lines          []LineInput
	ActorID        string
}

// RecordManufacturerReturn descuenta stock de la ubicación y registra la nota débito al laboratorio.
func (uc *RecorderUseCase) RecordManufacturerReturn(ctx context.Context, in ManufacturerReturnInput) (ret *entity.ManufacturerReturn, err error) {
	locationID := in.LocationID
	if locationID == "" {
		locationID = uc.warehouseID
	}
	ctx, span := uc.startSpan(ctx, "RecordManufacturerReturn",
		attribute.String("debit_note.no", in.DebitNoteNo),
		attribute.String("location.id", locationID),
	)
	defer func() { endSpan(span, err) }()

	if in.DebitNoteNo == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	if err := uc.requireManufacturer(ctx, in.ManufacturerID); err != nil {
		return nil, err
	}
	loc, err := uc.requireLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		logRepo repository.LogRepository,
		medicineRepo repository.MedicineRepository,
	) error {
		lines, meds, err := resolveLines(ctx, medicineRepo, in.Lines)
		if err != nil {
			return err
		}
		for i := range lines {
			if in.Lines[i].UnitPrice == nil {
				lines[i].UnitPrice = meds[i].Cost
			}
		}
		rec := &entity.ManufacturerReturn{
			LogHeader: entity.LogHeader{
				ID:         in.DebitNoteNo,
				OccurredAt: now,
				ActorID:    in.ActorID,
				Lines:      lines,
			},
			LocationID:     loc.ID,
			ManufacturerID: in.ManufacturerID,
			Reason:         in.Reason,
			Total:          domaininv.LinesTotal(lines),
		}
		if err := logRepo.Append(ctx, rec); err != nil {
			return err
		}
		for _, l := range lines {
			if err := decrement(ctx, invRepo, loc.ID, l.MedicineID, l.Quantity); err != nil {
				return err
			}
		}
		ret = rec
		return nil
	})
	if err != nil {
		uc.logFailure("manufacturer_return", locationID, err)
		return nil, err
	}

	uc.log.Info().
		Str("debit_note_no", ret.ID).
		Str("manufacturer_id", ret.ManufacturerID).
		Str("location_id", ret.LocationID).
		Msg("devolución a laboratorio registrada")
	return ret, nil
}
