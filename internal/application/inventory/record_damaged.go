package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// DamagedStockInput baja de stock por daño, vencimiento o pérdida.
type DamagedStockInput struct {
	LocationID string
	MedicineID string
	Quantity   int64
	Reason     string
	ActorID    string
}

// RecordDamagedStock descuenta la cantidad dañada y deja el motivo en el registro.
func (uc *RecorderUseCase) RecordDamagedStock(ctx context.Context, in DamagedStockInput) (entry *entity.DamagedStockEntry, err error) {
	ctx, span := uc.startSpan(ctx, "RecordDamagedStock",
		attribute.String("location.id", in.LocationID),
		attribute.String("medicine.id", in.MedicineID),
		attribute.Int64("quantity", in.Quantity),
	)
	defer func() { endSpan(span, err) }()

	lineIn := []LineInput{{MedicineID: in.MedicineID, Quantity: in.Quantity}}
	if err := validateLines(lineIn); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	loc, err := uc.requireLocation(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		logRepo repository.LogRepository,
		medicineRepo repository.MedicineRepository,
	) error {
		lines, meds, err := resolveLines(ctx, medicineRepo, lineIn)
		if err != nil {
			return err
		}
		lines[0].UnitPrice = meds[0].Cost
		rec := &entity.DamagedStockEntry{
			LogHeader: entity.LogHeader{
				ID:         uuid.New().String(),
				OccurredAt: now,
				ActorID:    in.ActorID,
				Lines:      lines,
			},
			LocationID: loc.ID,
			Reason:     strings.TrimSpace(in.Reason),
		}
		if err := logRepo.Append(ctx, rec); err != nil {
			return err
		}
		if err := decrement(ctx, invRepo, loc.ID, in.MedicineID, in.Quantity); err != nil {
			return err
		}
		entry = rec
		return nil
	})
	if err != nil {
		uc.logFailure("damaged", in.LocationID, err)
		return nil, err
	}

	uc.log.Info().
		Str("entry_id", entry.ID).
		Str("location_id", entry.LocationID).
		Str("medicine_id", in.MedicineID).
		Int64("quantity", in.Quantity).
		Str("reason", entry.Reason).
		Msg("baja de stock registrada")
	return entry, nil
}
