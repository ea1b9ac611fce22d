package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TransferInput entrada para trasladar stock entre ubicaciones.
// Reference es opcional; si viene se usa como ID del traslado y una repetición devuelve ErrDuplicate.
type TransferInput struct {
	Reference string
	FromID    string
	ToID      string
	Lines     []LineInput
	ActorID   string
}

// RecordTransfer mueve stock de una ubicación a otra (normalmente bodega → tienda).
func (uc *RecorderUseCase) RecordTransfer(ctx context.Context, in TransferInput) (*entity.Transfer, error) {
	return uc.recordMove(ctx, in, false)
}

// RecordReturn devuelve stock de una tienda a la bodega.
func (uc *RecorderUseCase) RecordReturn(ctx context.Context, in TransferInput) (*entity.Transfer, error) {
	return uc.recordMove(ctx, in, true)
}

func (uc *RecorderUseCase) recordMove(ctx context.Context, in TransferInput, isReturn bool) (transfer *entity.Transfer, err error) {
	op, spanName := "transfer", "RecordTransfer"
	if isReturn {
		op, spanName = "return", "RecordReturn"
	}
	ctx, span := uc.startSpan(ctx, spanName,
		attribute.String("location.from", in.FromID),
		attribute.String("location.to", in.ToID),
		attribute.Int("lines", len(in.Lines)),
	)
	defer func() { endSpan(span, err) }()

	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	if in.FromID == in.ToID {
		return nil, domain.ErrInvalidInput
	}
	from, err := uc.requireLocation(ctx, in.FromID)
	if err != nil {
		return nil, err
	}
	to, err := uc.requireLocation(ctx, in.ToID)
	if err != nil {
		return nil, err
	}
	if isReturn && (from.Kind != entity.LocationKindStore || to.Kind != entity.LocationKindWarehouse) {
		return nil, domain.ErrInvalidInput
	}

	id := in.Reference
	if id == "" {
		id = uuid.New().String()
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
		// Los traslados se valorizan a costo
		for i := range lines {
			if in.Lines[i].UnitPrice == nil {
				lines[i].UnitPrice = meds[i].Cost
			}
		}
		rec := &entity.Transfer{
			LogHeader: entity.LogHeader{
				ID:         id,
				OccurredAt: now,
				ActorID:    in.ActorID,
				Lines:      lines,
			},
			FromID:    from.ID,
			ToID:      to.ID,
			Status:    entity.TransferStatusCompleted,
			Reference: in.Reference,
			IsReturn:  isReturn,
		}
		if err := logRepo.Append(ctx, rec); err != nil {
			return err
		}
		if err := move(ctx, invRepo, from.ID, to.ID, moveItems(lines)); err != nil {
			return err
		}
		transfer = rec
		return nil
	})
	if err != nil {
		uc.logFailure(op, in.FromID, err)
		return nil, err
	}

	uc.log.Info().
		Str("op", op).
		Str("transfer_id", transfer.ID).
		Str("from", transfer.FromID).
		Str("to", transfer.ToID).
		Int("lines", len(transfer.Lines)).
		Msg("traslado registrado")
	return transfer, nil
}
