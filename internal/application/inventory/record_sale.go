package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// SaleInput entrada para registrar una venta en tienda.
// InvoiceNo es opcional; si viene se usa como ID y una repetición devuelve ErrDuplicate.
type SaleInput struct {
	InvoiceNo   string
	StoreID     string
	PatientID   string
	PaymentMode string
	Discount    decimal.Decimal
	Lines       []LineInput
	ActorID     string
}

// RecordSale descuenta el stock de la tienda por cada renglón y registra la venta con sus totales.
// Si algún renglón no tiene stock suficiente, la venta completa se revierte.
func (uc *RecorderUseCase) RecordSale(ctx context.Context, in SaleInput) (sale *entity.Sale, err error) {
	ctx, span := uc.startSpan(ctx, "RecordSale",
		attribute.String("location.id", in.StoreID),
		attribute.Int("lines", len(in.Lines)),
	)
	defer func() { endSpan(span, err) }()

	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	store, err := uc.requireLocation(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store.Kind != entity.LocationKindStore {
		return nil, domain.ErrInvalidInput
	}
	if in.PatientID != "" {
		patient, err := uc.patientRepo.GetByID(ctx, in.PatientID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, domain.ErrNotFound
		}
	}

	id := in.InvoiceNo
	if id == "" {
		id = uuid.New().String()
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
		totals, err := domaininv.CalculateSaleTotals(lines, in.Discount)
		if err != nil {
			return err
		}
		rec := &entity.Sale{
			LogHeader: entity.LogHeader{
				ID:         id,
				OccurredAt: now,
				ActorID:    in.ActorID,
				Lines:      lines,
			},
			StoreID:     store.ID,
			PatientID:   in.PatientID,
			PaymentMode: in.PaymentMode,
			Subtotal:    totals.Subtotal,
			Tax:         totals.Tax,
			Discount:    totals.Discount,
			GrandTotal:  totals.GrandTotal,
		}
		// Registro primero: un número de factura repetido aborta antes de tocar el stock
		if err := logRepo.Append(ctx, rec); err != nil {
			return err
		}
		for _, l := range lines {
			if err := decrement(ctx, invRepo, store.ID, l.MedicineID, l.Quantity); err != nil {
				return err
			}
		}
		sale = rec
		return nil
	})
	if err != nil {
		uc.logFailure("sale", in.StoreID, err)
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("location_id", sale.StoreID).
		Str("actor_id", in.ActorID).
		Str("grand_total", sale.GrandTotal.StringFixed(2)).
		Msg("venta registrada")
	return sale, nil
}

// logFailure deja rastro de operaciones rechazadas; stock insuficiente es un rechazo esperado.
func (uc *RecorderUseCase) logFailure(op, locationID string, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		uc.log.Warn().
			Str("op", op).
			Str("location_id", stockErr.LocationID).
			Str("medicine_id", stockErr.MedicineID).
			Int64("requested", stockErr.Requested).
			Int64("available", stockErr.Available).
			Msg("stock insuficiente")
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrDuplicate):
		uc.log.Debug().Str("op", op).Str("location_id", locationID).Err(err).Msg("operación rechazada")
	default:
		uc.log.Error().Str("op", op).Str("location_id", locationID).Err(err).Msg("error registrando operación")
	}
}
