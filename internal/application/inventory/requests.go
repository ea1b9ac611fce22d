package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Adaptadores request HTTP -> caso de uso. Usar desde handlers con el actor ya autenticado.

func linesFromRequest(in []dto.LineRequest) []LineInput {
	out := make([]LineInput, 0, len(in))
	for _, l := range in {
		out = append(out, LineInput{MedicineID: l.MedicineID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return out
}

// RecordSaleFromRequest adapta dto.RecordSaleRequest a RecordSale.
func (uc *RecorderUseCase) RecordSaleFromRequest(ctx context.Context, actorID string, in dto.RecordSaleRequest) (*dto.LogRecordResponse, error) {
	sale, err := uc.RecordSale(ctx, SaleInput{
		InvoiceNo:   in.InvoiceNo,
		StoreID:     in.StoreID,
		PatientID:   in.PatientID,
		PaymentMode: in.PaymentMode,
		Discount:    in.Discount,
		Lines:       linesFromRequest(in.Lines),
		ActorID:     actorID,
	})
	if err != nil {
		return nil, err
	}
	return ToLogRecordResponse(sale), nil
}

// RecordPurchaseFromRequest adapta dto.RecordPurchaseRequest a RecordPurchase.
func (uc *RecorderUseCase) RecordPurchaseFromRequest(ctx context.Context, actorID string, in dto.RecordPurchaseRequest) (*dto.LogRecordResponse, error) {
	p, err := uc.RecordPurchase(ctx, PurchaseInput{
		InvoiceNo:      in.InvoiceNo,
		ManufacturerID: in.ManufacturerID,
		Lines:          linesFromRequest(in.Lines),
		ActorID:        actorID,
	})
	if err != nil {
		return nil, err
	}
	return ToLogRecordResponse(p), nil
}

func transferInput(actorID string, in dto.RecordTransferRequest) TransferInput {
	return TransferInput{
		Reference: in.Reference,
		FromID:    in.FromID,
		ToID:      in.ToID,
		Lines:     linesFromRequest(in.Lines),
		ActorID:   actorID,
	}
}

// RecordTransferFromRequest adapta dto.RecordTransferRequest a RecordTransfer.
func (uc *RecorderUseCase) RecordTransferFromRequest(ctx context.Context, actorID string, in dto.RecordTransferRequest) (*dto.LogRecordResponse, error) {
	t, err := uc.RecordTransfer(ctx, transferInput(actorID, in))
	if err != nil {
		return nil, err
	}
	return ToLogRecordResponse(t), nil
}

// RecordReturnFromRequest adapta dto.RecordTransferRequest a RecordReturn.
func (uc *RecorderUseCase) RecordReturnFromRequest(ctx context.Context, actorID string, in dto.RecordTransferRequest) (*dto.LogRecordResponse, error) {
	t, err := uc.RecordReturn(ctx, transferInput(actorID, in))
	if err != nil {
		return nil, err
	}
	return ToLogRecordResponse(t), nil
}

// RecordManufacturerReturnFromRequest adapta dto.RecordManufacturerReturnRequest a RecordManufacturerReturn.
func (uc *RecorderUseCase) RecordManufacturerReturnFromRequest(ctx context.Context, actorID string, in dto.RecordManufacturerReturnRequest) (*dto.LogRecordResponse, error) {
	r, err := uc.RecordManufacturerReturn(ctx, ManufacturerReturnInput{
		DebitNoteNo:    in.DebitNoteNo,
		ManufacturerID: in.ManufacturerID,
		LocationID:     in.LocationID,
		Reason:         in.Reason,
		Lines:          linesFromRequest(in.Lines),
		ActorID:        actorID,
	})
	if err != nil {
		return nil, err
	}
	return ToLogRecordResponse(r), nil
}

// RecordDamagedFromRequest adapta dto.RecordDamagedRequest a RecordDamagedStock.
func (uc *RecorderUseCase) RecordDamagedFromRequest(ctx context.Context, actorID string, in dto.RecordDamagedRequest) (*dto.LogRecordResponse, error) {
	d, err := uc.RecordDamagedStock(ctx, DamagedStockInput{
		LocationID: in.LocationID,
		MedicineID: in.MedicineID,
		Quantity:   in.Quantity,
		Reason:     in.Reason,
		ActorID:    actorID,
	})
	if err != nil {
		return nil, err
	}
	return ToLogRecordResponse(d), nil
}

// ToLogRecordResponse aplana cualquier variante de registro a la salida HTTP.
func ToLogRecordResponse(rec entity.LogRecord) *dto.LogRecordResponse {
	h := rec.Header()
	out := &dto.LogRecordResponse{
		ID:         h.ID,
		Kind:       string(rec.Kind()),
		OccurredAt: h.OccurredAt,
		ActorID:    h.ActorID,
		Lines:      make([]dto.LogLineResponse, 0, len(h.Lines)),
	}
	for _, l := range h.Lines {
		out.Lines = append(out.Lines, dto.LogLineResponse{
			MedicineID:   l.MedicineID,
			MedicineName: l.MedicineName,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			TaxRate:      l.TaxRate,
			Amount:       l.Amount,
		})
	}
	dec := func(d decimal.Decimal) *decimal.Decimal { return &d }

	switch r := rec.(type) {
	case *entity.Sale:
		out.LocationID = r.StoreID
		out.PatientID = r.PatientID
		out.PaymentMode = r.PaymentMode
		out.Subtotal = dec(r.Subtotal)
		out.Tax = dec(r.Tax)
		out.Discount = dec(r.Discount)
		out.Total = dec(r.GrandTotal)
	case *entity.Purchase:
		out.LocationID = r.LocationID
		out.ManufacturerID = r.ManufacturerID
		out.Total = dec(r.Total)
	case *entity.Transfer:
		out.FromID = r.FromID
		out.ToID = r.ToID
		out.Status = r.Status
	case *entity.ManufacturerReturn:
		out.LocationID = r.LocationID
		out.ManufacturerID = r.ManufacturerID
		out.Reason = r.Reason
		out.Total = dec(r.Total)
	case *entity.DamagedStockEntry:
		out.LocationID = r.LocationID
		out.Reason = r.Reason
	}
	return out
}
