package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

const defaultLogLimit = 50

// QueryUseCase consultas de solo lectura sobre stock y registros, acotadas a las ubicaciones del principal.
type QueryUseCase struct {
	stock   *StockService
	logRepo repository.LogRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(stock *StockService, logRepo repository.LogRepository) *QueryUseCase {
	return &QueryUseCase{stock: stock, logRepo: logRepo}
}

// scopeLocation resuelve la ubicación a consultar. Un usuario no admin sin ubicación explícita
// usa su única ubicación asignada.
func scopeLocation(principal entity.Principal, locationID string) (string, error) {
	if locationID == "" {
		if principal.IsAdmin() {
			return "", nil
		}
		if len(principal.LocationIDs) != 1 {
			return "", domain.ErrInvalidInput
		}
		return principal.LocationIDs[0], nil
	}
	if !principal.CanAccessLocation(locationID) {
		return "", domain.ErrForbidden
	}
	return locationID, nil
}

// Stock lista el inventario con cantidad > 0 de una ubicación.
func (uc *QueryUseCase) Stock(ctx context.Context, principal entity.Principal, locationID string) ([]dto.InventoryItemResponse, error) {
	loc, err := scopeLocation(principal, locationID)
	if err != nil {
		return nil, err
	}
	if loc == "" {
		return nil, domain.ErrInvalidInput
	}
	recs, err := uc.stock.ListByLocation(ctx, loc)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryItemResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.InventoryItemResponse{
			LocationID:   r.LocationID,
			MedicineID:   r.MedicineID,
			MedicineName: r.MedicineName,
			Quantity:     r.Quantity,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return out, nil
}

// Logs lista registros de operación filtrados por tipo, ubicación y rango de fechas (inclusive).
func (uc *QueryUseCase) Logs(ctx context.Context, principal entity.Principal, in dto.LogQueryRequest) (*dto.LogListResponse, error) {
	loc, err := scopeLocation(principal, in.LocationID)
	if err != nil {
		return nil, err
	}
	filter := repository.LogFilter{
		LocationID: loc,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLogLimit
	}
	if in.Kinds != "" {
		for _, k := range strings.Split(in.Kinds, ",") {
			kind := entity.LogKind(strings.TrimSpace(k))
			if !isKnownKind(kind) {
				return nil, domain.ErrInvalidInput
			}
			filter.Kinds = append(filter.Kinds, kind)
		}
	}
	if in.From != "" {
		from, err := time.Parse(time.DateOnly, in.From)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := time.Parse(time.DateOnly, in.To)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.ErrInvalidInput
	}

	recs, err := uc.logRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.LogListResponse{
		Items: make([]dto.LogRecordResponse, 0, len(recs)),
		Page:  dto.NewPage(filter.Limit, filter.Offset, len(recs)),
	}
	for _, r := range recs {
		out.Items = append(out.Items, *ToLogRecordResponse(r))
	}
	return out, nil
}

// GetLog devuelve un registro si toca alguna ubicación visible para el principal.
func (uc *QueryUseCase) GetLog(ctx context.Context, principal entity.Principal, kind, id string) (*dto.LogRecordResponse, error) {
	k := entity.LogKind(kind)
	if !isKnownKind(k) || id == "" {
		return nil, domain.ErrInvalidInput
	}
	rec, err := uc.logRepo.Get(ctx, k, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if !principal.IsAdmin() {
		visible := false
		for _, loc := range entity.LocationIDs(rec) {
			if principal.CanAccessLocation(loc) {
				visible = true
				break
			}
		}
		if !visible {
			return nil, domain.ErrForbidden
		}
	}
	return ToLogRecordResponse(rec), nil
}

func isKnownKind(k entity.LogKind) bool {
	switch k {
	case entity.LogKindSale, entity.LogKindPurchase, entity.LogKindTransfer,
		entity.LogKindReturn, entity.LogKindManufacturerReturn, entity.LogKindDamaged:
		return true
	}
	return false
}
