// Package analytics contiene los agregadores de solo lectura: alertas de stock,
// libro de inventario y tablero con resumen IA.
package analytics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

const tracerName = "github.com/jhoicas/Farmacia-api/internal/application/analytics"

var tracer = otel.Tracer(tracerName)

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// visibleLocations resuelve las ubicaciones que el principal puede consultar.
// Con locationID vacío devuelve todas las permitidas; si no, solo esa (403 si no tiene acceso).
func visibleLocations(
	ctx context.Context,
	locationRepo repository.LocationRepository,
	principal entity.Principal,
	locationID string,
) ([]*entity.Location, error) {
	if locationID != "" {
		if !principal.CanAccessLocation(locationID) {
			return nil, domain.ErrForbidden
		}
		loc, err := locationRepo.GetByID(ctx, locationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
		return []*entity.Location{loc}, nil
	}
	all, err := locationRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Location, 0, len(all))
	for _, l := range all {
		if principal.CanAccessLocation(l.ID) {
			out = append(out, l)
		}
	}
	return out, nil
}
