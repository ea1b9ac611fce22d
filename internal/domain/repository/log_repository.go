package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// LogFilter criterios para consultar registros de operación.
type LogFilter struct {
	Kinds      []entity.LogKind
	LocationID string     // registros que tocan esta ubicación
	From       *time.Time // OccurredAt >= From
	To         *time.Time // OccurredAt <= To
	Limit      int        // 0 = sin límite
	Offset     int
}

// LogRepository almacén append-only de registros (ventas, compras, traslados, devoluciones, bajas).
type LogRepository interface {
	// Append persiste el registro. Devuelve domain.ErrDuplicate si (kind, id) ya existe.
	Append(ctx context.Context, rec entity.LogRecord) error
	Get(ctx context.Context, kind entity.LogKind, id string) (entity.LogRecord, error)
	// List ordena por OccurredAt ascendente.
	List(ctx context.Context, filter LogFilter) ([]entity.LogRecord, error)
}
