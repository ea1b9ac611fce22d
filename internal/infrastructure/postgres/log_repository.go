package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.LogRepository = (*LogRepo)(nil)

// LogRepo registros de operación en una sola tabla append-only; la variante completa va en payload (JSONB).
type LogRepo struct {
	q Querier
}

// NewLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLogRepository(q Querier) *LogRepo {
	return &LogRepo{q: q}
}

// Append inserta el registro; (kind, id) repetido devuelve domain.ErrDuplicate.
func (r *LogRepo) Append(ctx context.Context, rec entity.LogRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode log record: %w", err)
	}
	h := rec.Header()
	query := `
		INSERT INTO log_records (kind, id, occurred_at, actor_id, location_ids, payload)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.q.Exec(ctx, query,
		string(rec.Kind()), h.ID, h.OccurredAt, h.ActorID, entity.LocationIDs(rec), payload,
	)
	if err != nil {
		return writeError("insert log record", err, domain.ErrDuplicate)
	}
	return nil
}

// Get devuelve el registro o nil si no existe.
func (r *LogRepo) Get(ctx context.Context, kind entity.LogKind, id string) (entity.LogRecord, error) {
	var payload []byte
	err := r.q.QueryRow(ctx,
		`SELECT payload FROM log_records WHERE kind = $1 AND id = $2`, string(kind), id,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get log record: %w", err)
	}
	return decodeLogRecord(kind, payload)
}

// List filtra por variante, ubicación y rango de fechas; orden cronológico.
func (r *LogRepo) List(ctx context.Context, f repository.LogFilter) ([]entity.LogRecord, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if len(f.Kinds) > 0 {
		kinds := make([]string, 0, len(f.Kinds))
		for _, k := range f.Kinds {
			kinds = append(kinds, string(k))
		}
		where = append(where, "kind = ANY("+arg(kinds)+")")
	}
	if f.LocationID != "" {
		where = append(where, arg(f.LocationID)+" = ANY(location_ids)")
	}
	if f.From != nil {
		where = append(where, "occurred_at >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "occurred_at <= "+arg(*f.To))
	}

	query := `SELECT kind, payload FROM log_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at, seq LIMIT NULLIF(" + arg(f.Limit) + ", 0) OFFSET " + arg(f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list log records: %w", err)
	}
	defer rows.Close()

	var out []entity.LogRecord
	for rows.Next() {
		var (
			kind    string
			payload []byte
		)
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("scan log record: %w", err)
		}
		rec, err := decodeLogRecord(entity.LogKind(kind), payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func decodeLogRecord(kind entity.LogKind, payload []byte) (entity.LogRecord, error) {
	var rec entity.LogRecord
	switch kind {
	case entity.LogKindSale:
		rec = &entity.Sale{}
	case entity.LogKindPurchase:
		rec = &entity.Purchase{}
	case entity.LogKindTransfer, entity.LogKindReturn:
		rec = &entity.Transfer{}
	case entity.LogKindManufacturerReturn:
		rec = &entity.ManufacturerReturn{}
	case entity.LogKindDamaged:
		rec = &entity.DamagedStockEntry{}
	default:
		return nil, fmt.Errorf("log record kind %q desconocido", kind)
	}
	if err := json.Unmarshal(payload, rec); err != nil {
		return nil, fmt.Errorf("decode %s log record: %w", kind, err)
	}
	return rec, nil
}
