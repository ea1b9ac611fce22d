package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.LogRepository = (*LogRepo)(nil)

// LogRepo almacén append-only de registros de operación.
type LogRepo struct {
	store *Store
	inTx  bool
}

// NewLogRepository construye el repositorio fuera de transacción.
func NewLogRepository(store *Store) *LogRepo {
	return &LogRepo{store: store}
}

func logKey(kind entity.LogKind, id string) string {
	return string(kind) + "/" + id
}

func (r *LogRepo) Append(_ context.Context, rec entity.LogRecord) error {
	return r.store.with(r.inTx, func(st *state) error {
		key := logKey(rec.Kind(), rec.Header().ID)
		if _, dup := st.logKeys[key]; dup {
			return domain.ErrDuplicate
		}
		st.logKeys[key] = struct{}{}
		st.logs = append(st.logs, rec)
		return nil
	})
}

func (r *LogRepo) Get(_ context.Context, kind entity.LogKind, id string) (entity.LogRecord, error) {
	var out entity.LogRecord
	err := r.store.with(r.inTx, func(st *state) error {
		for _, rec := range st.logs {
			if rec.Kind() == kind && rec.Header().ID == id {
				out = rec
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *LogRepo) List(_ context.Context, f repository.LogFilter) ([]entity.LogRecord, error) {
	var out []entity.LogRecord
	err := r.store.with(r.inTx, func(st *state) error {
		for _, rec := range st.logs {
			if matches(rec, f) {
				out = append(out, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Header().OccurredAt.Before(out[j].Header().OccurredAt)
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func matches(rec entity.LogRecord, f repository.LogFilter) bool {
	if len(f.Kinds) > 0 && !slices.Contains(f.Kinds, rec.Kind()) {
		return false
	}
	at := rec.Header().OccurredAt
	if f.From != nil && at.Before(*f.From) {
		return false
	}
	if f.To != nil && at.After(*f.To) {
		return false
	}
	if f.LocationID != "" && !slices.Contains(entity.LocationIDs(rec), f.LocationID) {
		return false
	}
	return true
}
