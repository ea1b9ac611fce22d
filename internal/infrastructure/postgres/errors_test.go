package postgres

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

func TestWriteError(t *testing.T) {
	unique := &pgconn.PgError{Code: codeUniqueViolation}
	assert.ErrorIs(t, writeError("insert medicine", unique, domain.ErrDuplicate), domain.ErrDuplicate)
	assert.ErrorIs(t, writeError("insert user", unique, domain.ErrEmailAlreadyExists), domain.ErrEmailAlreadyExists)

	check := &pgconn.PgError{Code: codeCheckViolation}
	err := writeError("decrement", check, domain.ErrDuplicate)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "decrement")

	other := errors.New("conexión cerrada")
	err = writeError("insert log record", other, domain.ErrDuplicate)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
}

func TestRedactDSN(t *testing.T) {
	out := RedactDSN("postgres://farmacia:s3cr3t@db:5432/farmacia?sslmode=disable")
	assert.NotContains(t, out, "s3cr3t")
	assert.Contains(t, out, "db:5432/farmacia")
}

func TestDecodeLogRecord_ReturnKeepsKind(t *testing.T) {
	in := &entity.Transfer{
		LogHeader: entity.LogHeader{ID: "RET-1", Lines: []entity.LogLine{{MedicineID: "MED001", Quantity: 5}}},
		FromID:    "STR002",
		ToID:      "warehouse",
		IsReturn:  true,
	}
	payload, err := json.Marshal(in)
	require.NoError(t, err)

	rec, err := decodeLogRecord(entity.LogKindReturn, payload)
	require.NoError(t, err)
	assert.Equal(t, entity.LogKindReturn, rec.Kind())
	assert.Equal(t, []string{"STR002", "warehouse"}, entity.LocationIDs(rec))

	_, err = decodeLogRecord("desconocido", payload)
	assert.Error(t, err)
}
