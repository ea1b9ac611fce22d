package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

func TestTxRunner_FailureRestoresLogsAndStock(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	inv := NewInventoryRepository(store)
	logs := NewLogRepository(store)
	require.NoError(t, inv.Increment(ctx, "STR002", "MED001", "", 10))
	require.NoError(t, logs.Append(ctx, &entity.Sale{LogHeader: entity.LogHeader{ID: "V-1"}}))

	boom := errors.New("boom")
	err := NewTxRunner(store).Run(ctx, func(
		invRepo repository.InventoryRepository,
		logRepo repository.LogRepository,
		_ repository.MedicineRepository,
	) error {
		require.NoError(t, logRepo.Append(ctx, &entity.Sale{LogHeader: entity.LogHeader{ID: "V-2"}}))
		require.NoError(t, invRepo.Increment(ctx, "STR002", "MED001", "", 5))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rec, err := inv.Get(ctx, "STR002", "MED001")
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.Quantity)
	all, err := logs.List(ctx, repository.LogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "V-1", all[0].Header().ID)

	// el historial anterior a la transacción fallida sigue deduplicando
	assert.Error(t, logs.Append(ctx, &entity.Sale{LogHeader: entity.LogHeader{ID: "V-1"}}))
	assert.NoError(t, logs.Append(ctx, &entity.Sale{LogHeader: entity.LogHeader{ID: "V-2"}}))
}
