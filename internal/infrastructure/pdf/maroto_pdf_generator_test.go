package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "0", formatQty(0))
	assert.Equal(t, "999", formatQty(999))
	assert.Equal(t, "1.000", formatQty(1000))
	assert.Equal(t, "1.000.000", formatQty(1000000))
	assert.Equal(t, "-2.500", formatQty(-2500))
}

func TestGenerateLedgerPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("Farmacia Central")
	ledger := &dto.LedgerResponse{
		LocationID: "STR002",
		From:       time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC),
		Rows: []dto.LedgerRowDTO{
			{LocationID: "STR002", MedicineID: "MED001", MedicineName: "Acetaminofén 500mg", Received: 30, Sold: 5, Balance: 25},
			{LocationID: "STR002", MedicineID: "MED002", Opening: 10, Balance: 10},
		},
	}

	out, err := g.GenerateLedgerPDF(context.Background(), ledger)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	empty, err := g.GenerateLedgerPDF(context.Background(), &dto.LedgerResponse{})
	require.NoError(t, err)
	assert.NotEmpty(t, empty)
}
