package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

func TestGenerateLedgerXLSX(t *testing.T) {
	ledger := &dto.LedgerResponse{
		From: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC),
		Rows: []dto.LedgerRowDTO{
			{LocationID: "STR002", MedicineID: "MED001", MedicineName: "Acetaminofén 500mg", Received: 30, Sold: 5, Balance: 25},
			{LocationID: "warehouse", MedicineID: "MED001", MedicineName: "Acetaminofén 500mg", Opening: 150, TransferredOut: 30, Damaged: 2, Balance: 118},
		},
	}

	raw, err := NewLedgerGenerator().GenerateLedgerXLSX(context.Background(), ledger)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Libro de inventario 2026-10-01 a 2026-10-31", title)

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 6)
	assert.Equal(t, headings, rows[2])
	assert.Equal(t, []string{"STR002", "MED001", "Acetaminofén 500mg", "0", "30", "5", "0", "0", "0", "25"}, rows[3])

	formula, err := f.GetCellFormula(sheetName, "J6")
	require.NoError(t, err)
	assert.Equal(t, "SUM(J4:J5)", formula)
}
