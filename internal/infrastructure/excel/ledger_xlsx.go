// Package excel exporta el libro de inventario a XLSX.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
)

var _ ports.LedgerSpreadsheetGenerator = (*LedgerGenerator)(nil)

const sheetName = "Libro"

var headings = []string{
	"Ubicación", "Código", "Medicamento", "Inicial", "Entradas", "Ventas",
	"Devoluciones", "Traslados salida", "Bajas", "Saldo",
}

// LedgerGenerator implementa ports.LedgerSpreadsheetGenerator con excelize.
type LedgerGenerator struct{}

// NewLedgerGenerator construye el generador.
func NewLedgerGenerator() *LedgerGenerator { return &LedgerGenerator{} }

// GenerateLedgerXLSX arma una hoja con periodo en la fila 1, encabezados en la 3 y una fila por (ubicación, medicamento).
func (g *LedgerGenerator) GenerateLedgerXLSX(_ context.Context, ledger *dto.LedgerResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	period := fmt.Sprintf("Libro de inventario %s a %s", ledger.From.Format("2006-01-02"), ledger.To.Format("2006-01-02"))
	if ledger.LocationID != "" {
		period += " · " + ledger.LocationID
	}
	if err := f.SetCellValue(sheetName, "A1", period); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	header := make([]any, len(headings))
	for i, h := range headings {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A3", &header); err != nil {
		return nil, err
	}

	rowNo := 4
	for _, r := range ledger.Rows {
		values := []any{
			r.LocationID, r.MedicineID, r.MedicineName,
			r.Opening, r.Received, r.Sold, r.Returned, r.TransferredOut, r.Damaged, r.Balance,
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNo)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}
		rowNo++
	}

	// totales con fórmulas para que la hoja siga cuadrando si el usuario filtra o edita
	if len(ledger.Rows) > 0 {
		last := rowNo - 1
		if err := f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNo), "TOTALES"); err != nil {
			return nil, err
		}
		for colNo := 4; colNo <= len(headings); colNo++ {
			colName, _ := excelize.ColumnNumberToName(colNo)
			cell := fmt.Sprintf("%s%d", colName, rowNo)
			if err := f.SetCellFormula(sheetName, cell, fmt.Sprintf("SUM(%s4:%s%d)", colName, colName, last)); err != nil {
				return nil, err
			}
		}
		if err := f.SetRowStyle(sheetName, rowNo, rowNo, bold); err != nil {
			return nil, err
		}
	}

	if err := f.SetRowStyle(sheetName, 3, 3, bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "C", "C", 32); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
