package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// stockRow fila de stock.csv.
type stockRow struct {
	LocationID string
	MedicineID string
	Quantity   int64
}

// openCSV lee el archivo completo; si no es UTF-8 válido lo decodifica como ISO-8859-1
// (exportaciones de hojas de cálculo en Windows).
func openCSV(path string) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseCSV(raw)
}

func parseCSV(raw []byte) ([][]string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	// la primera fila es el encabezado
	if len(records) > 0 {
		records = records[1:]
	}
	return records, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// locationsFromCSV columnas: id, name, kind, address.
func locationsFromCSV(records [][]string) []dto.CreateLocationRequest {
	out := make([]dto.CreateLocationRequest, 0, len(records))
	for _, rec := range records {
		if field(rec, 0) == "" {
			continue
		}
		out = append(out, dto.CreateLocationRequest{
			ID:      field(rec, 0),
			Name:    field(rec, 1),
			Kind:    strings.ToLower(field(rec, 2)),
			Address: field(rec, 3),
		})
	}
	return out
}

// medicinesFromCSV columnas: id, name, generic_name, hsn_code, price, tax_rate, default_min_stock.
// tax_rate acepta fracción (0.12) o porcentaje (12).
func medicinesFromCSV(records [][]string) ([]dto.CreateMedicineRequest, error) {
	out := make([]dto.CreateMedicineRequest, 0, len(records))
	for i, rec := range records {
		if field(rec, 0) == "" {
			continue
		}
		price, err := decimalField(field(rec, 4))
		if err != nil {
			return nil, fmt.Errorf("fila %d: price: %w", i+2, err)
		}
		tax, err := decimalField(field(rec, 5))
		if err != nil {
			return nil, fmt.Errorf("fila %d: tax_rate: %w", i+2, err)
		}
		if tax.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			tax = tax.Div(decimal.NewFromInt(100))
		}
		minStock, err := intField(field(rec, 6))
		if err != nil {
			return nil, fmt.Errorf("fila %d: default_min_stock: %w", i+2, err)
		}
		out = append(out, dto.CreateMedicineRequest{
			ID:              field(rec, 0),
			Name:            field(rec, 1),
			GenericName:     field(rec, 2),
			HSNCode:         field(rec, 3),
			Price:           price,
			TaxRate:         tax,
			DefaultMinStock: minStock,
		})
	}
	return out, nil
}

// stockFromCSV columnas: location_id, medicine_id, quantity.
func stockFromCSV(records [][]string) ([]stockRow, error) {
	out := make([]stockRow, 0, len(records))
	for i, rec := range records {
		if field(rec, 0) == "" {
			continue
		}
		qty, err := intField(field(rec, 2))
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("fila %d: quantity inválida %q", i+2, field(rec, 2))
		}
		out = append(out, stockRow{LocationID: field(rec, 0), MedicineID: field(rec, 1), Quantity: qty})
	}
	return out, nil
}

func decimalField(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func intField(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
