// Package pdf genera la versión imprimible del libro de inventario.
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: título + ubicación         │  Periodo + fecha emisión   │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TABLA: Ubic. | Medicamento | Inicial | Entradas | Ventas | ...  │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TOTALES por columna                                             │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
)

var _ ports.LedgerPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 110, Blue: 90}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorStripe  = &props.Color{Red: 236, Green: 244, Blue: 241}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.LedgerPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	title string
	now   func() time.Time
}

// NewMarotoPDFGenerator construye el generador; title aparece en el encabezado (nombre de la farmacia).
func NewMarotoPDFGenerator(title string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{title: title, now: time.Now}
}

// GenerateLedgerPDF genera el PDF del libro y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateLedgerPDF(_ context.Context, ledger *dto.LedgerResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Libro de inventario", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, ledger, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(ledger.Rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(ledger.Rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, ledger *dto.LedgerResponse, issued time.Time) core.Row {
	scope := "Todas las ubicaciones"
	if ledger.LocationID != "" {
		scope = "Ubicación: " + ledger.LocationID
	}
	period := fmt.Sprintf("Periodo: %s a %s", ledger.From.Format("02/01/2006"), ledger.To.Format("02/01/2006"))

	return row.New(16).Add(
		col.New(7).Add(
			text.New(nonEmpty(title, "Farmacia"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("LIBRO DE INVENTARIO · "+scope, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(period, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Emitido: "+issued.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

var columns = []struct {
	label string
	size  int
}{
	{"Ubic.", 1}, {"Medicamento", 3}, {"Inicial", 1}, {"Entradas", 1}, {"Ventas", 1},
	{"Devol.", 1}, {"Trasl. salida", 1}, {"Bajas", 1}, {"Saldo", 2},
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(columns))
	for i, c := range columns {
		a := align.Right
		if i < 2 {
			a = align.Left
		}
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func rowValues(r dto.LedgerRowDTO) []string {
	return []string{
		r.LocationID, nonEmpty(r.MedicineName, r.MedicineID),
		formatQty(r.Opening), formatQty(r.Received), formatQty(r.Sold),
		formatQty(r.Returned), formatQty(r.TransferredOut), formatQty(r.Damaged), formatQty(r.Balance),
	}
}

func valueRow(values []string, style fontstyle.Type, stripe bool) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for i, c := range columns {
		a := align.Right
		if i < 2 {
			a = align.Left
		}
		cols = append(cols, col.New(c.size).Add(text.New(values[i], props.Text{
			Size: 8, Style: style, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	r := row.New(6).Add(cols...)
	if stripe {
		r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

func tableDetailRows(rows []dto.LedgerRowDTO) []core.Row {
	if len(rows) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos ni existencias en el periodo.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		))}
	}
	out := make([]core.Row, 0, len(rows))
	for i, r := range rows {
		out = append(out, valueRow(rowValues(r), fontstyle.Normal, i%2 == 1))
	}
	return out
}

func totalsRow(rows []dto.LedgerRowDTO) core.Row {
	var t dto.LedgerRowDTO
	for _, r := range rows {
		t.Opening += r.Opening
		t.Received += r.Received
		t.Sold += r.Sold
		t.Returned += r.Returned
		t.TransferredOut += r.TransferredOut
		t.Damaged += r.Damaged
		t.Balance += r.Balance
	}
	values := rowValues(t)
	values[0], values[1] = "", "TOTALES"
	return valueRow(values, fontstyle.Bold, false)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty inserta puntos de miles. Ej: 1000000 → "1.000.000", -2500 → "-2.500".
func formatQty(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
