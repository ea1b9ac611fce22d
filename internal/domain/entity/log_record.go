package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LogKind identifica la variante de un registro de operación.
type LogKind string

// Variantes de registros de operación (append-only).
const (
	LogKindSale               LogKind = "sale"
	LogKindPurchase           LogKind = "purchase"
	LogKindTransfer           LogKind = "transfer"
	LogKindReturn             LogKind = "return"              // tienda -> bodega
	LogKindManufacturerReturn LogKind = "manufacturer_return" // bodega -> laboratorio (nota débito)
	LogKindDamaged            LogKind = "damaged"
)

// Estados de un traslado.
const (
	TransferStatusCompleted = "completed"
)

// LogLine renglón de un registro: medicamento, cantidad y valores de la línea.
type LogLine struct {
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"` // precio de venta o costo de compra
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Amount       decimal.Decimal `json:"amount"` // Quantity * UnitPrice
}

// StockDelta efecto de un registro sobre una fila de inventario (positivo entra, negativo sale).
type StockDelta struct {
	LocationID string
	MedicineID string
	Quantity   int64
}

// LogRecord es la unión cerrada de variantes: Sale, Purchase, Transfer, ManufacturerReturn y
// DamagedStockEntry. Inmutable una vez persistido.
type LogRecord interface {
	Kind() LogKind
	Header() *LogHeader
	// StockDeltas describe lo que el registro movió en inventario.
	StockDeltas() []StockDelta
	isLogRecord()
}

// LogHeader campos comunes a todas las variantes.
type LogHeader struct {
	ID         string
	OccurredAt time.Time
	ActorID    string
	Lines      []LogLine
}

// Header devuelve el encabezado común.
func (h *LogHeader) Header() *LogHeader { return h }

func (h *LogHeader) isLogRecord() {}

func (h *LogHeader) deltas(locationID string, sign int64) []StockDelta {
	out := make([]StockDelta, 0, len(h.Lines))
	for _, l := range h.Lines {
		out = append(out, StockDelta{LocationID: locationID, MedicineID: l.MedicineID, Quantity: sign * l.Quantity})
	}
	return out
}

// Sale venta en una tienda.
type Sale struct {
	LogHeader
	StoreID     string
	PatientID   string
	PaymentMode string
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	GrandTotal  decimal.Decimal
}

func (s *Sale) Kind() LogKind             { return LogKindSale }
func (s *Sale) StockDeltas() []StockDelta { return s.deltas(s.StoreID, -1) }

// Purchase compra a un laboratorio; ID es el número de factura del proveedor.
type Purchase struct {
	LogHeader
	LocationID     string
	ManufacturerID string
	Total          decimal.Decimal
}

func (p *Purchase) Kind() LogKind             { return LogKindPurchase }
func (p *Purchase) StockDeltas() []StockDelta { return p.deltas(p.LocationID, 1) }

// Transfer traslado entre ubicaciones. IsReturn marca una devolución tienda -> bodega.
type Transfer struct {
	LogHeader
	FromID    string
	ToID      string
	Status    string
	Reference string
	IsReturn  bool
}

func (t *Transfer) Kind() LogKind {
	if t.IsReturn {
		return LogKindReturn
	}
	return LogKindTransfer
}

func (t *Transfer) StockDeltas() []StockDelta {
	return append(t.deltas(t.FromID, -1), t.deltas(t.ToID, 1)...)
}

// ManufacturerReturn devolución al laboratorio; ID es el número de nota débito.
type ManufacturerReturn struct {
	LogHeader
	LocationID     string
	ManufacturerID string
	Reason         string
	Total          decimal.Decimal
}

func (r *ManufacturerReturn) Kind() LogKind             { return LogKindManufacturerReturn }
func (r *ManufacturerReturn) StockDeltas() []StockDelta { return r.deltas(r.LocationID, -1) }

// DamagedStockEntry baja por daño o vencimiento.
type DamagedStockEntry struct {
	LogHeader
	LocationID string
	Reason     string
}

func (d *DamagedStockEntry) Kind() LogKind             { return LogKindDamaged }
func (d *DamagedStockEntry) StockDeltas() []StockDelta { return d.deltas(d.LocationID, -1) }

// LocationIDs devuelve las ubicaciones tocadas por el registro, sin repetir.
func LocationIDs(rec LogRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range rec.StockDeltas() {
		if !seen[d.LocationID] {
			seen[d.LocationID] = true
			out = append(out, d.LocationID)
		}
	}
	return out
}
