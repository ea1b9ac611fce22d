package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineRequest renglón común de venta, compra, traslado y devolución.
type LineRequest struct {
	MedicineID string           `json:"medicine_id" validate:"required"`
	Quantity   int64            `json:"quantity" validate:"required,gt=0"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
}

// RecordSaleRequest body para POST /api/sales.
type RecordSaleRequest struct {
	InvoiceNo   string          `json:"invoice_no,omitempty" validate:"omitempty,max=64"`
	StoreID     string          `json:"store_id" validate:"required"`
	PatientID   string          `json:"patient_id,omitempty"`
	PaymentMode string          `json:"payment_mode" validate:"required,oneof=cash card upi credit"`
	Discount    decimal.Decimal `json:"discount"`
	Lines       []LineRequest   `json:"lines" validate:"required,min=1,dive"`
}

// RecordPurchaseRequest body para POST /api/purchases. unit_price = costo unitario de compra.
type RecordPurchaseRequest struct {
	InvoiceNo      string        `json:"invoice_no" validate:"required,max=64"`
	ManufacturerID string        `json:"manufacturer_id" validate:"required"`
	Lines          []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// RecordTransferRequest body para POST /api/transfers y POST /api/returns.
type RecordTransferRequest struct {
	Reference string        `json:"reference,omitempty" validate:"omitempty,max=64"`
	FromID    string        `json:"from_location_id" validate:"required"`
	ToID      string        `json:"to_location_id" validate:"required,nefield=FromID"`
	Lines     []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// RecordManufacturerReturnRequest body para POST /api/returns/manufacturer.
type RecordManufacturerReturnRequest struct {
	DebitNoteNo    string        `json:"debit_note_no" validate:"required,max=64"`
	ManufacturerID string        `json:"manufacturer_id" validate:"required"`
	LocationID     string        `json:"location_id,omitempty"`
	Reason         string        `json:"reason" validate:"max=500"`
	Lines          []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// RecordDamagedRequest body para POST /api/damaged.
type RecordDamagedRequest struct {
	LocationID string `json:"location_id" validate:"required"`
	MedicineID string `json:"medicine_id" validate:"required"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
	Reason     string `json:"reason" validate:"required,max=500"`
}

// LogLineResponse renglón de un registro de operación.
type LogLineResponse struct {
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Amount       decimal.Decimal `json:"amount"`
}

// LogRecordResponse salida uniforme de cualquier registro (venta, compra, traslado, devolución, baja).
// Los campos que no aplican al tipo se omiten.
type LogRecordResponse struct {
	ID             string            `json:"id"`
	Kind           string            `json:"kind"`
	OccurredAt     time.Time         `json:"occurred_at"`
	ActorID        string            `json:"actor_id"`
	LocationID     string            `json:"location_id,omitempty"`
	FromID         string            `json:"from_location_id,omitempty"`
	ToID           string            `json:"to_location_id,omitempty"`
	Status         string            `json:"status,omitempty"`
	PatientID      string            `json:"patient_id,omitempty"`
	ManufacturerID string            `json:"manufacturer_id,omitempty"`
	PaymentMode    string            `json:"payment_mode,omitempty"`
	Reason         string            `json:"reason,omitempty"`
	Subtotal       *decimal.Decimal  `json:"subtotal,omitempty"`
	Tax            *decimal.Decimal  `json:"tax,omitempty"`
	Discount       *decimal.Decimal  `json:"discount,omitempty"`
	Total          *decimal.Decimal  `json:"total,omitempty"`
	Lines          []LogLineResponse `json:"lines"`
}

// LogListResponse lista paginada de registros.
type LogListResponse struct {
	Items []LogRecordResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// InventoryItemResponse fila de stock de una ubicación.
type InventoryItemResponse struct {
	LocationID   string    `json:"location_id"`
	MedicineID   string    `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	Quantity     int64     `json:"quantity"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockAlertDTO medicamento en o bajo su umbral mínimo en una ubicación.
type StockAlertDTO struct {
	LocationID        string `json:"location_id"`
	LocationName      string `json:"location_name"`
	MedicineID        string `json:"medicine_id"`
	MedicineName      string `json:"medicine_name"`
	Quantity          int64  `json:"quantity"`
	Threshold         int64  `json:"threshold"`
	Deficit           int64  `json:"deficit"`
	Severity          string `json:"severity"`            // out_of_stock | low
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // umbral * 1.5 - cantidad
}

// LedgerRequest query de GET /api/reports/ledger.
type LedgerRequest struct {
	LocationID string `query:"location_id"`
	From       string `query:"from" validate:"required,datetime=2006-01-02"`
	To         string `query:"to" validate:"required,datetime=2006-01-02"`
	Format     string `query:"format" validate:"omitempty,oneof=json pdf xlsx"`
}

// LedgerRowDTO fila del libro de inventario.
type LedgerRowDTO struct {
	LocationID     string `json:"location_id"`
	MedicineID     string `json:"medicine_id"`
	MedicineName   string `json:"medicine_name"`
	Opening        int64  `json:"opening"`
	Received       int64  `json:"received"`
	Sold           int64  `json:"sold"`
	Returned       int64  `json:"returned"`
	TransferredOut int64  `json:"transferred_out"`
	Damaged        int64  `json:"damaged"`
	Balance        int64  `json:"balance"`
}

// LedgerResponse respuesta JSON del libro.
type LedgerResponse struct {
	LocationID string         `json:"location_id,omitempty"`
	From       time.Time      `json:"from"`
	To         time.Time      `json:"to"`
	Rows       []LedgerRowDTO `json:"rows"`
}

// LogQueryRequest query de GET /api/logs. Kinds separados por coma.
type LogQueryRequest struct {
	Kinds      string `query:"kind"`
	LocationID string `query:"location_id"`
	From       string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset     int    `query:"offset" validate:"omitempty,min=0"`
}
