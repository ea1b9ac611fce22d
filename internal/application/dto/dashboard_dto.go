package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardMetricsDTO respuesta de GET /api/dashboard/metrics.
// Ventas del día y del mes en curso, alertas de stock y Top-5 medicamentos del mes,
// restringido a las ubicaciones que el usuario puede ver.
type DashboardMetricsDTO struct {
	TodaySales     decimal.Decimal `json:"today_sales"`
	TodaySaleCount int             `json:"today_sale_count"`

	MonthlySales     decimal.Decimal `json:"monthly_sales"`
	MonthlySaleCount int             `json:"monthly_sale_count"`

	LowStockCount   int `json:"low_stock_count"`
	OutOfStockCount int `json:"out_of_stock_count"`

	TopMedicines []TopMedicineDTO `json:"top_medicines"`

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}

// TopMedicineDTO medicamento más vendido del mes.
type TopMedicineDTO struct {
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	QuantitySold int64           `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// DashboardAISummaryDTO resumen en lenguaje natural generado por el LLM.
type DashboardAISummaryDTO struct {
	Headline    string              `json:"headline"`
	Highlights  []string            `json:"highlights"`
	Risks       []string            `json:"risks"`
	Metrics     DashboardMetricsDTO `json:"metrics"`
	GeneratedAt time.Time           `json:"generated_at"`
}
