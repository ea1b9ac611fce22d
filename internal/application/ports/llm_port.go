package ports

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Anthropic, mock) debe implementar esta interfaz; la aplicación
// solo conoce este contrato.
type LLMService interface {
	// SummarizeDashboard redacta un resumen corto de las métricas del tablero.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	SummarizeDashboard(ctx context.Context, metrics dto.DashboardMetricsDTO) (*dto.DashboardAISummaryDTO, error)
}

// LedgerPDFGenerator genera la representación PDF del libro de inventario.
type LedgerPDFGenerator interface {
	GenerateLedgerPDF(ctx context.Context, ledger *dto.LedgerResponse) ([]byte, error)
}

// LedgerSpreadsheetGenerator genera el libro de inventario como hoja de cálculo XLSX.
type LedgerSpreadsheetGenerator interface {
	GenerateLedgerXLSX(ctx context.Context, ledger *dto.LedgerResponse) ([]byte, error)
}
