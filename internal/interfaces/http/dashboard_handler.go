package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Farmacia-api/internal/application/analytics"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetMetrics devuelve ventas del día y del mes, conteo de alertas y Top-5 medicamentos.
// GET /api/dashboard/metrics
//
// Las fechas se calculan en el servidor; el alcance son las ubicaciones del usuario.
func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	metrics, err := h.uc.GetMetrics(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(metrics)
}

// GetAISummary godoc
// @Summary      Resumen del tablero con IA
// @Description  Envía las métricas al proveedor configurado y devuelve titular, puntos
//
//	destacados y riesgos. Timeout interno de 10 s.
//
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardAISummaryDTO
// @Failure      408  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/dashboard/ai-summary [get]
func (h *DashboardHandler) GetAISummary(c *fiber.Ctx) error {
	summary, err := h.uc.Summarize(c.UserContext(), GetPrincipal(c))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{
				Code: "TIMEOUT", Message: "el servicio de IA tardó demasiado; intenta de nuevo",
			})
		}
		return writeError(c, err)
	}
	return c.JSON(summary)
}
