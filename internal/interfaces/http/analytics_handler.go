package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/analytics"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// AnalyticsHandler maneja alertas de stock y el libro de inventario.
type AnalyticsHandler struct {
	alerts *analytics.StockAlertUseCase
	ledger *analytics.LedgerUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(alerts *analytics.StockAlertUseCase, ledger *analytics.LedgerUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{alerts: alerts, ledger: ledger}
}

// GetAlerts godoc
// @Summary      Alertas de stock mínimo
// @Description  Medicamentos en o bajo su umbral en las ubicaciones visibles para el usuario,
//
//	ordenados por ubicación y déficit.
//
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Success      200  {array}   dto.StockAlertDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/alerts [get]
func (h *AnalyticsHandler) GetAlerts(c *fiber.Ctx) error {
	list, err := h.alerts.StockAlerts(c.UserContext(), GetPrincipal(c), c.Query("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"alerts": list,
	})
}

// GetLedger godoc
// @Summary      Libro de inventario
// @Description  Por ubicación y medicamento: saldo inicial, entradas, ventas, devoluciones,
//
//	traslados, bajas y saldo final del período. format=pdf|xlsx descarga el documento.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Ubicación (vacío = todas las visibles)"
// @Param        from         query  string  true   "Inicio YYYY-MM-DD"
// @Param        to           query  string  true   "Fin YYYY-MM-DD (inclusive)"
// @Param        format       query  string  false  "json (default), pdf, xlsx"
// @Success      200  {object}  dto.LedgerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/ledger [get]
func (h *AnalyticsHandler) GetLedger(c *fiber.Ctx) error {
	var req dto.LedgerRequest
	if ok, err := parseQuery(c, &req); !ok {
		return err
	}
	from, _ := time.Parse(time.DateOnly, req.From)
	to, _ := time.Parse(time.DateOnly, req.To)
	to = to.Add(24*time.Hour - time.Nanosecond)

	p := GetPrincipal(c)
	if req.Format == "" || req.Format == "json" {
		report, err := h.ledger.LedgerReport(c.UserContext(), p, req.LocationID, from, to)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(report)
	}

	doc, err := h.ledger.ExportLedger(c.UserContext(), p, req.LocationID, from, to, req.Format)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
	return c.Send(doc.Content)
}
