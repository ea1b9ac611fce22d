package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

const (
	dashboardTopMedicines = 5                // número de medicamentos en el widget del dashboard
	summaryTimeout        = 10 * time.Second // las llamadas a LLMs pueden demorar varios segundos
)

// DashboardUseCase genera las métricas del día y del mes en curso y el resumen IA.
// Fuente de datos: registros de venta y alertas de stock, filtrados por las ubicaciones del principal.
type DashboardUseCase struct {
	logRepo repository.LogRepository
	alerts  *StockAlertUseCase
	llm     ports.LLMService
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso. llm puede ser nil si no hay IA configurada.
func NewDashboardUseCase(logRepo repository.LogRepository, alerts *StockAlertUseCase, llm ports.LLMService) *DashboardUseCase {
	return &DashboardUseCase{logRepo: logRepo, alerts: alerts, llm: llm, now: time.Now}
}

// GetMetrics construye el DashboardMetricsDTO.
//
// Dos consultas en paralelo:
//  1. Ventas del mes (de ahí salen también las de hoy y el Top-5)
//  2. Alertas de stock
func (uc *DashboardUseCase) GetMetrics(ctx context.Context, principal entity.Principal) (metrics *dto.DashboardMetricsDTO, err error) {
	ctx, span := tracer.Start(ctx, "analytics.DashboardMetrics")
	defer func() { endSpan(span, err) }()

	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type salesResult struct {
		recs []entity.LogRecord
		err  error
	}
	type alertsResult struct {
		alerts []dto.StockAlertDTO
		err    error
	}
	salesCh := make(chan salesResult, 1)
	alertsCh := make(chan alertsResult, 1)

	go func() {
		recs, err := uc.logRepo.List(ctx, repository.LogFilter{
			Kinds: []entity.LogKind{entity.LogKindSale},
			From:  &monthStart,
			To:    &now,
		})
		salesCh <- salesResult{recs, err}
	}()
	go func() {
		alerts, err := uc.alerts.StockAlerts(ctx, principal, "")
		alertsCh <- alertsResult{alerts, err}
	}()

	sales := <-salesCh
	alerts := <-alertsCh
	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", sales.err)
	}
	if alerts.err != nil {
		return nil, fmt.Errorf("dashboard: alertas: %w", alerts.err)
	}

	metrics = &dto.DashboardMetricsDTO{
		TodaySales:   decimal.Zero,
		MonthlySales: decimal.Zero,
		DateLabel:    monthLabel(now),
	}
	top := map[string]*dto.TopMedicineDTO{}
	for _, rec := range sales.recs {
		sale, ok := rec.(*entity.Sale)
		if !ok || !principal.CanAccessLocation(sale.StoreID) {
			continue
		}
		metrics.MonthlySales = metrics.MonthlySales.Add(sale.GrandTotal)
		metrics.MonthlySaleCount++
		if !sale.OccurredAt.Before(todayStart) {
			metrics.TodaySales = metrics.TodaySales.Add(sale.GrandTotal)
			metrics.TodaySaleCount++
		}
		for _, l := range sale.Lines {
			t, ok := top[l.MedicineID]
			if !ok {
				t = &dto.TopMedicineDTO{MedicineID: l.MedicineID, MedicineName: l.MedicineName, TotalRevenue: decimal.Zero}
				top[l.MedicineID] = t
			}
			t.QuantitySold += l.Quantity
			t.TotalRevenue = t.TotalRevenue.Add(l.Amount)
		}
	}
	metrics.TopMedicines = topMedicines(top, dashboardTopMedicines)

	for _, a := range alerts.alerts {
		if a.Severity == SeverityOutOfStock {
			metrics.OutOfStockCount++
		} else {
			metrics.LowStockCount++
		}
	}
	return metrics, nil
}

// ErrSummaryUnavailable no hay proveedor de IA configurado.
var ErrSummaryUnavailable = errors.New("resumen IA: servicio no configurado")

// Summarize pide al LLM un resumen de las métricas con timeout de 10 s.
func (uc *DashboardUseCase) Summarize(ctx context.Context, principal entity.Principal) (*dto.DashboardAISummaryDTO, error) {
	if uc.llm == nil {
		return nil, ErrSummaryUnavailable
	}
	metrics, err := uc.GetMetrics(ctx, principal)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	summary, err := uc.llm.SummarizeDashboard(ctx, *metrics)
	if err != nil {
		return nil, fmt.Errorf("resumen IA: %w", err)
	}
	summary.Metrics = *metrics
	summary.GeneratedAt = uc.now()
	return summary, nil
}

// topMedicines ordena por ingreso (mayor primero) y corta en n.
func topMedicines(top map[string]*dto.TopMedicineDTO, n int) []dto.TopMedicineDTO {
	out := make([]dto.TopMedicineDTO, 0, len(top))
	for _, t := range top {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalRevenue.Equal(out[j].TotalRevenue) {
			return out[i].TotalRevenue.GreaterThan(out[j].TotalRevenue)
		}
		return out[i].MedicineID < out[j].MedicineID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
