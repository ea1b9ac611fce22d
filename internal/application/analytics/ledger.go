package analytics

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Formatos de exportación del libro.
const (
	LedgerFormatPDF  = "pdf"
	LedgerFormatXLSX = "xlsx"
)

// LedgerExport documento exportado listo para enviar.
type LedgerExport struct {
	Content     []byte
	ContentType string
	Filename    string
}

// LedgerUseCase reconstruye el libro de inventario de un período desde el stock actual
// y los registros de operación. Es un recálculo completo en cada consulta.
type LedgerUseCase struct {
	locationRepo repository.LocationRepository
	invRepo      repository.InventoryRepository
	logRepo      repository.LogRepository
	pdf          ports.LedgerPDFGenerator
	xlsx         ports.LedgerSpreadsheetGenerator
}

// NewLedgerUseCase construye el caso de uso. pdf y xlsx pueden ser nil si no se exporta.
func NewLedgerUseCase(
	locationRepo repository.LocationRepository,
	invRepo repository.InventoryRepository,
	logRepo repository.LogRepository,
	pdf ports.LedgerPDFGenerator,
	xlsx ports.LedgerSpreadsheetGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		locationRepo: locationRepo,
		invRepo:      invRepo,
		logRepo:      logRepo,
		pdf:          pdf,
		xlsx:         xlsx,
	}
}

// LedgerReport devuelve por (ubicación, medicamento) saldo inicial, entradas, ventas,
// devoluciones, traslados, bajas y saldo final del período [from, to].
func (uc *LedgerUseCase) LedgerReport(
	ctx context.Context,
	principal entity.Principal,
	locationID string,
	from, to time.Time,
) (report *dto.LedgerResponse, err error) {
	ctx, span := tracer.Start(ctx, "analytics.LedgerReport", trace.WithAttributes(
		attribute.String("location.id", locationID),
		attribute.String("from", from.Format(time.DateOnly)),
		attribute.String("to", to.Format(time.DateOnly)),
	))
	defer func() { endSpan(span, err) }()

	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	locations, err := visibleLocations(ctx, uc.locationRepo, principal, locationID)
	if err != nil {
		return nil, err
	}

	visible := make([]string, 0, len(locations))
	var snapshot []*entity.InventoryRecord
	for _, loc := range locations {
		rows, err := uc.invRepo.ListByLocation(ctx, loc.ID)
		if err != nil {
			return nil, fmt.Errorf("libro: stock de %s: %w", loc.ID, err)
		}
		snapshot = append(snapshot, rows...)
		visible = append(visible, loc.ID)
	}

	logs, err := uc.logRepo.List(ctx, repository.LogFilter{LocationID: locationID, From: &from})
	if err != nil {
		return nil, fmt.Errorf("libro: registros: %w", err)
	}

	rows := domaininv.BuildLedger(snapshot, logs, from, to)
	report = &dto.LedgerResponse{
		LocationID: locationID,
		From:       from,
		To:         to,
		Rows:       make([]dto.LedgerRowDTO, 0, len(rows)),
	}
	for _, r := range rows {
		// un traslado también toca la ubicación contraria, que puede no ser visible
		if !slices.Contains(visible, r.LocationID) {
			continue
		}
		report.Rows = append(report.Rows, dto.LedgerRowDTO{
			LocationID:     r.LocationID,
			MedicineID:     r.MedicineID,
			MedicineName:   r.MedicineName,
			Opening:        r.Opening,
			Received:       r.Received,
			Sold:           r.Sold,
			Returned:       r.Returned,
			TransferredOut: r.TransferredOut,
			Damaged:        r.Damaged,
			Balance:        r.Balance,
		})
	}
	return report, nil
}

// ExportLedger genera el libro en PDF o XLSX.
func (uc *LedgerUseCase) ExportLedger(
	ctx context.Context,
	principal entity.Principal,
	locationID string,
	from, to time.Time,
	format string,
) (*LedgerExport, error) {
	report, err := uc.LedgerReport(ctx, principal, locationID, from, to)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("libro-inventario_%s_%s", from.Format(time.DateOnly), to.Format(time.DateOnly))

	switch format {
	case LedgerFormatPDF:
		if uc.pdf == nil {
			return nil, domain.ErrInvalidInput
		}
		b, err := uc.pdf.GenerateLedgerPDF(ctx, report)
		if err != nil {
			return nil, fmt.Errorf("libro PDF: %w", err)
		}
		return &LedgerExport{Content: b, ContentType: "application/pdf", Filename: name + ".pdf"}, nil
	case LedgerFormatXLSX:
		if uc.xlsx == nil {
			return nil, domain.ErrInvalidInput
		}
		b, err := uc.xlsx.GenerateLedgerXLSX(ctx, report)
		if err != nil {
			return nil, fmt.Errorf("libro XLSX: %w", err)
		}
		return &LedgerExport{
			Content:     b,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Filename:    name + ".xlsx",
		}, nil
	default:
		return nil, domain.ErrInvalidInput
	}
}
