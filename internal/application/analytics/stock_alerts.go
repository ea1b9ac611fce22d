package analytics

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Severidades de alerta.
const (
	SeverityOutOfStock = "out_of_stock"
	SeverityLow        = "low"
)

// StockAlertUseCase lista los medicamentos en o bajo su umbral mínimo por ubicación.
type StockAlertUseCase struct {
	locationRepo repository.LocationRepository
	medicineRepo repository.MedicineRepository
	invRepo      repository.InventoryRepository
}

// NewStockAlertUseCase construye el caso de uso de alertas.
func NewStockAlertUseCase(
	locationRepo repository.LocationRepository,
	medicineRepo repository.MedicineRepository,
	invRepo repository.InventoryRepository,
) *StockAlertUseCase {
	return &StockAlertUseCase{
		locationRepo: locationRepo,
		medicineRepo: medicineRepo,
		invRepo:      invRepo,
	}
}

// StockAlerts recorre los medicamentos con umbral > 0 en cada ubicación visible; una fila
// inexistente cuenta como 0, así los agotados también aparecen.
// Orden: ubicación, luego mayor déficit.
func (uc *StockAlertUseCase) StockAlerts(ctx context.Context, principal entity.Principal, locationID string) (alerts []dto.StockAlertDTO, err error) {
	ctx, span := tracer.Start(ctx, "analytics.StockAlerts", trace.WithAttributes(attribute.String("location.id", locationID)))
	defer func() { endSpan(span, err) }()

	locations, err := visibleLocations(ctx, uc.locationRepo, principal, locationID)
	if err != nil {
		return nil, err
	}
	medicines, err := uc.medicineRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("alertas: listar medicamentos: %w", err)
	}

	alerts = []dto.StockAlertDTO{}
	for _, loc := range locations {
		rows, err := uc.invRepo.ListByLocation(ctx, loc.ID)
		if err != nil {
			return nil, fmt.Errorf("alertas: stock de %s: %w", loc.ID, err)
		}
		qty := make(map[string]int64, len(rows))
		for _, r := range rows {
			qty[r.MedicineID] = r.Quantity
		}
		for _, med := range medicines {
			threshold := med.ThresholdFor(loc.ID)
			if threshold <= 0 {
				continue
			}
			current := qty[med.ID]
			if current > threshold {
				continue
			}
			alerts = append(alerts, buildAlert(loc, med, current, threshold))
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.LocationID != b.LocationID {
			return a.LocationID < b.LocationID
		}
		if a.Deficit != b.Deficit {
			return a.Deficit > b.Deficit
		}
		return a.MedicineID < b.MedicineID
	})
	return alerts, nil
}

// buildAlert sugiere reponer hasta el stock ideal = umbral * 1.5 (redondeado hacia arriba).
func buildAlert(loc *entity.Location, med *entity.Medicine, current, threshold int64) dto.StockAlertDTO {
	severity := SeverityLow
	if current == 0 {
		severity = SeverityOutOfStock
	}
	ideal := (threshold*3 + 1) / 2
	suggested := ideal - current
	if suggested < 0 {
		suggested = 0
	}
	return dto.StockAlertDTO{
		LocationID:        loc.ID,
		LocationName:      loc.Name,
		MedicineID:        med.ID,
		MedicineName:      med.Name,
		Quantity:          current,
		Threshold:         threshold,
		Deficit:           threshold - current,
		Severity:          severity,
		SuggestedOrderQty: suggested,
	}
}
