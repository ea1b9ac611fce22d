// seed carga datos iniciales de la farmacia desde CSV: ubicaciones, medicamentos,
// existencias de apertura y un usuario administrador.
//
// Uso: go run ./cmd/seed -dir seed -admin-email admin@farmacia.local -admin-password secreto123
// Archivos: locations.csv, medicines.csv, stock.csv (el que falte se omite).
// Es idempotente: los registros existentes se saltan y el stock solo se carga donde es 0.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	dir := flag.String("dir", "seed", "directorio con los CSV")
	adminEmail := flag.String("admin-email", "", "email del administrador inicial")
	adminPassword := flag.String("admin-password", "", "contraseña del administrador inicial")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	locationRepo := postgres.NewLocationRepository(pool)
	medicineRepo := postgres.NewMedicineRepository(pool)
	locations := usecase.NewLocationUseCase(locationRepo)
	medicines := usecase.NewMedicineUseCase(medicineRepo, postgres.NewManufacturerRepository(pool))
	stock := inventory.NewStockService(postgres.NewTxRunner(pool), postgres.NewInventoryRepository(pool))
	users := usecase.NewUserUseCase(postgres.NewUserRepository(pool), locationRepo)

	if records, ok := readOptional(log, filepath.Join(*dir, "locations.csv")); ok {
		created, skipped := 0, 0
		for _, in := range locationsFromCSV(records) {
			_, err := locations.Create(ctx, in)
			switch {
			case errors.Is(err, domain.ErrDuplicate):
				skipped++
			case err != nil:
				log.Fatal().Err(err).Str("location_id", in.ID).Msg("crear ubicación")
			default:
				created++
			}
		}
		log.Info().Int("creadas", created).Int("existentes", skipped).Msg("ubicaciones")
	}

	names := map[string]string{}
	if records, ok := readOptional(log, filepath.Join(*dir, "medicines.csv")); ok {
		rows, err := medicinesFromCSV(records)
		if err != nil {
			log.Fatal().Err(err).Msg("medicines.csv")
		}
		created, skipped := 0, 0
		for _, in := range rows {
			names[in.ID] = in.Name
			_, err := medicines.Create(ctx, in)
			switch {
			case errors.Is(err, domain.ErrDuplicate):
				skipped++
			case err != nil:
				log.Fatal().Err(err).Str("medicine_id", in.ID).Msg("crear medicamento")
			default:
				created++
			}
		}
		log.Info().Int("creados", created).Int("existentes", skipped).Msg("medicamentos")
	}

	if records, ok := readOptional(log, filepath.Join(*dir, "stock.csv")); ok {
		rows, err := stockFromCSV(records)
		if err != nil {
			log.Fatal().Err(err).Msg("stock.csv")
		}
		loaded, units := 0, int64(0)
		for _, row := range rows {
			current, err := stock.Get(ctx, row.LocationID, row.MedicineID)
			if err != nil {
				log.Fatal().Err(err).Str("location_id", row.LocationID).Msg("consultar stock")
			}
			if current > 0 {
				continue
			}
			name, ok := names[row.MedicineID]
			if !ok {
				med, err := medicineRepo.GetByID(ctx, row.MedicineID)
				if err != nil || med == nil {
					log.Fatal().Err(err).Str("medicine_id", row.MedicineID).Msg("medicamento no registrado")
				}
				name = med.Name
			}
			if err := stock.Increment(ctx, row.LocationID, row.MedicineID, name, row.Quantity); err != nil {
				log.Fatal().Err(err).Str("location_id", row.LocationID).Str("medicine_id", row.MedicineID).Msg("cargar stock")
			}
			loaded++
			units += row.Quantity
		}
		log.Info().Int("filas", loaded).Int64("unidades", units).Msg("stock de apertura")
	}

	if *adminEmail != "" {
		if len(*adminPassword) < 8 {
			log.Fatal().Msg("-admin-password requiere al menos 8 caracteres")
		}
		_, err := users.Create(ctx, dto.CreateUserRequest{
			Email:    *adminEmail,
			Password: *adminPassword,
			Name:     "Administrador",
			Role:     entity.RoleAdmin,
		})
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			log.Info().Str("email", *adminEmail).Msg("administrador ya existe")
		case err != nil:
			log.Fatal().Err(err).Msg("crear administrador")
		default:
			log.Info().Str("email", *adminEmail).Msg("administrador creado")
		}
	}
}

// readOptional lee un CSV; si no existe lo informa y sigue.
func readOptional(log *logger.Logger, path string) ([][]string, bool) {
	records, err := openCSV(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("file", path).Msg("archivo no encontrado, se omite")
		return nil, false
	}
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("leer CSV")
	}
	return records, true
}
