package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/Farmacia-api/internal/application/analytics"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	infraai "github.com/jhoicas/Farmacia-api/internal/infrastructure/ai"
	infraexcel "github.com/jhoicas/Farmacia-api/internal/infrastructure/excel"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Farmacia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Farmacia-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// repositories puertos de persistencia elegidos según DB_DRIVER.
type repositories struct {
	tx            inventory.TxRunner
	inventory     repository.InventoryRepository
	logs          repository.LogRepository
	locations     repository.LocationRepository
	medicines     repository.MedicineRepository
	manufacturers repository.ManufacturerRepository
	catalogs      repository.CatalogRepository
	patients      repository.PatientRepository
	users         repository.UserRepository
	rolePerms     repository.RolePermissionRepository
	sessions      repository.SessionStore
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer repos.close()

	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		repos.sessions = infraredis.NewSessionStore(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("sesiones en Redis")
	}

	stockSvc := inventory.NewStockService(repos.tx, repos.inventory)
	recorder := inventory.NewRecorderUseCase(
		repos.tx, repos.locations, repos.manufacturers, repos.patients,
		cfg.Pharmacy.WarehouseID, log.Component("inventory"),
	)
	queryUC := inventory.NewQueryUseCase(stockSvc, repos.logs)

	alertsUC := appanalytics.NewStockAlertUseCase(repos.locations, repos.medicines, repos.inventory)
	ledgerUC := appanalytics.NewLedgerUseCase(
		repos.locations, repos.inventory, repos.logs,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
		infraexcel.NewLedgerGenerator(),
	)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.logs, alertsUC, newLLM(cfg.AI, log))

	rolePerms := usecase.NewRolePermissionService(repos.rolePerms)
	authUC := auth.NewAuthUseCase(repos.users, repos.sessions, rolePerms, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		Recorder:       recorder,
		InventoryQuery: queryUC,
		StockAlerts:    alertsUC,
		Ledger:         ledgerUC,
		DashboardUC:    dashboardUC,
		MedicineUC:     usecase.NewMedicineUseCase(repos.medicines, repos.manufacturers),
		ManufacturerUC: usecase.NewManufacturerUseCase(repos.manufacturers),
		CatalogUC:      usecase.NewCatalogUseCase(repos.catalogs),
		LocationUC:     usecase.NewLocationUseCase(repos.locations),
		PatientUC:      usecase.NewPatientUseCase(repos.patients, cfg.Pharmacy.PhoneRegion),
		UserUC:         usecase.NewUserUseCase(repos.users, repos.locations),
		RolePerms:      rolePerms,
		WarehouseID:    cfg.Pharmacy.WarehouseID,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openRepositories conecta PostgreSQL (y aplica migraciones si DB_MIGRATE) o arma el almacén en memoria.
func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, error) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &repositories{
			tx:            memory.NewTxRunner(store),
			inventory:     memory.NewInventoryRepository(store),
			logs:          memory.NewLogRepository(store),
			locations:     memory.NewLocationRepository(store),
			medicines:     memory.NewMedicineRepository(store),
			manufacturers: memory.NewManufacturerRepository(store),
			catalogs:      memory.NewCatalogRepository(store),
			patients:      memory.NewPatientRepository(store),
			users:         memory.NewUserRepository(store),
			rolePerms:     memory.NewRolePermissionRepository(store),
			sessions:      memory.NewSessionStore(store),
			close:         func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	log.Info().Str("dsn", postgres.RedactDSN(cfg.DB.ConnectionString())).Msg("conectado a PostgreSQL")
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			pool.Close()
			return nil, err
		}
	}
	store := memory.NewStore()
	return &repositories{
		tx:            postgres.NewTxRunner(pool),
		inventory:     postgres.NewInventoryRepository(pool),
		logs:          postgres.NewLogRepository(pool),
		locations:     postgres.NewLocationRepository(pool),
		medicines:     postgres.NewMedicineRepository(pool),
		manufacturers: postgres.NewManufacturerRepository(pool),
		catalogs:      postgres.NewCatalogRepository(pool),
		patients:      postgres.NewPatientRepository(pool),
		users:         postgres.NewUserRepository(pool),
		rolePerms:     postgres.NewRolePermissionRepository(pool),
		// sesiones en proceso hasta que se configure REDIS_ADDR
		sessions: memory.NewSessionStore(store),
		close:    pool.Close,
	}, nil
}

// newLLM elige el proveedor del resumen IA; nil deja el endpoint en 503.
func newLLM(cfg config.AIConfig, log *logger.Logger) ports.LLMService {
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			break
		}
		return infraai.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		if cfg.AnthropicAPIKey == "" {
			break
		}
		return infraai.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	log.Warn().Str("provider", cfg.Provider).Msg("resumen IA deshabilitado: falta API key")
	return nil
}
