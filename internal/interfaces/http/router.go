package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/analytics"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	Recorder       *inventory.RecorderUseCase
	InventoryQuery *inventory.QueryUseCase
	StockAlerts    *analytics.StockAlertUseCase
	Ledger         *analytics.LedgerUseCase
	DashboardUC    *analytics.DashboardUseCase
	MedicineUC     *usecase.MedicineUseCase
	ManufacturerUC *usecase.ManufacturerUseCase
	CatalogUC      *usecase.CatalogUseCase
	LocationUC     *usecase.LocationUseCase
	PatientUC      *usecase.PatientUseCase
	UserUC         *usecase.UserUseCase
	RolePerms      *usecase.RolePermissionService
	WarehouseID    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (Bearer Token + sesión viva)
	protected := api.Group("", AuthMiddleware(deps.AuthUC))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	adminOnly := RequireRole(entity.RoleAdmin)
	masters := RequirePermission("/masters")

	// Inventario y registros
	inventoryHandler := NewInventoryHandler(deps.Recorder, deps.InventoryQuery, deps.WarehouseID)
	protected.Get("/inventory", RequirePermission("/inventory"), inventoryHandler.ListStock)
	protected.Get("/logs", RequirePermission("/inventory"), inventoryHandler.ListLogs)
	protected.Get("/logs/:kind/:id", RequirePermission("/inventory"), inventoryHandler.GetLog)
	protected.Post("/sales", RequirePermission("/sales"), inventoryHandler.RecordSale)
	protected.Post("/purchases", RequirePermission("/purchases"), inventoryHandler.RecordPurchase)
	protected.Post("/transfers", RequirePermission("/transfers"), inventoryHandler.RecordTransfer)
	protected.Post("/returns", RequirePermission("/returns"), inventoryHandler.RecordReturn)
	protected.Post("/returns/manufacturer", RequirePermission("/returns"), inventoryHandler.RecordManufacturerReturn)
	protected.Post("/damaged", RequirePermission("/damaged"), inventoryHandler.RecordDamaged)

	// Alertas, libro y tablero
	analyticsHandler := NewAnalyticsHandler(deps.StockAlerts, deps.Ledger)
	protected.Get("/alerts", RequirePermission("/alerts"), analyticsHandler.GetAlerts)
	protected.Get("/reports/ledger", RequirePermission("/reports"), analyticsHandler.GetLedger)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard := protected.Group("/dashboard", RequirePermission("/reports"))
	dashboard.Get("/metrics", dashboardHandler.GetMetrics)
	dashboard.Get("/ai-summary", dashboardHandler.GetAISummary)

	// Maestros: lectura para cualquier sesión, escritura con permiso /masters
	medicineHandler := NewMedicineHandler(deps.MedicineUC)
	medicines := protected.Group("/medicines")
	medicines.Get("/", medicineHandler.List)
	medicines.Get("/:id", medicineHandler.GetByID)
	medicines.Post("/", masters, medicineHandler.Create)
	medicines.Put("/:id", masters, medicineHandler.Update)
	medicines.Delete("/:id", masters, medicineHandler.Delete)

	manufacturerHandler := NewManufacturerHandler(deps.ManufacturerUC)
	manufacturers := protected.Group("/manufacturers")
	manufacturers.Get("/", manufacturerHandler.List)
	manufacturers.Get("/:id", manufacturerHandler.GetByID)
	manufacturers.Post("/", masters, manufacturerHandler.Create)
	manufacturers.Put("/:id", masters, manufacturerHandler.Update)
	manufacturers.Delete("/:id", masters, manufacturerHandler.Delete)

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	protected.Get("/packaging-types", catalogHandler.ListPackaging)
	protected.Post("/packaging-types", masters, catalogHandler.CreatePackaging)
	protected.Delete("/packaging-types/:id", masters, catalogHandler.DeletePackaging)
	protected.Get("/unit-types", catalogHandler.ListUnits)
	protected.Post("/unit-types", masters, catalogHandler.CreateUnit)
	protected.Delete("/unit-types/:id", masters, catalogHandler.DeleteUnit)

	// Ubicaciones: la lista se filtra por principal; alta y cambios solo admin
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations := protected.Group("/locations")
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", adminOnly, locationHandler.Create)
	locations.Put("/:id", adminOnly, locationHandler.Update)
	locations.Delete("/:id", adminOnly, locationHandler.Delete)

	// Pacientes
	patientHandler := NewPatientHandler(deps.PatientUC)
	patients := protected.Group("/patients", RequirePermission("/patients"))
	patients.Get("/", patientHandler.Search)
	patients.Post("/", patientHandler.Create)
	patients.Get("/:id", patientHandler.GetByID)
	patients.Put("/:id", patientHandler.Update)
	patients.Delete("/:id", patientHandler.Delete)

	// Usuarios y permisos (admin)
	userHandler := NewUserHandler(deps.UserUC, deps.RolePerms)
	users := protected.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	roles := protected.Group("/roles", adminOnly)
	roles.Get("/:role/permissions", userHandler.GetRolePermissions)
	roles.Put("/:role/permissions", userHandler.SetRolePermissions)
}
