package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/memory"
)

func TestMedicineUseCase_NameUniqueIgnoringCaseAndAccents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewMedicineUseCase(memory.NewMedicineRepository(store), memory.NewManufacturerRepository(store))

	_, err := uc.Create(ctx, dto.CreateMedicineRequest{
		ID: "MED001", Name: "Acetaminofén 500mg", Price: decimal.NewFromInt(100), TaxRate: decimal.RequireFromString("0.12"),
	})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateMedicineRequest{
		ID: "MED002", Name: "  ACETAMINOFEN   500MG ", Price: decimal.NewFromInt(90), TaxRate: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateMedicineRequest{
		ID: "MED001", Name: "Otro", Price: decimal.NewFromInt(1), TaxRate: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestMedicineUseCase_RejectsUnknownTaxRateAndManufacturer(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewMedicineUseCase(memory.NewMedicineRepository(store), memory.NewManufacturerRepository(store))

	_, err := uc.Create(ctx, dto.CreateMedicineRequest{
		ID: "MED001", Name: "Ibuprofeno", Price: decimal.NewFromInt(10), TaxRate: decimal.RequireFromString("0.19"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateMedicineRequest{
		ID: "MED001", Name: "Ibuprofeno", Price: decimal.NewFromInt(10), TaxRate: decimal.Zero, ManufacturerID: "NOPE",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := uc.Create(ctx, dto.CreateMedicineRequest{
		ID: "MED001", Name: "Ibuprofeno", Price: decimal.NewFromInt(10), TaxRate: decimal.RequireFromString("0.05"),
	})
	require.NoError(t, err)
	assert.True(t, res.Cost.IsZero())
}

func TestManufacturerUseCase_UniqueNameAndGSTIN(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewManufacturerUseCase(memory.NewManufacturerRepository(memory.NewStore()))

	first, err := uc.Create(ctx, dto.CreateManufacturerRequest{Name: "Genfar", GSTIN: "27AAACG1234F1Z5"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateManufacturerRequest{Name: "GENFAR"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateManufacturerRequest{Name: "Tecnoquímicas", GSTIN: "27AAACG1234F1Z5"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// renombrar a sí mismo no choca consigo mismo
	name := "Genfar S.A."
	updated, err := uc.Update(ctx, first.ID, dto.UpdateManufacturerRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Genfar S.A.", updated.Name)
}

func TestNormalizePhone(t *testing.T) {
	e164, err := usecase.NormalizePhone("81234 56789", "IN")
	require.NoError(t, err)
	assert.Equal(t, "+918123456789", e164)

	e164, err = usecase.NormalizePhone("+57 321 123 4567", "IN")
	require.NoError(t, err)
	assert.Equal(t, "+573211234567", e164)

	_, err = usecase.NormalizePhone("123", "IN")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPatientUseCase_CreateNormalizesPhone(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewPatientUseCase(memory.NewPatientRepository(memory.NewStore()), "in")

	p, err := uc.Create(ctx, dto.CreatePatientRequest{Name: "Ana Pérez", Phone: "081234 56789", Age: 34})
	require.NoError(t, err)
	assert.Equal(t, "+918123456789", p.Phone)

	found, err := uc.Search(ctx, "ana", 10, 0)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, p.ID, found.Items[0].ID)
}

func TestLocationUseCase_ListFilteredByPrincipal(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewLocationUseCase(memory.NewLocationRepository(memory.NewStore()))
	for _, in := range []dto.CreateLocationRequest{
		{ID: "warehouse", Name: "Bodega", Kind: entity.LocationKindWarehouse},
		{ID: "STR002", Name: "Norte", Kind: entity.LocationKindStore},
		{ID: "STR003", Name: "Sur", Kind: entity.LocationKindStore},
	} {
		_, err := uc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := uc.List(ctx, entity.Principal{Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := uc.List(ctx, entity.Principal{Role: entity.RoleVendedor, LocationIDs: []string{"STR003"}})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "STR003", mine[0].ID)

	_, err = uc.Create(ctx, dto.CreateLocationRequest{ID: "X", Name: "X", Kind: "kiosk"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUseCase_CreateValidatesLocationsAndEmail(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	locations := memory.NewLocationRepository(store)
	require.NoError(t, locations.Create(ctx, &entity.Location{ID: "STR002", Name: "Norte", Kind: entity.LocationKindStore}))
	uc := usecase.NewUserUseCase(memory.NewUserRepository(store), locations)

	_, err := uc.Create(ctx, dto.CreateUserRequest{
		Email: "v@farmacia.test", Password: "secreto123", Name: "V", Role: entity.RoleVendedor, LocationIDs: []string{"STR999"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := uc.Create(ctx, dto.CreateUserRequest{
		Email: "V@Farmacia.test", Password: "secreto123", Name: "V", Role: entity.RoleVendedor, LocationIDs: []string{"STR002"},
	})
	require.NoError(t, err)
	assert.Equal(t, "v@farmacia.test", u.Email)
	assert.Equal(t, []string{"STR002"}, u.LocationIDs)

	_, err = uc.Create(ctx, dto.CreateUserRequest{
		Email: "v@farmacia.test", Password: "secreto123", Name: "V2", Role: entity.RoleVendedor,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	inactive := entity.UserStatusInactive
	updated, err := uc.Update(ctx, u.ID, dto.UpdateUserRequest{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusInactive, updated.Status)

	_, err = uc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRolePermissionService(t *testing.T) {
	ctx := context.Background()
	svc := usecase.NewRolePermissionService(memory.NewRolePermissionRepository(memory.NewStore()))

	paths, err := svc.Paths(ctx, entity.RoleVendedor)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultRolePermissions()[entity.RoleVendedor], paths)

	res, err := svc.Set(ctx, entity.RoleVendedor, dto.RolePermissionsRequest{Paths: []string{"/sales", "/inventory", "/sales"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"/inventory", "/sales"}, res.Paths)

	paths, err = svc.Paths(ctx, entity.RoleVendedor)
	require.NoError(t, err)
	assert.Equal(t, []string{"/inventory", "/sales"}, paths)

	_, err = svc.Set(ctx, entity.RoleAdmin, dto.RolePermissionsRequest{Paths: []string{"/sales"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Paths(ctx, "root")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
