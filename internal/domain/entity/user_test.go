package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

func TestPrincipal_CanAccessLocation(t *testing.T) {
	admin := entity.Principal{Role: entity.RoleAdmin}
	seller := entity.Principal{Role: entity.RoleVendedor, LocationIDs: []string{"STR002"}}

	assert.True(t, admin.CanAccessLocation("warehouse"))
	assert.True(t, seller.CanAccessLocation("STR002"))
	assert.False(t, seller.CanAccessLocation("STR003"))
}

func TestPrincipal_HasPermission(t *testing.T) {
	perms := entity.DefaultRolePermissions()
	admin := entity.Principal{Role: entity.RoleAdmin, Permissions: perms[entity.RoleAdmin]}
	seller := entity.Principal{Role: entity.RoleVendedor, Permissions: perms[entity.RoleVendedor]}

	assert.True(t, admin.HasPermission("/purchases"))
	assert.True(t, seller.HasPermission("/sales"))
	assert.False(t, seller.HasPermission("/purchases"))
}

func TestTransfer_StockDeltas(t *testing.T) {
	tr := &entity.Transfer{
		LogHeader: entity.LogHeader{Lines: []entity.LogLine{{MedicineID: "MED001", Quantity: 50}}},
		FromID:    "warehouse",
		ToID:      "STR002",
	}

	assert.Equal(t, entity.LogKindTransfer, tr.Kind())
	assert.Equal(t, []entity.StockDelta{
		{LocationID: "warehouse", MedicineID: "MED001", Quantity: -50},
		{LocationID: "STR002", MedicineID: "MED001", Quantity: 50},
	}, tr.StockDeltas())
	assert.Equal(t, []string{"warehouse", "STR002"}, entity.LocationIDs(tr))

	tr.IsReturn = true
	assert.Equal(t, entity.LogKindReturn, tr.Kind())
}

func TestNameKey(t *testing.T) {
	assert.Equal(t, entity.NameKey("ACETAMINOFEN 500MG"), entity.NameKey("  Acetaminofén   500mg "))
	assert.Equal(t, "ibuprofeno", entity.NameKey("IBUPROFENO"))
	assert.NotEqual(t, entity.NameKey("Amoxicilina"), entity.NameKey("Amoxicilina 500"))
}
