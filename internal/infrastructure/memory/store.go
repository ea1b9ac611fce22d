// Package memory implementa los puertos de persistencia en memoria.
// Se usa en pruebas y con DB_DRIVER=memory para desarrollo local sin PostgreSQL.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

type state struct {
	locations     map[string]entity.Location
	inventory     map[string]entity.InventoryRecord
	logs          []entity.LogRecord
	logKeys       map[string]struct{}
	medicines     map[string]entity.Medicine
	manufacturers map[string]entity.Manufacturer
	packaging     map[string]entity.PackagingType
	units         map[string]entity.UnitType
	patients      map[string]entity.Patient
	users         map[string]entity.User
	rolePaths     map[string][]string
}

func newState() state {
	return state{
		locations:     map[string]entity.Location{},
		inventory:     map[string]entity.InventoryRecord{},
		logKeys:       map[string]struct{}{},
		medicines:     map[string]entity.Medicine{},
		manufacturers: map[string]entity.Manufacturer{},
		packaging:     map[string]entity.PackagingType{},
		units:         map[string]entity.UnitType{},
		patients:      map[string]entity.Patient{},
		users:         map[string]entity.User{},
		rolePaths:     map[string][]string{},
	}
}

// clone copia los mapas; los registros de operación son inmutables y se comparten.
func (s state) clone() state {
	return state{
		locations:     maps.Clone(s.locations),
		inventory:     maps.Clone(s.inventory),
		logs:          slices.Clip(s.logs),
		logKeys:       maps.Clone(s.logKeys),
		medicines:     maps.Clone(s.medicines),
		manufacturers: maps.Clone(s.manufacturers),
		packaging:     maps.Clone(s.packaging),
		units:         maps.Clone(s.units),
		patients:      maps.Clone(s.patients),
		users:         maps.Clone(s.users),
		rolePaths:     maps.Clone(s.rolePaths),
	}
}

// Store estado compartido por todos los repositorios en memoria. Un único mutex serializa
// escrituras y transacciones.
type Store struct {
	mu  sync.Mutex
	st  state
	now func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// with ejecuta fn sobre el estado; dentro de una transacción el lock ya está tomado.
func (s *Store) with(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(&s.st)
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner transacción en memoria: toma el lock, guarda una copia del estado y la restaura
// si fn falla o el contexto se cancela. La copia incluye todo el historial de registros, así que
// cada transacción cuesta O(estado completo) y todas se serializan en un único lock: pensado para
// tests y desarrollo (DB_DRIVER=memory), no para carga de producción.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repositorios atados a la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	logRepo repository.LogRepository,
	medicineRepo repository.MedicineRepository,
) error) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.st.clone()
	err := fn(
		&InventoryRepo{store: s, inTx: true},
		&LogRepo{store: s, inTx: true},
		&MedicineRepo{store: s, inTx: true},
	)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.st = snapshot
		return err
	}
	return nil
}
