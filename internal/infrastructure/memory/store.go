// Package memory implementa los puertos de persistencia en memoria, para
// pruebas del motor de movimientos sin PostgreSQL. Las transacciones se
// serializan con un mutex global y los cambios se aplican de forma atómica
// al confirmar (staging + commit), de modo que conserva la semántica
// todo-o-nada del adaptador real.
package memory

import (
	"sync"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

type refEntry struct {
	active bool
}

// Store estado compartido del adaptador en memoria.
type Store struct {
	mu         sync.Mutex
	seq        int64
	movements  []*entity.StockMovement
	byRecordNo map[string]*entity.StockMovement
	inventory  map[string]*entity.Inventory
	refs       map[string]refEntry
	thresholds map[string]entity.StockThresholds
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		byRecordNo: make(map[string]*entity.StockMovement),
		inventory:  make(map[string]*entity.Inventory),
		refs:       make(map[string]refEntry),
		thresholds: make(map[string]entity.StockThresholds),
	}
}

func invKey(warehouseID, productID string) string {
	return warehouseID + "|" + productID
}

func refKey(kind entity.ReferenceKind, id string) string {
	return string(kind) + "|" + id
}

// SeedReference registra una entidad maestra (bodega, producto o tercero).
func (s *Store) SeedReference(kind entity.ReferenceKind, id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[refKey(kind, id)] = refEntry{active: active}
}

// SeedProduct registra un producto activo/inactivo con sus umbrales.
func (s *Store) SeedProduct(id string, active bool, t entity.StockThresholds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[refKey(entity.ReferenceProduct, id)] = refEntry{active: active}
	s.thresholds[id] = t
}

var _ repository.ReferenceCatalog = (*Store)(nil)

// IsActive implementa el catálogo maestro de solo lectura.
func (s *Store) IsActive(kind entity.ReferenceKind, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.refs[refKey(kind, id)]
	if !ok {
		return false, domain.ErrNotFound
	}
	return e.active, nil
}

// ProductThresholds devuelve los umbrales sembrados del producto.
func (s *Store) ProductThresholds(productID string) (entity.StockThresholds, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.refs[refKey(entity.ReferenceProduct, productID)]; !ok {
		return entity.StockThresholds{}, domain.ErrNotFound
	}
	return s.thresholds[productID], nil
}

func cloneInventory(inv *entity.Inventory) *entity.Inventory {
	c := *inv
	return &c
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	return &c
}
