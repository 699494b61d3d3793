package memory

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// MovementRepo vista de solo lectura del diario fuera de transacción
// (equivalente al repositorio atado al pool). Create directo también se
// admite, aplicado atómicamente bajo el mutex del almacén.
type MovementRepo struct {
	store *Store
}

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// NewMovementRepository construye el adaptador sobre el almacén.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

func (r *MovementRepo) Create(m *entity.StockMovement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, dup := r.store.byRecordNo[m.RecordNo]; dup {
		return &domain.DuplicateDocumentError{RecordNo: m.RecordNo}
	}
	r.store.seq++
	m.ID = r.store.seq
	c := cloneMovement(m)
	r.store.movements = append(r.store.movements, c)
	r.store.byRecordNo[c.RecordNo] = c
	return nil
}

func (r *MovementRepo) GetByRecordNo(recordNo string) (*entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if m, ok := r.store.byRecordNo[recordNo]; ok {
		return cloneMovement(m), nil
	}
	return nil, nil
}

func (r *MovementRepo) ListByWarehouseProduct(warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return filterMovements(r.store.movements, warehouseID, productID, from, to, limit, offset), nil
}

func (r *MovementRepo) LastRecordNo(prefix string) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return lastRecordNo(r.store.movements, prefix), nil
}

// InventoryRepo vista de snapshots fuera de transacción.
type InventoryRepo struct {
	store *Store
}

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// NewInventoryRepository construye el adaptador sobre el almacén.
func NewInventoryRepository(store *Store) *InventoryRepo {
	return &InventoryRepo{store: store}
}

func (r *InventoryRepo) Get(warehouseID, productID string) (*entity.Inventory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if inv, ok := r.store.inventory[invKey(warehouseID, productID)]; ok {
		return cloneInventory(inv), nil
	}
	return nil, nil
}

func (r *InventoryRepo) GetForUpdate(warehouseID, productID string) (*entity.Inventory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if inv, ok := r.store.inventory[invKey(warehouseID, productID)]; ok {
		return cloneInventory(inv), nil
	}
	return &entity.Inventory{WarehouseID: warehouseID, ProductID: productID}, nil
}

func (r *InventoryRepo) Upsert(inv *entity.Inventory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.inventory[invKey(inv.WarehouseID, inv.ProductID)] = cloneInventory(inv)
	return nil
}

func (r *InventoryRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Inventory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return listInventory(r.store.inventory, func(inv *entity.Inventory) bool {
		return inv.WarehouseID == warehouseID
	}, limit, offset), nil
}

func (r *InventoryRepo) ListAll(limit, offset int) ([]*entity.Inventory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return listInventory(r.store.inventory, func(*entity.Inventory) bool { return true }, limit, offset), nil
}
