package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones en memoria: toma el mutex global del Store durante
// toda la función y aplica los cambios en bloque solo si fn devuelve nil.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repositorios de staging; commit aplica, error descarta.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	invRepo repository.InventoryRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx := &memTx{store: r.store, staged: make(map[string]*entity.Inventory)}
	if err := fn(&txMovementRepo{tx: tx}, &txInventoryRepo{tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// memTx estado de staging de una transacción. Se ejecuta con el mutex del
// Store tomado, así que los IDs provisionales coinciden con los definitivos.
type memTx struct {
	store   *Store
	pending []*entity.StockMovement
	staged  map[string]*entity.Inventory
}

func (tx *memTx) commit() {
	for _, m := range tx.pending {
		tx.store.movements = append(tx.store.movements, m)
		tx.store.byRecordNo[m.RecordNo] = m
	}
	for key, inv := range tx.staged {
		tx.store.inventory[key] = cloneInventory(inv)
	}
	tx.store.seq += int64(len(tx.pending))
}

// ─── Diario en staging ───────────────────────────────────────────────────────

type txMovementRepo struct {
	tx *memTx
}

var _ repository.StockMovementRepository = (*txMovementRepo)(nil)

func (r *txMovementRepo) Create(m *entity.StockMovement) error {
	if _, dup := r.tx.store.byRecordNo[m.RecordNo]; dup {
		return &domain.DuplicateDocumentError{RecordNo: m.RecordNo}
	}
	for _, p := range r.tx.pending {
		if p.RecordNo == m.RecordNo {
			return &domain.DuplicateDocumentError{RecordNo: m.RecordNo}
		}
	}
	m.ID = r.tx.store.seq + int64(len(r.tx.pending)) + 1
	r.tx.pending = append(r.tx.pending, cloneMovement(m))
	return nil
}

func (r *txMovementRepo) GetByRecordNo(recordNo string) (*entity.StockMovement, error) {
	if m, ok := r.tx.store.byRecordNo[recordNo]; ok {
		return cloneMovement(m), nil
	}
	for _, p := range r.tx.pending {
		if p.RecordNo == recordNo {
			return cloneMovement(p), nil
		}
	}
	return nil, nil
}

func (r *txMovementRepo) ListByWarehouseProduct(warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	all := append(append([]*entity.StockMovement{}, r.tx.store.movements...), r.tx.pending...)
	return filterMovements(all, warehouseID, productID, from, to, limit, offset), nil
}

func (r *txMovementRepo) LastRecordNo(prefix string) (string, error) {
	last := lastRecordNo(r.tx.store.movements, prefix)
	if p := lastRecordNo(r.tx.pending, prefix); p > last {
		last = p
	}
	return last, nil
}

// ─── Snapshots en staging ────────────────────────────────────────────────────

type txInventoryRepo struct {
	tx *memTx
}

var _ repository.InventoryRepository = (*txInventoryRepo)(nil)

func (r *txInventoryRepo) Get(warehouseID, productID string) (*entity.Inventory, error) {
	key := invKey(warehouseID, productID)
	if inv, ok := r.tx.staged[key]; ok {
		return cloneInventory(inv), nil
	}
	if inv, ok := r.tx.store.inventory[key]; ok {
		return cloneInventory(inv), nil
	}
	return nil, nil
}

func (r *txInventoryRepo) GetForUpdate(warehouseID, productID string) (*entity.Inventory, error) {
	key := invKey(warehouseID, productID)
	if inv, ok := r.tx.staged[key]; ok {
		return inv, nil
	}
	if inv, ok := r.tx.store.inventory[key]; ok {
		c := cloneInventory(inv)
		r.tx.staged[key] = c
		return c, nil
	}
	c := &entity.Inventory{WarehouseID: warehouseID, ProductID: productID}
	r.tx.staged[key] = c
	return c, nil
}

func (r *txInventoryRepo) Upsert(inv *entity.Inventory) error {
	r.tx.staged[invKey(inv.WarehouseID, inv.ProductID)] = inv
	return nil
}

func (r *txInventoryRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Inventory, error) {
	return listInventory(r.mergedView(), func(inv *entity.Inventory) bool {
		return inv.WarehouseID == warehouseID
	}, limit, offset), nil
}

func (r *txInventoryRepo) ListAll(limit, offset int) ([]*entity.Inventory, error) {
	return listInventory(r.mergedView(), func(*entity.Inventory) bool { return true }, limit, offset), nil
}

func (r *txInventoryRepo) mergedView() map[string]*entity.Inventory {
	merged := make(map[string]*entity.Inventory, len(r.tx.store.inventory))
	for k, v := range r.tx.store.inventory {
		merged[k] = v
	}
	for k, v := range r.tx.staged {
		merged[k] = v
	}
	return merged
}

// ─── Helpers compartidos ─────────────────────────────────────────────────────

func filterMovements(all []*entity.StockMovement, warehouseID, productID string, from, to *time.Time, limit, offset int) []*entity.StockMovement {
	var matched []*entity.StockMovement
	for _, m := range all {
		if m.WarehouseID != warehouseID || m.ProductID != productID {
			continue
		}
		if from != nil && m.MovementDate.Before(*from) {
			continue
		}
		if to != nil && m.MovementDate.After(*to) {
			continue
		}
		matched = append(matched, cloneMovement(m))
	}
	// Fecha de movimiento ascendente; empates por ID de secuencia.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].MovementDate.Equal(matched[j].MovementDate) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].MovementDate.Before(matched[j].MovementDate)
	})
	return paginate(matched, limit, offset)
}

func lastRecordNo(list []*entity.StockMovement, prefix string) string {
	last := ""
	for _, m := range list {
		if strings.HasPrefix(m.RecordNo, prefix) && m.RecordNo > last {
			last = m.RecordNo
		}
	}
	return last
}

func listInventory(view map[string]*entity.Inventory, keep func(*entity.Inventory) bool, limit, offset int) []*entity.Inventory {
	keys := make([]string, 0, len(view))
	for k := range view {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []*entity.Inventory
	for _, k := range keys {
		if keep(view[k]) {
			out = append(out, cloneInventory(view[k]))
		}
	}
	return paginate(out, limit, offset)
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
