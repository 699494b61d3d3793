package query

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

// UseCase fachada de consulta de solo lectura sobre snapshots y diario.
// Nunca muta estado; seguro para llamadas concurrentes sin restricción.
type UseCase struct {
	movements repository.StockMovementRepository
	inventory repository.InventoryRepository
	monitor   *ledger.ThresholdMonitor
}

// NewUseCase construye la fachada con repositorios atados al pool (fuera de transacción).
func NewUseCase(movements repository.StockMovementRepository, inventory repository.InventoryRepository, monitor *ledger.ThresholdMonitor) *UseCase {
	return &UseCase{movements: movements, inventory: inventory, monitor: monitor}
}

// GetSnapshot devuelve el snapshot del par, o domain.ErrNotFound si nunca tuvo movimientos.
func (uc *UseCase) GetSnapshot(ctx context.Context, warehouseID, productID string) (*entity.Inventory, error) {
	inv, err := uc.inventory.Get(warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// ListSnapshotsByWarehouse lista los snapshots de una bodega.
func (uc *UseCase) ListSnapshotsByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Inventory, error) {
	return uc.inventory.ListByWarehouse(warehouseID, limit, offset)
}

// History lista los movimientos del par en el rango, por fecha de movimiento
// ascendente (empates por ID de secuencia ascendente).
func (uc *UseCase) History(ctx context.Context, warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movements.ListByWarehouseProduct(warehouseID, productID, from, to, limit, offset)
}

// GetMovementByRecordNo devuelve el asiento por número de documento, o domain.ErrNotFound.
func (uc *UseCase) GetMovementByRecordNo(ctx context.Context, recordNo string) (*entity.StockMovement, error) {
	m, err := uc.movements.GetByRecordNo(recordNo)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// CheckThresholds evalúa la alerta del par. Un par sin snapshot se evalúa
// con cantidad cero.
func (uc *UseCase) CheckThresholds(ctx context.Context, warehouseID, productID string) (stock.AlertState, entity.StockThresholds, int64, error) {
	var quantity int64
	inv, err := uc.inventory.Get(warehouseID, productID)
	if err != nil {
		return stock.AlertNormal, entity.StockThresholds{}, 0, err
	}
	if inv != nil {
		quantity = inv.Quantity
	}
	state, thresholds, err := uc.monitor.Check(productID, quantity)
	if err != nil {
		return stock.AlertNormal, entity.StockThresholds{}, 0, err
	}
	return state, thresholds, quantity, nil
}

// Warning snapshot cuya alerta no es Normal, con los umbrales que la dispararon.
type Warning struct {
	Inventory  *entity.Inventory
	Thresholds entity.StockThresholds
	State      stock.AlertState
}

// StockWarnings recorre los snapshots y devuelve los que están fuera de umbrales.
func (uc *UseCase) StockWarnings(ctx context.Context, limit, offset int) ([]Warning, error) {
	all, err := uc.inventory.ListAll(limit, offset)
	if err != nil {
		return nil, err
	}
	warnings := make([]Warning, 0)
	for _, inv := range all {
		state, thresholds, err := uc.monitor.Check(inv.ProductID, inv.Quantity)
		if err != nil {
			return nil, err
		}
		if state != stock.AlertNormal {
			warnings = append(warnings, Warning{Inventory: inv, Thresholds: thresholds, State: state})
		}
	}
	return warnings, nil
}
