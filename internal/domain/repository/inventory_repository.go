package repository

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// InventoryRepository define el puerto para consultar/actualizar snapshots de stock
// por (bodega, producto). Usado dentro de transacciones para garantizar consistencia.
type InventoryRepository interface {
	// Get devuelve el snapshot del par, o nil si el par nunca tuvo movimientos.
	Get(warehouseID, productID string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila del par (SELECT FOR UPDATE) y la devuelve;
	// si no existe la inicializa en cero dentro de la transacción, de modo que
	// el bloqueo siempre recae sobre una fila real.
	GetForUpdate(warehouseID, productID string) (*entity.Inventory, error)
	// Upsert inserta o actualiza el snapshot del par.
	Upsert(inv *entity.Inventory) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Inventory, error)
	ListAll(limit, offset int) ([]*entity.Inventory, error)
}
