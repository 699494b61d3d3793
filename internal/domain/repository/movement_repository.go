package repository

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del diario de movimientos.
// El diario es append-only: no existe Update ni Delete en el contrato.
type StockMovementRepository interface {
	// Create persiste el movimiento, asigna el ID de secuencia y CreatedAt.
	// Devuelve domain.DuplicateDocumentError si el número de documento ya existe.
	Create(movement *entity.StockMovement) error
	// GetByRecordNo devuelve el movimiento con ese número de documento, o nil si no existe.
	GetByRecordNo(recordNo string) (*entity.StockMovement, error)
	// ListByWarehouseProduct lista el historial del par (bodega, producto) en el rango,
	// ordenado por fecha de movimiento ascendente y, a igual fecha, por ID ascendente.
	ListByWarehouseProduct(warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// LastRecordNo devuelve el mayor número de documento emitido con ese prefijo ("" si ninguno).
	LastRecordNo(prefix string) (string, error)
}
