package repository

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// ReferenceCatalog define el puerto de solo lectura hacia el maestro de datos
// (colaborador externo). El core nunca crea ni modifica entidades maestras.
type ReferenceCatalog interface {
	// IsActive indica si la entidad referenciada existe y está activa.
	// Devuelve domain.ErrNotFound si el identificador no existe.
	IsActive(kind entity.ReferenceKind, id string) (bool, error)
	// ProductThresholds devuelve los umbrales min/max configurados del producto.
	// Devuelve domain.ErrNotFound si el producto no existe.
	ProductThresholds(productID string) (entity.StockThresholds, error)
}
