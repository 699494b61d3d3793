package ledger

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacenamiento,
// pasando repositorios atados a esa transacción. Garantiza que el asiento del
// diario y la proyección del snapshot se confirman o revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
	) error) error
}
