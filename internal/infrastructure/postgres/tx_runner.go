package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con
// lock_timeout acotado para que la contención por fila salga como error
// reintentable en vez de quedar bloqueada indefinidamente.
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMS int
}

// NewTxRunner construye el runner con el pool. lockTimeoutMS = 0 desactiva el límite.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMS int) *TxRunner {
	return &TxRunner{pool: pool, lockTimeoutMS: lockTimeoutMS}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit
// o Rollback. Timeout de bloqueo y fallos de serialización se traducen a
// domain.ErrContention; el resto de fallos de infraestructura a ErrStorageUnavailable.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	invRepo repository.InventoryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeoutMS > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeoutMS)); err != nil {
			return fmt.Errorf("%w: set lock_timeout: %v", domain.ErrStorageUnavailable, err)
		}
	}

	movRepo := NewStockMovementRepository(tx)
	invRepo := NewInventoryRepository(tx)

	if err := fn(movRepo, invRepo); err != nil {
		if isLockContention(err) {
			return domain.ErrContention
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isLockContention(err) {
			return domain.ErrContention
		}
		return fmt.Errorf("%w: commit transaction: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
