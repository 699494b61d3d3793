package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ReferenceCatalog = (*ReferenceCatalogRepo)(nil)

// ReferenceCatalogRepo lecturas de solo consulta sobre las tablas maestras
// (propiedad del subsistema de maestros; aquí jamás se escriben).
type ReferenceCatalogRepo struct {
	q Querier
}

// NewReferenceCatalog construye el adaptador. Pasar pool o tx (Querier).
func NewReferenceCatalog(q Querier) *ReferenceCatalogRepo {
	return &ReferenceCatalogRepo{q: q}
}

// IsActive indica si la entidad existe y su estado es 'active'.
func (r *ReferenceCatalogRepo) IsActive(kind entity.ReferenceKind, id string) (bool, error) {
	var table string
	switch kind {
	case entity.ReferenceWarehouse:
		table = "warehouses"
	case entity.ReferenceProduct:
		table = "products"
	case entity.ReferenceCounterparty:
		table = "counterparties"
	default:
		return false, fmt.Errorf("tipo de referencia desconocido: %s", kind)
	}

	query := fmt.Sprintf(`SELECT status FROM %s WHERE id = $1`, table)
	var status string
	err := r.q.QueryRow(context.Background(), query, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("consultar estado de %s: %w", kind, err)
	}
	return status == "active", nil
}

// ProductThresholds devuelve los umbrales min/max configurados del producto.
func (r *ReferenceCatalogRepo) ProductThresholds(productID string) (entity.StockThresholds, error) {
	query := `SELECT min_stock, max_stock FROM products WHERE id = $1`
	var t entity.StockThresholds
	err := r.q.QueryRow(context.Background(), query, productID).Scan(&t.MinStock, &t.MaxStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.StockThresholds{}, domain.ErrNotFound
		}
		return entity.StockThresholds{}, fmt.Errorf("consultar umbrales de producto: %w", err)
	}
	return t, nil
}
