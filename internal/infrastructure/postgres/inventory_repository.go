package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de snapshots. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `warehouse_id, product_id, quantity, last_in_date, last_out_date, update_time`

// Get obtiene el snapshot del par, o nil si el par nunca tuvo movimientos.
func (r *InventoryRepo) Get(warehouseID, productID string) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE warehouse_id = $1 AND product_id = $2`
	inv, err := scanInventory(r.q.QueryRow(context.Background(), query, warehouseID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

// GetForUpdate obtiene el snapshot y bloquea la fila (SELECT FOR UPDATE).
// Si la fila no existe la crea en cero (ON CONFLICT DO NOTHING) y repite el
// bloqueo: dos primeros movimientos concurrentes del mismo par serializan
// sobre una fila real en vez de leer ambos un snapshot fantasma sin bloquear.
func (r *InventoryRepo) GetForUpdate(warehouseID, productID string) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE warehouse_id = $1 AND product_id = $2 FOR UPDATE`
	inv, err := scanInventory(r.q.QueryRow(context.Background(), query, warehouseID, productID))
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}

	insert := `INSERT INTO inventory (warehouse_id, product_id, quantity) VALUES ($1, $2, 0)
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, warehouseID, productID); err != nil {
		return nil, fmt.Errorf("init inventory row: %w", err)
	}

	inv, err = scanInventory(r.q.QueryRow(context.Background(), query, warehouseID, productID))
	if err != nil {
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}
	return inv, nil
}

// Upsert inserta o actualiza el snapshot del par (clave compuesta única).
func (r *InventoryRepo) Upsert(inv *entity.Inventory) error {
	query := `
		INSERT INTO inventory (warehouse_id, product_id, quantity, last_in_date, last_out_date, update_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
			last_in_date = EXCLUDED.last_in_date,
			last_out_date = EXCLUDED.last_out_date,
			update_time = EXCLUDED.update_time`
	_, err := r.q.Exec(context.Background(), query,
		inv.WarehouseID, inv.ProductID, inv.Quantity, inv.LastInDate, inv.LastOutDate, inv.UpdateTime,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}
	return nil
}

// ListByWarehouse lista los snapshots de una bodega.
func (r *InventoryRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE warehouse_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	return r.list(query, warehouseID, limit, offset)
}

// ListAll lista todos los snapshots (para el barrido de alertas).
func (r *InventoryRepo) ListAll(limit, offset int) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory
		ORDER BY warehouse_id, product_id LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

func (r *InventoryRepo) list(query string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var list []*entity.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := row.Scan(&inv.WarehouseID, &inv.ProductID, &inv.Quantity,
		&inv.LastInDate, &inv.LastOutDate, &inv.UpdateTime)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
