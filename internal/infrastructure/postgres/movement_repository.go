package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del diario sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: este adaptador no expone UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, record_no, type, warehouse_id, product_id, quantity, unit_price,
		total_amount, counterparty_id, operator, transfer_group_id, remark, movement_date, created_at`

// Create persiste el asiento y asigna el ID de secuencia devuelto por la BD.
// Una violación del único de record_no se traduce a DuplicateDocumentError.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movement (record_no, type, warehouse_id, product_id, quantity, unit_price,
			total_amount, counterparty_id, operator, transfer_group_id, remark, movement_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		m.RecordNo, m.Type, m.WarehouseID, m.ProductID, m.Quantity, m.UnitPrice,
		m.TotalAmount, m.CounterpartyID, m.Operator, m.TransferGroupID, m.Remark,
		m.MovementDate, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateDocumentError{RecordNo: m.RecordNo}
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByRecordNo obtiene un asiento por número de documento, o nil si no existe.
func (r *StockMovementRepo) GetByRecordNo(recordNo string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movement WHERE record_no = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, recordNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement by record_no: %w", err)
	}
	return m, nil
}

// ListByWarehouseProduct lista el historial del par en el rango, por fecha de
// movimiento ascendente y empates por ID ascendente.
func (r *StockMovementRepo) ListByWarehouseProduct(warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movement WHERE warehouse_id = $1 AND product_id = $2`
	args := []any{warehouseID, productID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND movement_date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND movement_date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY movement_date ASC, id ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// LastRecordNo devuelve el mayor número de documento con el prefijo dado ("" si ninguno).
func (r *StockMovementRepo) LastRecordNo(prefix string) (string, error) {
	query := `SELECT record_no FROM stock_movement WHERE record_no LIKE $1 || '%' ORDER BY record_no DESC LIMIT 1`
	var recordNo string
	err := r.q.QueryRow(context.Background(), query, prefix).Scan(&recordNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last record_no: %w", err)
	}
	return recordNo, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.RecordNo, &m.Type, &m.WarehouseID, &m.ProductID, &m.Quantity, &m.UnitPrice,
		&m.TotalAmount, &m.CounterpartyID, &m.Operator, &m.TransferGroupID, &m.Remark,
		&m.MovementDate, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
