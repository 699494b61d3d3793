package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Para IN/OUT/ADJUSTMENT: warehouse_id; para TRANSFER: from_warehouse_id y to_warehouse_id.
// quantity es magnitud positiva salvo en ADJUSTMENT, donde lleva el signo del delta.
// record_no es opcional: si falta se genera con contador diario por prefijo.
type RegisterMovementRequest struct {
	RecordNo        string           `json:"record_no,omitempty"`
	Type            string           `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT TRANSFER"`
	WarehouseID     string           `json:"warehouse_id,omitempty"`
	FromWarehouseID string           `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string           `json:"to_warehouse_id,omitempty"`
	ProductID       string           `json:"product_id" validate:"required"`
	Quantity        int64            `json:"quantity" validate:"required"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	CounterpartyID  string           `json:"counterparty_id,omitempty"`
	Operator        string           `json:"operator" validate:"required"`
	MovementDate    time.Time        `json:"movement_date" validate:"required"`
	Remark          string           `json:"remark,omitempty"`
}

// Validate valida la forma del request (las reglas de negocio van en el caso de uso).
func (r *RegisterMovementRequest) Validate() error {
	return validate.Struct(r)
}

// MovementDTO representación de un asiento del diario en respuestas.
type MovementDTO struct {
	ID              int64            `json:"id"`
	RecordNo        string           `json:"record_no"`
	Type            string           `json:"type"`
	WarehouseID     string           `json:"warehouse_id"`
	ProductID       string           `json:"product_id"`
	Quantity        int64            `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	CounterpartyID  *string          `json:"counterparty_id,omitempty"`
	Operator        string           `json:"operator"`
	TransferGroupID *string          `json:"transfer_group_id,omitempty"`
	Remark          string           `json:"remark,omitempty"`
	MovementDate    time.Time        `json:"movement_date"`
	CreatedAt       time.Time        `json:"created_at"`
}

// FromMovement mapea la entidad de dominio al DTO.
func FromMovement(m *entity.StockMovement) MovementDTO {
	return MovementDTO{
		ID:              m.ID,
		RecordNo:        m.RecordNo,
		Type:            m.Type,
		WarehouseID:     m.WarehouseID,
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		TotalAmount:     m.TotalAmount,
		CounterpartyID:  m.CounterpartyID,
		Operator:        m.Operator,
		TransferGroupID: m.TransferGroupID,
		Remark:          m.Remark,
		MovementDate:    m.MovementDate,
		CreatedAt:       m.CreatedAt,
	}
}

// FromMovements mapea una lista de asientos.
func FromMovements(list []*entity.StockMovement) []MovementDTO {
	out := make([]MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, FromMovement(m))
	}
	return out
}
