package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// SnapshotDTO snapshot de stock de un par (bodega, producto) en respuestas.
type SnapshotDTO struct {
	WarehouseID string     `json:"warehouse_id"`
	ProductID   string     `json:"product_id"`
	Quantity    int64      `json:"quantity"`
	LastInDate  *time.Time `json:"last_in_date,omitempty"`
	LastOutDate *time.Time `json:"last_out_date,omitempty"`
	UpdateTime  time.Time  `json:"update_time"`
}

// FromInventory mapea el snapshot de dominio al DTO.
func FromInventory(inv *entity.Inventory) SnapshotDTO {
	return SnapshotDTO{
		WarehouseID: inv.WarehouseID,
		ProductID:   inv.ProductID,
		Quantity:    inv.Quantity,
		LastInDate:  inv.LastInDate,
		LastOutDate: inv.LastOutDate,
		UpdateTime:  inv.UpdateTime,
	}
}

// FromInventories mapea una lista de snapshots.
func FromInventories(list []*entity.Inventory) []SnapshotDTO {
	out := make([]SnapshotDTO, 0, len(list))
	for _, inv := range list {
		out = append(out, FromInventory(inv))
	}
	return out
}

// AlertDTO estado de alerta de un par frente a los umbrales del producto.
type AlertDTO struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Quantity    int64  `json:"quantity"`
	MinStock    int64  `json:"min_stock"`
	MaxStock    int64  `json:"max_stock"`
	State       string `json:"state"` // NORMAL, BELOW_MINIMUM, ABOVE_MAXIMUM
}

// RegisterMovementResponse resultado de un registro: asientos creados, snapshots
// resultantes y estado de alerta por snapshot (paralelo a snapshots).
type RegisterMovementResponse struct {
	Movements []MovementDTO `json:"movements"`
	Snapshots []SnapshotDTO `json:"snapshots"`
	Alerts    []string      `json:"alerts"`
}
