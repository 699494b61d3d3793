package ledger

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso
// RegisterMovement(ctx, MovementInput). Usar desde handlers HTTP.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, in dto.RegisterMovementRequest) (*MovementResult, error) {
	input := MovementInput{
		RecordNo:        in.RecordNo,
		Type:            in.Type,
		WarehouseID:     in.WarehouseID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		CounterpartyID:  in.CounterpartyID,
		Operator:        in.Operator,
		MovementDate:    in.MovementDate,
		Remark:          in.Remark,
	}
	return uc.RegisterMovement(ctx, input)
}
