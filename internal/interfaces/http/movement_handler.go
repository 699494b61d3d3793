package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
)

// MovementHandler maneja el registro de movimientos de stock.
type MovementHandler struct {
	uc *ledger.RegisterMovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.RegisterMovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Apunta el asiento en el diario y proyecta el snapshot en una sola
//               transacción. Para TRANSFER se crean las dos mitades enlazadas.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "type, product_id, warehouse_id (o from/to para TRANSFER), quantity, operator, movement_date"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *MovementHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := in.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	res, err := h.uc.RegisterMovementFromRequest(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}

	out := dto.RegisterMovementResponse{
		Movements: dto.FromMovements(res.Movements),
		Snapshots: dto.FromInventories(res.Snapshots),
		Alerts:    make([]string, 0, len(res.Alerts)),
	}
	for _, a := range res.Alerts {
		out.Alerts = append(out.Alerts, string(a))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
