package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/query"
)

// InventoryHandler maneja las consultas de snapshots, historial y alertas.
type InventoryHandler struct {
	uc *query.UseCase
}

// NewInventoryHandler construye el handler de consultas.
func NewInventoryHandler(uc *query.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// GetSnapshot godoc
// @Summary      Snapshot de stock de un par (bodega, producto)
// @Tags         inventory
// @Produce      json
// @Param        warehouseID  path  string  true  "ID de bodega"
// @Param        productID    path  string  true  "ID de producto"
// @Success      200  {object}  dto.SnapshotDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{warehouseID}/{productID} [get]
func (h *InventoryHandler) GetSnapshot(c *fiber.Ctx) error {
	inv, err := h.uc.GetSnapshot(c.Context(), c.Params("warehouseID"), c.Params("productID"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromInventory(inv))
}

// ListStock godoc
// @Summary      Snapshots de una bodega
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  query  string  true   "ID de bodega"
// @Param        limit         query  int     false  "máximo de filas (default 50)"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {array}   dto.SnapshotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "warehouse_id es obligatorio", Field: "warehouse_id",
		})
	}
	page := parsePage(c)
	list, err := h.uc.ListSnapshotsByWarehouse(c.Context(), warehouseID, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromInventories(list))
}

// GetMovement godoc
// @Summary      Asiento del diario por número de documento
// @Tags         inventory
// @Produce      json
// @Param        recordNo  path  string  true  "número de documento"
// @Success      200  {object}  dto.MovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{recordNo} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	m, err := h.uc.GetMovementByRecordNo(c.Context(), c.Params("recordNo"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromMovement(m))
}

// History godoc
// @Summary      Historial de movimientos de un par
// @Description  Movimientos del par ordenados por fecha de movimiento ascendente.
//               from/to acotan el rango en formato RFC 3339 y son opcionales.
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  query  string  true   "ID de bodega"
// @Param        product_id    query  string  true   "ID de producto"
// @Param        from          query  string  false  "desde (RFC 3339)"
// @Param        to            query  string  false  "hasta (RFC 3339)"
// @Param        limit         query  int     false  "máximo de filas (default 50)"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	productID := c.Query("product_id")
	if warehouseID == "" || productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "warehouse_id y product_id son obligatorios",
		})
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "from debe ser RFC 3339", Field: "from",
		})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "to debe ser RFC 3339", Field: "to",
		})
	}

	page := parsePage(c)
	list, err := h.uc.History(c.Context(), warehouseID, productID, from, to, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromMovements(list))
}

// GetAlert godoc
// @Summary      Estado de alerta de un par frente a los umbrales del producto
// @Tags         inventory
// @Produce      json
// @Param        warehouseID  path  string  true  "ID de bodega"
// @Param        productID    path  string  true  "ID de producto"
// @Success      200  {object}  dto.AlertDTO
// @Router       /api/inventory/alerts/{warehouseID}/{productID} [get]
func (h *InventoryHandler) GetAlert(c *fiber.Ctx) error {
	warehouseID := c.Params("warehouseID")
	productID := c.Params("productID")
	state, thresholds, quantity, err := h.uc.CheckThresholds(c.Context(), warehouseID, productID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.AlertDTO{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    quantity,
		MinStock:    thresholds.MinStock,
		MaxStock:    thresholds.MaxStock,
		State:       string(state),
	})
}

// ListWarnings godoc
// @Summary      Snapshots fuera de umbrales en todas las bodegas
// @Tags         inventory
// @Produce      json
// @Param        limit   query  int  false  "máximo de snapshots a revisar (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.AlertDTO
// @Router       /api/inventory/warnings [get]
func (h *InventoryHandler) ListWarnings(c *fiber.Ctx) error {
	page := parsePage(c)
	warnings, err := h.uc.StockWarnings(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.AlertDTO, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, dto.AlertDTO{
			WarehouseID: w.Inventory.WarehouseID,
			ProductID:   w.Inventory.ProductID,
			Quantity:    w.Inventory.Quantity,
			MinStock:    w.Thresholds.MinStock,
			MaxStock:    w.Thresholds.MaxStock,
			State:       string(w.State),
		})
	}
	return c.JSON(out)
}

func parsePage(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	page.DefaultPage()
	return page
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
