// Package http expone el diario de movimientos y las consultas de stock
// sobre Fiber. Los handlers delegan en los casos de uso de aplicación y
// este paquete solo traduce HTTP <-> dominio.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/query"
)

// RouterDeps dependencias de los handlers del API.
type RouterDeps struct {
	Register *ledger.RegisterMovementUseCase
	Query    *query.UseCase
}

// Router registra todas las rutas del API de inventario.
func Router(app *fiber.App, deps RouterDeps) {
	movements := NewMovementHandler(deps.Register)
	inventory := NewInventoryHandler(deps.Query)

	api := app.Group("/api/inventory")

	api.Post("/movements", movements.RegisterMovement)
	api.Get("/movements/:recordNo", inventory.GetMovement)

	api.Get("/stock", inventory.ListStock)
	api.Get("/stock/:warehouseID/:productID", inventory.GetSnapshot)

	api.Get("/history", inventory.History)

	api.Get("/alerts/:warehouseID/:productID", inventory.GetAlert)
	api.Get("/warnings", inventory.ListWarnings)
}
