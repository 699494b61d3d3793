package stock

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// AlertState estado de alerta derivado del snapshot frente a los umbrales del producto.
type AlertState string

const (
	AlertNormal       AlertState = "NORMAL"
	AlertBelowMinimum AlertState = "BELOW_MINIMUM"
	AlertAboveMaximum AlertState = "ABOVE_MAXIMUM"
)

// EvaluateAlert compara la cantidad actual contra los umbrales del producto
// (servicio de dominio, sin estado propio). MaxStock = 0 desactiva el límite superior.
func EvaluateAlert(quantity int64, t entity.StockThresholds) AlertState {
	if quantity < t.MinStock {
		return AlertBelowMinimum
	}
	if t.MaxStock > 0 && quantity > t.MaxStock {
		return AlertAboveMaximum
	}
	return AlertNormal
}
