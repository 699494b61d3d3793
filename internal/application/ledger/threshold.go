package ledger

import (
	"errors"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

// ThresholdMonitor deriva el estado de alerta comparando la cantidad del snapshot
// contra los umbrales min/max del producto. Puramente derivado: no guarda estado
// propio y se recalcula bajo demanda.
type ThresholdMonitor struct {
	catalog repository.ReferenceCatalog
}

// NewThresholdMonitor construye el monitor sobre el catálogo maestro.
func NewThresholdMonitor(catalog repository.ReferenceCatalog) *ThresholdMonitor {
	return &ThresholdMonitor{catalog: catalog}
}

// Check evalúa la alerta para una cantidad dada. Un producto sin umbrales
// configurados (o ya retirado del maestro) se trata como umbrales en cero.
func (m *ThresholdMonitor) Check(productID string, quantity int64) (stock.AlertState, entity.StockThresholds, error) {
	t, err := m.catalog.ProductThresholds(productID)
	if errors.Is(err, domain.ErrNotFound) {
		return stock.EvaluateAlert(quantity, entity.StockThresholds{}), entity.StockThresholds{}, nil
	}
	if err != nil {
		return stock.AlertNormal, entity.StockThresholds{}, err
	}
	return stock.EvaluateAlert(quantity, t), t, nil
}
