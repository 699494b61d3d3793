package entity

// ReferenceKind clasifica las entidades maestras consultadas por el validador.
// El maestro de datos (productos, bodegas, terceros) es un colaborador externo:
// aquí solo se consultan por identificador opaco y estado activo/inactivo.
type ReferenceKind string

const (
	ReferenceWarehouse    ReferenceKind = "warehouse"
	ReferenceProduct      ReferenceKind = "product"
	ReferenceCounterparty ReferenceKind = "counterparty"
)

// StockThresholds umbrales min/max configurados a nivel de producto.
// MaxStock = 0 significa sin límite superior.
type StockThresholds struct {
	MinStock int64
	MaxStock int64
}
