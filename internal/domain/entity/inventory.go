package entity

import "time"

// Inventory representa el snapshot de stock actual de un producto en una bodega.
// Clave única compuesta (WarehouseID, ProductID); se crea perezosamente con el
// primer movimiento del par y nunca se borra mientras existan movimientos.
// Quantity nunca es negativa.
type Inventory struct {
	WarehouseID string
	ProductID   string
	Quantity    int64
	LastInDate  *time.Time // fecha de negocio de la última entrada
	LastOutDate *time.Time // fecha de negocio de la última salida
	UpdateTime  time.Time
}
