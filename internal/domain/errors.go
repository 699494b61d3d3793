package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnknownReference   = errors.New("referencia inexistente")
	ErrInactiveReference  = errors.New("referencia inactiva")
	ErrDuplicateDocument  = errors.New("número de documento duplicado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrContention         = errors.New("conflicto de concurrencia, reintentar")
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")
)

// ReferenceError identifica qué campo referenciado falló la validación
// (warehouse_id, product_id o counterparty_id) y por qué.
type ReferenceError struct {
	Field string
	ID    string
	Err   error // ErrUnknownReference o ErrInactiveReference
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s=%s: %s", e.Field, e.ID, e.Err)
}

func (e *ReferenceError) Unwrap() error { return e.Err }

// InsufficientStockError detalla la clave y cantidades del rechazo de stock.
type InsufficientStockError struct {
	WarehouseID string
	ProductID   string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en bodega %s para producto %s: disponible %d, solicitado %d",
		e.WarehouseID, e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// DuplicateDocumentError señala el número de documento rechazado.
type DuplicateDocumentError struct {
	RecordNo string
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("número de documento duplicado: %s", e.RecordNo)
}

func (e *DuplicateDocumentError) Unwrap() error { return ErrDuplicateDocument }
