package ledger

import (
	"errors"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReferenceValidator confirma que las referencias de un movimiento existen y
// están activas antes de admitirlo. Falla rápido con domain.ReferenceError
// indicando el campo ofensivo. Sin efectos secundarios.
type ReferenceValidator struct {
	catalog repository.ReferenceCatalog
}

// NewReferenceValidator construye el validador sobre el catálogo maestro.
func NewReferenceValidator(catalog repository.ReferenceCatalog) *ReferenceValidator {
	return &ReferenceValidator{catalog: catalog}
}

// Validate comprueba bodega, producto y tercero (solo si viene informado).
func (v *ReferenceValidator) Validate(warehouseID, productID, counterpartyID string) error {
	if err := v.check(entity.ReferenceWarehouse, "warehouse_id", warehouseID); err != nil {
		return err
	}
	return v.validateCommon(productID, counterpartyID)
}

// ValidateTransfer comprueba ambas bodegas de un traslado, el producto y el tercero.
func (v *ReferenceValidator) ValidateTransfer(fromWarehouseID, toWarehouseID, productID, counterpartyID string) error {
	if err := v.check(entity.ReferenceWarehouse, "from_warehouse_id", fromWarehouseID); err != nil {
		return err
	}
	if err := v.check(entity.ReferenceWarehouse, "to_warehouse_id", toWarehouseID); err != nil {
		return err
	}
	return v.validateCommon(productID, counterpartyID)
}

func (v *ReferenceValidator) validateCommon(productID, counterpartyID string) error {
	if err := v.check(entity.ReferenceProduct, "product_id", productID); err != nil {
		return err
	}
	if counterpartyID != "" {
		return v.check(entity.ReferenceCounterparty, "counterparty_id", counterpartyID)
	}
	return nil
}

func (v *ReferenceValidator) check(kind entity.ReferenceKind, field, id string) error {
	active, err := v.catalog.IsActive(kind, id)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ReferenceError{Field: field, ID: id, Err: domain.ErrUnknownReference}
	}
	if err != nil {
		return err
	}
	if !active {
		return &domain.ReferenceError{Field: field, ID: id, Err: domain.ErrInactiveReference}
	}
	return nil
}
