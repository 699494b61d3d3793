package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestSignedDelta_PorTipo(t *testing.T) {
	cases := []struct {
		tipo     string
		quantity int64
		want     int64
	}{
		{entity.MovementTypeIN, 10, 10},
		{entity.MovementTypeTransferIN, 10, 10},
		{entity.MovementTypeOUT, 10, -10},
		{entity.MovementTypeTransferOUT, 10, -10},
		{entity.MovementTypeADJUSTMENT, 7, 7},
		{entity.MovementTypeADJUSTMENT, -7, -7},
	}
	for _, c := range cases {
		m := &entity.StockMovement{Type: c.tipo, Quantity: c.quantity}
		assert.Equal(t, c.want, m.SignedDelta(), "tipo %s cantidad %d", c.tipo, c.quantity)
	}
}

func TestValidMovementType(t *testing.T) {
	assert.True(t, entity.ValidMovementType(entity.MovementTypeIN))
	assert.True(t, entity.ValidMovementType(entity.MovementTypeADJUSTMENT))
	assert.False(t, entity.ValidMovementType("TRANSFER"), "TRANSFER es tipo de petición, no de asiento")
	assert.False(t, entity.ValidMovementType(""))
}

func TestIsTransfer(t *testing.T) {
	assert.True(t, (&entity.StockMovement{Type: entity.MovementTypeTransferIN}).IsTransfer())
	assert.True(t, (&entity.StockMovement{Type: entity.MovementTypeTransferOUT}).IsTransfer())
	assert.False(t, (&entity.StockMovement{Type: entity.MovementTypeIN}).IsTransfer())
}

func TestCalculateTotalAmount_CantidadPorPrecio(t *testing.T) {
	price := decimal.RequireFromString("12.50")
	m := &entity.StockMovement{Type: entity.MovementTypeIN, Quantity: 4, UnitPrice: &price}
	assert.True(t, m.CalculateTotalAmount().Equal(decimal.RequireFromString("50.00")))
}

func TestCalculateTotalAmount_SinPrecioEsCero(t *testing.T) {
	m := &entity.StockMovement{Type: entity.MovementTypeIN, Quantity: 4}
	assert.True(t, m.CalculateTotalAmount().IsZero())
}

// El monto de un ajuste negativo se audita en valor absoluto.
func TestCalculateTotalAmount_AjusteNegativoUsaValorAbsoluto(t *testing.T) {
	price := decimal.RequireFromString("3.00")
	m := &entity.StockMovement{Type: entity.MovementTypeADJUSTMENT, Quantity: -5, UnitPrice: &price}
	assert.True(t, m.CalculateTotalAmount().Equal(decimal.RequireFromString("15.00")))
}

func TestCalculateTotalAmount_RedondeaADosDecimales(t *testing.T) {
	price := decimal.RequireFromString("0.333")
	m := &entity.StockMovement{Type: entity.MovementTypeOUT, Quantity: 3, UnitPrice: &price}
	assert.True(t, m.CalculateTotalAmount().Equal(decimal.RequireFromString("1.00")),
		"3 × 0.333 = 0.999 debe redondear a 1.00")
}
