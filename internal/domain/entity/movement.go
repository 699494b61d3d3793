package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN          = "IN"           // entrada
	MovementTypeOUT         = "OUT"          // salida
	MovementTypeTransferIN  = "TRANSFER_IN"  // entrada por traslado (bodega destino)
	MovementTypeTransferOUT = "TRANSFER_OUT" // salida por traslado (bodega origen)
	MovementTypeADJUSTMENT  = "ADJUSTMENT"   // ajuste con signo
)

// StockMovement es un asiento inmutable del diario de movimientos.
// Quantity guarda la magnitud positiva para IN/OUT/TRANSFER_*; para
// ADJUSTMENT guarda el delta con signo tal como lo envió el operador.
// Una vez creado nunca se modifica ni se borra: las correcciones son
// nuevos movimientos ADJUSTMENT.
type StockMovement struct {
	ID              int64 // secuencia asignada por el diario
	RecordNo        string
	Type            string
	WarehouseID     string
	ProductID       string
	Quantity        int64
	UnitPrice       *decimal.Decimal // opcional, 2 decimales
	TotalAmount     decimal.Decimal
	CounterpartyID  *string // proveedor o cliente, opcional
	Operator        string
	TransferGroupID *string // une las dos mitades de un traslado
	Remark          string
	MovementDate    time.Time // fecha de negocio, la envía el operador
	CreatedAt       time.Time // asignada por el sistema
}

// ValidMovementType indica si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeTransferIN, MovementTypeTransferOUT, MovementTypeADJUSTMENT:
		return true
	}
	return false
}

// SignedDelta devuelve el efecto del movimiento sobre la cantidad en stock.
func (m *StockMovement) SignedDelta() int64 {
	switch m.Type {
	case MovementTypeIN, MovementTypeTransferIN:
		return m.Quantity
	case MovementTypeOUT, MovementTypeTransferOUT:
		return -m.Quantity
	case MovementTypeADJUSTMENT:
		return m.Quantity
	}
	return 0
}

// IsTransfer indica si el movimiento es mitad de un traslado.
func (m *StockMovement) IsTransfer() bool {
	return m.Type == MovementTypeTransferIN || m.Type == MovementTypeTransferOUT
}

// CalculateTotalAmount calcula cantidad × precio unitario (redondeado a 2 decimales).
// Sin precio unitario el total queda en cero; la magnitud se toma en valor absoluto
// porque el signo del ajuste no aplica al monto de auditoría.
func (m *StockMovement) CalculateTotalAmount() decimal.Decimal {
	if m.UnitPrice == nil {
		return decimal.Zero
	}
	qty := m.Quantity
	if qty < 0 {
		qty = -qty
	}
	return decimal.NewFromInt(qty).Mul(*m.UnitPrice).Round(2)
}
