package stock

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Prefijos de número de documento por tipo de movimiento.
const (
	DocPrefixIN         = "ENT"
	DocPrefixOUT        = "SAL"
	DocPrefixTransfer   = "TRA"
	DocPrefixAdjustment = "AJU"
)

// Sufijos de las dos mitades de un traslado sobre el número base.
const (
	TransferSuffixOut = "-S" // salida en bodega origen
	TransferSuffixIn  = "-E" // entrada en bodega destino
)

// DocPrefix devuelve el prefijo de numeración para un tipo de movimiento.
func DocPrefix(movementType string) string {
	switch movementType {
	case entity.MovementTypeIN:
		return DocPrefixIN
	case entity.MovementTypeOUT:
		return DocPrefixOUT
	case entity.MovementTypeTransferIN, entity.MovementTypeTransferOUT:
		return DocPrefixTransfer
	case entity.MovementTypeADJUSTMENT:
		return DocPrefixAdjustment
	}
	return "DOC"
}

// NextRecordNo genera el siguiente número de documento con formato
// <prefijo><yyyymmdd><secuencia de 4 dígitos>, con contador diario.
// last es el mayor número ya emitido para prefijo+fecha ("" si ninguno).
func NextRecordNo(prefix string, date time.Time, last string) string {
	base := prefix + date.Format("20060102")
	seq := 1
	if len(last) >= len(base)+4 && last[:len(base)] == base {
		if n, err := strconv.Atoi(last[len(base) : len(base)+4]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", base, seq)
}
