package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RequestTypeTransfer tipo de movimiento a nivel de petición; el caso de uso lo
// expande a las dos mitades TRANSFER_OUT (origen) y TRANSFER_IN (destino).
const RequestTypeTransfer = "TRANSFER"

// RegisterMovementUseCase registra movimientos de stock de forma transaccional:
// valida referencias, apunta el asiento en el diario y proyecta el snapshot con
// bloqueo de fila (SELECT FOR UPDATE), todo en una sola transacción.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	refs     *ReferenceValidator
	monitor  *ThresholdMonitor
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, refs *ReferenceValidator, monitor *ThresholdMonitor, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, refs: refs, monitor: monitor, log: log}
}

// MovementInput entrada para registrar un movimiento.
// Para IN/OUT/ADJUSTMENT: WarehouseID; para TRANSFER: FromWarehouseID y ToWarehouseID.
// Quantity es magnitud positiva salvo en ADJUSTMENT (delta con signo, nunca cero).
type MovementInput struct {
	RecordNo        string
	Type            string
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	ProductID       string
	Quantity        int64
	UnitPrice       *decimal.Decimal
	CounterpartyID  string
	Operator        string
	MovementDate    time.Time
	Remark          string
}

// MovementResult asientos creados, snapshots resultantes y alerta por snapshot.
// Un traslado produce dos asientos y dos snapshots; el resto, uno y uno.
type MovementResult struct {
	Movements []*entity.StockMovement
	Snapshots []*entity.Inventory
	Alerts    []stock.AlertState
}

// RegisterMovement valida la entrada y las referencias, y ejecuta la secuencia
// asiento+proyección en una transacción. Cualquier fallo (stock insuficiente,
// documento duplicado, contención) revierte la transacción completa: nunca queda
// un asiento sin proyectar ni una proyección sin asiento.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if err := uc.validateInput(input); err != nil {
		return nil, err
	}

	// Referencias inexistentes o inactivas se rechazan antes de abrir la
	// transacción: no se crea ningún asiento para ellas.
	if input.Type == RequestTypeTransfer {
		if err := uc.refs.ValidateTransfer(input.FromWarehouseID, input.ToWarehouseID, input.ProductID, input.CounterpartyID); err != nil {
			return nil, err
		}
	} else {
		if err := uc.refs.Validate(input.WarehouseID, input.ProductID, input.CounterpartyID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	res := &MovementResult{}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
	) error {
		res.Movements = res.Movements[:0]
		res.Snapshots = res.Snapshots[:0]
		if input.Type == RequestTypeTransfer {
			return uc.doTransfer(movRepo, invRepo, input, now, res)
		}
		return uc.doSimple(movRepo, invRepo, input, now, res)
	})
	if err != nil {
		return nil, err
	}

	// Alerta derivada tras cada proyección exitosa; un fallo de lectura aquí no
	// revierte el movimiento ya confirmado, pero queda registrado.
	for _, inv := range res.Snapshots {
		state, _, err := uc.monitor.Check(inv.ProductID, inv.Quantity)
		if err != nil {
			uc.log.Warn().Err(err).
				Str("warehouse_id", inv.WarehouseID).
				Str("product_id", inv.ProductID).
				Msg("derivar alerta tras movimiento confirmado")
			state = stock.AlertNormal
		}
		res.Alerts = append(res.Alerts, state)
	}
	return res, nil
}

// validateInput valida la forma del movimiento: cantidad positiva salvo
// ajuste, precio no negativo, fecha no futura.
func (uc *RegisterMovementUseCase) validateInput(input MovementInput) error {
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
		if input.WarehouseID == "" || input.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeADJUSTMENT:
		if input.WarehouseID == "" || input.Quantity == 0 {
			return domain.ErrInvalidInput
		}
	case RequestTypeTransfer:
		if input.FromWarehouseID == "" || input.ToWarehouseID == "" ||
			input.FromWarehouseID == input.ToWarehouseID || input.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	if input.ProductID == "" || input.Operator == "" {
		return domain.ErrInvalidInput
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return domain.ErrInvalidInput
	}
	if input.MovementDate.IsZero() || input.MovementDate.After(time.Now().Add(time.Minute)) {
		return domain.ErrInvalidInput
	}
	return nil
}

// doSimple registra IN, OUT o ADJUSTMENT: un asiento y una proyección.
func (uc *RegisterMovementUseCase) doSimple(
	movRepo repository.StockMovementRepository,
	invRepo repository.InventoryRepository,
	input MovementInput,
	now time.Time,
	res *MovementResult,
) error {
	generated := input.RecordNo == ""
	recordNo := input.RecordNo
	if generated {
		var err error
		recordNo, err = nextRecordNo(movRepo, input.Type, now)
		if err != nil {
			return err
		}
	}

	m := uc.buildMovement(input, input.Type, input.WarehouseID, recordNo, input.Quantity, now, nil)

	inv, err := applyToInventory(invRepo, m)
	if err != nil {
		return err
	}
	if err := movRepo.Create(m); err != nil {
		return classifyCreate(err, generated)
	}
	res.Movements = append(res.Movements, m)
	res.Snapshots = append(res.Snapshots, inv)
	return nil
}

// doTransfer registra las dos mitades de un traslado compartiendo transfer_group_id.
// Bloquea las dos filas de snapshot en orden ascendente de clave compuesta para
// evitar interbloqueos; ambas mitades se confirman o se revierten juntas.
func (uc *RegisterMovementUseCase) doTransfer(
	movRepo repository.StockMovementRepository,
	invRepo repository.InventoryRepository,
	input MovementInput,
	now time.Time,
	res *MovementResult,
) error {
	generated := input.RecordNo == ""
	baseNo := input.RecordNo
	if generated {
		var err error
		baseNo, err = nextRecordNo(movRepo, entity.MovementTypeTransferOUT, now)
		if err != nil {
			return err
		}
	}
	groupID := uuid.New().String()

	outMov := uc.buildMovement(input, entity.MovementTypeTransferOUT, input.FromWarehouseID,
		baseNo+stock.TransferSuffixOut, input.Quantity, now, &groupID)
	inMov := uc.buildMovement(input, entity.MovementTypeTransferIN, input.ToWarehouseID,
		baseNo+stock.TransferSuffixIn, input.Quantity, now, &groupID)

	// Orden global fijo de bloqueo: clave compuesta (bodega, producto) ascendente.
	originKey := snapshotKey(input.FromWarehouseID, input.ProductID)
	destKey := snapshotKey(input.ToWarehouseID, input.ProductID)

	var origin, dest *entity.Inventory
	var err error
	if originKey < destKey {
		if origin, err = invRepo.GetForUpdate(input.FromWarehouseID, input.ProductID); err != nil {
			return err
		}
		if dest, err = invRepo.GetForUpdate(input.ToWarehouseID, input.ProductID); err != nil {
			return err
		}
	} else {
		if dest, err = invRepo.GetForUpdate(input.ToWarehouseID, input.ProductID); err != nil {
			return err
		}
		if origin, err = invRepo.GetForUpdate(input.FromWarehouseID, input.ProductID); err != nil {
			return err
		}
	}

	if origin.Quantity < input.Quantity {
		return &domain.InsufficientStockError{
			WarehouseID: input.FromWarehouseID,
			ProductID:   input.ProductID,
			Available:   origin.Quantity,
			Requested:   input.Quantity,
		}
	}

	moveDate := input.MovementDate
	origin.Quantity -= input.Quantity
	origin.LastOutDate = &moveDate
	origin.UpdateTime = now
	dest.Quantity += input.Quantity
	dest.LastInDate = &moveDate
	dest.UpdateTime = now

	if err := invRepo.Upsert(origin); err != nil {
		return err
	}
	if err := invRepo.Upsert(dest); err != nil {
		return err
	}
	if err := movRepo.Create(outMov); err != nil {
		return classifyCreate(err, generated)
	}
	if err := movRepo.Create(inMov); err != nil {
		return classifyCreate(err, generated)
	}

	res.Movements = append(res.Movements, outMov, inMov)
	res.Snapshots = append(res.Snapshots, origin, dest)
	return nil
}

// buildMovement arma el asiento con el total calculado y la marca de creación.
func (uc *RegisterMovementUseCase) buildMovement(
	input MovementInput,
	movementType, warehouseID, recordNo string,
	quantity int64,
	now time.Time,
	groupID *string,
) *entity.StockMovement {
	var counterparty *string
	if input.CounterpartyID != "" {
		c := input.CounterpartyID
		counterparty = &c
	}
	m := &entity.StockMovement{
		RecordNo:        recordNo,
		Type:            movementType,
		WarehouseID:     warehouseID,
		ProductID:       input.ProductID,
		Quantity:        quantity,
		UnitPrice:       input.UnitPrice,
		CounterpartyID:  counterparty,
		Operator:        input.Operator,
		TransferGroupID: groupID,
		Remark:          input.Remark,
		MovementDate:    input.MovementDate,
		CreatedAt:       now,
	}
	m.TotalAmount = m.CalculateTotalAmount()
	return m
}

// applyToInventory proyecta el movimiento sobre su snapshot: bloquea la fila,
// aplica el delta con signo, rechaza cantidades negativas antes de escribir y
// actualiza cantidad y fechas de última entrada/salida en el mismo paso.
func applyToInventory(invRepo repository.InventoryRepository, m *entity.StockMovement) (*entity.Inventory, error) {
	inv, err := invRepo.GetForUpdate(m.WarehouseID, m.ProductID)
	if err != nil {
		return nil, err
	}

	delta := m.SignedDelta()
	newQty := inv.Quantity + delta
	if newQty < 0 {
		return nil, &domain.InsufficientStockError{
			WarehouseID: m.WarehouseID,
			ProductID:   m.ProductID,
			Available:   inv.Quantity,
			Requested:   -delta,
		}
	}

	moveDate := m.MovementDate
	inv.Quantity = newQty
	if delta > 0 {
		inv.LastInDate = &moveDate
	} else {
		inv.LastOutDate = &moveDate
	}
	inv.UpdateTime = m.CreatedAt

	if err := invRepo.Upsert(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// nextRecordNo genera el número de documento dentro de la transacción
// (contador diario por prefijo, tomado del mayor número ya emitido).
func nextRecordNo(movRepo repository.StockMovementRepository, movementType string, now time.Time) (string, error) {
	prefix := stock.DocPrefix(movementType)
	last, err := movRepo.LastRecordNo(prefix + now.Format("20060102"))
	if err != nil {
		return "", err
	}
	return stock.NextRecordNo(prefix, now, last), nil
}

func snapshotKey(warehouseID, productID string) string {
	return warehouseID + "|" + productID
}

// classifyCreate clasifica el rechazo de un asiento. Dos transacciones
// concurrentes pueden autogenerar el mismo número del contador diario; para el
// cliente, que no envió número alguno, eso es transitorio y debe reintentarse,
// no un duplicado suyo. Un número enviado por el cliente que ya existe sí lo es.
func classifyCreate(err error, generated bool) error {
	if generated && errors.Is(err, domain.ErrDuplicateDocument) {
		return domain.ErrContention
	}
	return err
}
