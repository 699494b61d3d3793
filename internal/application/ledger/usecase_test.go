package ledger_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// newTestEnv construye el caso de uso sobre el adaptador en memoria, con
// maestros sembrados: bodegas W1 y W2 activas, producto P1 con umbrales
// (min 10, max 100) y tercero C1 activo.
func newTestEnv(t *testing.T) (*memory.Store, *ledger.RegisterMovementUseCase) {
	t.Helper()
	store := memory.NewStore()
	store.SeedReference(entity.ReferenceWarehouse, "W1", true)
	store.SeedReference(entity.ReferenceWarehouse, "W2", true)
	store.SeedReference(entity.ReferenceCounterparty, "C1", true)
	store.SeedProduct("P1", true, entity.StockThresholds{MinStock: 10, MaxStock: 100})

	uc := ledger.NewRegisterMovementUseCase(
		memory.NewTxRunner(store),
		ledger.NewReferenceValidator(store),
		ledger.NewThresholdMonitor(store),
		logger.Nop(),
	)
	return store, uc
}

func movementDate() time.Time {
	return time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
}

func inboundInput(quantity int64) ledger.MovementInput {
	return ledger.MovementInput{
		Type:         entity.MovementTypeIN,
		WarehouseID:  "W1",
		ProductID:    "P1",
		Quantity:     quantity,
		Operator:     "ana",
		MovementDate: movementDate(),
	}
}

func outboundInput(quantity int64) ledger.MovementInput {
	in := inboundInput(quantity)
	in.Type = entity.MovementTypeOUT
	return in
}

func register(t *testing.T, uc *ledger.RegisterMovementUseCase, in ledger.MovementInput) *ledger.MovementResult {
	t.Helper()
	res, err := uc.RegisterMovement(context.Background(), in)
	require.NoError(t, err)
	return res
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas, salidas y ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaCreaSnapshot(t *testing.T) {
	_, uc := newTestEnv(t)

	res := register(t, uc, inboundInput(100))

	require.Len(t, res.Movements, 1)
	require.Len(t, res.Snapshots, 1)
	assert.Equal(t, int64(100), res.Snapshots[0].Quantity)
	assert.NotNil(t, res.Snapshots[0].LastInDate, "la entrada debe fijar la fecha de última entrada")
	assert.Nil(t, res.Snapshots[0].LastOutDate)
	assert.True(t, strings.HasPrefix(res.Movements[0].RecordNo, stock.DocPrefixIN),
		"número generado con prefijo de entrada: %s", res.Movements[0].RecordNo)
}

func TestRegisterMovement_SalidaDescuentaStock(t *testing.T) {
	_, uc := newTestEnv(t)
	register(t, uc, inboundInput(100))

	res := register(t, uc, outboundInput(30))

	assert.Equal(t, int64(70), res.Snapshots[0].Quantity)
	assert.NotNil(t, res.Snapshots[0].LastOutDate)
}

// Una salida mayor al disponible se rechaza sin dejar rastro: ni asiento
// nuevo en el diario ni cambio en el snapshot.
func TestRegisterMovement_SalidaInsuficienteRevierteTodo(t *testing.T) {
	store, uc := newTestEnv(t)
	register(t, uc, inboundInput(100))
	register(t, uc, outboundInput(30))

	_, err := uc.RegisterMovement(context.Background(), outboundInput(80))

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(70), stockErr.Available)
	assert.Equal(t, int64(80), stockErr.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	movs, err := memory.NewMovementRepository(store).ListByWarehouseProduct("W1", "P1", nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 2, "el diario conserva solo los dos asientos confirmados")

	inv, err := memory.NewInventoryRepository(store).Get("W1", "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(70), inv.Quantity)
}

func TestRegisterMovement_AjustePositivoYNegativo(t *testing.T) {
	_, uc := newTestEnv(t)
	register(t, uc, inboundInput(50))

	adj := inboundInput(-8)
	adj.Type = entity.MovementTypeADJUSTMENT
	res := register(t, uc, adj)
	assert.Equal(t, int64(42), res.Snapshots[0].Quantity)

	adj.Quantity = 3
	res = register(t, uc, adj)
	assert.Equal(t, int64(45), res.Snapshots[0].Quantity)
	assert.True(t, strings.HasPrefix(res.Movements[0].RecordNo, stock.DocPrefixAdjustment))
}

// Un ajuste que dejaría la cantidad negativa se rechaza igual que una salida.
func TestRegisterMovement_AjusteBajoCeroRechazado(t *testing.T) {
	_, uc := newTestEnv(t)
	register(t, uc, inboundInput(10))

	adj := inboundInput(-11)
	adj.Type = entity.MovementTypeADJUSTMENT
	_, err := uc.RegisterMovement(context.Background(), adj)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRegisterMovement_TotalCalculado(t *testing.T) {
	_, uc := newTestEnv(t)

	price := decimal.RequireFromString("2.50")
	in := inboundInput(4)
	in.UnitPrice = &price
	res := register(t, uc, in)

	assert.True(t, res.Movements[0].TotalAmount.Equal(decimal.RequireFromString("10.00")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración e idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_NumeracionDiariaConsecutiva(t *testing.T) {
	_, uc := newTestEnv(t)

	r1 := register(t, uc, inboundInput(10))
	r2 := register(t, uc, inboundInput(10))

	n1, n2 := r1.Movements[0].RecordNo, r2.Movements[0].RecordNo
	require.Len(t, n1, len(stock.DocPrefixIN)+12)
	assert.Equal(t, n1[:len(n1)-4], n2[:len(n2)-4], "mismo prefijo y fecha")
	assert.Equal(t, "0001", n1[len(n1)-4:])
	assert.Equal(t, "0002", n2[len(n2)-4:])
}

func TestRegisterMovement_DocumentoDuplicadoRechazado(t *testing.T) {
	store, uc := newTestEnv(t)

	in := inboundInput(10)
	in.RecordNo = "ENT202608150001"
	register(t, uc, in)

	in.Quantity = 25
	_, err := uc.RegisterMovement(context.Background(), in)

	var dupErr *domain.DuplicateDocumentError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "ENT202608150001", dupErr.RecordNo)

	// El reintento rechazado no altera el snapshot.
	inv, err := memory.NewInventoryRepository(store).Get("W1", "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), inv.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func transferInput(quantity int64) ledger.MovementInput {
	return ledger.MovementInput{
		Type:            ledger.RequestTypeTransfer,
		FromWarehouseID: "W1",
		ToWarehouseID:   "W2",
		ProductID:       "P1",
		Quantity:        quantity,
		Operator:        "ana",
		MovementDate:    movementDate(),
	}
}

func TestRegisterMovement_TrasladoCreaDosMitades(t *testing.T) {
	_, uc := newTestEnv(t)
	register(t, uc, inboundInput(70))

	res := register(t, uc, transferInput(20))

	require.Len(t, res.Movements, 2)
	require.Len(t, res.Snapshots, 2)

	outMov, inMov := res.Movements[0], res.Movements[1]
	assert.Equal(t, entity.MovementTypeTransferOUT, outMov.Type)
	assert.Equal(t, entity.MovementTypeTransferIN, inMov.Type)
	assert.Equal(t, "W1", outMov.WarehouseID)
	assert.Equal(t, "W2", inMov.WarehouseID)

	require.NotNil(t, outMov.TransferGroupID)
	require.NotNil(t, inMov.TransferGroupID)
	assert.Equal(t, *outMov.TransferGroupID, *inMov.TransferGroupID,
		"ambas mitades comparten el grupo de traslado")

	assert.True(t, strings.HasSuffix(outMov.RecordNo, "-S"))
	assert.True(t, strings.HasSuffix(inMov.RecordNo, "-E"))
	assert.Equal(t, strings.TrimSuffix(outMov.RecordNo, "-S"), strings.TrimSuffix(inMov.RecordNo, "-E"))

	origin, dest := res.Snapshots[0], res.Snapshots[1]
	assert.Equal(t, int64(50), origin.Quantity)
	assert.Equal(t, int64(20), dest.Quantity)
	assert.NotNil(t, origin.LastOutDate)
	assert.NotNil(t, dest.LastInDate)
}

// Si el origen no alcanza, ninguna de las dos mitades queda escrita.
func TestRegisterMovement_TrasladoInsuficienteRevierteAmbasMitades(t *testing.T) {
	store, uc := newTestEnv(t)
	register(t, uc, inboundInput(15))

	_, err := uc.RegisterMovement(context.Background(), transferInput(20))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	invRepo := memory.NewInventoryRepository(store)
	origin, err := invRepo.Get("W1", "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), origin.Quantity, "el origen no cambia")

	dest, err := invRepo.Get("W2", "P1")
	require.NoError(t, err)
	assert.Nil(t, dest, "el destino nunca llega a crearse")

	movs, err := memory.NewMovementRepository(store).ListByWarehouseProduct("W2", "P1", nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestRegisterMovement_TrasladoMismaBodegaInvalido(t *testing.T) {
	_, uc := newTestEnv(t)
	in := transferInput(5)
	in.ToWarehouseID = "W1"
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada y referencias
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradasInvalidas(t *testing.T) {
	_, uc := newTestEnv(t)

	cases := map[string]ledger.MovementInput{
		"tipo desconocido":  {Type: "MERGE", WarehouseID: "W1", ProductID: "P1", Quantity: 1, Operator: "ana", MovementDate: movementDate()},
		"cantidad cero":     func() ledger.MovementInput { i := inboundInput(0); return i }(),
		"cantidad negativa": func() ledger.MovementInput { i := outboundInput(-5); return i }(),
		"ajuste cero": func() ledger.MovementInput {
			i := inboundInput(0)
			i.Type = entity.MovementTypeADJUSTMENT
			return i
		}(),
		"sin operador": func() ledger.MovementInput { i := inboundInput(1); i.Operator = ""; return i }(),
		"fecha futura": func() ledger.MovementInput {
			i := inboundInput(1)
			i.MovementDate = time.Now().Add(48 * time.Hour)
			return i
		}(),
		"precio negativo": func() ledger.MovementInput {
			i := inboundInput(1)
			p := decimal.RequireFromString("-1")
			i.UnitPrice = &p
			return i
		}(),
	}
	for name, in := range cases {
		_, err := uc.RegisterMovement(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestRegisterMovement_BodegaDesconocidaNoAbreTransaccion(t *testing.T) {
	store, uc := newTestEnv(t)

	in := inboundInput(10)
	in.WarehouseID = "W-NO"
	_, err := uc.RegisterMovement(context.Background(), in)

	var refErr *domain.ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "warehouse_id", refErr.Field)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)

	movs, err := memory.NewMovementRepository(store).LastRecordNo(stock.DocPrefixIN)
	require.NoError(t, err)
	assert.Empty(t, movs, "no se emite ningún número de documento")
}

func TestRegisterMovement_ProductoInactivoRechazado(t *testing.T) {
	store, uc := newTestEnv(t)
	store.SeedProduct("P-OFF", false, entity.StockThresholds{})

	in := inboundInput(10)
	in.ProductID = "P-OFF"
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInactiveReference)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas derivadas
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_AlertaBajoMinimoTrasSalida(t *testing.T) {
	_, uc := newTestEnv(t)
	register(t, uc, inboundInput(20))

	res := register(t, uc, outboundInput(15))

	require.Len(t, res.Alerts, 1)
	assert.Equal(t, stock.AlertBelowMinimum, res.Alerts[0], "quedan 5 con mínimo 10")
}

func TestRegisterMovement_AlertaSobreMaximoTrasEntrada(t *testing.T) {
	_, uc := newTestEnv(t)

	res := register(t, uc, inboundInput(150))

	require.Len(t, res.Alerts, 1)
	assert.Equal(t, stock.AlertAboveMaximum, res.Alerts[0], "150 con máximo 100")
}

func TestRegisterMovement_TrasladoAlertaPorBodega(t *testing.T) {
	_, uc := newTestEnv(t)
	register(t, uc, inboundInput(60))

	res := register(t, uc, transferInput(55))

	require.Len(t, res.Alerts, 2)
	assert.Equal(t, stock.AlertBelowMinimum, res.Alerts[0], "origen queda en 5")
	assert.Equal(t, stock.AlertNormal, res.Alerts[1], "destino queda en 55")
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia y conservación
// ──────────────────────────────────────────────────────────────────────────────

// Con Q unidades y N salidas concurrentes de q unidades cada una, prosperan
// exactamente floor(Q/q) y el resto se rechaza por stock insuficiente.
func TestRegisterMovement_SalidasConcurrentesNuncaBajoCero(t *testing.T) {
	store, uc := newTestEnv(t)
	register(t, uc, inboundInput(50))

	const workers = 20
	const each = 3

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RegisterMovement(context.Background(), outboundInput(each))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			insufficient++
		}
	}
	assert.Equal(t, 16, ok, "floor(50/3) salidas exitosas")
	assert.Equal(t, 4, insufficient)

	inv, err := memory.NewInventoryRepository(store).Get("W1", "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(50-16*each), inv.Quantity)
}

// La suma de deltas con signo del diario reproduce exactamente el snapshot.
func TestRegisterMovement_ConservacionDiarioSnapshot(t *testing.T) {
	store, uc := newTestEnv(t)

	register(t, uc, inboundInput(100))
	register(t, uc, outboundInput(30))
	adj := inboundInput(-5)
	adj.Type = entity.MovementTypeADJUSTMENT
	register(t, uc, adj)
	register(t, uc, transferInput(25))

	for _, wh := range []string{"W1", "W2"} {
		movs, err := memory.NewMovementRepository(store).ListByWarehouseProduct(wh, "P1", nil, nil, 100, 0)
		require.NoError(t, err)

		var sum int64
		for _, m := range movs {
			sum += m.SignedDelta()
		}
		inv, err := memory.NewInventoryRepository(store).Get(wh, "P1")
		require.NoError(t, err)
		require.NotNil(t, inv)
		assert.Equal(t, inv.Quantity, sum, "bodega %s", wh)
	}
}
