package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func testMovement(recordNo string) *entity.StockMovement {
	return &entity.StockMovement{
		RecordNo:     recordNo,
		Type:         entity.MovementTypeIN,
		WarehouseID:  "W1",
		ProductID:    "P1",
		Quantity:     10,
		Operator:     "ana",
		MovementDate: time.Now().UTC().Add(-time.Hour),
		CreatedAt:    time.Now().UTC(),
	}
}

// Un error de fn descarta todo lo apuntado en staging: ni asientos ni snapshots.
func TestTxRunner_ErrorDescartaStaging(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	boom := errors.New("boom")

	err := runner.Run(context.Background(), func(movRepo repository.StockMovementRepository, invRepo repository.InventoryRepository) error {
		require.NoError(t, movRepo.Create(testMovement("ENT202608150001")))
		inv, err := invRepo.GetForUpdate("W1", "P1")
		require.NoError(t, err)
		inv.Quantity = 10
		require.NoError(t, invRepo.Upsert(inv))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	m, err := memory.NewMovementRepository(store).GetByRecordNo("ENT202608150001")
	require.NoError(t, err)
	assert.Nil(t, m)

	inv, err := memory.NewInventoryRepository(store).Get("W1", "P1")
	require.NoError(t, err)
	assert.Nil(t, inv)
}

func TestTxRunner_CommitAplicaTodo(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)

	err := runner.Run(context.Background(), func(movRepo repository.StockMovementRepository, invRepo repository.InventoryRepository) error {
		if err := movRepo.Create(testMovement("ENT202608150001")); err != nil {
			return err
		}
		inv, err := invRepo.GetForUpdate("W1", "P1")
		if err != nil {
			return err
		}
		inv.Quantity = 10
		return invRepo.Upsert(inv)
	})
	require.NoError(t, err)

	m, err := memory.NewMovementRepository(store).GetByRecordNo("ENT202608150001")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Positive(t, m.ID)

	inv, err := memory.NewInventoryRepository(store).Get("W1", "P1")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, int64(10), inv.Quantity)
}

// El duplicado se detecta también contra lo pendiente de la misma transacción.
func TestTxRunner_DuplicadoDentroDeLaTransaccion(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)

	err := runner.Run(context.Background(), func(movRepo repository.StockMovementRepository, _ repository.InventoryRepository) error {
		if err := movRepo.Create(testMovement("ENT202608150001")); err != nil {
			return err
		}
		return movRepo.Create(testMovement("ENT202608150001"))
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)
}

// LastRecordNo dentro de la transacción ve lo pendiente, así la numeración
// de las dos mitades de un traslado no colisiona.
func TestTxRunner_LastRecordNoIncluyePendientes(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)

	err := runner.Run(context.Background(), func(movRepo repository.StockMovementRepository, _ repository.InventoryRepository) error {
		if err := movRepo.Create(testMovement("ENT202608150003")); err != nil {
			return err
		}
		last, err := movRepo.LastRecordNo("ENT20260815")
		if err != nil {
			return err
		}
		assert.Equal(t, "ENT202608150003", last)
		return nil
	})
	require.NoError(t, err)
}

func TestTxRunner_ContextoCanceladoNoEjecuta(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := runner.Run(ctx, func(repository.StockMovementRepository, repository.InventoryRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
