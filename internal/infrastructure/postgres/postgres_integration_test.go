//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// setupPostgres levanta un PostgreSQL desechable, aplica migraciones y carga registros base.
func setupPostgres(t *testing.T) *postgres.TxRunner {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("almacen"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	log := logger.Nop()
	require.NoError(t, postgres.Migrate(dsn, log))
	require.NoError(t, postgres.Migrate(dsn, log), "migrar dos veces no falla")

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tx := postgres.NewTxRunner(pool)
	require.NoError(t, inventory.LoadFixtures(ctx, tx, &inventory.Fixtures{
		Sites:     []inventory.SiteFixture{{ID: 1, Name: "Central"}, {ID: 2, Name: "Norte"}},
		Persons:   []inventory.PersonFixture{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Luis"}},
		Materials: []inventory.MaterialFixture{{ID: 1, Name: "Proyector", HomeSiteID: 1, RequiresReturn: true}},
		Lots:      []inventory.LotFixture{{MaterialID: 1, SiteID: 1, Quantity: 6}, {MaterialID: 1, SiteID: 1, Quantity: 4}},
	}))
	return tx
}

func TestIntegration_PrestamoYDevoluciones(t *testing.T) {
	tx := setupPostgres(t)
	ctx := context.Background()
	log := logger.Nop()

	ledger := inventory.NewStockLedgerUseCase(tx, log)
	builder := inventory.NewCreateMovementUseCase(tx, log)
	approval := inventory.NewApprovalUseCase(tx, log, inventory.DefaultMaxRetries)
	loans := inventory.NewLoanReturnUseCase(tx, log, inventory.DefaultMaxRetries)

	mov, err := builder.CreateMovement(ctx, inventory.MovementInput{
		Type: entity.MovementTypeLoan, MaterialID: 1, Quantity: 8, RequestedBy: 2, OriginSiteID: 1, DestinationSiteID: 2,
	})
	require.NoError(t, err)
	loaned, err := approval.Approve(ctx, mov.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStateLoaned, loaned.State)

	q, err := ledger.AvailableQuantity(ctx, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, q)

	_, err = loans.SettleReturn(ctx, mov.ID, 5, 2)
	require.NoError(t, err)
	s, err := loans.SettleReturn(ctx, mov.ID, 3, 2)
	require.NoError(t, err)
	assert.Zero(t, s.Loan.Balance)
	assert.Equal(t, entity.MovementStateReturned, s.LoanMovement.State)

	_, err = loans.SettleReturn(ctx, mov.ID, 1, 2)
	assert.ErrorIs(t, err, domain.ErrOverReturn)

	q, err = ledger.AvailableQuantity(ctx, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 10, q)

	returns, err := loans.ListReturns(ctx, mov.ID)
	require.NoError(t, err)
	assert.Len(t, returns, 2)
}

func TestIntegration_AprobacionesConcurrentes(t *testing.T) {
	tx := setupPostgres(t)
	ctx := context.Background()
	log := logger.Nop()

	builder := inventory.NewCreateMovementUseCase(tx, log)
	approval := inventory.NewApprovalUseCase(tx, log, inventory.DefaultMaxRetries)
	ledger := inventory.NewStockLedgerUseCase(tx, log)

	var ids []int64
	for i := 0; i < 6; i++ {
		mov, err := builder.CreateMovement(ctx, inventory.MovementInput{
			Type: entity.MovementTypeRequest, MaterialID: 1, Quantity: 3, RequestedBy: 2, OriginSiteID: 1, DestinationSiteID: 2,
		})
		require.NoError(t, err)
		ids = append(ids, mov.ID)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		approved int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := approval.Approve(ctx, id, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				approved++
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, approved, "10 unidades alcanzan para tres solicitudes de 3")
	q, err := ledger.AvailableQuantity(ctx, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, q)
}

func TestIntegration_DevolucionesConcurrentes(t *testing.T) {
	tx := setupPostgres(t)
	ctx := context.Background()
	log := logger.Nop()

	builder := inventory.NewCreateMovementUseCase(tx, log)
	approval := inventory.NewApprovalUseCase(tx, log, inventory.DefaultMaxRetries)
	loans := inventory.NewLoanReturnUseCase(tx, log, inventory.DefaultMaxRetries)
	ledger := inventory.NewStockLedgerUseCase(tx, log)

	mov, err := builder.CreateMovement(ctx, inventory.MovementInput{
		Type: entity.MovementTypeLoan, MaterialID: 1, Quantity: 3, RequestedBy: 2, OriginSiteID: 1, DestinationSiteID: 2,
	})
	require.NoError(t, err)
	_, err = approval.Approve(ctx, mov.ID, 1)
	require.NoError(t, err)

	const callers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		settled  int
		rejected int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := loans.SettleReturn(ctx, mov.ID, 1, 2)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				settled++
				return
			}
			if assert.ErrorIs(t, err, domain.ErrOverReturn) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, settled)
	assert.Equal(t, callers-3, rejected)

	q, err := ledger.AvailableQuantity(ctx, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 10, q, "el saldo prestado vuelve exactamente una vez")

	final, err := approval.GetMovement(ctx, mov.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStateReturned, final.State)

	returns, err := loans.ListReturns(ctx, mov.ID)
	require.NoError(t, err)
	assert.Len(t, returns, 3)
}
