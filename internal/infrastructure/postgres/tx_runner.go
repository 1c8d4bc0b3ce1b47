package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los bloqueos de fila (FOR UPDATE) y las actualizaciones condicionales dan la exclusión necesaria;
// fallas de serialización o deadlock se devuelven como domain.ErrConcurrentUpdate para que el caso de uso reintente.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repositories(tx)); err != nil {
		return asConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return asConflict(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Repositories arma el juego de repositorios sobre q (pool o tx).
func Repositories(q Querier) inventory.Repositories {
	return inventory.Repositories{
		Materials:   NewMaterialRepository(q),
		Sites:       NewSiteRepository(q),
		Persons:     NewPersonRepository(q),
		Lots:        NewStockLotRepository(q),
		Allocations: NewLotAllocationRepository(q),
		Movements:   NewMovementRepository(q),
		Loans:       NewLoanRepository(q),
		Details:     NewDetailRepository(q),
	}
}

func asConflict(err error) error {
	if isRetryable(err) && !errors.Is(err, domain.ErrConcurrentUpdate) {
		return fmt.Errorf("%w: %w", domain.ErrConcurrentUpdate, err)
	}
	return err
}
