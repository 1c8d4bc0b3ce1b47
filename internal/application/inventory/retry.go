package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// DefaultMaxRetries reintentos ante un compare-and-set perdido antes de rendirse.
const DefaultMaxRetries = 3

// conflictError marca un compare-and-set perdido junto con el error de dominio que
// implicaría si ya no quedan reintentos (p.ej. ErrAlreadyFinalized o ErrOverReturn).
type conflictError struct {
	implied error
}

func conflict(implied error) error { return &conflictError{implied: implied} }

func (e *conflictError) Error() string {
	return e.implied.Error() + " (" + domain.ErrConcurrentUpdate.Error() + ")"
}

func (e *conflictError) Unwrap() []error {
	return []error{e.implied, domain.ErrConcurrentUpdate}
}

// retrier reintenta una operación transaccional completa mientras falle por ErrConcurrentUpdate.
type retrier struct {
	maxRetries uint64
	initial    time.Duration
	log        *logger.Logger
}

func newRetrier(maxRetries int, log *logger.Logger) retrier {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if log == nil {
		log = logger.Nop()
	}
	return retrier{maxRetries: uint64(maxRetries), initial: 5 * time.Millisecond, log: log}
}

// do ejecuta op con backoff exponencial acotado. Cualquier error distinto de un conflicto
// se devuelve de inmediato. Agotados los reintentos se devuelve el error de dominio implicado
// o, si el conflicto vino del motor (serialización), fallback.
func (r retrier) do(ctx context.Context, fallback error, op func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.initial
	eb.MaxInterval = 20 * r.initial
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, r.maxRetries), ctx)

	err := backoff.RetryNotify(func() error {
		err := op()
		if err == nil || errors.Is(err, domain.ErrConcurrentUpdate) {
			return err
		}
		return backoff.Permanent(err)
	}, b, func(err error, wait time.Duration) {
		r.log.Debug().Err(err).Dur("wait", wait).Msg("conflicto de concurrencia, reintentando")
	})
	if err == nil || !errors.Is(err, domain.ErrConcurrentUpdate) {
		return err
	}

	r.log.Warn().Err(err).Uint64("max_retries", r.maxRetries).Msg("reintentos agotados")
	var ce *conflictError
	if errors.As(err, &ce) {
		return fmt.Errorf("%w: reintentos agotados", ce.implied)
	}
	return fmt.Errorf("%w: reintentos agotados", fallback)
}
