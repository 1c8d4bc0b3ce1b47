package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

func TestRetrier_ReintentaConflictoHastaExito(t *testing.T) {
	r := newRetrier(3, nil)
	calls := 0
	err := r.do(context.Background(), domain.ErrAlreadyFinalized, func() error {
		calls++
		if calls < 3 {
			return conflict(domain.ErrAlreadyFinalized)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetrier_AgotaReintentosYDevuelveErrorImplicado(t *testing.T) {
	r := newRetrier(2, nil)
	calls := 0
	err := r.do(context.Background(), domain.ErrAlreadyFinalized, func() error {
		calls++
		return conflict(domain.ErrOverReturn)
	})
	assert.ErrorIs(t, err, domain.ErrOverReturn)
	assert.NotErrorIs(t, err, domain.ErrConcurrentUpdate, "el conflicto interno no se expone")
	assert.Equal(t, 3, calls, "un intento inicial más dos reintentos")
}

func TestRetrier_ConflictoDelMotorUsaFallback(t *testing.T) {
	r := newRetrier(1, nil)
	err := r.do(context.Background(), domain.ErrInsufficientStock, func() error {
		return domain.ErrConcurrentUpdate
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrConcurrentUpdate)
}

func TestRetrier_ErrorPermanenteNoSeReintenta(t *testing.T) {
	r := newRetrier(5, nil)
	calls := 0
	boom := errors.New("boom")
	err := r.do(context.Background(), domain.ErrAlreadyFinalized, func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetrier_CeroReintentos(t *testing.T) {
	r := newRetrier(0, nil)
	calls := 0
	err := r.do(context.Background(), domain.ErrAlreadyFinalized, func() error {
		calls++
		return conflict(domain.ErrAlreadyFinalized)
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)
	assert.Equal(t, 1, calls)
}

func TestConflictError_EsAmbos(t *testing.T) {
	err := conflict(domain.ErrAlreadyFinalized)
	assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
}
