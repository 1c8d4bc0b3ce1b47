// Package memory implementa los puertos de persistencia sobre un estado en memoria con
// semántica transaccional: cada Run trabaja sobre una copia y solo la publica si fn no falla.
// Las transacciones se serializan con un mutex, por lo que nunca se observan efectos parciales.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store almacén transaccional en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios atados a una copia del estado; Commit si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(work.repositories()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

type state struct {
	materials   map[int64]entity.Material
	sites       map[int64]entity.Site
	persons     map[int64]entity.Person
	lots        map[int64]entity.StockLot
	allocations map[int64]entity.LotAllocation
	movements   map[int64]entity.Movement
	loans       map[int64]entity.Loan
	details     map[int64]entity.Detail
	seq         map[string]int64
}

func newState() *state {
	return &state{
		materials:   map[int64]entity.Material{},
		sites:       map[int64]entity.Site{},
		persons:     map[int64]entity.Person{},
		lots:        map[int64]entity.StockLot{},
		allocations: map[int64]entity.LotAllocation{},
		movements:   map[int64]entity.Movement{},
		loans:       map[int64]entity.Loan{},
		details:     map[int64]entity.Detail{},
		seq:         map[string]int64{},
	}
}

func (s *state) clone() *state {
	return &state{
		materials:   copyMap(s.materials),
		sites:       copyMap(s.sites),
		persons:     copyMap(s.persons),
		lots:        copyMap(s.lots),
		allocations: copyMap(s.allocations),
		movements:   copyMap(s.movements),
		loans:       copyMap(s.loans),
		details:     copyMap(s.details),
		seq:         copyMap(s.seq),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// nextID asigna el siguiente ID de la tabla; si id ya viene informado se respeta.
func (s *state) nextID(table string, id int64) int64 {
	if id != 0 {
		if id > s.seq[table] {
			s.seq[table] = id
		}
		return id
	}
	s.seq[table]++
	return s.seq[table]
}

func (s *state) repositories() inventory.Repositories {
	return inventory.Repositories{
		Materials:   materialRepo{s},
		Sites:       siteRepo{s},
		Persons:     personRepo{s},
		Lots:        lotRepo{s},
		Allocations: allocationRepo{s},
		Movements:   movementRepo{s},
		Loans:       loanRepo{s},
		Details:     detailRepo{s},
	}
}

func ptr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
