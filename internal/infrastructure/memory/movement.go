package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var (
	_ repository.MovementRepository = movementRepo{}
	_ repository.LoanRepository     = loanRepo{}
	_ repository.DetailRepository   = detailRepo{}
)

type movementRepo struct{ st *state }

func copyMovement(m entity.Movement) *entity.Movement {
	m.ApprovedBy = ptr(m.ApprovedBy)
	m.DestinationSiteID = ptr(m.DestinationSiteID)
	m.LoanMovementID = ptr(m.LoanMovementID)
	m.LoanID = ptr(m.LoanID)
	m.DetailID = ptr(m.DetailID)
	m.ApprovedAt = ptr(m.ApprovedAt)
	return &m
}

func byCreation(out []*entity.Movement) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
}

func (r movementRepo) Create(_ context.Context, m *entity.Movement) error {
	m.ID = r.st.nextID("movements", m.ID)
	r.st.movements[m.ID] = *copyMovement(*m)
	return nil
}

func (r movementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	m, ok := r.st.movements[id]
	if !ok {
		return nil, nil
	}
	return copyMovement(m), nil
}

func (r movementRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r movementRepo) UpdateState(_ context.Context, m *entity.Movement, expectedState string) error {
	stored, ok := r.st.movements[m.ID]
	if !ok || stored.State != expectedState {
		return domain.ErrConcurrentUpdate
	}
	stored.State = m.State
	stored.ApprovedBy = ptr(m.ApprovedBy)
	stored.ApprovedAt = ptr(m.ApprovedAt)
	stored.LoanID = ptr(m.LoanID)
	stored.UpdatedAt = m.UpdatedAt
	r.st.movements[m.ID] = stored
	return nil
}

func (r movementRepo) ListActiveLoans(_ context.Context, materialID int64) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.st.movements {
		if m.Type != entity.MovementTypeLoan || m.State != entity.MovementStateLoaned || m.MaterialID != materialID {
			continue
		}
		if m.LoanID == nil {
			continue
		}
		if l, ok := r.st.loans[*m.LoanID]; !ok || !l.IsOutstanding() {
			continue
		}
		out = append(out, copyMovement(m))
	}
	byCreation(out)
	return out, nil
}

func (r movementRepo) ListByLoanMovement(_ context.Context, loanMovementID int64) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.st.movements {
		if m.Type == entity.MovementTypeReturn && m.LoanMovementID != nil && *m.LoanMovementID == loanMovementID {
			out = append(out, copyMovement(m))
		}
	}
	byCreation(out)
	return out, nil
}

type loanRepo struct{ st *state }

func (r loanRepo) Create(_ context.Context, l *entity.Loan) error {
	l.ID = r.st.nextID("loans", l.ID)
	v := *l
	v.ReturnedAt = ptr(l.ReturnedAt)
	r.st.loans[l.ID] = v
	return nil
}

func (r loanRepo) GetByID(_ context.Context, id int64) (*entity.Loan, error) {
	l, ok := r.st.loans[id]
	if !ok {
		return nil, nil
	}
	l.ReturnedAt = ptr(l.ReturnedAt)
	return &l, nil
}

func (r loanRepo) GetByMovementID(_ context.Context, movementID int64) (*entity.Loan, error) {
	for _, l := range r.st.loans {
		if l.MovementID == movementID {
			l.ReturnedAt = ptr(l.ReturnedAt)
			return &l, nil
		}
	}
	return nil, nil
}

func (r loanRepo) Settle(_ context.Context, loan *entity.Loan, quantity int64) error {
	stored, ok := r.st.loans[loan.ID]
	if !ok || stored.Version != loan.Version || stored.Balance < quantity {
		return domain.ErrConcurrentUpdate
	}
	now := time.Now()
	stored.Balance -= quantity
	stored.Version++
	stored.UpdatedAt = now
	if stored.Balance == 0 {
		stored.Active = false
		stored.ReturnedAt = &now
	}
	r.st.loans[loan.ID] = stored
	*loan = stored
	loan.ReturnedAt = ptr(stored.ReturnedAt)
	return nil
}

type detailRepo struct{ st *state }

func (r detailRepo) Create(_ context.Context, d *entity.Detail) error {
	d.ID = r.st.nextID("details", d.ID)
	r.st.details[d.ID] = *d
	return nil
}

func (r detailRepo) GetByID(_ context.Context, id int64) (*entity.Detail, error) {
	d, ok := r.st.details[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r detailRepo) UpdateState(_ context.Context, id int64, state string, at time.Time) error {
	d, ok := r.st.details[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.State = state
	d.UpdatedAt = at
	r.st.details[id] = d
	return nil
}
