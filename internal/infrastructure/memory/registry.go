package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var (
	_ repository.MaterialRepository = materialRepo{}
	_ repository.SiteRepository     = siteRepo{}
	_ repository.PersonRepository   = personRepo{}
)

type materialRepo struct{ st *state }

func (r materialRepo) Create(_ context.Context, m *entity.Material) error {
	m.ID = r.st.nextID("materials", m.ID)
	v := *m
	v.ExpiresAt = ptr(m.ExpiresAt)
	r.st.materials[m.ID] = v
	return nil
}

func (r materialRepo) GetByID(_ context.Context, id int64) (*entity.Material, error) {
	m, ok := r.st.materials[id]
	if !ok {
		return nil, nil
	}
	m.ExpiresAt = ptr(m.ExpiresAt)
	return &m, nil
}

func (r materialRepo) ListActiveOriginals(_ context.Context) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.st.materials {
		if m.Active && m.IsOriginal {
			m.ExpiresAt = ptr(m.ExpiresAt)
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type siteRepo struct{ st *state }

func (r siteRepo) Create(_ context.Context, s *entity.Site) error {
	s.ID = r.st.nextID("sites", s.ID)
	r.st.sites[s.ID] = *s
	return nil
}

func (r siteRepo) GetByID(_ context.Context, id int64) (*entity.Site, error) {
	s, ok := r.st.sites[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type personRepo struct{ st *state }

func (r personRepo) Create(_ context.Context, p *entity.Person) error {
	p.ID = r.st.nextID("persons", p.ID)
	r.st.persons[p.ID] = *p
	return nil
}

func (r personRepo) GetByID(_ context.Context, id int64) (*entity.Person, error) {
	p, ok := r.st.persons[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
