package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var (
	_ repository.MaterialRepository = (*MaterialRepo)(nil)
	_ repository.SiteRepository     = (*SiteRepo)(nil)
	_ repository.PersonRepository   = (*PersonRepo)(nil)
)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de materiales. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, name, description, has_expiry, expires_at, active, home_site_id, is_original, requires_return, created_at, updated_at`

func scanMaterial(row rowScanner) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.HasExpiry, &m.ExpiresAt, &m.Active,
		&m.HomeSiteID, &m.IsOriginal, &m.RequiresReturn, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un material. Si ID viene informado se respeta (carga de fixtures).
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	args := []any{m.Name, m.Description, m.HasExpiry, m.ExpiresAt, m.Active, m.HomeSiteID,
		m.IsOriginal, m.RequiresReturn, m.CreatedAt, m.UpdatedAt}
	cols := `name, description, has_expiry, expires_at, active, home_site_id, is_original, requires_return, created_at, updated_at`
	vals := `$1, $2, $3, $4, $5, $6, $7, $8, $9, $10`
	preset := m.ID != 0
	if preset {
		args = append(args, m.ID)
		cols += `, id`
		vals += `, $11`
	}
	query := `INSERT INTO materials (` + cols + `) VALUES (` + vals + `) RETURNING id`
	if err := r.q.QueryRow(ctx, query, args...).Scan(&m.ID); err != nil {
		return insertError("material", err)
	}
	if preset {
		return syncSequence(ctx, r.q, "materials")
	}
	return nil
}

// GetByID obtiene un material por ID; (nil, nil) si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// ListActiveOriginals lista materiales activos y originales ordenados por ID.
func (r *MaterialRepo) ListActiveOriginals(ctx context.Context) ([]*entity.Material, error) {
	rows, err := r.q.Query(ctx, `SELECT `+materialColumns+` FROM materials WHERE active AND is_original ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var out []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SiteRepo implementación de SiteRepository sobre PostgreSQL.
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador de sedes.
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

func (r *SiteRepo) Create(ctx context.Context, s *entity.Site) error {
	return createNamed(ctx, r.q, "sites", &s.ID, s.Name, s.Active)
}

func (r *SiteRepo) GetByID(ctx context.Context, id int64) (*entity.Site, error) {
	var s entity.Site
	err := r.q.QueryRow(ctx, `SELECT id, name, active FROM sites WHERE id = $1`, id).Scan(&s.ID, &s.Name, &s.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return &s, nil
}

// PersonRepo implementación de PersonRepository sobre PostgreSQL.
type PersonRepo struct {
	q Querier
}

// NewPersonRepository construye el adaptador de personas.
func NewPersonRepository(q Querier) *PersonRepo {
	return &PersonRepo{q: q}
}

func (r *PersonRepo) Create(ctx context.Context, p *entity.Person) error {
	return createNamed(ctx, r.q, "persons", &p.ID, p.Name, p.Active)
}

func (r *PersonRepo) GetByID(ctx context.Context, id int64) (*entity.Person, error) {
	var p entity.Person
	err := r.q.QueryRow(ctx, `SELECT id, name, active FROM persons WHERE id = $1`, id).Scan(&p.ID, &p.Name, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return &p, nil
}

// createNamed inserta en las tablas de registro (id, name, active).
func createNamed(ctx context.Context, q Querier, table string, id *int64, name string, active bool) error {
	if *id == 0 {
		query := `INSERT INTO ` + table + ` (name, active) VALUES ($1, $2) RETURNING id`
		if err := q.QueryRow(ctx, query, name, active).Scan(id); err != nil {
			return insertError(table, err)
		}
		return nil
	}
	query := `INSERT INTO ` + table + ` (id, name, active) VALUES ($1, $2, $3)`
	if _, err := q.Exec(ctx, query, *id, name, active); err != nil {
		return insertError(table, err)
	}
	return syncSequence(ctx, q, table)
}

func insertError(what string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("insert %s: %w", what, domain.ErrInvalidInput)
	case isForeignKeyViolation(err):
		return fmt.Errorf("insert %s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("insert %s: %w", what, err)
}
