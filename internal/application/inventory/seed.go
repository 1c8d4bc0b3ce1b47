package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"golang.org/x/text/unicode/norm"
)

// Fixtures datos de registro (materiales, sedes, personas) y lotes iniciales.
// Los catálogos se administran fuera de este servicio; esto sirve para ambientes locales y pruebas.
type Fixtures struct {
	Sites     []SiteFixture     `json:"sites"`
	Persons   []PersonFixture   `json:"persons"`
	Materials []MaterialFixture `json:"materials"`
	Lots      []LotFixture      `json:"lots"`
}

type SiteFixture struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type PersonFixture struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MaterialFixture struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	HomeSiteID     int64  `json:"home_site_id"`
	RequiresReturn bool   `json:"requires_return"`
	// Inactive y Copy invierten los valores por defecto (activo, original).
	Inactive bool `json:"inactive"`
	Copy     bool `json:"copy"`
}

type LotFixture struct {
	MaterialID   int64   `json:"material_id"`
	SiteID       int64   `json:"site_id"`
	Quantity     int64   `json:"quantity"`
	RequiresCode bool    `json:"requires_code"`
	Code         *string `json:"code"`
}

// DecodeFixtures lee fixtures en JSON.
func DecodeFixtures(rd io.Reader) (*Fixtures, error) {
	var f Fixtures
	dec := json.NewDecoder(rd)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	return &f, nil
}

// LoadFixtures inserta los fixtures en una sola transacción: o entran todos o ninguno.
func LoadFixtures(ctx context.Context, tx TxRunner, f *Fixtures) error {
	now := time.Now()
	return tx.Run(ctx, func(r Repositories) error {
		for _, s := range f.Sites {
			if err := r.Sites.Create(ctx, &entity.Site{ID: s.ID, Name: cleanName(s.Name), Active: true}); err != nil {
				return fmt.Errorf("sede %q: %w", s.Name, err)
			}
		}
		for _, p := range f.Persons {
			if err := r.Persons.Create(ctx, &entity.Person{ID: p.ID, Name: cleanName(p.Name), Active: true}); err != nil {
				return fmt.Errorf("persona %q: %w", p.Name, err)
			}
		}
		for _, m := range f.Materials {
			mat := &entity.Material{
				ID:             m.ID,
				Name:           cleanName(m.Name),
				Description:    cleanName(m.Description),
				Active:         !m.Inactive,
				HomeSiteID:     m.HomeSiteID,
				IsOriginal:     !m.Copy,
				RequiresReturn: m.RequiresReturn,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := r.Materials.Create(ctx, mat); err != nil {
				return fmt.Errorf("material %q: %w", m.Name, err)
			}
		}
		for i, l := range f.Lots {
			lot := &entity.StockLot{
				MaterialID:   l.MaterialID,
				SiteID:       l.SiteID,
				Quantity:     l.Quantity,
				Active:       !l.RequiresCode || normalizeCode(l.Code) != nil,
				RequiresCode: l.RequiresCode,
				Code:         normalizeCode(l.Code),
				CreatedAt:    now.Add(time.Duration(i) * time.Microsecond),
				UpdatedAt:    now,
			}
			if err := r.Lots.Create(ctx, lot); err != nil {
				return fmt.Errorf("lote %d: %w", i, err)
			}
		}
		return nil
	})
}

// cleanName recorta espacios y normaliza a NFC; los archivos exportados de otros sistemas
// suelen traer tildes descompuestas.
func cleanName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
