package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"eiendom_showcase/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}
func valNonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertProperty(ctx context.Context, p domain.Property) error {
	nd := p.Key()
	var shots any
	if len(p.PlaaceData.Screenshots) > 0 {
		b, err := json.Marshal(p.PlaaceData.Screenshots)
		if err != nil {
			return err
		}
		shots = string(b)
	}
	_, err := r.db.ExecContext(ctx, upsertPropertySQL,
		p.ID,
		p.Adresse,
		valInt(p.Gnr),
		valInt(p.Bnr),
		valNonEmpty(p.Beskrivelse),
		valNonEmpty(p.HeroImage),
		valStr(nd.Energimerke),
		valF64(nd.Areal),
		valF64(nd.ArealKontor),
		valF64(nd.ArealServering),
		valInt(nd.Byggeaar),
		shots,
		valTime(p.Metadata.SistOppdatert),
	)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, source, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, source, reason)
	return err
}

func (r *Repo) GetAll(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, listPropertiesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, getPropertySQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(row scanner) (domain.Property, error) {
	var p domain.Property
	var (
		gnr, bnr, byggeaar             sql.NullInt64
		beskrivelse, hero, energimerke sql.NullString
		areal, kontor, servering       sql.NullFloat64
		shots                          []byte
		updated                        sql.NullTime
	)
	if err := row.Scan(
		&p.ID, &p.Adresse,
		&gnr, &bnr,
		&beskrivelse, &hero,
		&energimerke, &areal, &kontor, &servering, &byggeaar,
		&shots,
		&updated,
	); err != nil {
		return domain.Property{}, err
	}

	p.Gnr = intPtr(gnr)
	p.Bnr = intPtr(bnr)
	p.Beskrivelse = beskrivelse.String
	p.HeroImage = hero.String

	nd := domain.Nokkeldata{
		Areal:          floatPtr(areal),
		ArealKontor:    floatPtr(kontor),
		ArealServering: floatPtr(servering),
		Byggeaar:       intPtr(byggeaar),
	}
	if energimerke.Valid {
		s := energimerke.String
		nd.Energimerke = &s
	}
	if nd != (domain.Nokkeldata{}) {
		p.PlaaceData.Nokkeldata = &nd
	}
	if len(shots) > 0 {
		if err := json.Unmarshal(shots, &p.PlaaceData.Screenshots); err != nil {
			return domain.Property{}, err
		}
	}
	if updated.Valid {
		t := updated.Time.UTC()
		p.Metadata.SistOppdatert = &t
	}
	return p, nil
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
