package repository

import (
	"context"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CountryRepository interface {
	// List returns every matching row when pager is nil.
	List(ctx context.Context, filter domain.CountryFilter, pager *domain.Pager) ([]domain.Country, error)
	GetByID(ctx context.Context, id int64) (*domain.Country, error)
	Create(ctx context.Context, country *domain.Country) error
	Update(ctx context.Context, country *domain.Country) error
	Delete(ctx context.Context, id int64) error
}

type PGCountryRepository struct {
	db *pgxpool.Pool
}

func NewCountryRepository(db *pgxpool.Pool) CountryRepository {
	return &PGCountryRepository{db: db}
}

const countryColumns = `id, name, capital, cioc, cca2, cca3, ccn3, area, created_at, updated_at`

func scanCountry(row scanner) (domain.Country, error) {
	var c domain.Country
	err := row.Scan(&c.ID, &c.Name, &c.Capital, &c.Cioc, &c.Cca2, &c.Cca3, &c.Ccn3, &c.Area, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func countryQuery(filter domain.CountryFilter, pager *domain.Pager) (string, []any) {
	var w whereBuilder
	w.addRaw("NOT is_deleted")
	if filter.Name != "" {
		w.add("name ILIKE ?", contains(filter.Name))
	}
	if filter.Capital != "" {
		w.add("capital ILIKE ?", contains(filter.Capital))
	}
	if filter.Code != "" {
		w.add("(UPPER(cca2) = UPPER(?) OR UPPER(ccn3) = UPPER(?) OR UPPER(cca3) = UPPER(?) OR UPPER(cioc) = UPPER(?))", filter.Code)
	}
	query := `SELECT ` + countryColumns + ` FROM countries` + w.sql() + ` ORDER BY name, id`
	if pager != nil {
		query += w.page(*pager)
	}
	return query, w.args
}

func (r *PGCountryRepository) List(ctx context.Context, filter domain.CountryFilter, pager *domain.Pager) ([]domain.Country, error) {
	query, args := countryQuery(filter, pager)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	countries := []domain.Country{}
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

func (r *PGCountryRepository) GetByID(ctx context.Context, id int64) (*domain.Country, error) {
	row := r.db.QueryRow(ctx, `SELECT `+countryColumns+` FROM countries WHERE id=$1 AND NOT is_deleted`, id)
	c, err := scanCountry(row)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *PGCountryRepository) Create(ctx context.Context, c *domain.Country) error {
	err := r.db.QueryRow(ctx, `INSERT INTO countries (name, capital, cioc, cca2, cca3, ccn3, area)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`, c.Name, c.Capital, c.Cioc, c.Cca2, c.Cca3, c.Ccn3, c.Area).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapError(err)
}

func (r *PGCountryRepository) Update(ctx context.Context, c *domain.Country) error {
	err := r.db.QueryRow(ctx, `UPDATE countries SET name=$1, capital=$2, cioc=$3, cca2=$4, cca3=$5, ccn3=$6, area=$7, updated_at=now()
		WHERE id=$8 AND NOT is_deleted
		RETURNING created_at, updated_at`, c.Name, c.Capital, c.Cioc, c.Cca2, c.Cca3, c.Ccn3, c.Area, c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return mapError(err)
}

func (r *PGCountryRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE countries SET is_deleted=true, updated_at=now() WHERE id=$1 AND NOT is_deleted`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ CountryRepository = (*PGCountryRepository)(nil)
