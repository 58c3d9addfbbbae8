package repository

import (
	"context"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirlineRepository interface {
	List(ctx context.Context, filter domain.AirlineFilter, pager domain.Pager) ([]domain.Airline, error)
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
	Create(ctx context.Context, airline *domain.Airline) error
	Update(ctx context.Context, airline *domain.Airline) error
	Delete(ctx context.Context, id int64) error
}

type PGAirlineRepository struct {
	db *pgxpool.Pool
}

func NewAirlineRepository(db *pgxpool.Pool) AirlineRepository {
	return &PGAirlineRepository{db: db}
}

const airlineColumns = `id, name, iata_code, icao_code, created_at, updated_at`

func scanAirline(row scanner) (domain.Airline, error) {
	var a domain.Airline
	err := row.Scan(&a.ID, &a.Name, &a.IataCode, &a.IcaoCode, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *PGAirlineRepository) List(ctx context.Context, filter domain.AirlineFilter, pager domain.Pager) ([]domain.Airline, error) {
	var w whereBuilder
	w.addRaw("NOT is_deleted")
	if filter.Name != "" {
		w.add("name ILIKE ?", contains(filter.Name))
	}
	if filter.IataCode != "" {
		w.add("UPPER(iata_code) = UPPER(?)", filter.IataCode)
	}
	if filter.IcaoCode != "" {
		w.add("UPPER(icao_code) = UPPER(?)", filter.IcaoCode)
	}
	query := `SELECT ` + airlineColumns + ` FROM airlines` + w.sql() + ` ORDER BY created_at DESC, id DESC` + w.page(pager)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := []domain.Airline{}
	for rows.Next() {
		a, err := scanAirline(rows)
		if err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func (r *PGAirlineRepository) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	row := r.db.QueryRow(ctx, `SELECT `+airlineColumns+` FROM airlines WHERE id=$1 AND NOT is_deleted`, id)
	a, err := scanAirline(row)
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *PGAirlineRepository) Create(ctx context.Context, airline *domain.Airline) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airlines (name, iata_code, icao_code)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`, airline.Name, airline.IataCode, airline.IcaoCode).
		Scan(&airline.ID, &airline.CreatedAt, &airline.UpdatedAt)
	return mapError(err)
}

func (r *PGAirlineRepository) Update(ctx context.Context, airline *domain.Airline) error {
	err := r.db.QueryRow(ctx, `UPDATE airlines SET name=$1, iata_code=$2, icao_code=$3, updated_at=now()
		WHERE id=$4 AND NOT is_deleted
		RETURNING created_at, updated_at`, airline.Name, airline.IataCode, airline.IcaoCode, airline.ID).
		Scan(&airline.CreatedAt, &airline.UpdatedAt)
	return mapError(err)
}

func (r *PGAirlineRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE airlines SET is_deleted=true, updated_at=now() WHERE id=$1 AND NOT is_deleted`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ AirlineRepository = (*PGAirlineRepository)(nil)
