package repository

import (
	"context"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirportRepository interface {
	List(ctx context.Context, filter domain.AirportFilter, pager domain.Pager) ([]domain.Airport, error)
	GetByID(ctx context.Context, id int64) (*domain.Airport, error)
	Create(ctx context.Context, airport *domain.Airport) error
	Update(ctx context.Context, airport *domain.Airport) error
	Delete(ctx context.Context, id int64) error
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

const airportColumns = `id, code, tz, time_zone, type, label, city, country,
	iata_code, icao_code, facilities, latitude, longitude, elevation, created_at, updated_at`

func scanAirport(row scanner) (domain.Airport, error) {
	var a domain.Airport
	err := row.Scan(&a.ID, &a.Code, &a.TZ, &a.TimeZone, &a.Type, &a.Label, &a.City, &a.Country,
		&a.Details.IataCode, &a.Details.IcaoCode, &a.Details.Facilities,
		&a.Location.Latitude, &a.Location.Longitude, &a.Location.Elevation,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *PGAirportRepository) List(ctx context.Context, filter domain.AirportFilter, pager domain.Pager) ([]domain.Airport, error) {
	var w whereBuilder
	w.addRaw("NOT is_deleted")
	if filter.Code != "" {
		w.add("UPPER(code) = UPPER(?)", filter.Code)
	}
	if filter.City != "" {
		w.add("city ILIKE ?", contains(filter.City))
	}
	if filter.Country != "" {
		w.add("country ILIKE ?", contains(filter.Country))
	}
	if filter.Label != "" {
		w.add("LOWER(label) = LOWER(?)", filter.Label)
	}
	if filter.IataCode != "" {
		w.add("UPPER(iata_code) = UPPER(?)", filter.IataCode)
	}
	if filter.IcaoCode != "" {
		w.add("UPPER(icao_code) = UPPER(?)", filter.IcaoCode)
	}
	if filter.Facilities != "" {
		w.add("facilities ILIKE ?", contains(filter.Facilities))
	}
	query := `SELECT ` + airportColumns + ` FROM airports` + w.sql() + ` ORDER BY created_at DESC, id DESC` + w.page(pager)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := []domain.Airport{}
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *PGAirportRepository) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	row := r.db.QueryRow(ctx, `SELECT `+airportColumns+` FROM airports WHERE id=$1 AND NOT is_deleted`, id)
	a, err := scanAirport(row)
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *PGAirportRepository) Create(ctx context.Context, a *domain.Airport) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airports (code, tz, time_zone, type, label, city, country,
			iata_code, icao_code, facilities, latitude, longitude, elevation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		a.Code, a.TZ, a.TimeZone, a.Type, a.Label, a.City, a.Country,
		a.Details.IataCode, a.Details.IcaoCode, a.Details.Facilities,
		a.Location.Latitude, a.Location.Longitude, a.Location.Elevation).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapError(err)
}

func (r *PGAirportRepository) Update(ctx context.Context, a *domain.Airport) error {
	err := r.db.QueryRow(ctx, `UPDATE airports SET code=$1, tz=$2, time_zone=$3, type=$4, label=$5, city=$6, country=$7,
			iata_code=$8, icao_code=$9, facilities=$10, latitude=$11, longitude=$12, elevation=$13, updated_at=now()
		WHERE id=$14 AND NOT is_deleted
		RETURNING created_at, updated_at`,
		a.Code, a.TZ, a.TimeZone, a.Type, a.Label, a.City, a.Country,
		a.Details.IataCode, a.Details.IcaoCode, a.Details.Facilities,
		a.Location.Latitude, a.Location.Longitude, a.Location.Elevation, a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	return mapError(err)
}

func (r *PGAirportRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE airports SET is_deleted=true, updated_at=now() WHERE id=$1 AND NOT is_deleted`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ AirportRepository = (*PGAirportRepository)(nil)
