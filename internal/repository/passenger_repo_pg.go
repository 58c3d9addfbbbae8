package repository

import (
	"context"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassengerRepository interface {
	List(ctx context.Context, pager domain.Pager) ([]domain.Passenger, error)
	GetByID(ctx context.Context, id int64) (*domain.Passenger, error)
	Create(ctx context.Context, passenger *domain.Passenger) error
	Update(ctx context.Context, passenger *domain.Passenger) error
	Delete(ctx context.Context, id int64) error
}

type PGPassengerRepository struct {
	db *pgxpool.Pool
}

func NewPassengerRepository(db *pgxpool.Pool) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

const passengerColumns = `id, user_id, flight_id, email, phone, full_name, created_at, updated_at`

func scanPassenger(row scanner) (domain.Passenger, error) {
	var p domain.Passenger
	err := row.Scan(&p.ID, &p.UserID, &p.FlightID, &p.Email, &p.Phone, &p.FullName, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PGPassengerRepository) List(ctx context.Context, pager domain.Pager) ([]domain.Passenger, error) {
	var w whereBuilder
	query := `SELECT ` + passengerColumns + ` FROM passengers ORDER BY created_at DESC, id DESC` + w.page(pager)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := []domain.Passenger{}
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

func (r *PGPassengerRepository) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	p, err := scanPassenger(r.db.QueryRow(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *PGPassengerRepository) Create(ctx context.Context, p *domain.Passenger) error {
	err := r.db.QueryRow(ctx, `INSERT INTO passengers (user_id, flight_id, email, phone, full_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`, p.UserID, p.FlightID, p.Email, p.Phone, p.FullName).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapError(err)
}

func (r *PGPassengerRepository) Update(ctx context.Context, p *domain.Passenger) error {
	err := r.db.QueryRow(ctx, `UPDATE passengers SET user_id=$1, flight_id=$2, email=$3, phone=$4, full_name=$5, updated_at=now()
		WHERE id=$6
		RETURNING created_at, updated_at`, p.UserID, p.FlightID, p.Email, p.Phone, p.FullName, p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return mapError(err)
}

func (r *PGPassengerRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM passengers WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
