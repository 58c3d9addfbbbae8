package repository

import (
	"context"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingFilter, pager domain.Pager) ([]domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) error
	Update(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id int64) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, flight_id, passenger_id, total_price_cents, status, booking_date_time, created_at, updated_at`

func scanBooking(row scanner) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.FlightID, &b.PassengerID, &b.TotalPriceCents, &b.Status, &b.BookingDateTime, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *PGBookingRepository) List(ctx context.Context, filter domain.BookingFilter, pager domain.Pager) ([]domain.Booking, error) {
	var w whereBuilder
	if filter.FlightID > 0 {
		w.add("flight_id = ?", filter.FlightID)
	}
	if filter.PassengerID > 0 {
		w.add("passenger_id = ?", filter.PassengerID)
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings` + w.sql() + ` ORDER BY booking_date_time DESC, id DESC` + w.page(pager)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	err := r.db.QueryRow(ctx, `INSERT INTO bookings (flight_id, passenger_id, total_price_cents, status, booking_date_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`, b.FlightID, b.PassengerID, b.TotalPriceCents, b.Status, b.BookingDateTime).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return mapError(err)
}

func (r *PGBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	err := r.db.QueryRow(ctx, `UPDATE bookings SET total_price_cents=$1, status=$2, updated_at=now()
		WHERE id=$3
		RETURNING flight_id, passenger_id, booking_date_time, created_at, updated_at`, b.TotalPriceCents, b.Status, b.ID).
		Scan(&b.FlightID, &b.PassengerID, &b.BookingDateTime, &b.CreatedAt, &b.UpdatedAt)
	return mapError(err)
}

func (r *PGBookingRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
