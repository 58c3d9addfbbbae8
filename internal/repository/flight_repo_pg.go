package repository

import (
	"context"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Search(ctx context.Context, filter domain.FlightFilter, pager domain.Pager) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightSelect = `SELECT f.id, COALESCE(f.external_id, ''), f.airline_id, a.iata_code,
	f.departure_airport_id, dep.iata_code, f.departure_time,
	f.arrival_airport_id, arr.iata_code, f.arrival_time,
	f.passenger_count, f.is_available, f.has_free_baggage, f.transaction_count,
	f.created_at, f.updated_at
FROM flights f
JOIN airlines a ON a.id = f.airline_id
JOIN airports dep ON dep.id = f.departure_airport_id
JOIN airports arr ON arr.id = f.arrival_airport_id`

const mainPriceExpr = `(SELECT p.amount_cents FROM flight_prices p WHERE p.flight_id = f.id AND p.type = 'Main' LIMIT 1)`

func scanFlight(row scanner) (domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.ExternalID, &f.AirlineID, &f.AirlineCode,
		&f.DepartureAirportID, &f.DepartureCode, &f.DepartureTime,
		&f.ArrivalAirportID, &f.ArrivalCode, &f.ArrivalTime,
		&f.Details.PassengerCount, &f.Details.IsAvailable, &f.Details.HasFreeBaggage, &f.Details.TransactionCount,
		&f.CreatedAt, &f.UpdatedAt)
	f.Details.HasTransaction = f.Details.TransactionCount > 0
	f.Source = domain.SourceDB
	return f, err
}

func flightSearchQuery(filter domain.FlightFilter, pager domain.Pager) (string, []any) {
	var w whereBuilder
	w.addRaw("NOT f.is_deleted")
	if filter.DateFrom != nil {
		w.add("f.departure_time >= ?", *filter.DateFrom)
	}
	if filter.From != "" {
		w.add("UPPER(dep.iata_code) = UPPER(?)", filter.From)
	}
	if filter.To != "" {
		w.add("UPPER(arr.iata_code) = UPPER(?)", filter.To)
	}
	if filter.AirlineIcao != "" {
		w.add("UPPER(a.icao_code) = UPPER(?)", filter.AirlineIcao)
	}
	if filter.Transactions != nil {
		w.add("f.transaction_count = ?", *filter.Transactions)
	}
	if filter.PriceFrom != nil {
		w.add(mainPriceExpr+" >= ?", *filter.PriceFrom)
	}
	if filter.PriceTo != nil {
		w.add(mainPriceExpr+" <= ?", *filter.PriceTo)
	}
	return flightSelect + w.sql() + ` ORDER BY f.departure_time DESC, f.id DESC` + w.page(pager), w.args
}

func (r *PGFlightRepository) Search(ctx context.Context, filter domain.FlightFilter, pager domain.Pager) ([]domain.Flight, error) {
	query, args := flightSearchQuery(filter, pager)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := []domain.Flight{}
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadPrices(ctx, flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, flightSelect+` WHERE f.id=$1 AND NOT f.is_deleted`, id))
	if err != nil {
		return nil, mapError(err)
	}
	flights := []domain.Flight{f}
	if err := r.loadPrices(ctx, flights); err != nil {
		return nil, err
	}
	return &flights[0], nil
}

func (r *PGFlightRepository) loadPrices(ctx context.Context, flights []domain.Flight) error {
	if len(flights) == 0 {
		return nil
	}
	ids := make([]int64, len(flights))
	index := make(map[int64]int, len(flights))
	for i := range flights {
		ids[i] = flights[i].ID
		index[flights[i].ID] = i
		flights[i].Prices = []domain.Price{}
	}

	rows, err := r.db.Query(ctx, `SELECT flight_id, amount_cents, type FROM flight_prices WHERE flight_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			flightID int64
			p        domain.Price
		)
		if err := rows.Scan(&flightID, &p.AmountCents, &p.Type); err != nil {
			return err
		}
		i := index[flightID]
		flights[i].Prices = append(flights[i].Prices, p)
	}
	return rows.Err()
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO flights (external_id, airline_id, departure_airport_id, departure_time,
			arrival_airport_id, arrival_time, passenger_count, is_available, has_free_baggage, transaction_count)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		f.ExternalID, f.AirlineID, f.DepartureAirportID, f.DepartureTime,
		f.ArrivalAirportID, f.ArrivalTime, f.Details.PassengerCount, f.Details.IsAvailable,
		f.Details.HasFreeBaggage, f.Details.TransactionCount).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return mapError(err)
	}

	if err := insertPrices(ctx, tx, f.ID, f.Prices); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGFlightRepository) Update(ctx context.Context, f *domain.Flight) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `UPDATE flights SET external_id=NULLIF($1, ''), airline_id=$2, departure_airport_id=$3,
			departure_time=$4, arrival_airport_id=$5, arrival_time=$6, passenger_count=$7, is_available=$8,
			has_free_baggage=$9, transaction_count=$10, updated_at=now()
		WHERE id=$11 AND NOT is_deleted
		RETURNING created_at, updated_at`,
		f.ExternalID, f.AirlineID, f.DepartureAirportID, f.DepartureTime,
		f.ArrivalAirportID, f.ArrivalTime, f.Details.PassengerCount, f.Details.IsAvailable,
		f.Details.HasFreeBaggage, f.Details.TransactionCount, f.ID).
		Scan(&f.CreatedAt, &f.UpdatedAt); err != nil {
		return mapError(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM flight_prices WHERE flight_id=$1`, f.ID); err != nil {
		return err
	}
	if err := insertPrices(ctx, tx, f.ID, f.Prices); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertPrices(ctx context.Context, tx pgx.Tx, flightID int64, prices []domain.Price) error {
	if len(prices) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range prices {
		batch.Queue(`INSERT INTO flight_prices (flight_id, amount_cents, type) VALUES ($1, $2, $3)`, flightID, p.AmountCents, p.Type)
	}
	return mapError(tx.SendBatch(ctx, batch).Close())
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE flights SET is_deleted=true, updated_at=now() WHERE id=$1 AND NOT is_deleted`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
