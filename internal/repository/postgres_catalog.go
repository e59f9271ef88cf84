package repository

import (
	"context"
	"errors"

	"github.com/cinetick/booking-api/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresCatalogRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCatalogRepository(db *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		db: db,
	}
}

func (p *PostgresCatalogRepository) GetMovie(ctx context.Context, movieID int64) (*domain.Movie, error) {
	query := `
		SELECT id, title, duration_mins, created_at
		FROM movies
		WHERE id = $1
	`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, movieID).Scan(
		&movie.ID,
		&movie.Title,
		&movie.DurationMins,
		&movie.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func (p *PostgresCatalogRepository) GetShowtime(ctx context.Context, showtimeID int64) (*domain.Showtime, error) {
	query := `
		SELECT id, movie_id, hall_id, starts_at, ends_at, price, created_at
		FROM showtimes
		WHERE id = $1
	`

	var showtime domain.Showtime

	err := p.db.QueryRow(ctx, query, showtimeID).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.HallID,
		&showtime.StartsAt,
		&showtime.EndsAt,
		&showtime.Price,
		&showtime.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &showtime, nil
}

// GetHallSeats returns the hall's full seat set ordered by (row, number).
// The ordering is what gives reservation attempts their deterministic
// lock acquisition order. An unknown hall is ErrRecordNotFound; a hall
// that simply has no seats yet returns an empty set.
func (p *PostgresCatalogRepository) GetHallSeats(ctx context.Context, hallID int64) ([]domain.Seat, error) {
	query := `
		SELECT id, hall_id, seat_row, seat_number, category
		FROM seats
		WHERE hall_id = $1
		ORDER BY seat_row, seat_number
	`

	rows, err := p.db.Query(ctx, query, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(
			&seat.ID,
			&seat.HallID,
			&seat.Row,
			&seat.Number,
			&seat.Category,
		)

		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(seats) == 0 {
		var exists bool

		err = p.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM halls WHERE id = $1)`, hallID).Scan(&exists)
		if err != nil {
			return nil, err
		}

		if !exists {
			return nil, domain.ErrRecordNotFound
		}
	}

	return seats, nil
}

func (p *PostgresCatalogRepository) CreateShowtime(ctx context.Context, showtime *domain.Showtime) error {
	query := `
		INSERT INTO showtimes (movie_id, hall_id, starts_at, ends_at, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		showtime.MovieID,
		showtime.HallID,
		showtime.StartsAt,
		showtime.EndsAt,
		showtime.Price,
	).Scan(&showtime.ID, &showtime.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == pgerrcode.UniqueViolation:
				return domain.ErrShowtimeOverlap
			case pgErr.Code == pgerrcode.ForeignKeyViolation:
				return domain.ErrRecordNotFound
			}
		}

		return err
	}

	return nil
}
