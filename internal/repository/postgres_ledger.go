package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinetick/booking-api/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	ticketSeatConstraint  = "tickets_showtime_seat_active_key"
	idempotencyConstraint = "bookings_idempotency_key_key"
)

type PostgresLedgerRepository struct {
	db *pgxpool.Pool
}

func NewPostgresLedgerRepository(db *pgxpool.Pool) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{
		db: db,
	}
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

func (p *PostgresLedgerRepository) CreatePendingBooking(
	ctx context.Context,
	userID, showtimeID int64,
	idempotencyKey *string) (*domain.Booking, error) {

	query := `
		INSERT INTO bookings (user_id, showtime_id, status, idempotency_key)
		VALUES ($1, $2, 'pending', $3)
		RETURNING id, status, total_amount, created_at, updated_at
	`

	booking := domain.Booking{
		UserID:         userID,
		ShowtimeID:     showtimeID,
		IdempotencyKey: idempotencyKey,
	}

	err := p.db.QueryRow(ctx, query, userID, showtimeID, idempotencyKey).Scan(
		&booking.ID,
		&booking.Status,
		&booking.TotalAmount,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == idempotencyConstraint:
				return nil, domain.ErrDuplicateIdempotencyKey
			case pgErr.Code == pgerrcode.ForeignKeyViolation:
				return nil, domain.ErrRecordNotFound
			}
		}

		return nil, err
	}

	return &booking, nil
}

// AttachTicket inserts a ticket for (showtime, seat). The no-active-ticket
// check rides on the partial unique index, so the check and the insert are
// one atomic unit: of two concurrent attempts for the same seat exactly one
// commits and the other gets a SeatConflictError.
func (p *PostgresLedgerRepository) AttachTicket(
	ctx context.Context,
	bookingID, showtimeID, seatID int64,
	price decimal.Decimal) (*domain.Ticket, error) {

	query := `
		INSERT INTO tickets (booking_id, showtime_id, seat_id, price, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING id, status, created_at
	`

	ticket := domain.Ticket{
		BookingID:  bookingID,
		ShowtimeID: showtimeID,
		SeatID:     seatID,
		Price:      price,
	}

	err := p.db.QueryRow(ctx, query, bookingID, showtimeID, seatID, price).Scan(
		&ticket.ID,
		&ticket.Status,
		&ticket.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == ticketSeatConstraint:
				return nil, domain.SeatConflictError{SeatID: seatID}
			case pgErr.Code == pgerrcode.ForeignKeyViolation:
				return nil, domain.ErrRecordNotFound
			}
		}

		return nil, err
	}

	return &ticket, nil
}

// Confirm moves a pending booking to confirmed. The expected total is
// re-checked against the sum of the booking's active ticket prices inside
// the same transaction; on mismatch the booking is left pending for
// inspection and ErrIncompleteBooking is returned.
func (p *PostgresLedgerRepository) Confirm(ctx context.Context, bookingID int64, total decimal.Decimal) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var status domain.BookingStatus

		query := `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`

		err := tx.QueryRow(ctx, query, bookingID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		if status != domain.BookingStatusPending {
			return domain.ErrBookingNotPending
		}

		var ticketSum decimal.Decimal

		query = `
			SELECT COALESCE(SUM(price), 0)
			FROM tickets
			WHERE booking_id = $1 AND status = 'active'
		`

		err = tx.QueryRow(ctx, query, bookingID).Scan(&ticketSum)
		if err != nil {
			return err
		}

		if !ticketSum.Equal(total) {
			return domain.ErrIncompleteBooking
		}

		query = `
			UPDATE bookings
			SET status = 'confirmed', total_amount = $2, updated_at = NOW()
			WHERE id = $1
		`

		_, err = tx.Exec(ctx, query, bookingID, total)

		return err
	})
}

// Cancel sets the booking to cancelled and cascades to its tickets, freeing
// their seats for future bookings on the same showtime. Cancelling an
// already-cancelled booking is a no-op.
func (p *PostgresLedgerRepository) Cancel(ctx context.Context, bookingID int64) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var status domain.BookingStatus

		query := `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`

		err := tx.QueryRow(ctx, query, bookingID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		if status == domain.BookingStatusCancelled {
			return nil
		}

		query = `UPDATE tickets SET status = 'cancelled' WHERE booking_id = $1 AND status = 'active'`

		_, err = tx.Exec(ctx, query, bookingID)
		if err != nil {
			return err
		}

		query = `UPDATE bookings SET status = 'cancelled', updated_at = NOW() WHERE id = $1`

		_, err = tx.Exec(ctx, query, bookingID)

		return err
	})
}

func (p *PostgresLedgerRepository) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, showtime_id, status, total_amount, idempotency_key, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowtimeID,
		&booking.Status,
		&booking.TotalAmount,
		&booking.IdempotencyKey,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	tickets, err := p.retrieveTickets(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	booking.Tickets = tickets

	return &booking, nil
}

// GetByIdempotencyKey resolves a key to its live booking. Cancelled bookings
// are excluded: a rolled-back attempt releases its key, so a retry carrying
// the same key starts a fresh attempt instead of replaying the failure.
func (p *PostgresLedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	query := `SELECT id FROM bookings WHERE idempotency_key = $1 AND status != 'cancelled'`

	var bookingID int64

	err := p.db.QueryRow(ctx, query, key).Scan(&bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return p.GetByID(ctx, bookingID)
}

func (p *PostgresLedgerRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Booking, error) {
	query := `
		SELECT id, user_id, showtime_id, status, total_amount, idempotency_key, created_at, updated_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking

		err = rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.ShowtimeID,
			&booking.Status,
			&booking.TotalAmount,
			&booking.IdempotencyKey,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

// ActiveSeatIDs reports the seats of the showtime currently held by an
// active ticket. Cancelled tickets never appear here.
func (p *PostgresLedgerRepository) ActiveSeatIDs(ctx context.Context, showtimeID int64) ([]int64, error) {
	query := `
		SELECT seat_id
		FROM tickets
		WHERE showtime_id = $1 AND status = 'active'
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seatIDs := make([]int64, 0)

	for rows.Next() {
		var seatID int64

		if err = rows.Scan(&seatID); err != nil {
			return nil, err
		}

		seatIDs = append(seatIDs, seatID)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seatIDs, nil
}

// CancelStalePending is the reconciliation sweep: pending bookings older
// than the cutoff are treated as failed attempts and cancelled together
// with their tickets.
func (p *PostgresLedgerRepository) CancelStalePending(ctx context.Context, olderThan time.Duration) (int64, error) {
	var swept int64

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT id
			FROM bookings
			WHERE status = 'pending' AND created_at < NOW() - make_interval(secs => $1)
			FOR UPDATE SKIP LOCKED
		`

		rows, err := tx.Query(ctx, query, olderThan.Seconds())
		if err != nil {
			return err
		}

		staleIDs := make([]int64, 0)

		for rows.Next() {
			var id int64

			if err = rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}

			staleIDs = append(staleIDs, id)
		}
		rows.Close()

		if err = rows.Err(); err != nil {
			return err
		}

		if len(staleIDs) == 0 {
			return nil
		}

		query = `UPDATE tickets SET status = 'cancelled' WHERE booking_id = ANY($1) AND status = 'active'`

		if _, err = tx.Exec(ctx, query, staleIDs); err != nil {
			return err
		}

		query = `UPDATE bookings SET status = 'cancelled', updated_at = NOW() WHERE id = ANY($1)`

		if _, err = tx.Exec(ctx, query, staleIDs); err != nil {
			return err
		}

		swept = int64(len(staleIDs))

		return nil
	})

	if err != nil {
		return 0, err
	}

	return swept, nil
}

func (p *PostgresLedgerRepository) retrieveTickets(ctx context.Context, bookingID int64) ([]domain.Ticket, error) {
	query := `
		SELECT id, booking_id, showtime_id, seat_id, price, status, created_at
		FROM tickets
		WHERE booking_id = $1
		ORDER BY seat_id
	`

	rows, err := p.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)

	for rows.Next() {
		var ticket domain.Ticket

		err = rows.Scan(
			&ticket.ID,
			&ticket.BookingID,
			&ticket.ShowtimeID,
			&ticket.SeatID,
			&ticket.Price,
			&ticket.Status,
			&ticket.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}
