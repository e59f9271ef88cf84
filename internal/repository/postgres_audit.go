package repository

import (
	"context"

	"github.com/cinetick/booking-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresAuditRepository struct {
	db *pgxpool.Pool
}

func NewPostgresAuditRepository(db *pgxpool.Pool) *PostgresAuditRepository {
	return &PostgresAuditRepository{
		db: db,
	}
}

// OrphanedTickets finds tickets whose booking row is gone. The foreign key
// makes this impossible in normal operation, so any hit means corruption,
// typically from a bad restore. Findings are reported, never repaired.
func (p *PostgresAuditRepository) OrphanedTickets(ctx context.Context) ([]domain.OrphanedTicket, error) {
	query := `
		SELECT t.id, t.booking_id, t.seat_id
		FROM tickets t
		LEFT JOIN bookings b ON t.booking_id = b.id
		WHERE b.id IS NULL
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orphans := make([]domain.OrphanedTicket, 0)

	for rows.Next() {
		var orphan domain.OrphanedTicket

		err = rows.Scan(&orphan.TicketID, &orphan.BookingID, &orphan.SeatID)
		if err != nil {
			return nil, err
		}

		orphans = append(orphans, orphan)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orphans, nil
}

func (p *PostgresAuditRepository) EmptyConfirmedBookings(ctx context.Context) ([]domain.EmptyBooking, error) {
	query := `
		SELECT b.id, b.user_id
		FROM bookings b
		WHERE b.status = 'confirmed'
			AND NOT EXISTS (
				SELECT 1 FROM tickets t
				WHERE t.booking_id = b.id AND t.status = 'active'
			)
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	findings := make([]domain.EmptyBooking, 0)

	for rows.Next() {
		var finding domain.EmptyBooking

		err = rows.Scan(&finding.BookingID, &finding.UserID)
		if err != nil {
			return nil, err
		}

		findings = append(findings, finding)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return findings, nil
}
