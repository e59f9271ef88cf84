package domain

import "context"

// OrphanedTicket is a ticket whose booking row no longer exists. It indicates
// corruption and is reported as a fatal finding, never auto-repaired.
type OrphanedTicket struct {
	TicketID  int64
	BookingID int64
	SeatID    int64
}

// EmptyBooking is a confirmed booking with zero active tickets. Legitimate
// after a full cancellation, suspicious otherwise.
type EmptyBooking struct {
	BookingID int64
	UserID    int64
}

type AuditRepository interface {
	OrphanedTickets(ctx context.Context) ([]OrphanedTicket, error)
	EmptyConfirmedBookings(ctx context.Context) ([]EmptyBooking, error)
}
