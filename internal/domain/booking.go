package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "active"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Booking is created pending, transitions to confirmed only after all of its
// tickets are durably written, and may be cancelled from either state.
// Cancellation is terminal and idempotent; rows are never deleted.
type Booking struct {
	ID             int64
	UserID         int64
	ShowtimeID     int64
	Status         BookingStatus
	TotalAmount    decimal.Decimal
	IdempotencyKey *string
	Tickets        []Ticket
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Ticket ties a booking to a seat. Price is copied from the showtime at
// issuance and immutable thereafter.
type Ticket struct {
	ID         int64
	BookingID  int64
	ShowtimeID int64
	SeatID     int64
	Price      decimal.Decimal
	Status     TicketStatus
	CreatedAt  time.Time
}

// CanTransitionTo reports whether the booking status machine allows the move.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCancelled
	default:
		return false
	}
}

// ActiveTotal sums the prices of the booking's active tickets.
func (b *Booking) ActiveTotal() decimal.Decimal {
	total := decimal.Zero
	for _, t := range b.Tickets {
		if t.Status == TicketStatusActive {
			total = total.Add(t.Price)
		}
	}
	return total
}

// LedgerRepository owns the durable booking/ticket lifecycle. AttachTicket's
// availability check and row insert are a single atomic unit with respect to
// concurrent calls for the same (showtime, seat); the loser observes a
// SeatConflictError.
type LedgerRepository interface {
	CreatePendingBooking(ctx context.Context, userID, showtimeID int64, idempotencyKey *string) (*Booking, error)
	AttachTicket(ctx context.Context, bookingID, showtimeID, seatID int64, price decimal.Decimal) (*Ticket, error)
	Confirm(ctx context.Context, bookingID int64, total decimal.Decimal) error
	Cancel(ctx context.Context, bookingID int64) error

	GetByID(ctx context.Context, bookingID int64) (*Booking, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Booking, error)
	GetByUserID(ctx context.Context, userID int64) ([]Booking, error)
	ActiveSeatIDs(ctx context.Context, showtimeID int64) ([]int64, error)

	// CancelStalePending cancels abandoned pending bookings older than the
	// cutoff and reports how many were swept.
	CancelStalePending(ctx context.Context, olderThan time.Duration) (int64, error)
}

// ReserveRequest is the engine's input: all-or-nothing for the whole seat set.
type ReserveRequest struct {
	UserID         int64
	ShowtimeID     int64
	SeatIDs        []int64
	IdempotencyKey *string
	CustomerEmail  string
}

type ReservationEngine interface {
	Reserve(ctx context.Context, req ReserveRequest) (*Booking, error)
	CancelBooking(ctx context.Context, bookingID, requesterID int64) error
}
