package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrForbidden         = errors.New("booking belongs to a different user")
	ErrShowtimeOverlap   = errors.New("another showtime already starts at this time in the same hall")
	ErrIncompleteBooking = errors.New("booking total does not match the sum of its active tickets")
	ErrSeatAlreadyHeld   = errors.New("seat(s) are already held by another session")
	ErrHoldNotFound      = errors.New("hold not found or has expired")
	ErrBookingNotPending = errors.New("booking is not in pending state")

	// ErrDuplicateIdempotencyKey signals that a booking already exists for
	// the given idempotency key; the caller resolves it to the original
	// booking instead of reserving again.
	ErrDuplicateIdempotencyKey = errors.New("a booking already exists for this idempotency key")
)

// SeatConflictError names the first seat that lost a reservation race.
// It is recoverable: the caller may retry with a different seat set.
type SeatConflictError struct {
	SeatID int64
}

func (e SeatConflictError) Error() string {
	return fmt.Sprintf("seat %d is already booked for this showtime", e.SeatID)
}

// InvalidRequestError reports malformed reservation input. It is never
// retried by the engine.
type InvalidRequestError struct {
	Reason string
}

func (e InvalidRequestError) Error() string {
	return e.Reason
}
