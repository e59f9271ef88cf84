// Package booking implements the reservation engine: the all-or-nothing
// protocol that turns a seat-set request into a confirmed booking with
// tickets, or into nothing at all.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cinetick/booking-api/internal/domain"
	"github.com/cinetick/booking-api/internal/mailer"
	"github.com/shopspring/decimal"
)

// MaxSeatsPerReservation caps a single reservation attempt. Larger requests
// are rejected as invalid before touching the ledger.
const MaxSeatsPerReservation = 10

type Engine struct {
	catalog domain.CatalogRepository
	ledger  domain.LedgerRepository
	mailer  mailer.Mailer
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewEngine(
	catalog domain.CatalogRepository,
	ledger domain.LedgerRepository,
	mailer mailer.Mailer,
	logger *slog.Logger) *Engine {

	return &Engine{
		catalog: catalog,
		ledger:  ledger,
		mailer:  mailer,
		logger:  logger,
	}
}

// Reserve books the full requested seat set for the showtime, or nothing.
//
// The attempt creates a pending booking, attaches one ticket per seat in
// ascending seat-ID order, then confirms with the recomputed total. Ordering
// matters: concurrent attempts over overlapping seat sets contend on the
// same seat first, so the loser fails fast instead of deadlocking. The first
// seat that loses its race aborts the attempt; everything attached so far is
// rolled back by cancelling the pending booking, and the caller receives a
// SeatConflictError naming that seat. Seat conflicts are resolved strictly
// first-committer-wins.
func (e *Engine) Reserve(ctx context.Context, req domain.ReserveRequest) (*domain.Booking, error) {
	if err := validateSeatSet(req.SeatIDs); err != nil {
		return nil, err
	}

	showtime, err := e.catalog.GetShowtime(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	err = e.checkSeatsBelongToHall(ctx, showtime.HallID, req.SeatIDs)
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != nil {
		existing, err := e.ledger.GetByIdempotencyKey(ctx, *req.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
	}

	pending, err := e.ledger.CreatePendingBooking(ctx, req.UserID, req.ShowtimeID, req.IdempotencyKey)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) && req.IdempotencyKey != nil {
			// Lost a race against a concurrent request carrying the same key.
			return e.ledger.GetByIdempotencyKey(ctx, *req.IdempotencyKey)
		}

		return nil, err
	}

	seatIDs := slices.Clone(req.SeatIDs)
	slices.Sort(seatIDs)

	for _, seatID := range seatIDs {
		_, err = e.ledger.AttachTicket(ctx, pending.ID, req.ShowtimeID, seatID, showtime.Price)
		if err != nil {
			e.rollbackAttempt(ctx, pending.ID)
			return nil, err
		}
	}

	total := showtime.Price.Mul(decimal.NewFromInt(int64(len(seatIDs))))

	err = e.ledger.Confirm(ctx, pending.ID, total)
	if err != nil {
		if errors.Is(err, domain.ErrIncompleteBooking) {
			// Internal invariant violation: surface it and leave the booking
			// in place for inspection, never silently confirm.
			return nil, err
		}

		e.rollbackAttempt(ctx, pending.ID)
		return nil, err
	}

	booking, err := e.ledger.GetByID(ctx, pending.ID)
	if err != nil {
		return nil, err
	}

	if req.CustomerEmail != "" {
		e.sendConfirmationMail(req.CustomerEmail, booking)
	}

	return booking, nil
}

// CancelBooking cancels the requester's booking and frees its seats going
// forward. Cancelling an already-cancelled booking is a no-op, not an error.
func (e *Engine) CancelBooking(ctx context.Context, bookingID, requesterID int64) error {
	booking, err := e.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.UserID != requesterID {
		return domain.ErrForbidden
	}

	return e.ledger.Cancel(ctx, bookingID)
}

// SweepAbandoned cancels pending bookings that outlived the timeout. These
// are attempts that crashed or stalled between creating the booking and
// confirming it; cancelling them frees any seats their tickets still hold.
func (e *Engine) SweepAbandoned(ctx context.Context, olderThan time.Duration) (int64, error) {
	swept, err := e.ledger.CancelStalePending(ctx, olderThan)
	if err != nil {
		return 0, err
	}

	if swept > 0 {
		e.logger.Info("swept abandoned pending bookings", "count", swept)
	}

	return swept, nil
}

// Wait blocks until all background work (confirmation mails) has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func validateSeatSet(seatIDs []int64) error {
	if len(seatIDs) == 0 {
		return domain.InvalidRequestError{Reason: "at least one seat must be selected"}
	}

	if len(seatIDs) > MaxSeatsPerReservation {
		return domain.InvalidRequestError{
			Reason: fmt.Sprintf("at most %d seats can be reserved at once", MaxSeatsPerReservation),
		}
	}

	seen := make(map[int64]bool, len(seatIDs))
	for _, id := range seatIDs {
		if seen[id] {
			return domain.InvalidRequestError{Reason: fmt.Sprintf("duplicate seat id %d", id)}
		}
		seen[id] = true
	}

	return nil
}

func (e *Engine) checkSeatsBelongToHall(ctx context.Context, hallID int64, seatIDs []int64) error {
	hallSeats, err := e.catalog.GetHallSeats(ctx, hallID)
	if err != nil {
		return err
	}

	valid := make(map[int64]bool, len(hallSeats))
	for _, seat := range hallSeats {
		valid[seat.ID] = true
	}

	for _, id := range seatIDs {
		if !valid[id] {
			return domain.InvalidRequestError{
				Reason: fmt.Sprintf("seat %d does not belong to the showtime's hall", id),
			}
		}
	}

	return nil
}

// rollbackAttempt cancels the pending booking of a failed attempt, which
// cascades to any tickets already attached and frees their seats. It runs on
// a detached context so a client disconnect cannot strand the tickets; if it
// still fails, the reconciliation sweep picks the booking up later.
func (e *Engine) rollbackAttempt(ctx context.Context, bookingID int64) {
	err := e.ledger.Cancel(context.WithoutCancel(ctx), bookingID)
	if err != nil {
		e.logger.Error("failed to roll back reservation attempt, leaving it to the sweep",
			"booking_id", bookingID, "error", err)
	}
}

func (e *Engine) sendConfirmationMail(recipient string, booking *domain.Booking) {
	e.wg.Add(1)

	go func() {
		defer e.wg.Done()

		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("panic in confirmation mail sender", "error", fmt.Sprintf("%v", r))
			}
		}()

		data := map[string]any{
			"BookingID": booking.ID,
			"SeatCount": len(booking.Tickets),
			"Total":     booking.TotalAmount.StringFixed(2),
		}

		err := e.mailer.Send(recipient, "booking_confirmation.tmpl", data)
		if err != nil {
			e.logger.Error("failed to send booking confirmation", "booking_id", booking.ID, "error", err)
		}
	}()
}
