package app

import (
	"context"
	"net/http"

	"github.com/cinetick/booking-api/api"
)

// AuditHandler runs the consistency audit on demand. Findings are reported,
// never auto-repaired: orphaned tickets mean corruption and require manual
// remediation, empty confirmed bookings are warnings.
func (app *Application) AuditHandler(w http.ResponseWriter, r *http.Request) {
	orphans, err := app.auditRepo.OrphanedTickets(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	emptyBookings, err := app.auditRepo.EmptyConfirmedBookings(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.AuditResponse{
		OrphanedTickets: make([]api.OrphanedTicketFinding, len(orphans)),
		EmptyBookings:   make([]api.EmptyBookingFinding, len(emptyBookings)),
		Healthy:         len(orphans) == 0,
	}

	for i, orphan := range orphans {
		resp.OrphanedTickets[i] = api.OrphanedTicketFinding{
			TicketId:  orphan.TicketID,
			BookingId: orphan.BookingID,
			SeatId:    orphan.SeatID,
		}
	}

	for i, finding := range emptyBookings {
		resp.EmptyBookings[i] = api.EmptyBookingFinding{
			BookingId: finding.BookingID,
			UserId:    finding.UserID,
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) runScheduledAudit(ctx context.Context) {
	orphans, err := app.auditRepo.OrphanedTickets(ctx)
	if err != nil {
		app.logger.Error("scheduled audit failed", "error", err)
		return
	}

	for _, orphan := range orphans {
		app.logger.Error("audit found orphaned ticket",
			"ticket_id", orphan.TicketID,
			"booking_id", orphan.BookingID,
			"seat_id", orphan.SeatID,
		)
	}

	emptyBookings, err := app.auditRepo.EmptyConfirmedBookings(ctx)
	if err != nil {
		app.logger.Error("scheduled audit failed", "error", err)
		return
	}

	for _, finding := range emptyBookings {
		app.logger.Warn("audit found confirmed booking with no active tickets",
			"booking_id", finding.BookingID,
			"user_id", finding.UserID,
		)
	}
}
