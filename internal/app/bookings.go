package app

import (
	"errors"
	"net/http"

	"github.com/cinetick/booking-api/api"
	"github.com/cinetick/booking-api/internal/domain"
)

func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showtimeID, err := app.readIDParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateBookingRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	req := domain.ReserveRequest{
		UserID:         input.UserId,
		ShowtimeID:     showtimeID,
		SeatIDs:        input.SeatIds,
		IdempotencyKey: input.IdempotencyKey,
		CustomerEmail:  input.CustomerEmail,
	}

	booking, err := app.engine.Reserve(r.Context(), req)
	if err != nil {
		var seatConflict domain.SeatConflictError
		var invalidRequest domain.InvalidRequestError

		switch {
		case errors.As(err, &seatConflict):
			logger.Info("reservation lost seat race", "showtime_id", showtimeID, "seat_id", seatConflict.SeatID)
			app.seatConflictResponse(w, r, seatConflict.SeatID)
		case errors.As(err, &invalidRequest):
			app.invalidRequestResponse(w, r, invalidRequest.Reason)
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	logger.Info("booking confirmed",
		"booking_id", booking.ID,
		"showtime_id", showtimeID,
		"seats", len(booking.Tickets),
		"total", booking.TotalAmount.StringFixed(2),
	)

	err = app.writeJSON(w, http.StatusCreated, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.ledgerRepo.GetByID(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	requesterID, err := app.readUserID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.engine.CancelBooking(r.Context(), bookingID, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrForbidden):
			app.forbiddenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.CancelBookingResponse{
		BookingId: bookingID,
		Status:    string(domain.BookingStatusCancelled),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingsOfUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := app.readIDParam(r, "userID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	bookings, err := app.ledgerRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserBookingsResponse{
		Bookings: make([]api.BookingResponse, len(bookings)),
	}

	for i := range bookings {
		resp.Bookings[i] = toBookingResponse(&bookings[i])
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBookingResponse(booking *domain.Booking) api.BookingResponse {
	resp := api.BookingResponse{
		BookingId:   booking.ID,
		UserId:      booking.UserID,
		ShowtimeId:  booking.ShowtimeID,
		Status:      string(booking.Status),
		TotalAmount: booking.TotalAmount,
		CreatedAt:   booking.CreatedAt,
	}

	for _, t := range booking.Tickets {
		resp.Tickets = append(resp.Tickets, api.Ticket{
			Id:     t.ID,
			SeatId: t.SeatID,
			Price:  t.Price,
			Status: string(t.Status),
		})
	}

	return resp
}
