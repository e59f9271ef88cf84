package app

import (
	"errors"
	"net/http"

	"github.com/cinetick/booking-api/api"
	"github.com/cinetick/booking-api/internal/domain"
)

// CreateShowtimeHandler schedules a screening. Two showtimes in the same
// hall may never share a start instant; the catalog enforces it at creation
// time and the violation surfaces as a conflict.
func (app *Application) CreateShowtimeHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateShowtimeRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if input.Price.IsNegative() {
		app.invalidRequestResponse(w, r, "price must not be negative")
		return
	}

	showtime := domain.Showtime{
		MovieID:  input.MovieId,
		HallID:   input.HallId,
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
		Price:    input.Price,
	}

	err = app.catalogRepo.CreateShowtime(r.Context(), &showtime)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShowtimeOverlap):
			app.editConflictResponse(w, r, err.Error())
		case errors.Is(err, domain.ErrRecordNotFound):
			app.invalidRequestResponse(w, r, "movie or hall does not exist")
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.ShowtimeResponse{
		ShowtimeId: showtime.ID,
		MovieId:    showtime.MovieID,
		HallId:     showtime.HallID,
		StartsAt:   showtime.StartsAt,
		EndsAt:     showtime.EndsAt,
		Price:      showtime.Price,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
