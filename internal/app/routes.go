package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("booking-api", otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)

	r.Get("/health", app.GetHealth)

	r.Route("/showtimes", func(r chi.Router) {
		r.Post("/", app.CreateShowtimeHandler)

		r.Route("/{showtimeID}", func(r chi.Router) {
			r.Get("/seats", app.GetSeatMapByShowtime)
			r.Post("/bookings", app.CreateBookingHandler)
			r.Post("/holds", app.CreateSeatHoldHandler)
			r.Delete("/holds", app.ReleaseSeatHoldHandler)
		})
	})

	r.Route("/bookings/{bookingID}", func(r chi.Router) {
		r.Get("/", app.GetBookingHandler)
		r.Delete("/", app.CancelBookingHandler)
	})

	r.Get("/users/{userID}/bookings", app.GetBookingsOfUserHandler)

	r.Get("/audit", app.AuditHandler)

	return r
}
