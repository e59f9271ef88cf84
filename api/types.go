// Package api defines the JSON contract of the booking service.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type SeatConflictResponse struct {
	Message   string    `json:"message"`
	SeatId    int64     `json:"seatId"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type CreateBookingRequest struct {
	UserId         int64   `json:"userId" validate:"required,gt=0"`
	SeatIds        []int64 `json:"seatIds" validate:"required,min=1,max=10,unique,dive,gt=0"`
	IdempotencyKey *string `json:"idempotencyKey,omitempty" validate:"omitempty,uuid4"`
	CustomerEmail  string  `json:"customerEmail,omitempty" validate:"omitempty,email"`
}

type Ticket struct {
	Id     int64           `json:"id"`
	SeatId int64           `json:"seatId"`
	Price  decimal.Decimal `json:"price"`
	Status string          `json:"status"`
}

type BookingResponse struct {
	BookingId   int64           `json:"bookingId"`
	UserId      int64           `json:"userId"`
	ShowtimeId  int64           `json:"showtimeId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Tickets     []Ticket        `json:"tickets,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type UserBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

type CancelBookingResponse struct {
	BookingId int64  `json:"bookingId"`
	Status    string `json:"status"`
}

type SeatAvailability struct {
	SeatId    int64  `json:"seatId"`
	Row       int    `json:"row"`
	Number    int    `json:"number"`
	Category  string `json:"category"`
	Available bool   `json:"available"`
}

type SeatMapResponse struct {
	ShowtimeId int64              `json:"showtimeId"`
	HallId     int64              `json:"hallId"`
	Seats      []SeatAvailability `json:"seats"`
}

type CreateShowtimeRequest struct {
	MovieId  int64           `json:"movieId" validate:"required,gt=0"`
	HallId   int64           `json:"hallId" validate:"required,gt=0"`
	StartsAt time.Time       `json:"startsAt" validate:"required"`
	EndsAt   time.Time       `json:"endsAt" validate:"required,gtfield=StartsAt"`
	Price    decimal.Decimal `json:"price" validate:"required"`
}

type ShowtimeResponse struct {
	ShowtimeId int64           `json:"showtimeId"`
	MovieId    int64           `json:"movieId"`
	HallId     int64           `json:"hallId"`
	StartsAt   time.Time       `json:"startsAt"`
	EndsAt     time.Time       `json:"endsAt"`
	Price      decimal.Decimal `json:"price"`
}

type CreateHoldRequest struct {
	SeatIds []int64 `json:"seatIds" validate:"required,min=1,max=10,unique,dive,gt=0"`
}

type HoldResponse struct {
	HoldToken  string  `json:"holdToken"`
	ShowtimeId int64   `json:"showtimeId"`
	SeatIds    []int64 `json:"seatIds"`
	TtlSeconds int     `json:"ttlSeconds"`
}

type ReleaseHoldRequest struct {
	HoldToken string  `json:"holdToken" validate:"required"`
	SeatIds   []int64 `json:"seatIds" validate:"required,min=1,dive,gt=0"`
}

type OrphanedTicketFinding struct {
	TicketId  int64 `json:"ticketId"`
	BookingId int64 `json:"bookingId"`
	SeatId    int64 `json:"seatId"`
}

type EmptyBookingFinding struct {
	BookingId int64 `json:"bookingId"`
	UserId    int64 `json:"userId"`
}

type AuditResponse struct {
	OrphanedTickets []OrphanedTicketFinding `json:"orphanedTickets"`
	EmptyBookings   []EmptyBookingFinding   `json:"emptyBookings"`
	Healthy         bool                    `json:"healthy"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
