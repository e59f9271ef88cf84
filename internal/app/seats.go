package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cinetick/booking-api/api"
	"github.com/cinetick/booking-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Redis Lua script to clean up expired seat holds and return currently valid held seat IDs.
var filterValidHoldSeats = redis.NewScript(`
	local setKey = KEYS[1]
	local showtimeId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local validSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local seatIds = result[2]

		for _, seatId in ipairs(seatIds) do
			local holdKey = "seat_hold:" .. showtimeId .. ":" .. seatId
			if redis.call("EXISTS", holdKey) == 0 then
				table.insert(expiredSeats, seatId)
			else
				table.insert(validSeats, seatId)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	return validSeats
`)

// GetSeatMapByShowtime reports every seat of the showtime's hall with its
// availability: a seat is unavailable when it carries an active ticket or a
// live hold.
func (app *Application) GetSeatMapByShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	showtime, err := app.catalogRepo.GetShowtime(r.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	seats, err := app.catalogRepo.GetHallSeats(r.Context(), showtime.HallID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	unavailable, err := app.unavailableSeats(r.Context(), showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SeatMapResponse{
		ShowtimeId: showtimeID,
		HallId:     showtime.HallID,
		Seats:      make([]api.SeatAvailability, len(seats)),
	}

	for i, seat := range seats {
		resp.Seats[i] = api.SeatAvailability{
			SeatId:    seat.ID,
			Row:       seat.Row,
			Number:    seat.Number,
			Category:  string(seat.Category),
			Available: !unavailable[seat.ID],
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// unavailableSeats merges the ledger's active tickets with live redis holds.
// The ledger is the authority; holds only shade seats that are mid-checkout.
func (app *Application) unavailableSeats(ctx context.Context, showtimeID int64) (map[int64]bool, error) {
	cmd := filterValidHoldSeats.Run(ctx, app.redis, []string{holdSetKey(showtimeID)}, showtimeID)
	heldSeatIDs, err := cmd.Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run filterValidHoldSeats script: %w", err)
	}

	bookedSeatIDs, err := app.ledgerRepo.ActiveSeatIDs(ctx, showtimeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booked seats from ledger: %w", err)
	}

	unavailable := make(map[int64]bool)

	for _, seatID := range heldSeatIDs {
		unavailable[seatID] = true
	}

	for _, seatID := range bookedSeatIDs {
		unavailable[seatID] = true
	}

	return unavailable, nil
}
