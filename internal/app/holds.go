package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cinetick/booking-api/api"
	"github.com/cinetick/booking-api/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const seatHoldTTL = 10 * time.Minute

var holdSeatsScript = redis.NewScript(`
    -- KEYS = seat hold keys (e.g., seat_hold:123:1, seat_hold:123:2 etc.)
    -- ARGV = [holdToken, ttl]

    for i=1, #KEYS do
        if redis.call("EXISTS", KEYS[i]) == 1 then
            return {err = "seat already held"}
        end
    end

    for i=1, #KEYS do
        redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
    end

    return "OK"
`)

// CreateSeatHoldHandler parks seats for a short time while a client decides.
// Holds are advisory: the ledger's uniqueness constraint remains the
// authority at reservation time, so a hold never guarantees the seat, it
// only keeps it out of other clients' seat maps.
func (app *Application) CreateSeatHoldHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showtimeID, err := app.readIDParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateHoldRequest

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

	hallSeatIDs := make(map[int64]bool, len(seats))
	for _, seat := range seats {
		hallSeatIDs[seat.ID] = true
	}

	for _, seatID := range input.SeatIds {
		if !hallSeatIDs[seatID] {
			app.invalidRequestResponse(w, r, fmt.Sprintf("seat %d does not belong to the showtime's hall", seatID))
			return
		}
	}

	bookedSeatIDs, err := app.ledgerRepo.ActiveSeatIDs(r.Context(), showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	for _, seatID := range bookedSeatIDs {
		for _, requested := range input.SeatIds {
			if seatID == requested {
				logger.Info("hold rejected: seat already booked", "showtime_id", showtimeID, "seat_id", seatID)
				app.editConflictResponse(w, r, "some of the selected seats are already booked")
				return
			}
		}
	}

	holdToken := uuid.NewString()

	err = app.tryHoldSeats(r.Context(), input.SeatIds, showtimeID, holdToken)
	if err != nil {
		if errors.Is(err, domain.ErrSeatAlreadyHeld) {
			logger.Info("hold rejected: seat already held", "showtime_id", showtimeID)
			app.editConflictResponse(w, r, "some of the selected seats are already held")
			return
		}

		app.serverErrorResponse(w, r, fmt.Errorf("seats couldn't be held: %w", err))
		return
	}

	resp := api.HoldResponse{
		HoldToken:  holdToken,
		ShowtimeId: showtimeID,
		SeatIds:    input.SeatIds,
		TtlSeconds: int(seatHoldTTL.Seconds()),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseSeatHoldHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ReleaseHoldRequest

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

	// Only the token's owner may release the hold.
	for _, seatID := range input.SeatIds {
		owner, err := app.redis.Get(r.Context(), seatHoldKey(showtimeID, seatID)).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				app.errorResponse(w, r, http.StatusNotFound, domain.ErrHoldNotFound.Error())
				return
			}

			app.serverErrorResponse(w, r, err)
			return
		}

		if owner != input.HoldToken {
			app.forbiddenResponse(w, r)
			return
		}
	}

	app.releaseHolds(r.Context(), showtimeID, input.SeatIds)

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) tryHoldSeats(ctx context.Context, seatIDs []int64, showtimeID int64, holdToken string) error {
	keys := make([]string, len(seatIDs))
	for i, seatID := range seatIDs {
		keys[i] = seatHoldKey(showtimeID, seatID)
	}

	err := holdSeatsScript.Run(ctx, app.redis, keys, holdToken, int(seatHoldTTL.Seconds())).Err()
	if err != nil {
		if redis.HasErrorPrefix(err, "seat already held") {
			return domain.ErrSeatAlreadyHeld
		}

		return err
	}

	seatIDInterfaces := make([]interface{}, len(seatIDs))
	for i, seatID := range seatIDs {
		seatIDInterfaces[i] = seatID
	}

	err = app.redis.SAdd(ctx, holdSetKey(showtimeID), seatIDInterfaces...).Err()
	if err != nil {
		app.releaseHolds(ctx, showtimeID, seatIDs)
		return err
	}

	return nil
}

func (app *Application) releaseHolds(ctx context.Context, showtimeID int64, seatIDs []int64) {
	holdKeys := make([]string, len(seatIDs))
	seatIDInterfaces := make([]interface{}, len(seatIDs))

	for i, seatID := range seatIDs {
		holdKeys[i] = seatHoldKey(showtimeID, seatID)
		seatIDInterfaces[i] = seatID
	}

	pipe := app.redis.TxPipeline()
	pipe.Del(ctx, holdKeys...)
	pipe.SRem(ctx, holdSetKey(showtimeID), seatIDInterfaces...)

	_, err := pipe.Exec(ctx)
	if err != nil {
		app.logger.Error("failed to release seat holds", "error", err)
	}
}

func seatHoldKey(showtimeID, seatID int64) string {
	return fmt.Sprintf("seat_hold:%d:%d", showtimeID, seatID)
}

func holdSetKey(showtimeID int64) string {
	return fmt.Sprintf("seat_holds:%d", showtimeID)
}
