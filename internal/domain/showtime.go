package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Showtime is a scheduled screening of a movie in a hall. Its seat universe
// is exactly the hall's seat set, and its price applies to every ticket
// issued for it.
type Showtime struct {
	ID        int64
	MovieID   int64
	HallID    int64
	StartsAt  time.Time
	EndsAt    time.Time
	Price     decimal.Decimal
	CreatedAt time.Time
}

// CatalogRepository is the read-only reference data the engine validates
// against. Lookups fail with ErrRecordNotFound for unknown IDs; Create
// enforces the per-hall start-time uniqueness with ErrShowtimeOverlap.
type CatalogRepository interface {
	GetMovie(ctx context.Context, movieID int64) (*Movie, error)
	GetShowtime(ctx context.Context, showtimeID int64) (*Showtime, error)
	GetHallSeats(ctx context.Context, hallID int64) ([]Seat, error)
	CreateShowtime(ctx context.Context, showtime *Showtime) error
}
