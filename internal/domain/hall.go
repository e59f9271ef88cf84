package domain

type SeatCategory string

const (
	SeatCategoryStandard SeatCategory = "standard"
	SeatCategoryPremium  SeatCategory = "premium"
	SeatCategoryVIP      SeatCategory = "vip"
)

type Hall struct {
	ID   int64
	Name string
}

// Seat is immutable once created. Identity is (hall, row, number); the same
// physical seat is reusable across different showtimes.
type Seat struct {
	ID       int64
	HallID   int64
	Row      int
	Number   int
	Category SeatCategory
}
