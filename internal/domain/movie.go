package domain

import "time"

type Movie struct {
	ID           int64
	Title        string
	DurationMins int
	CreatedAt    time.Time
}
