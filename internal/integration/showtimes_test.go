package integration_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ShowtimesTestSuite struct {
	BaseSuite
}

func TestShowtimesSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	suite.Run(t, new(ShowtimesTestSuite))
}

func (s *ShowtimesTestSuite) TestCreateShowtimeHandler() {
	scenarios := []Scenario{
		{
			Name:           "returns 422 when end time is not after start time",
			Method:         "POST",
			URL:            "/showtimes",
			Body:           strings.NewReader(`{"movieId": 1, "hallId": 1, "startsAt": "2095-02-01T18:00:00Z", "endsAt": "2095-02-01T17:00:00Z", "price": "12.50"}`),
			ExpectedStatus: http.StatusUnprocessableEntity,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				setupCatalogTestState(t, app)
			},
		},
		{
			Name:           "returns 422 when the movie does not exist",
			Method:         "POST",
			URL:            "/showtimes",
			Body:           strings.NewReader(`{"movieId": 999, "hallId": 1, "startsAt": "2095-02-01T18:00:00Z", "endsAt": "2095-02-01T20:00:00Z", "price": "12.50"}`),
			ExpectedStatus: http.StatusUnprocessableEntity,
			ExpectedResponse: `{
				"message": "movie or hall does not exist"
			}`,
		},
		{
			Name:           "creates a showtime",
			Method:         "POST",
			URL:            "/showtimes",
			Body:           strings.NewReader(`{"movieId": 1, "hallId": 1, "startsAt": "2095-02-01T18:00:00Z", "endsAt": "2095-02-01T20:00:00Z", "price": "12.50"}`),
			ExpectedStatus: http.StatusCreated,
			ExpectedResponse: `{
				"showtimeId": 101,
				"movieId": 1,
				"hallId": 1,
				"startsAt": "2095-02-01T18:00:00Z",
				"endsAt": "2095-02-01T20:00:00Z",
				"price": "12.5"
			}`,
		},
		{
			Name:           "returns 409 when the hall already has a showtime at that instant",
			Method:         "POST",
			URL:            "/showtimes",
			Body:           strings.NewReader(`{"movieId": 1, "hallId": 1, "startsAt": "2095-02-01T18:00:00Z", "endsAt": "2095-02-01T21:00:00Z", "price": "15.00"}`),
			ExpectedStatus: http.StatusConflict,
		},
		{
			Name:           "allows the same start instant in a different context",
			Method:         "POST",
			URL:            "/showtimes",
			Body:           strings.NewReader(`{"movieId": 1, "hallId": 1, "startsAt": "2095-02-01T21:00:00Z", "endsAt": "2095-02-01T23:00:00Z", "price": "15.00"}`),
			ExpectedStatus: http.StatusCreated,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}
