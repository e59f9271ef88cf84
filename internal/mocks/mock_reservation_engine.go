package mocks

import (
	"context"

	"github.com/cinetick/booking-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockReservationEngine struct {
	mock.Mock
	domain.ReservationEngine
}

func (m *MockReservationEngine) Reserve(ctx context.Context, req domain.ReserveRequest) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockReservationEngine) CancelBooking(ctx context.Context, bookingID, requesterID int64) error {
	args := m.Called(ctx, bookingID, requesterID)
	return args.Error(0)
}
