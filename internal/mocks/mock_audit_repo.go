package mocks

import (
	"context"

	"github.com/cinetick/booking-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockAuditRepo struct {
	mock.Mock
	domain.AuditRepository
}

func (m *MockAuditRepo) OrphanedTickets(ctx context.Context) ([]domain.OrphanedTicket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrphanedTicket), args.Error(1)
}

func (m *MockAuditRepo) EmptyConfirmedBookings(ctx context.Context) ([]domain.EmptyBooking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmptyBooking), args.Error(1)
}
