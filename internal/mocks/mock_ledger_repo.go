package mocks

import (
	"context"
	"time"

	"github.com/cinetick/booking-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockLedgerRepo struct {
	mock.Mock
	domain.LedgerRepository
}

func (m *MockLedgerRepo) CreatePendingBooking(
	ctx context.Context,
	userID, showtimeID int64,
	idempotencyKey *string) (*domain.Booking, error) {

	args := m.Called(ctx, userID, showtimeID, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockLedgerRepo) AttachTicket(
	ctx context.Context,
	bookingID, showtimeID, seatID int64,
	price decimal.Decimal) (*domain.Ticket, error) {

	args := m.Called(ctx, bookingID, showtimeID, seatID, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockLedgerRepo) Confirm(ctx context.Context, bookingID int64, total decimal.Decimal) error {
	args := m.Called(ctx, bookingID, total)
	return args.Error(0)
}

func (m *MockLedgerRepo) Cancel(ctx context.Context, bookingID int64) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockLedgerRepo) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockLedgerRepo) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockLedgerRepo) GetByUserID(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockLedgerRepo) ActiveSeatIDs(ctx context.Context, showtimeID int64) ([]int64, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockLedgerRepo) CancelStalePending(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}
