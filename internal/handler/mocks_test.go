package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/stay-booking/internal/model"
	"github.com/iliyamo/stay-booking/internal/service"
	"github.com/iliyamo/stay-booking/internal/utils"
)

type MockReservations struct{ mock.Mock }

func (m *MockReservations) Add(ctx context.Context, stayID uint64, guest string, rng model.DateRange) (*model.Reservation, error) {
	args := m.Called(ctx, stayID, guest, rng)
	res, _ := args.Get(0).(*model.Reservation)
	return res, args.Error(1)
}

func (m *MockReservations) Delete(ctx context.Context, id uint64, guest string) error {
	return m.Called(ctx, id, guest).Error(0)
}

func (m *MockReservations) ListByGuest(ctx context.Context, guest string) ([]model.Reservation, error) {
	args := m.Called(ctx, guest)
	list, _ := args.Get(0).([]model.Reservation)
	return list, args.Error(1)
}

func (m *MockReservations) ListByStay(ctx context.Context, stayID uint64) ([]model.Reservation, error) {
	args := m.Called(ctx, stayID)
	list, _ := args.Get(0).([]model.Reservation)
	return list, args.Error(1)
}

type MockSearch struct{ mock.Mock }

func (m *MockSearch) Search(ctx context.Context, guestNumber int, checkin, checkout time.Time, lat, lon float64, distance string) ([]model.Stay, error) {
	args := m.Called(ctx, guestNumber, checkin, checkout, lat, lon, distance)
	list, _ := args.Get(0).([]model.Stay)
	return list, args.Error(1)
}

type MockStays struct{ mock.Mock }

func (m *MockStays) ListByHost(ctx context.Context, host string) ([]model.Stay, error) {
	args := m.Called(ctx, host)
	list, _ := args.Get(0).([]model.Stay)
	return list, args.Error(1)
}

func (m *MockStays) GetByIDAndHost(ctx context.Context, id uint64, host string) (*model.Stay, error) {
	args := m.Called(ctx, id, host)
	st, _ := args.Get(0).(*model.Stay)
	return st, args.Error(1)
}

func (m *MockStays) GetByID(ctx context.Context, id uint64) (*model.Stay, error) {
	args := m.Called(ctx, id)
	st, _ := args.Get(0).(*model.Stay)
	return st, args.Error(1)
}

func (m *MockStays) Create(ctx context.Context, host string, in service.NewStayInput) (*model.Stay, error) {
	args := m.Called(ctx, host, in)
	st, _ := args.Get(0).(*model.Stay)
	return st, args.Error(1)
}

func (m *MockStays) Delete(ctx context.Context, id uint64, host string) error {
	return m.Called(ctx, id, host).Error(0)
}

type MockAuth struct{ mock.Mock }

func (m *MockAuth) Register(ctx context.Context, username, password, role string) error {
	return m.Called(ctx, username, password, role).Error(0)
}

func (m *MockAuth) Login(ctx context.Context, username, password, role string) (utils.AccessToken, error) {
	args := m.Called(ctx, username, password, role)
	tok, _ := args.Get(0).(utils.AccessToken)
	return tok, args.Error(1)
}
