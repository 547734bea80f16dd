package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"phonebills/internal/domain"
)

// MockServiceRepo is a mock implementation of port.ServiceRepository.
type MockServiceRepo struct {
	mock.Mock
}

func (m *MockServiceRepo) Create(ctx context.Context, service *domain.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockServiceRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.Service, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockServiceRepo) GetWithGroup(ctx context.Context, id int64) (*domain.ServiceWithGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceWithGroup), args.Error(1)
}

func (m *MockServiceRepo) List(ctx context.Context) ([]domain.ServiceWithGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceWithGroup), args.Error(1)
}

func (m *MockServiceRepo) UpdateLabel(ctx context.Context, id int64, label string) error {
	args := m.Called(ctx, id, label)
	return args.Error(0)
}

func (m *MockServiceRepo) Update(ctx context.Context, service *domain.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}
