package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"phonebills/internal/port"
)

// MockLineItemParser is a mock implementation of port.LineItemParser.
type MockLineItemParser struct {
	mock.Mock
}

func (m *MockLineItemParser) ParseItems(ctx context.Context, rawText string) ([]port.LineItem, error) {
	args := m.Called(ctx, rawText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.LineItem), args.Error(1)
}
