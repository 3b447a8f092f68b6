package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/swipe-suggest/backend/internal/types"
)

// MockFetcher is a mock implementation of swipe.Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, ingredients []string, canShop bool) ([]types.Recipe, error) {
	args := m.Called(ctx, ingredients, canShop)
	recipes, _ := args.Get(0).([]types.Recipe)
	return recipes, args.Error(1)
}
