package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRecipeGenerator is a mock implementation of service.RecipeGenerator
type MockRecipeGenerator struct {
	mock.Mock
}

func (m *MockRecipeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockRecipeGenerator) Provider() string {
	return "mock"
}

func (m *MockRecipeGenerator) Model() string {
	return "mock-model"
}
