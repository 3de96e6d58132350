package classify

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) GenerateWithImage(ctx context.Context, prompt string, image *Image) (string, error) {
	args := m.Called(ctx, prompt, image)
	return args.String(0), args.Error(1)
}
