package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockEmbeddingProvider struct {
	mock.Mock
}

func (m *MockEmbeddingProvider) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if f, ok := args.Get(0).(func([]string) [][]float32); ok {
		return f(texts), args.Error(1)
	}
	if v, ok := args.Get(0).([][]float32); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
