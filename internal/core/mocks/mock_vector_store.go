package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docsearch/internal/core"
)

type MockVectorStore struct {
	mock.Mock
}

func (m *MockVectorStore) Upsert(ctx context.Context, points []core.VectorPoint) error {
	args := m.Called(ctx, points)
	return args.Error(0)
}

func (m *MockVectorStore) CountByDocument(ctx context.Context, tenantID, documentID string) (int, error) {
	args := m.Called(ctx, tenantID, documentID)
	return args.Int(0), args.Error(1)
}

func (m *MockVectorStore) DeleteByDocument(ctx context.Context, tenantID, documentID string) error {
	args := m.Called(ctx, tenantID, documentID)
	return args.Error(0)
}

func (m *MockVectorStore) QueryGrouped(ctx context.Context, q core.GroupedQuery) ([]core.DocumentMatch, error) {
	args := m.Called(ctx, q)
	if r, ok := args.Get(0).([]core.DocumentMatch); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
