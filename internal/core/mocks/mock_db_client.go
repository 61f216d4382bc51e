package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docsearch/internal/models"
)

type MockDbClient struct {
	mock.Mock
}

func (m *MockDbClient) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockDbClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDbClient) CreateDocument(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDbClient) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	if d, ok := args.Get(0).(*models.Document); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDbClient) ListDocumentsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Document, int, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	var docs []models.Document
	if d, ok := args.Get(0).([]models.Document); ok {
		docs = d
	}
	return docs, args.Int(1), args.Error(2)
}

func (m *MockDbClient) TransitionDocumentStatus(ctx context.Context, id string, from, to models.DocumentStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockDbClient) LinkReport(ctx context.Context, docID string, report *models.Report) error {
	args := m.Called(ctx, docID, report)
	return args.Error(0)
}

func (m *MockDbClient) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*models.Report); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDbClient) DeleteReportForDocument(ctx context.Context, docID string) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}

func (m *MockDbClient) DeleteDocument(ctx context.Context, docID string) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}

func (m *MockDbClient) Close() error {
	args := m.Called()
	return args.Error(0)
}
