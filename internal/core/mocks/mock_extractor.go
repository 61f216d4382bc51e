package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docsearch/internal/models"
)

type MockLayoutExtractor struct {
	mock.Mock
}

func (m *MockLayoutExtractor) Extract(ctx context.Context, filename, mimeType string, content []byte) ([]byte, *models.ExtractionReport, error) {
	args := m.Called(ctx, filename, mimeType, content)
	var raw []byte
	if b, ok := args.Get(0).([]byte); ok {
		raw = b
	}
	var report *models.ExtractionReport
	if r, ok := args.Get(1).(*models.ExtractionReport); ok {
		report = r
	}
	return raw, report, args.Error(2)
}
