package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taskdesk/internal/letter"
	"taskdesk/internal/model"
	"taskdesk/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context, userID, category, query string) ([]model.Document, error) {
	args := m.Called(ctx, userID, category, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, userID, id string) (*model.Document, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Create(ctx context.Context, userID string, in service.DocumentInput) (*model.Document, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, userID, id string, in service.DocumentInput) (*model.Document, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockLetterService struct {
	mock.Mock
}

func (m *MockLetterService) Render(ctx context.Context, userID, docID, recipientID string) (*letter.Rendered, error) {
	args := m.Called(ctx, userID, docID, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*letter.Rendered), args.Error(1)
}

func (m *MockLetterService) Export(ctx context.Context, userID, docID, recipientID string) (*service.LetterExport, error) {
	args := m.Called(ctx, userID, docID, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LetterExport), args.Error(1)
}
