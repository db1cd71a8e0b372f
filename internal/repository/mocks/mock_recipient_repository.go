package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

type MockRecipientRepository struct {
	mock.Mock
}

func (m *MockRecipientRepository) Create(ctx context.Context, r *model.Recipient) (*model.Recipient, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipient), args.Error(1)
}

func (m *MockRecipientRepository) FindByID(ctx context.Context, userID, id string) (*model.Recipient, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipient), args.Error(1)
}

func (m *MockRecipientRepository) List(ctx context.Context, userID string) ([]model.Recipient, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipient), args.Error(1)
}

func (m *MockRecipientRepository) Update(ctx context.Context, userID, id string, p repository.RecipientPatch) (*model.Recipient, error) {
	args := m.Called(ctx, userID, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipient), args.Error(1)
}

func (m *MockRecipientRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
