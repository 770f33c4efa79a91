package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/trashcare/backend/internal/identity"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateAccount(ctx context.Context, email, credential string) (*identity.Account, error) {
	args := m.Called(ctx, email, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockProvider) UpdateProfile(ctx context.Context, accountID string, profile identity.Profile) error {
	args := m.Called(ctx, accountID, profile)
	return args.Error(0)
}

func (m *MockProvider) MintCustomToken(ctx context.Context, subjectID string) (string, error) {
	args := m.Called(ctx, subjectID)
	return args.String(0), args.Error(1)
}
