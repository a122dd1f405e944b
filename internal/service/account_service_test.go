package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

func TestAccountService_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockAccountRepository)
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(m *MockAccountRepository) {
				m.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.Account{Email: "a@example.com"}, nil)
			},
		},
		{
			name: "missing",
			setupMock: func(m *MockAccountRepository) {
				m.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, repository.ErrNotFound)
			},
			wantErr: apperrors.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAccountRepository)
			tt.setupMock(repo)

			account, err := NewAccountService(repo).Resolve(context.Background(), " A@example.com")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, account)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "a@example.com", account.Email)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAccountService_Resolve_StoreFailureIsNotNotFound(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, errors.New("socket closed"))

	_, err := NewAccountService(repo).Resolve(context.Background(), "a@example.com")

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestAccountService_ChangeRole(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		setupMock func(*MockAccountRepository)
		wantErr   error
		wantRole  model.Role
	}{
		{
			name: "promotes unbanned account",
			role: "seller",
			setupMock: func(m *MockAccountRepository) {
				m.On("ChangeRole", mock.Anything, "u1", model.RoleSeller, mock.Anything).Return(true, nil)
				m.On("FindByID", mock.Anything, "u1").Return(&model.Account{ID: "u1", Role: model.RoleSeller, BanStatus: model.Unbanned}, nil)
			},
			wantRole: model.RoleSeller,
		},
		{
			name:      "rejects unknown role",
			role:      "owner",
			setupMock: func(m *MockAccountRepository) {},
			wantErr:   apperrors.ErrInvalidRole,
		},
		{
			name: "refuses banned account",
			role: "admin",
			setupMock: func(m *MockAccountRepository) {
				m.On("ChangeRole", mock.Anything, "u1", model.RoleAdmin, mock.Anything).Return(false, nil)
				m.On("FindByID", mock.Anything, "u1").Return(&model.Account{ID: "u1", BanStatus: model.Banned}, nil)
			},
			wantErr: apperrors.ErrAccountBanned,
		},
		{
			name: "missing account",
			role: "buyer",
			setupMock: func(m *MockAccountRepository) {
				m.On("ChangeRole", mock.Anything, "u1", model.RoleBuyer, mock.Anything).Return(false, nil)
				m.On("FindByID", mock.Anything, "u1").Return(nil, repository.ErrNotFound)
			},
			wantErr: apperrors.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAccountRepository)
			tt.setupMock(repo)

			account, err := NewAccountService(repo).ChangeRole(context.Background(), "u1", tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, account)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, account.Role)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAccountService_Ban(t *testing.T) {
	t.Run("bans", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("Ban", mock.Anything, "u1", mock.Anything).Return(true, nil)
		repo.On("FindByID", mock.Anything, "u1").Return(&model.Account{ID: "u1", BanStatus: model.Banned}, nil)

		account, err := NewAccountService(repo).Ban(context.Background(), "u1")

		require.NoError(t, err)
		assert.True(t, account.IsBanned())
	})

	t.Run("nothing matched", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("Ban", mock.Anything, "nope", mock.Anything).Return(false, nil)

		_, err := NewAccountService(repo).Ban(context.Background(), "nope")

		assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}
