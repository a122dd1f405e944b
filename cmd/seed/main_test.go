package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/config"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/logging"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/internal/service"
)

const sampleProducts = `[
  {"name": "Chair", "price": "49.999", "category": "home", "brand": "Oak", "stock": 4},
  {"name": "Desk", "price": 120, "category": "office"},
  {"name": "Broken", "price": "-5", "category": "misc"}
]`

func TestLoadProducts_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleProducts), 0o600))

	items, err := loadProducts(context.Background(), []string{path}, "")

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Chair", items[0].Name)
	assert.Equal(t, json.Number("49.999"), items[0].Price)
}

func TestLoadProducts_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name": "Lamp", "price": 10, "category": "home"}]`))
	}))
	defer srv.Close()

	items, err := loadProducts(context.Background(), nil, srv.URL)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Lamp", items[0].Name)
}

func TestLoadProducts_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := loadProducts(context.Background(), nil, srv.URL)

	assert.Error(t, err)
}

func TestLoadProducts_NoSource(t *testing.T) {
	_, err := loadProducts(context.Background(), nil, "")
	assert.Error(t, err)
}

func TestToInput(t *testing.T) {
	var items []SeedProductData
	require.NoError(t, json.Unmarshal([]byte(sampleProducts), &items))

	in, err := toInput(items[0])
	require.NoError(t, err)
	assert.Equal(t, 50.0, in.Price)
	assert.Equal(t, 4, in.Stock)

	in, err = toInput(items[1])
	require.NoError(t, err)
	assert.Equal(t, 120.0, in.Price)
	assert.Equal(t, 0, in.Stock)

	_, err = toInput(items[2])
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

type stubRegistrar struct {
	err error
}

func (s stubRegistrar) Register(_ context.Context, in service.RegisterInput) (*model.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Account{Email: in.Email, Role: model.Role(in.Role)}, nil
}

type stubAccounts map[string]*model.Account

func (s stubAccounts) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	if a, ok := s[email]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func TestEnsureSeller(t *testing.T) {
	const email = "seller@example.com"
	exists := stubRegistrar{err: apperrors.ErrAccountExists}

	tests := []struct {
		name        string
		reg         stubRegistrar
		accounts    stubAccounts
		wantCreated bool
		wantErr     error
	}{
		{name: "created", reg: stubRegistrar{}, wantCreated: true},
		{
			name:     "existing seller",
			reg:      exists,
			accounts: stubAccounts{email: {Email: email, Role: model.RoleSeller, BanStatus: model.Unbanned}},
		},
		{
			name:     "existing buyer",
			reg:      exists,
			accounts: stubAccounts{email: {Email: email, Role: model.RoleBuyer, BanStatus: model.Unbanned}},
			wantErr:  apperrors.ErrRoleMismatch,
		},
		{
			name:     "existing admin",
			reg:      exists,
			accounts: stubAccounts{email: {Email: email, Role: model.RoleAdmin, BanStatus: model.Unbanned}},
			wantErr:  apperrors.ErrRoleMismatch,
		},
		{
			name:     "banned seller",
			reg:      exists,
			accounts: stubAccounts{email: {Email: email, Role: model.RoleSeller, BanStatus: model.Banned}},
			wantErr:  apperrors.ErrAccountBanned,
		},
		{
			name:    "register failure",
			reg:     stubRegistrar{err: apperrors.ErrInvalidInput},
			wantErr: apperrors.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := ensureSeller(context.Background(), tt.reg, tt.accounts, email, "seller-pass")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
		})
	}
}

func TestRun_RejectsMissingSellerPassword(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:       "x",
		TokenExpiry:     time.Hour,
		StoreDriver:     config.DriverMongo,
		SeedSellerEmail: "seller@example.com",
	}

	err := run(context.Background(), cfg, logging.Discard(), nil)

	assert.ErrorContains(t, err, "SEED_SELLER_PASSWORD")
}
