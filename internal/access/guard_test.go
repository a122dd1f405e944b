package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/logging"
	"marketplace/internal/model"
)

func TestChecks(t *testing.T) {
	buyer := &model.Account{Role: model.RoleBuyer, BanStatus: model.Unbanned}
	bannedBuyer := &model.Account{Role: model.RoleBuyer, BanStatus: model.Banned}

	tests := []struct {
		name    string
		check   Check
		account *model.Account
		wantErr error
	}{
		{name: "role match", check: Role(model.RoleBuyer), account: buyer},
		{name: "role mismatch", check: Role(model.RoleSeller), account: buyer, wantErr: apperrors.ErrRoleMismatch},
		{name: "admin is not a superset", check: Role(model.RoleSeller), account: &model.Account{Role: model.RoleAdmin}, wantErr: apperrors.ErrRoleMismatch},
		{name: "unbanned", check: Unbanned(), account: buyer},
		{name: "banned", check: Unbanned(), account: bannedBuyer, wantErr: apperrors.ErrAccountBanned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.account)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func enforce(t *testing.T, account *model.Account, checks ...Check) (reached bool, err error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if account != nil {
		c.Set(accountKey, account)
	}
	g := &Guard{log: logging.Discard()}
	err = g.Enforce(checks...)(func(echo.Context) error {
		reached = true
		return nil
	})(c)
	return reached, err
}

func TestEnforce_FirstRejectionWins(t *testing.T) {
	banned := &model.Account{Role: model.RoleBuyer, BanStatus: model.Banned}

	reached, err := enforce(t, banned, Role(model.RoleSeller), Unbanned())

	assert.False(t, reached)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, apperrors.ErrorResponse{Error: "access denied for this role: requires seller", Code: "ROLE_MISMATCH"}, he.Message)
}

func TestEnforce_AllPass(t *testing.T) {
	reached, err := enforce(t, &model.Account{Role: model.RoleBuyer, BanStatus: model.Unbanned}, Role(model.RoleBuyer), Unbanned())

	require.NoError(t, err)
	assert.True(t, reached)
}

func TestEnforce_NoAccount(t *testing.T) {
	reached, err := enforce(t, nil)

	assert.False(t, reached)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
