package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/logging"
)

type structValidator struct {
	v *validator.Validate
}

func (s structValidator) Validate(i interface{}) error {
	return s.v.Struct(i)
}

func newContext(method, target, body string) echo.Context {
	e := echo.New()
	e.Validator = structValidator{v: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "valid", body: `{"email":"a@example.com","password":"secret"}`},
		{name: "missing password", body: `{"email":"a@example.com"}`, wantErr: apperrors.ErrInvalidInput},
		{name: "bad email", body: `{"email":"nope","password":"secret"}`, wantErr: apperrors.ErrInvalidInput},
		{name: "malformed", body: `{"email":`, wantErr: apperrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req LoginRequest
			err := bindAndValidate(newContext(http.MethodPost, "/", tt.body), &req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ReportsFields(t *testing.T) {
	err := validate(newContext(http.MethodPost, "/", ""), &LoginRequest{})

	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
}

func TestPositiveQueryInt(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "", want: 0},
		{query: "page=3", want: 3},
		{query: "page=0", wantErr: true},
		{query: "page=-1", wantErr: true},
		{query: "page=two", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := positiveQueryInt(newContext(http.MethodGet, "/?"+tt.query, ""), "page")
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRespondError(t *testing.T) {
	c := newContext(http.MethodGet, "/", "")

	err := respondError(c, logging.Discard(), errors.New("boom"))

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	body, _ := json.Marshal(he.Message)
	assert.NotContains(t, string(body), "boom")
}
