package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/internal/access"
	"marketplace/internal/logging"
	"marketplace/internal/service"
)

// UserHandler serves account management endpoints.
type UserHandler struct {
	svc service.AccountService
	log logging.Logger
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.AccountService, log logging.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// ChangeRoleRequest carries the new role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// GetUser godoc
// @Summary Current account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Account
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /get-user [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	return c.JSON(http.StatusOK, access.AccountFrom(c))
}

// ListUsers godoc
// @Summary List accounts
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Account
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	accounts, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, accounts)
}

// ChangeRole godoc
// @Summary Change an account's role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param request body ChangeRoleRequest true "New role"
// @Success 200 {object} model.Account
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	var req ChangeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	account, err := h.svc.ChangeRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, account)
}

// BanUser godoc
// @Summary Ban an account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} model.Account
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ban-user/{id} [patch]
func (h *UserHandler) BanUser(c echo.Context) error {
	account, err := h.svc.Ban(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, account)
}
