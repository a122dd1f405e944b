package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/internal/access"
	"marketplace/internal/logging"
	"marketplace/internal/model"
	"marketplace/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	log         logging.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// RegisterRequest represents an account registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
	Image    string `json:"image"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is returned after a registration.
type RegisterResponse struct {
	Message string         `json:"message"`
	User    *model.Account `json:"user,omitempty"`
}

// AuthResponse represents a successful login.
type AuthResponse struct {
	Token string         `json:"token"`
	Role  model.Role     `json:"role"`
	User  *model.Account `json:"user"`
}

// Register godoc
// @Summary Register a new account
// @Description Creates a buyer (default) or seller account. The bootstrap admin email always succeeds without changes.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, errMalformedBody)
	}

	if !h.authService.IsBootstrapAdmin(req.Email) {
		if err := validate(c, &req); err != nil {
			return respondError(c, h.log, err)
		}
	}

	account, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Image:    req.Image,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	if account == nil {
		return c.JSON(http.StatusOK, RegisterResponse{Message: "admin account is provisioned"})
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "account registered successfully",
		User:    account,
	})
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	token, account, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		Role:  account.Role,
		User:  account,
	})
}

// Logout godoc
// @Summary Logout
// @Description Revokes the presented bearer token.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), access.ClaimsFrom(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}
