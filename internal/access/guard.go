// Package access implements the gate chain in front of protected routes:
// authenticate the bearer token, resolve the account it names, then run the
// route's checks against that account.
package access

import (
	"fmt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"marketplace/internal/auth"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/logging"
	"marketplace/internal/model"
	"marketplace/internal/service"
)

const (
	claimsKey  = "claims"
	accountKey = "account"
)

// Check is a single authorization decision on a resolved account.
// A nil error allows the request through.
type Check func(account *model.Account) error

// Role rejects accounts whose role differs from required.
func Role(required model.Role) Check {
	return func(account *model.Account) error {
		if account.Role != required {
			return fmt.Errorf("%w: requires %s", apperrors.ErrRoleMismatch, required)
		}
		return nil
	}
}

// Unbanned rejects banned accounts.
func Unbanned() Check {
	return func(account *model.Account) error {
		if account.IsBanned() {
			return apperrors.ErrAccountBanned
		}
		return nil
	}
}

// Guard builds the middleware chain for protected routes.
type Guard struct {
	authService    service.AuthService
	accountService service.AccountService
	log            logging.Logger
	authenticate   echo.MiddlewareFunc
}

// NewGuard creates a guard backed by the given services.
func NewGuard(authService service.AuthService, accountService service.AccountService, log logging.Logger) *Guard {
	g := &Guard{
		authService:    authService,
		accountService: accountService,
		log:            log,
	}
	g.authenticate = echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return g.authService.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return g.reject(c, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err))
		},
	})
	return g
}

// Authenticate requires a valid, unrevoked "Bearer <token>" header and
// stores the decoded claims on the context.
func (g *Guard) Authenticate() echo.MiddlewareFunc {
	return g.authenticate
}

// Identify resolves the account named by the claims. Role and ban status
// come from this lookup, never from the token.
func (g *Guard) Identify() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return g.reject(c, apperrors.ErrUnauthenticated)
			}
			account, err := g.accountService.Resolve(c.Request().Context(), claims.Email)
			if err != nil {
				return g.reject(c, err)
			}
			c.Set(accountKey, account)
			return next(c)
		}
	}
}

// Enforce runs checks in order against the resolved account; the first
// rejection ends the request.
func (g *Guard) Enforce(checks ...Check) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := AccountFrom(c)
			if account == nil {
				return g.reject(c, apperrors.ErrUnauthenticated)
			}
			for _, check := range checks {
				if err := check(account); err != nil {
					return g.reject(c, err)
				}
			}
			return next(c)
		}
	}
}

// Protect returns the full chain for a route: authenticate, identify, then checks.
func (g *Guard) Protect(checks ...Check) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.Authenticate(), g.Identify(), g.Enforce(checks...)}
}

func (g *Guard) reject(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.IsInternal() {
		g.log.Error(c.Request().Context(), "access check failed",
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// ClaimsFrom returns the claims stored by Authenticate, or nil.
func ClaimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}

// AccountFrom returns the account stored by Identify, or nil.
func AccountFrom(c echo.Context) *model.Account {
	account, _ := c.Get(accountKey).(*model.Account)
	return account
}
