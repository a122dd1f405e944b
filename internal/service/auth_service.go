package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"marketplace/internal/auth"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Image    string
}

// AuthService handles registration, login and token lifecycle.
type AuthService interface {
	// Register creates an account. For the bootstrap admin email it reports
	// success without touching the store and returns a nil account.
	Register(ctx context.Context, in RegisterInput) (*model.Account, error)
	Login(ctx context.Context, email, password string) (token string, account *model.Account, err error)
	Logout(ctx context.Context, claims *auth.Claims) error
	// Authenticate decodes a bearer token and rejects revoked ones.
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	// EnsureAdmin creates the bootstrap admin if it does not exist yet.
	// An empty email disables the bootstrap admin; an empty password is rejected.
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
	IsBootstrapAdmin(email string) bool
}

type authService struct {
	accountRepo repository.AccountRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	adminEmail  string
	now         func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(accountRepo repository.AccountRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, adminEmail string) AuthService {
	return &authService{
		accountRepo: accountRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		adminEmail:  NormalizeEmail(adminEmail),
		now:         time.Now,
	}
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsBootstrapAdmin reports whether email is the configured bootstrap admin.
func (s *authService) IsBootstrapAdmin(email string) bool {
	email = NormalizeEmail(email)
	return s.adminEmail != "" && email == s.adminEmail
}

// Register creates a new account with hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.Account, error) {
	email := NormalizeEmail(in.Email)
	if s.IsBootstrapAdmin(email) {
		return nil, nil
	}

	role := model.RoleBuyer
	if in.Role != "" {
		parsed, ok := model.ParseRole(in.Role)
		if !ok || parsed == model.RoleAdmin {
			return nil, apperrors.ErrInvalidRole
		}
		role = parsed
	}

	// Check if account already exists
	_, err := s.accountRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.ErrAccountExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check account existence: %w", err)
	}

	account, err := s.newAccount(in.Name, email, in.Password, role)
	if err != nil {
		return nil, err
	}
	account.Image = in.Image

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.ErrAccountExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

func (s *authService) newAccount(name, email, password string, role model.Role) (*model.Account, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	account := &model.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		BanStatus:    model.Unbanned,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == model.RoleBuyer {
		account.Wishlist = []string{}
		account.Cart = []string{}
	}
	return account, nil
}

// Login authenticates an account and returns a bearer token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.Account, error) {
	account, err := s.accountRepo.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, _, err := s.jwtService.Issue(account.Email)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, account, nil
}

// Logout revokes the token described by claims for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return apperrors.ErrUnauthenticated
	}
	return s.tokenStore.Revoke(ctx, claims.ID, claims.TTL(s.now()))
}

func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.Decode(token)
	if err != nil {
		return nil, err
	}
	if s.tokenStore.IsRevoked(ctx, claims.ID) {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	if password == "" {
		return false, apperrors.NewValidationError("password")
	}
	_, err := s.accountRepo.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("check admin existence: %w", err)
	}

	account, err := s.newAccount(name, email, password, model.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
