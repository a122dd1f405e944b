package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// AccountService resolves identities and performs admin account management.
type AccountService interface {
	// Resolve loads the current account for email. It is the only source
	// of role and ban status for authorization decisions.
	Resolve(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	ChangeRole(ctx context.Context, id, role string) (*model.Account, error)
	Ban(ctx context.Context, id string) (*model.Account, error)
}

type accountService struct {
	repo repository.AccountRepository
	now  func() time.Time
}

// NewAccountService creates a new account service.
func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{repo: repo, now: time.Now}
}

func (s *accountService) Resolve(ctx context.Context, email string) (*model.Account, error) {
	account, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve account: %w", err)
	}
	return account, nil
}

func (s *accountService) List(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) findByID(ctx context.Context, id string) (*model.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

// ChangeRole sets the role of an unbanned account. Banned accounts are refused.
func (s *accountService) ChangeRole(ctx context.Context, id, role string) (*model.Account, error) {
	newRole, ok := model.ParseRole(role)
	if !ok {
		return nil, apperrors.ErrInvalidRole
	}

	matched, err := s.repo.ChangeRole(ctx, id, newRole, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}

	account, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !matched {
		if account.IsBanned() {
			return nil, apperrors.ErrAccountBanned
		}
		return nil, fmt.Errorf("change role: account %s changed concurrently", id)
	}
	return account, nil
}

func (s *accountService) Ban(ctx context.Context, id string) (*model.Account, error) {
	matched, err := s.repo.Ban(ctx, id, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("ban account: %w", err)
	}
	if !matched {
		return nil, apperrors.ErrAccountNotFound
	}
	return s.findByID(ctx, id)
}
