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

// CollectionService manages a buyer's wishlist and cart. Both behave as
// ordered sets of listing ids.
type CollectionService interface {
	// Add stores productID and reports false when it was already present.
	Add(ctx context.Context, email string, kind model.CollectionKind, productID string) (bool, error)
	// Remove drops productID; removing an absent id is not an error.
	Remove(ctx context.Context, email string, kind model.CollectionKind, productID string) error
	// Items materializes the collection; ids without a listing are skipped.
	Items(ctx context.Context, email string, kind model.CollectionKind) ([]model.Product, error)
}

type collectionService struct {
	accountRepo repository.AccountRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewCollectionService creates a wishlist/cart service.
func NewCollectionService(accountRepo repository.AccountRepository, productRepo repository.ProductRepository) CollectionService {
	return &collectionService{
		accountRepo: accountRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// explainMiss turns a conditional write that matched nothing into the reason:
// a missing account, a banned one, or nil when the account is fine.
func (s *collectionService) explainMiss(ctx context.Context, email string) error {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if account.IsBanned() {
		return apperrors.ErrAccountBanned
	}
	return nil
}

// validProductID rejects ids that cannot name a listing.
func validProductID(productID string) error {
	if productID == "" || len(productID) > model.MaxProductIDLength {
		return apperrors.NewValidationError("productId")
	}
	return nil
}

func (s *collectionService) Add(ctx context.Context, email string, kind model.CollectionKind, productID string) (bool, error) {
	if err := validProductID(productID); err != nil {
		return false, err
	}

	if kind == model.Cart {
		_, err := s.productRepo.FindByID(ctx, productID)
		if errors.Is(err, repository.ErrNotFound) {
			return false, apperrors.ErrProductNotFound
		}
		if err != nil {
			return false, fmt.Errorf("find product: %w", err)
		}
	}

	added, err := s.accountRepo.AddToCollection(ctx, email, kind, productID, s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("add to %s: %w", kind, err)
	}
	if added {
		return true, nil
	}
	// Nothing matched: either the id is already there or the account cannot be changed.
	return false, s.explainMiss(ctx, email)
}

func (s *collectionService) Remove(ctx context.Context, email string, kind model.CollectionKind, productID string) error {
	if err := validProductID(productID); err != nil {
		return err
	}

	matched, err := s.accountRepo.RemoveFromCollection(ctx, email, kind, productID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("remove from %s: %w", kind, err)
	}
	if matched {
		return nil
	}
	if err := s.explainMiss(ctx, email); err != nil {
		return err
	}
	return fmt.Errorf("remove from %s: account %s changed concurrently", kind, email)
}

func (s *collectionService) Items(ctx context.Context, email string, kind model.CollectionKind) ([]model.Product, error) {
	ids, err := s.accountRepo.CollectionIDs(ctx, email, kind)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", kind, err)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load %s products: %w", kind, err)
	}
	return products, nil
}
