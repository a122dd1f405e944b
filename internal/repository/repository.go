// Package repository persists accounts and listings. Every interface has a
// MongoDB implementation (the default document store) and a GORM one for MySQL.
package repository

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the lookup or the conditional write.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// AccountRepository defines account persistence operations.
//
// The conditional writes only touch unbanned accounts and report whether a
// record matched; callers decide what a miss means.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id string) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	ChangeRole(ctx context.Context, id string, role model.Role, now time.Time) (bool, error)
	Ban(ctx context.Context, id string, now time.Time) (bool, error)
	// AddToCollection appends productID unless it is already present.
	// It returns false when no unbanned account without that entry exists.
	AddToCollection(ctx context.Context, email string, kind model.CollectionKind, productID string, now time.Time) (bool, error)
	// RemoveFromCollection drops productID if present. It returns false only
	// when no unbanned account matched.
	RemoveFromCollection(ctx context.Context, email string, kind model.CollectionKind, productID string, now time.Time) (bool, error)
	CollectionIDs(ctx context.Context, email string, kind model.CollectionKind) ([]string, error)
}

// ProductRepository defines listing persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	ListBySeller(ctx context.Context, sellerEmail string) ([]model.Product, error)
	Search(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error)
	// UpdateOwned applies fields to the listing only when it belongs to sellerEmail.
	UpdateOwned(ctx context.Context, id, sellerEmail string, fields map[string]interface{}, now time.Time) (*model.Product, error)
	// DeleteOwned removes the listing only when it belongs to sellerEmail.
	DeleteOwned(ctx context.Context, id, sellerEmail string) error
}

// orderByIDs returns products in the order of ids, skipping ids with no match.
func orderByIDs(ids []string, products []model.Product) []model.Product {
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered
}
