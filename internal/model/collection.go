package model

import "time"

// MaxProductIDLength bounds the listing ids accepted into a wishlist or cart.
const MaxProductIDLength = 64

// CollectionKind names one of a buyer's listing collections.
type CollectionKind string

const (
	Wishlist CollectionKind = "wishlist"
	Cart     CollectionKind = "cart"
)

// CollectionItem is the relational form of one wishlist or cart entry.
// The document store keeps the same data as arrays on the account.
type CollectionItem struct {
	ID           uint           `gorm:"primaryKey"`
	AccountEmail string         `gorm:"size:255;not null;uniqueIndex:idx_collection_item"`
	Kind         CollectionKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_collection_item"`
	ProductID    string         `gorm:"size:64;not null;uniqueIndex:idx_collection_item"`
	CreatedAt    time.Time
}
