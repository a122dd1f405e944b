package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the marketplace role of an account.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// IsValid reports whether r is one of buyer, seller or admin.
func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole parses a role string, reporting whether it is valid.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}

// BanStatus is the moderation state of an account.
type BanStatus string

const (
	Unbanned BanStatus = "unbanned"
	Banned   BanStatus = "banned"
)

// Account represents a buyer, seller or admin of the marketplace.
// Email is the identity key; Wishlist and Cart hold listing ids with set semantics.
type Account struct {
	ID           string    `json:"id" bson:"_id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" bson:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" bson:"password_hash" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" bson:"role" gorm:"type:varchar(16);not null;default:'buyer';index"`
	BanStatus    BanStatus `json:"ban_status" bson:"ban_status" gorm:"type:varchar(16);not null;default:'unbanned';index"`
	Image        string    `json:"image,omitempty" bson:"image,omitempty" gorm:"size:1024"`
	Wishlist     []string  `json:"wishlist,omitempty" bson:"wishlist,omitempty" gorm:"-"`
	Cart         []string  `json:"cart,omitempty" bson:"cart,omitempty" gorm:"-"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// IsBanned reports whether the account is banned.
func (a *Account) IsBanned() bool {
	return a.BanStatus == Banned
}

// BeforeCreate sets UUID before creating the record.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
