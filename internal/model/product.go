package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is a buyer rating attached to a listing.
type Rating struct {
	Email   string `json:"email" bson:"email"`
	Score   int    `json:"score" bson:"score"`
	Comment string `json:"comment,omitempty" bson:"comment,omitempty"`
}

// Product is a listing owned by a seller. SellerEmail is a denormalized
// copy of the owner's email used for ownership checks.
type Product struct {
	ID          string    `json:"id" bson:"_id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" bson:"name" gorm:"size:255;not null;index"`
	Price       float64   `json:"price" bson:"price" gorm:"not null"`
	Category    string    `json:"category" bson:"category" gorm:"size:128;not null;index"`
	Brand       string    `json:"brand" bson:"brand" gorm:"size:128;index"`
	Details     string    `json:"details" bson:"details" gorm:"type:text"`
	Stock       int       `json:"stock" bson:"stock" gorm:"not null;default:0"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty" gorm:"size:1024"`
	SellerEmail string    `json:"seller_email" bson:"seller_email" gorm:"size:255;not null;index"`
	Ratings     []Rating  `json:"ratings" bson:"ratings" gorm:"serializer:json;type:json"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProductPatch carries the fields of a partial listing update. Nil fields are left untouched.
type ProductPatch struct {
	Name     *string
	Price    *float64
	Category *string
	Brand    *string
	Details  *string
	Stock    *int
	Image    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Category == nil && p.Brand == nil &&
		p.Details == nil && p.Stock == nil && p.Image == nil
}

// Fields returns the patch as column/field name to value, using the
// names shared by the bson and gorm mappings.
func (p ProductPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Price != nil {
		fields["price"] = *p.Price
	}
	if p.Category != nil {
		fields["category"] = *p.Category
	}
	if p.Brand != nil {
		fields["brand"] = *p.Brand
	}
	if p.Details != nil {
		fields["details"] = *p.Details
	}
	if p.Stock != nil {
		fields["stock"] = *p.Stock
	}
	if p.Image != nil {
		fields["image"] = *p.Image
	}
	return fields
}

// ProductFilter selects listings for the paginated search.
type ProductFilter struct {
	Name        string // case-insensitive substring
	Category    string
	Brand       string
	SellerEmail string
	Sort        string // "asc" or "desc" on price; anything else leaves store order
	Page        int
	Limit       int
}

// Offset is the number of matching listings skipped before the page.
func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ProductPage is one page of a listing search.
type ProductPage struct {
	Products      []Product `json:"products"`
	Categories    []string  `json:"categories"`
	Brands        []string  `json:"brands"`
	TotalProducts int64     `json:"totalProducts"`
}
