package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"marketplace/internal/model"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a GORM-backed listing repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return translateGormError(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &product, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return orderByIDs(ids, products), nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerEmail string) ([]model.Product, error) {
	products := make([]model.Product, 0)
	err := r.db.WithContext(ctx).
		Where("seller_email = ?", sellerEmail).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) filtered(ctx context.Context, f model.ProductFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+escapeLike(strings.ToLower(f.Name))+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.SellerEmail != "" {
		q = q.Where("seller_email = ?", f.SellerEmail)
	}
	return q
}

func (r *productRepository) Search(ctx context.Context, f model.ProductFilter) (*model.ProductPage, error) {
	page := &model.ProductPage{
		Products:   make([]model.Product, 0),
		Categories: make([]string, 0),
		Brands:     make([]string, 0),
	}

	if err := r.filtered(ctx, f).Count(&page.TotalProducts).Error; err != nil {
		return nil, err
	}

	q := r.filtered(ctx, f).Offset(f.Offset()).Limit(f.Limit)
	switch f.Sort {
	case "asc":
		q = q.Order("price ASC")
	case "desc":
		q = q.Order("price DESC")
	}
	if err := q.Find(&page.Products).Error; err != nil {
		return nil, err
	}

	if err := r.filtered(ctx, f).Distinct("category").Pluck("category", &page.Categories).Error; err != nil {
		return nil, err
	}
	if err := r.filtered(ctx, f).Where("brand <> ''").Distinct("brand").Pluck("brand", &page.Brands).Error; err != nil {
		return nil, err
	}
	sort.Strings(page.Categories)
	sort.Strings(page.Brands)

	return page, nil
}

func (r *productRepository) UpdateOwned(ctx context.Context, id, sellerEmail string, fields map[string]interface{}, now time.Time) (*model.Product, error) {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["updated_at"] = now

	var product model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("id = ? AND seller_email = ?", id, sellerEmail).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&product).Error
	})
	if err != nil {
		return nil, translateGormError(err)
	}
	return &product, nil
}

func (r *productRepository) DeleteOwned(ctx context.Context, id, sellerEmail string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND seller_email = ?", id, sellerEmail).
		Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
