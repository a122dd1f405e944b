package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketplace/internal/cache"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

const (
	productCacheTTL = 5 * time.Minute

	// DefaultPageLimit is the page size when the client does not pass one.
	DefaultPageLimit = 6
	// MaxPageLimit bounds the page size.
	MaxPageLimit = 100
)

// ProductInput carries the fields of a new listing.
type ProductInput struct {
	Name     string
	Price    float64
	Category string
	Brand    string
	Details  string
	Stock    int
	Image    string
}

// ProductService handles listing operations. Mutations are scoped to the
// requesting seller: a listing owned by someone else reads as not found.
type ProductService interface {
	Search(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	ListBySeller(ctx context.Context, sellerEmail string) ([]model.Product, error)
	Create(ctx context.Context, sellerEmail string, in ProductInput) (*model.Product, error)
	Update(ctx context.Context, sellerEmail, id string, patch model.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, sellerEmail, id string) error
}

type productService struct {
	repo  repository.ProductRepository
	cache *cache.Client
	now   func() time.Time
}

// NewProductService creates a new listing service. cache may be nil.
func NewProductService(repo repository.ProductRepository, cache *cache.Client) ProductService {
	return &productService{repo: repo, cache: cache, now: time.Now}
}

func (s *productService) cacheKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// ParsePrice coerces a numeric string to a non-negative price rounded to cents.
func ParsePrice(raw string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return 0, apperrors.NewValidationError("price")
	}
	return d.Round(2).InexactFloat64(), nil
}

// ParseStock coerces a numeric string to a non-negative whole quantity.
func ParseStock(raw string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() || !d.IsInteger() {
		return 0, apperrors.NewValidationError("stock")
	}
	return int(d.IntPart()), nil
}

// NormalizeFilter applies paging defaults and rejects non-positive values.
// Zero means "not supplied".
func NormalizeFilter(f model.ProductFilter) (model.ProductFilter, error) {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Page < 0 {
		return f, apperrors.NewValidationError("page")
	}
	if f.Limit < 0 {
		return f, apperrors.NewValidationError("limit")
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	if f.Sort != "asc" && f.Sort != "desc" {
		f.Sort = ""
	}
	return f, nil
}

func (s *productService) Search(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error) {
	filter, err := NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	page, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return page, nil
}

// Get retrieves a listing by ID with caching.
func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	var cached model.Product
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), product, productCacheTTL)
	return product, nil
}

func (s *productService) ListBySeller(ctx context.Context, sellerEmail string) ([]model.Product, error) {
	products, err := s.repo.ListBySeller(ctx, sellerEmail)
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	return products, nil
}

func (s *productService) Create(ctx context.Context, sellerEmail string, in ProductInput) (*model.Product, error) {
	if in.Price < 0 {
		return nil, apperrors.NewValidationError("price")
	}
	if in.Stock < 0 {
		return nil, apperrors.NewValidationError("stock")
	}

	now := s.now().UTC()
	product := &model.Product{
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		Brand:       in.Brand,
		Details:     in.Details,
		Stock:       in.Stock,
		Image:       in.Image,
		SellerEmail: sellerEmail,
		Ratings:     []model.Rating{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// Update merges the supplied fields into a listing owned by sellerEmail.
func (s *productService) Update(ctx context.Context, sellerEmail, id string, patch model.ProductPatch) (*model.Product, error) {
	if patch.IsEmpty() {
		return nil, apperrors.ErrInvalidInput
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, apperrors.NewValidationError("price")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, apperrors.NewValidationError("stock")
	}

	product, err := s.repo.UpdateOwned(ctx, id, sellerEmail, patch.Fields(), s.now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.cache.Delete(ctx, s.cacheKey(id))
	return product, nil
}

func (s *productService) Delete(ctx context.Context, sellerEmail, id string) error {
	err := s.repo.DeleteOwned(ctx, id, sellerEmail)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
