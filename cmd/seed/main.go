package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"marketplace/internal/auth"
	"marketplace/internal/config"
	"marketplace/internal/db"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/logging"
	"marketplace/internal/model"
	"marketplace/internal/service"
)

const fetchTimeout = 30 * time.Second

// SeedProductData is one listing in the seed file or feed.
type SeedProductData struct {
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Category string      `json:"category"`
	Brand    string      `json:"brand"`
	Details  string      `json:"details"`
	Stock    json.Number `json:"stock"`
	Image    string      `json:"image"`
}

// Usage: seed [products.json]. Without an argument the listings are fetched from SEED_URL.
func main() {
	cfg := config.Load()
	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	if err := run(ctx, cfg, logger, os.Args[1:]); err != nil {
		logger.Error(ctx, "seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger, args []string) error {
	if err := cfg.ValidateSeed(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store init: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn(ctx, "store close", "error", err)
		}
	}()
	logger.Info(ctx, "connected", "driver", store.Driver)

	authService := service.NewAuthService(store.Accounts, auth.NewJWTService(cfg.JWTSecret, cfg.TokenExpiry), auth.NewTokenStore(nil), cfg.AdminEmail)
	productService := service.NewProductService(store.Products, nil)

	created, err := authService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		logger.Info(ctx, "bootstrap admin created", "email", cfg.AdminEmail)
	}

	sellerEmail := service.NormalizeEmail(cfg.SeedSellerEmail)
	created, err = ensureSeller(ctx, authService, store.Accounts, sellerEmail, cfg.SeedSellerPassword)
	if err != nil {
		return fmt.Errorf("seed seller: %w", err)
	}
	if created {
		logger.Info(ctx, "seed seller created", "email", sellerEmail)
	} else {
		logger.Info(ctx, "seed seller already exists", "email", sellerEmail)
	}

	items, err := loadProducts(ctx, args, cfg.SeedURL)
	if err != nil {
		return fmt.Errorf("load seed products: %w", err)
	}
	logger.Info(ctx, "seed products loaded", "count", len(items))

	seeded, skipped, err := seedProducts(ctx, logger, productService, sellerEmail, items)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	logger.Info(ctx, "seed completed", "created", seeded, "skipped", skipped)
	return nil
}

type registrar interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.Account, error)
}

type accountFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
}

// ensureSeller registers the seed seller, or checks that an existing account
// with that email is an unbanned seller. Listings are never seeded under another role.
func ensureSeller(ctx context.Context, reg registrar, accounts accountFinder, email, password string) (bool, error) {
	_, err := reg.Register(ctx, service.RegisterInput{
		Name:     "Seed Seller",
		Email:    email,
		Password: password,
		Role:     string(model.RoleSeller),
	})
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, apperrors.ErrAccountExists) {
		return false, err
	}

	account, err := accounts.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("find %s: %w", email, err)
	}
	if account.Role != model.RoleSeller {
		return false, fmt.Errorf("%w: %s is a %s, not a seller", apperrors.ErrRoleMismatch, email, account.Role)
	}
	if account.IsBanned() {
		return false, fmt.Errorf("%s: %w", email, apperrors.ErrAccountBanned)
	}
	return false, nil
}

// loadProducts reads the file named by args[0], or fetches url when no file is given.
func loadProducts(ctx context.Context, args []string, url string) ([]SeedProductData, error) {
	var (
		body []byte
		err  error
	)
	switch {
	case len(args) > 0:
		body, err = os.ReadFile(args[0])
	case url != "":
		body, err = fetch(ctx, url)
	default:
		return nil, errors.New("pass a products file or set SEED_URL")
	}
	if err != nil {
		return nil, err
	}

	var items []SeedProductData
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return items, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status code: %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// seedProducts creates the listings the seller does not already have, matched by name.
func seedProducts(ctx context.Context, logger logging.Logger, svc service.ProductService, sellerEmail string, items []SeedProductData) (seeded, skipped int, err error) {
	existing, err := svc.ListBySeller(ctx, sellerEmail)
	if err != nil {
		return 0, 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[strings.ToLower(p.Name)] = true
	}

	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item.Name))
		if key == "" || have[key] {
			skipped++
			continue
		}

		in, err := toInput(item)
		if err != nil {
			logger.Warn(ctx, "skipping invalid seed product", "name", item.Name, "error", err)
			skipped++
			continue
		}
		if _, err := svc.Create(ctx, sellerEmail, in); err != nil {
			return seeded, skipped, fmt.Errorf("create %q: %w", item.Name, err)
		}
		have[key] = true
		seeded++
	}
	return seeded, skipped, nil
}

func toInput(item SeedProductData) (service.ProductInput, error) {
	price, err := service.ParsePrice(item.Price.String())
	if err != nil {
		return service.ProductInput{}, err
	}
	stock := 0
	if item.Stock != "" {
		if stock, err = service.ParseStock(item.Stock.String()); err != nil {
			return service.ProductInput{}, err
		}
	}
	return service.ProductInput{
		Name:     strings.TrimSpace(item.Name),
		Price:    price,
		Category: item.Category,
		Brand:    item.Brand,
		Details:  item.Details,
		Stock:    stock,
		Image:    item.Image,
	}, nil
}
