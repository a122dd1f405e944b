package router

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// memAccounts is an in-memory AccountRepository with the same conditional
// write semantics as the real stores.
type memAccounts struct {
	mu      sync.Mutex
	byEmail map[string]*model.Account
}

var _ repository.AccountRepository = (*memAccounts)(nil)

func newMemAccounts() *memAccounts {
	return &memAccounts{byEmail: make(map[string]*model.Account)}
}

func cloneAccount(a *model.Account) *model.Account {
	c := *a
	if a.Wishlist != nil {
		c.Wishlist = append([]string{}, a.Wishlist...)
	}
	if a.Cart != nil {
		c.Cart = append([]string{}, a.Cart...)
	}
	return &c
}

func (m *memAccounts) Create(_ context.Context, account *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[account.Email]; ok {
		return repository.ErrDuplicateKey
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	m.byEmail[account.Email] = cloneAccount(account)
	return nil
}

func (m *memAccounts) byID(id string) *model.Account {
	for _, a := range m.byEmail {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (m *memAccounts) FindByID(_ context.Context, id string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.byID(id); a != nil {
		return cloneAccount(a), nil
	}
	return nil, repository.ErrNotFound
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byEmail[email]; ok {
		return cloneAccount(a), nil
	}
	return nil, repository.ErrNotFound
}

func (m *memAccounts) List(_ context.Context) ([]model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Account, 0, len(m.byEmail))
	for _, a := range m.byEmail {
		out = append(out, *cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memAccounts) ChangeRole(_ context.Context, id string, role model.Role, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.byID(id)
	if a == nil || a.IsBanned() {
		return false, nil
	}
	a.Role, a.UpdatedAt = role, now
	return true, nil
}

func (m *memAccounts) Ban(_ context.Context, id string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.byID(id)
	if a == nil {
		return false, nil
	}
	a.BanStatus, a.UpdatedAt = model.Banned, now
	return true, nil
}

func collection(a *model.Account, kind model.CollectionKind) *[]string {
	if kind == model.Cart {
		return &a.Cart
	}
	return &a.Wishlist
}

func (m *memAccounts) AddToCollection(_ context.Context, email string, kind model.CollectionKind, productID string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok || a.IsBanned() {
		return false, nil
	}
	ids := collection(a, kind)
	for _, id := range *ids {
		if id == productID {
			return false, nil
		}
	}
	*ids = append(*ids, productID)
	a.UpdatedAt = now
	return true, nil
}

func (m *memAccounts) RemoveFromCollection(_ context.Context, email string, kind model.CollectionKind, productID string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok || a.IsBanned() {
		return false, nil
	}
	ids := collection(a, kind)
	kept := (*ids)[:0]
	for _, id := range *ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	*ids = kept
	a.UpdatedAt = now
	return true, nil
}

func (m *memAccounts) CollectionIDs(_ context.Context, email string, kind model.CollectionKind) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]string{}, *collection(a, kind)...), nil
}

// memProducts is an in-memory ProductRepository keeping insertion order.
type memProducts struct {
	mu       sync.Mutex
	products []*model.Product
}

var _ repository.ProductRepository = (*memProducts)(nil)

func newMemProducts() *memProducts {
	return &memProducts{}
}

func (m *memProducts) Create(_ context.Context, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	c := *product
	m.products = append(m.products, &c)
	return nil
}

func (m *memProducts) find(id string) (int, *model.Product) {
	for i, p := range m.products {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

func (m *memProducts) FindByID(_ context.Context, id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, p := m.find(id); p != nil {
		c := *p
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memProducts) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if _, p := m.find(id); p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) ListBySeller(_ context.Context, sellerEmail string) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Product{}
	for _, p := range m.products {
		if p.SellerEmail == sellerEmail {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) Search(_ context.Context, f model.ProductFilter) (*model.ProductPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []model.Product
	categories, brands := map[string]bool{}, map[string]bool{}
	for _, p := range m.products {
		if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
			continue
		}
		if (f.Category != "" && p.Category != f.Category) || (f.Brand != "" && p.Brand != f.Brand) {
			continue
		}
		if f.SellerEmail != "" && p.SellerEmail != f.SellerEmail {
			continue
		}
		matched = append(matched, *p)
		categories[p.Category] = true
		if p.Brand != "" {
			brands[p.Brand] = true
		}
	}
	switch f.Sort {
	case "asc":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case "desc":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	}

	page := []model.Product{}
	if off := f.Offset(); off < len(matched) {
		end := off + f.Limit
		if end > len(matched) {
			end = len(matched)
		}
		page = matched[off:end]
	}
	return &model.ProductPage{
		Products:      page,
		Categories:    sortedKeys(categories),
		Brands:        sortedKeys(brands),
		TotalProducts: int64(len(matched)),
	}, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *memProducts) UpdateOwned(_ context.Context, id, sellerEmail string, fields map[string]interface{}, now time.Time) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, p := m.find(id)
	if p == nil || p.SellerEmail != sellerEmail {
		return nil, repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "price":
			p.Price = v.(float64)
		case "category":
			p.Category = v.(string)
		case "brand":
			p.Brand = v.(string)
		case "details":
			p.Details = v.(string)
		case "stock":
			p.Stock = v.(int)
		case "image":
			p.Image = v.(string)
		}
	}
	p.UpdatedAt = now
	c := *p
	return &c, nil
}

func (m *memProducts) DeleteOwned(_ context.Context, id, sellerEmail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, p := m.find(id)
	if p == nil || p.SellerEmail != sellerEmail {
		return repository.ErrNotFound
	}
	m.products = append(m.products[:i], m.products[i+1:]...)
	return nil
}

// memTokenStore is an in-memory revocation list.
type memTokenStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{revoked: make(map[string]bool)}
}

func (s *memTokenStore) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = true
	return nil
}

func (s *memTokenStore) IsRevoked(_ context.Context, tokenID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[tokenID]
}
