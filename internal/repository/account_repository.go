package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace/internal/model"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a GORM-backed account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// AutoMigrate creates or updates the relational schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Account{},
		&model.Product{},
		&model.CollectionItem{},
	)
}

func translateGormError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}

// Create creates a new account.
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return translateGormError(r.db.WithContext(ctx).Create(account).Error)
}

// FindByID finds an account by ID.
func (r *accountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &account, nil
}

// FindByEmail finds an account by email.
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &account, nil
}

// List lists all accounts, oldest first.
func (r *accountRepository) List(ctx context.Context) ([]model.Account, error) {
	accounts := make([]model.Account, 0)
	if err := r.db.WithContext(ctx).Order("created_at").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) ChangeRole(ctx context.Context, id string, role model.Role, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ? AND ban_status = ?", id, model.Unbanned).
		Updates(map[string]interface{}{"role": role, "updated_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *accountRepository) Ban(ctx context.Context, id string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"ban_status": model.Banned, "updated_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// lockUnbanned loads the unbanned account row for update inside tx.
func lockUnbanned(tx *gorm.DB, email string) (*model.Account, error) {
	var account model.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email = ? AND ban_status = ?", email, model.Unbanned).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) AddToCollection(ctx context.Context, email string, kind model.CollectionKind, productID string, now time.Time) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := lockUnbanned(tx, email)
		if err != nil {
			return err
		}

		item := model.CollectionItem{AccountEmail: account.Email, Kind: kind, ProductID: productID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&item)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		added = true
		return tx.Model(&model.Account{}).Where("id = ?", account.ID).Update("updated_at", now).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return added, nil
}

func (r *accountRepository) RemoveFromCollection(ctx context.Context, email string, kind model.CollectionKind, productID string, now time.Time) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := lockUnbanned(tx, email)
		if err != nil {
			return err
		}

		res := tx.Where("account_email = ? AND kind = ? AND product_id = ?", account.Email, kind, productID).
			Delete(&model.CollectionItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&model.Account{}).Where("id = ?", account.ID).Update("updated_at", now).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CollectionIDs returns the listing ids of a wishlist or cart in insertion order.
func (r *accountRepository) CollectionIDs(ctx context.Context, email string, kind model.CollectionKind) ([]string, error) {
	if _, err := r.FindByEmail(ctx, email); err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&model.CollectionItem{}).
		Where("account_email = ? AND kind = ?", email, kind).
		Order("id").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
