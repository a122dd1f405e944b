package db

import (
	"context"
	"fmt"

	"marketplace/internal/config"
	"marketplace/internal/repository"
)

// Store bundles the repositories of the configured backend with its teardown.
type Store struct {
	Accounts repository.AccountRepository
	Products repository.ProductRepository
	Driver   string

	close func(ctx context.Context) error
}

// Open connects the backend named by cfg.StoreDriver and prepares its schema:
// indexes for mongo, AutoMigrate for mysql.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		m, err := NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureMongoIndexes(ctx, m.Database); err != nil {
			_ = m.Close(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return &Store{
			Accounts: repository.NewMongoAccountRepository(m.Database),
			Products: repository.NewMongoProductRepository(m.Database),
			Driver:   config.DriverMongo,
			close:    m.Close,
		}, nil

	case config.DriverMySQL:
		gormDB, err := NewMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		if err := repository.AutoMigrate(gormDB); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("mysql pool: %w", err)
		}
		return &Store{
			Accounts: repository.NewAccountRepository(gormDB),
			Products: repository.NewProductRepository(gormDB),
			Driver:   config.DriverMySQL,
			close:    func(context.Context) error { return sqlDB.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Close releases the backend connection pool.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}
