package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for STORE_DRIVER.
const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	JWTSecret     string
	TokenExpiry   time.Duration
	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	AdminEmail    string
	AdminPassword string
	AdminName     string
	SwaggerHost   string
	LogLevel      string

	// Used by cmd/seed only.
	SeedURL            string
	SeedSellerEmail    string
	SeedSellerPassword string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenExpiry:   getEnvDuration("TOKEN_EXPIRY", 24*time.Hour),
		StoreDriver:   getEnv("STORE_DRIVER", DriverMongo),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "marketplace"),
		MySQLDSN:      getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/marketplace?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@marketplace.local"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		SwaggerHost:   os.Getenv("SWAGGER_HOST"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		SeedURL:            os.Getenv("SEED_URL"),
		SeedSellerEmail:    getEnv("SEED_SELLER_EMAIL", "seller@marketplace.local"),
		SeedSellerPassword: os.Getenv("SEED_SELLER_PASSWORD"),
	}
}

// minPasswordLength matches the registration rule for account passwords.
const minPasswordLength = 6

// Validate reports the first setting that would prevent the server from starting.
// Secrets have no defaults: JWT_SECRET and, when ADMIN_EMAIL is set, ADMIN_PASSWORD must be provided.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.AdminEmail != "" && len(c.AdminPassword) < minPasswordLength {
		return fmt.Errorf("ADMIN_PASSWORD must be set to at least %d characters", minPasswordLength)
	}
	if c.TokenExpiry <= 0 {
		return fmt.Errorf("TOKEN_EXPIRY must be positive, got %s", c.TokenExpiry)
	}
	switch c.StoreDriver {
	case DriverMongo, DriverMySQL:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// ValidateSeed checks the settings cmd/seed needs on top of Validate.
func (c *Config) ValidateSeed() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SeedSellerEmail == "" {
		return fmt.Errorf("SEED_SELLER_EMAIL must not be empty")
	}
	if len(c.SeedSellerPassword) < minPasswordLength {
		return fmt.Errorf("SEED_SELLER_PASSWORD must be set to at least %d characters", minPasswordLength)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
