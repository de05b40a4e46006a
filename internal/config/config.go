package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SupplyGrantPolicy decides how a supply request changes store inventory.
type SupplyGrantPolicy string

const (
	// GrantRequested adds the requested units to the product immediately.
	GrantRequested SupplyGrantPolicy = "requested"
	// GrantDeferred records the request and leaves inventory untouched.
	GrantDeferred SupplyGrantPolicy = "deferred"
)

// DB holds connection settings for the external SQL engine.
type DB struct {
	URL      string
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// Config is the process configuration shared by the console and the API.
type Config struct {
	DB DB

	ManagerSignupCode string
	AdminSignupCode   string

	EnforceStoreRadius      bool
	StoreRadius             float64
	SupplyGrantPolicy       SupplyGrantPolicy
	AllowPlaintextPasswords bool

	JWTSecret string
	TokenTTL  time.Duration
	AppPort   string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		DB: DB{
			URL:      os.Getenv("DATABASE_URL"),
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		ManagerSignupCode: os.Getenv("MANAGER_SIGNUP_CODE"),
		AdminSignupCode:   os.Getenv("ADMIN_SIGNUP_CODE"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AppPort:           getEnv("APP_PORT", "8080"),
	}

	var err error
	if cfg.EnforceStoreRadius, err = strconv.ParseBool(getEnv("ENFORCE_STORE_RADIUS", "false")); err != nil {
		return nil, fmt.Errorf("ENFORCE_STORE_RADIUS: %w", err)
	}
	if cfg.StoreRadius, err = strconv.ParseFloat(getEnv("STORE_RADIUS", "30"), 64); err != nil {
		return nil, fmt.Errorf("STORE_RADIUS: %w", err)
	}
	if cfg.StoreRadius < 0 {
		return nil, fmt.Errorf("STORE_RADIUS must not be negative, got %v", cfg.StoreRadius)
	}
	if cfg.AllowPlaintextPasswords, err = strconv.ParseBool(getEnv("ALLOW_PLAINTEXT_PASSWORDS", "true")); err != nil {
		return nil, fmt.Errorf("ALLOW_PLAINTEXT_PASSWORDS: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}

	switch policy := SupplyGrantPolicy(strings.ToLower(getEnv("SUPPLY_GRANT_POLICY", string(GrantRequested)))); policy {
	case GrantRequested, GrantDeferred:
		cfg.SupplyGrantPolicy = policy
	default:
		return nil, fmt.Errorf("SUPPLY_GRANT_POLICY: unknown policy %q", policy)
	}

	switch cfg.DB.Driver {
	case "postgres", "pgx", "sqlite":
	default:
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DB.Driver)
	}

	return cfg, nil
}

// Warn logs settings that are unsafe outside a local setup.
func (c *Config) Warn() {
	if c.DB.URL == "" && c.DB.Driver != "sqlite" && c.DB.Password == "" {
		log.Println("[WARN] DB_PASSWORD is empty, the database login is unprotected.")
	}
	if c.ManagerSignupCode == "" {
		log.Println("[WARN] MANAGER_SIGNUP_CODE is empty, manager sign-up is disabled.")
	}
	if c.AdminSignupCode == "" {
		log.Println("[WARN] ADMIN_SIGNUP_CODE is empty, admin sign-up is disabled.")
	}
	if c.AllowPlaintextPasswords {
		log.Println("[WARN] ALLOW_PLAINTEXT_PASSWORDS is on, legacy plaintext passwords are accepted.")
	}
}

// DSN returns the data source name for the configured driver.
func (d DB) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == "sqlite" {
		return d.Name
	}
	parts := []string{
		"host=" + dsnValue(d.Host),
		"port=" + dsnValue(d.Port),
		"dbname=" + dsnValue(d.Name),
		"sslmode=" + dsnValue(d.SSLMode),
	}
	if d.User != "" {
		parts = append(parts, "user="+dsnValue(d.User))
	}
	if d.Password != "" {
		parts = append(parts, "password="+dsnValue(d.Password))
	}
	return strings.Join(parts, " ")
}

// dsnValue quotes a libpq keyword value when it is empty or holds blanks,
// quotes or backslashes.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n'\\") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
