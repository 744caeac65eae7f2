package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	JWT         JWTConfig         `yaml:"jwt"`
	Security    SecurityConfig    `yaml:"security"`
	DefaultUser DefaultUserConfig `yaml:"default_user"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

type DatabaseConfig struct {
	Type   string       `yaml:"type"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Charset  string `yaml:"charset"`
}

type JWTConfig struct {
	Secret           string `yaml:"secret"`
	ExpiresIn        string `yaml:"expires_in"`
	RefreshExpiresIn string `yaml:"refresh_expires_in"`
	Issuer           string `yaml:"issuer"`
}

type SecurityConfig struct {
	BcryptCost    int                 `yaml:"bcrypt_cost"`
	LoginAttempts LoginAttemptsConfig `yaml:"login_attempts"`
}

type LoginAttemptsConfig struct {
	Max    int    `yaml:"max"`
	Window string `yaml:"window"`
}

type DefaultUserConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Email    string `yaml:"email"`
	Fullname string `yaml:"fullname"`
	Position string `yaml:"position"`
	Phone    string `yaml:"phone"`
	Bio      string `yaml:"bio"`
}

// Load reads the configuration file and environment variables
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables
	if jwtSecret := os.Getenv("APANEL_JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}

	if dbType := os.Getenv("APANEL_DB_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
	}

	if dbPath := os.Getenv("APANEL_DB_PATH"); dbPath != "" {
		cfg.Database.SQLite.Path = dbPath
	}

	if mysqlHost := os.Getenv("APANEL_MYSQL_HOST"); mysqlHost != "" {
		cfg.Database.MySQL.Host = mysqlHost
	}

	if mysqlUser := os.Getenv("APANEL_MYSQL_USER"); mysqlUser != "" {
		cfg.Database.MySQL.Username = mysqlUser
	}

	if mysqlPass := os.Getenv("APANEL_MYSQL_PASSWORD"); mysqlPass != "" {
		cfg.Database.MySQL.Password = mysqlPass
	}

	if mysqlDB := os.Getenv("APANEL_MYSQL_DATABASE"); mysqlDB != "" {
		cfg.Database.MySQL.Database = mysqlDB
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Ensure data directory exists for SQLite
	if cfg.Database.Type == "sqlite" {
		dataDir := filepath.Dir(cfg.Database.SQLite.Path)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required (set jwt.secret or APANEL_JWT_SECRET)")
	}

	if cfg.Database.Type == "mysql" {
		if cfg.Database.MySQL.Username == "" {
			return fmt.Errorf("MySQL username is required")
		}
		if cfg.Database.MySQL.Database == "" {
			return fmt.Errorf("MySQL database name is required")
		}
	}

	if cfg.Security.LoginAttempts.Window != "" {
		if _, err := time.ParseDuration(cfg.Security.LoginAttempts.Window); err != nil {
			return fmt.Errorf("invalid login attempts window: %w", err)
		}
	}

	return nil
}

// AccessTokenDuration returns the configured access token lifetime,
// defaulting to 24 hours.
func (cfg *Config) AccessTokenDuration() time.Duration {
	d, err := time.ParseDuration(cfg.JWT.ExpiresIn)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// RefreshTokenDuration returns the configured refresh token lifetime,
// defaulting to 7 days.
func (cfg *Config) RefreshTokenDuration() time.Duration {
	d, err := time.ParseDuration(cfg.JWT.RefreshExpiresIn)
	if err != nil || d <= 0 {
		return 7 * 24 * time.Hour
	}
	return d
}

// AttemptWindow returns the failed-login counting window, defaulting to
// 15 minutes.
func (cfg *Config) AttemptWindow() time.Duration {
	d, err := time.ParseDuration(cfg.Security.LoginAttempts.Window)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// MaxLoginAttempts returns the failed-attempt threshold, defaulting to 5.
func (cfg *Config) MaxLoginAttempts() int {
	if cfg.Security.LoginAttempts.Max <= 0 {
		return 5
	}
	return cfg.Security.LoginAttempts.Max
}
