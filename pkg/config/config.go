package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Pharmacy PharmacyConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DatabaseConfig holds the SQLite database configuration
type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

// DSN returns the SQLite connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)",
		c.Path, c.BusyTimeout.Milliseconds())
}

// PharmacyConfig holds the inventory business rules that are tunable per deployment
type PharmacyConfig struct {
	// LowStockThreshold is the default quantity floor below which a lot is
	// flagged LOW. Callers may override per request.
	LowStockThreshold int `mapstructure:"low_stock_threshold"`
	// NearExpiryDays is the lookahead window used to flag lots as NEAR_EXPIRY.
	NearExpiryDays int `mapstructure:"near_expiry_days"`
	// CatalogPath points at the medicine catalog JSON used for the one-time seed.
	CatalogPath string `mapstructure:"catalog_path"`
	// ExpiringIncludesZeroStock keeps sold-out lots in expiry alert listings.
	// Off by default; alerting on stock that cannot be sold is rarely useful.
	ExpiringIncludesZeroStock bool `mapstructure:"expiring_includes_zero_stock"`
}

// Load loads configuration from environment variables and an optional config file.
func Load(serviceName string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PHARMSTOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pharmstock")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.environment", EnvDevelopment)

	v.SetDefault("database.path", "pharmacy.db")
	v.SetDefault("database.busy_timeout", 5*time.Second)

	v.SetDefault("pharmacy.low_stock_threshold", 10)
	v.SetDefault("pharmacy.near_expiry_days", 30)
	v.SetDefault("pharmacy.catalog_path", "medicines.json")
	v.SetDefault("pharmacy.expiring_includes_zero_stock", false)
}
