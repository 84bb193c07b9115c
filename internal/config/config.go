package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"freightdesk/internal/pricing"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	DebugTrace      bool          `mapstructure:"debug_trace"` // include the debug block in pricing responses
}

// DatabaseConfig accepts either a full URL or discrete DB_* parts.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"` // json or console
	NoColor bool   `mapstructure:"no_color"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// CacheConfig enables the redis tariff cache when RedisURL is set.
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type PricingConfig struct {
	VolumetricFactor     float64 `mapstructure:"volumetric_factor"`
	FallbackRatePerKg    float64 `mapstructure:"fallback_rate_per_kg"`
	DefaultInsuranceRate float64 `mapstructure:"default_insurance_rate"`
	DefaultOrigin        string  `mapstructure:"default_origin"`
	DefaultDestination   string  `mapstructure:"default_destination"`
}

// Load reads configs/.env, then an optional config file, then the environment.
// An empty path searches ./configs and . for config.yaml.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pricing engine cannot work with.
func (c *Config) Validate() error {
	if c.Pricing.VolumetricFactor <= 0 {
		return fmt.Errorf("pricing.volumetric_factor must be positive, got %v", c.Pricing.VolumetricFactor)
	}
	if c.Pricing.FallbackRatePerKg < 0 {
		return fmt.Errorf("pricing.fallback_rate_per_kg must not be negative, got %v", c.Pricing.FallbackRatePerKg)
	}
	if c.Pricing.DefaultInsuranceRate < 0 {
		return fmt.Errorf("pricing.default_insurance_rate must not be negative, got %v", c.Pricing.DefaultInsuranceRate)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// DSN returns database.url when set, otherwise builds one from the parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Engine converts the pricing section into engine settings.
func (p PricingConfig) Engine() pricing.Config {
	return pricing.Config{
		VolumetricFactor:     decimal.NewFromFloat(p.VolumetricFactor),
		FallbackRatePerKg:    decimal.NewFromFloat(p.FallbackRatePerKg),
		DefaultInsuranceRate: decimal.NewFromFloat(p.DefaultInsuranceRate),
		DefaultOrigin:        p.DefaultOrigin,
		DefaultDestination:   p.DefaultDestination,
	}
}

func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.host", "HOST")

	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.sslmode", "DB_SSLMODE")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")

	_ = v.BindEnv("cache.redis_url", "REDIS_URL")

	_ = v.BindEnv("pricing.volumetric_factor", "PRICING_VOLUMETRIC_FACTOR")
	_ = v.BindEnv("pricing.fallback_rate_per_kg", "PRICING_FALLBACK_RATE_PER_KG")
	_ = v.BindEnv("pricing.default_insurance_rate", "PRICING_DEFAULT_INSURANCE_RATE")
	_ = v.BindEnv("pricing.default_origin", "PRICING_DEFAULT_ORIGIN")
	_ = v.BindEnv("pricing.default_destination", "PRICING_DEFAULT_DESTINATION")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.debug_trace", true)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.no_color", false)

	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})

	v.SetDefault("pricing.volumetric_factor", pricing.VolumetricFactor)
	v.SetDefault("pricing.fallback_rate_per_kg", pricing.FallbackRatePerKg)
	v.SetDefault("pricing.default_insurance_rate", 0.008)
	v.SetDefault("pricing.default_origin", pricing.DefaultOrigin)
	v.SetDefault("pricing.default_destination", pricing.DefaultDestination)
}
