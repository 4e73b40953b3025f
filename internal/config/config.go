package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration of the API server.
type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
	Auth       AuthConfig       `yaml:"auth"`
	Orders     OrdersConfig     `yaml:"orders"`
	Uploads    UploadsConfig    `yaml:"uploads"`
	Log        LogConfig        `yaml:"log"`
}

type AppConfig struct {
	// BaseURL is the public customer-facing URL used for table links.
	BaseURL string `yaml:"base_url"`
	// QRTemplate receives the URL-encoded outgoing link via a single %s.
	QRTemplate string `yaml:"qr_template"`
	Timezone   string `yaml:"timezone"`
}

type HTTPConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	// Driver is "postgres" (lib/pq) or "pgx" (jackc/pgx stdlib).
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	Migrate         bool          `yaml:"migrate"`
}

type CloudinaryConfig struct {
	URL       string `yaml:"url"`
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// Enabled reports whether enough credentials are present to build a client.
func (c CloudinaryConfig) Enabled() bool {
	return c.URL != "" || (c.CloudName != "" && c.APIKey != "" && c.APISecret != "")
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	Enforce   bool          `yaml:"enforce"`
}

type OrdersConfig struct {
	RequireScreenshot bool `yaml:"require_screenshot"`
	RecomputeTotal    bool `yaml:"recompute_total"`
}

type UploadsConfig struct {
	ItemMaxBytes       int64  `yaml:"item_max_bytes"`
	ScreenshotMaxBytes int64  `yaml:"screenshot_max_bytes"`
	ItemFolder         string `yaml:"item_folder"`
	ScreenshotFolder   string `yaml:"screenshot_folder"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		App: AppConfig{
			BaseURL:    "http://localhost:3000",
			QRTemplate: "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=%s&format=png",
			Timezone:   "Local",
		},
		HTTP: HTTPConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 30 * time.Second,
			Migrate:         true,
		},
		RabbitMQ: RabbitMQConfig{Exchange: "canteen_orders"},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour},
		Orders:   OrdersConfig{RequireScreenshot: true, RecomputeTotal: true},
		Uploads: UploadsConfig{
			ItemMaxBytes:       5 << 20,
			ScreenshotMaxBytes: 8 << 20,
			ItemFolder:         "canteen_items",
			ScreenshotFolder:   "canteen_orders",
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// DefaultPath is the YAML file read when CONFIG_FILE is unset.
const DefaultPath = "config.yaml"

// LoadFromEnv loads .env first so CONFIG_FILE may come from it, then calls
// Load with that path.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file at path, and finally the process environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.App.BaseURL, "APP_BASE_URL")
	setString(&cfg.App.Timezone, "APP_TIMEZONE")
	setString(&cfg.HTTP.Port, "APP_PORT")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setInt(&cfg.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS")
	setInt(&cfg.Database.MaxIdleConns, "DB_MAX_IDLE_CONNS")
	setBool(&cfg.Database.Migrate, "DB_MIGRATE")

	setString(&cfg.Cloudinary.URL, "CLOUDINARY_URL")
	setString(&cfg.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&cfg.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&cfg.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")

	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&cfg.RabbitMQ.Exchange, "RABBITMQ_EXCHANGE")

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setBool(&cfg.Auth.Enforce, "AUTH_ENFORCE")

	setBool(&cfg.Orders.RequireScreenshot, "ORDERS_REQUIRE_SCREENSHOT")
	setBool(&cfg.Orders.RecomputeTotal, "ORDERS_RECOMPUTE_TOTAL")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.Enforce && c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required when AUTH_ENFORCE is set")
	}
	if !strings.Contains(c.App.QRTemplate, "%s") {
		return errors.New("config: app.qr_template must contain %s")
	}
	if c.Uploads.ItemMaxBytes <= 0 || c.Uploads.ScreenshotMaxBytes <= 0 {
		return errors.New("config: upload limits must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Location resolves App.Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" || c.App.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.App.Timezone)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
