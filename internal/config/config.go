package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix scopes environment overrides, e.g. STOREFRONT_DATABASE__DSN.
const EnvPrefix = "STOREFRONT_"

var (
	ErrMissingValue = errors.New("required value is not set")
	ErrFileNotFound = errors.New("configuration file not found")
	ErrUnsupported  = errors.New("unsupported configuration format")
)

// Error is a fatal configuration problem tied to a key or file.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("config %s: %v", e.Key, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

type Config struct {
	App struct {
		Name           string `koanf:"name"`
		HTTPAddr       string `koanf:"http_addr"`
		LogLevel       string `koanf:"log_level"`
		LogFile        string `koanf:"log_file"`
		SeedSampleData bool   `koanf:"seed_sample_data"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout     time.Duration `koanf:"read_timeout"`
		WriteTimeout    time.Duration `koanf:"write_timeout"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
		RequestTimeout  time.Duration `koanf:"request_timeout"`

		// CORSAllowOrigins is a comma separated list; "*" reflects any origin.
		CORSAllowOrigins string `koanf:"cors_allow_origins"`
	} `koanf:"http"`

	// Database switches the repositories from memory to Postgres when DSN is set.
	Database struct {
		DSN           string `koanf:"dsn"`
		RunMigrations bool   `koanf:"run_migrations"`
	} `koanf:"database"`

	Redis struct {
		Addr           string        `koanf:"addr"`
		Password       string        `koanf:"password"`
		IdempotencyTTL time.Duration `koanf:"idempotency_ttl"`
	} `koanf:"redis"`

	RabbitMQ struct {
		URL      string `koanf:"url"`
		Exchange string `koanf:"exchange"`
	} `koanf:"rabbitmq"`
}

// Default returns the settings used when neither a file nor the environment
// provides a value.
func Default() Config {
	var c Config
	c.App.Name = "storefront-api"
	c.App.HTTPAddr = ":8080"
	c.App.LogLevel = "info"
	c.App.SeedSampleData = true
	c.HTTP.ReadTimeout = 5 * time.Second
	c.HTTP.WriteTimeout = 10 * time.Second
	c.HTTP.ShutdownTimeout = 10 * time.Second
	c.HTTP.RequestTimeout = 3 * time.Second
	c.HTTP.CORSAllowOrigins = "*"
	c.Database.RunMigrations = true
	c.Redis.IdempotencyTTL = 24 * time.Hour
	c.RabbitMQ.Exchange = "storefront.events"
	return c
}

// Load layers Default, the optional file at path and STOREFRONT_ environment
// variables, then validates the result.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := loadFile(k, path); err != nil {
			return Config{}, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return &Error{Key: "app.http_addr", Err: ErrMissingValue}
	}
	if c.RabbitMQ.URL != "" && c.RabbitMQ.Exchange == "" {
		return &Error{Key: "rabbitmq.exchange", Err: ErrMissingValue}
	}
	return nil
}

// ReadFile loads a JSON or YAML document into a plain map.
func ReadFile(path string) (map[string]any, error) {
	k := koanf.New(".")
	if err := loadFile(k, path); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

// Env returns the environment variable name, or def when it is unset or empty.
func Env(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// RequireEnv returns the environment variable name or a fatal *Error.
func RequireEnv(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", &Error{Key: name, Err: ErrMissingValue}
	}
	return v, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Error{Key: path, Err: ErrFileNotFound}
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = kjson.Parser()
	default:
		return &Error{Key: path, Err: ErrUnsupported}
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ReplaceAll(s, "__", ".")
	return strings.ToLower(s)
}
