// Package config описывает настройки сервиса и их загрузку из YAML-файла и окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Поддерживаемые хранилища сессий.
const (
	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env            string          `yaml:"env" env:"ENV" env-default:"local"`
	DatabaseURL    string          `yaml:"database_url" env:"DATABASE_URL" env-default:"postgresql:///feedback"`
	MigrationsPath string          `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	BcryptCost     int             `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
	HTTPServer     `yaml:"http_server"`
	Session        Session         `yaml:"session"`
	Redis          RedisConnection `yaml:"redis_connection"`
	RateLimit      RateLimit       `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Session настройки cookie-сессии.
type Session struct {
	SecretKey string        `yaml:"secret_key" env:"SECRET_KEY" env-default:"secret"`
	Name      string        `yaml:"name" env:"SESSION_NAME" env-default:"session"`
	Store     string        `yaml:"store" env:"SESSION_STORE" env-default:"cookie"`
	MaxAge    time.Duration `yaml:"max_age" env:"SESSION_MAX_AGE" env-default:"720h"`
	Secure    bool          `yaml:"secure" env:"SESSION_SECURE" env-default:"false"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// RateLimit ограничивает частоту отправки форм входа и регистрации.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"1"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"5"`
}

// MustLoad загружает конфиг и завершает процесс при ошибке.
func MustLoad() *Config {
	// .env необязателен
	_ = godotenv.Load()

	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает YAML-файл configPath (если задан) и переменные окружения.
// Переменные окружения имеют приоритет над файлом.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("file: %s - does not exist", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, err
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	cfg.DatabaseURL = NormalizeDatabaseURL(cfg.DatabaseURL)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NormalizeDatabaseURL заменяет устаревшую схему postgres:// на postgresql://.
func NormalizeDatabaseURL(uri string) string {
	if strings.HasPrefix(uri, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(uri, "postgres://")
	}
	return uri
}

// Validate проверяет значения, которые нельзя выразить тегами.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case SessionStoreCookie, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Session.SecretKey == "" {
		return errors.New("session secret key is empty")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate limit must be positive")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"DatabaseURL: %s\n"+
			"MigrationsPath: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Session:\n"+
			"  Name: %s\n"+
			"  Store: %s\n"+
			"  MaxAge: %s\n"+
			"  SecretKey: %s\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n",
		c.Env,
		mask(c.DatabaseURL),
		c.MigrationsPath,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.Session.Name,
		c.Session.Store,
		c.Session.MaxAge,
		mask(c.Session.SecretKey),
		c.Redis.AddressRedis,
		c.Redis.DB,
	)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
