// Package config предоставляет структуры и функции для парсинга и загрузки конфига клиента MedVault
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы хранилища сессии.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config общая структура для хранения настроек
type Config struct {
	Env          string `yaml:"env" env:"MEDVAULT_ENV" env-default:"local"`
	API          `yaml:"api"`
	SessionStore `yaml:"session_store"`
	HTTPServer   `yaml:"http_server"`
	RateLimit    `yaml:"rate_limit"`
}

// API структура для настройки HTTP-шлюза к бэкенду
type API struct {
	BaseURL       string        `yaml:"base_url" env:"MEDVAULT_API_URL" env-default:"http://localhost:8080/api"`
	Timeout       time.Duration `yaml:"timeout" env-default:"30s"`
	HealthTimeout time.Duration `yaml:"health_timeout" env-default:"5s"`
}

// SessionStore структура для настройки долговременного хранилища сессии
type SessionStore struct {
	Driver          string `yaml:"driver" env:"MEDVAULT_STORE_DRIVER" env-default:"file"`
	Path            string `yaml:"path" env:"MEDVAULT_STORE_PATH" env-default:"medvault-session.json"`
	Namespace       string `yaml:"namespace" env-default:"medvault"`
	RedisConnection `yaml:"redis_connection"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password" env:"MEDVAULT_REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// HTTPServer структура для настройки локального портала
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"MEDVAULT_HTTP_ADDR" env-default:"localhost:3000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"35s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RateLimit ограничение исходящих запросов к бэкенду. Нулевой RPS отключает лимит.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Load читает конфиг из файла path, дополняя его переменными окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH.
// Без CONFIG_PATH конфиг собирается только из окружения и значений по умолчанию.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		var cfg Config
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from env: %s", err)
		}
		return &cfg
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"API:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"  HealthTimeout: %s\n"+
			"SessionStore:\n"+
			"  Driver: %s\n"+
			"  Path: %s\n"+
			"  Redis: %s (db %d)\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RateLimit: %.2f rps, burst %d\n",
		c.Env,
		c.BaseURL,
		c.Timeout,
		c.HealthTimeout,
		c.Driver,
		c.Path,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.RPS,
		c.Burst,
	)
}
