package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN           string `mapstructure:"DB_DSN"`
	Environment     string `mapstructure:"ENV"`
	HTTPAddr        string `mapstructure:"HTTP_ADDR"`
	MigrationsPath  string `mapstructure:"MIGRATIONS_PATH"`
	SweepSchedule   string `mapstructure:"SWEEP_SCHEDULE"`
	Timezone        string `mapstructure:"TIMEZONE"`
	TelegramToken   string `mapstructure:"TELEGRAM_TOKEN"`
	DefaultLocation string `mapstructure:"DEFAULT_LOCATION"`

	// Location - часовой пояс для дат и времени слотов, разобранный из Timezone
	Location *time.Location `mapstructure:"-"`
}

const (
	defaultEnvironment    = "development"
	defaultHTTPAddr       = ":8080"
	defaultMigrationsPath = "migrations"
	defaultSweepSchedule  = "@every 5m"
)

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:           os.Getenv("DB_DSN"),
		Environment:     getenv("ENV", defaultEnvironment),
		HTTPAddr:        getenv("HTTP_ADDR", defaultHTTPAddr),
		MigrationsPath:  getenv("MIGRATIONS_PATH", defaultMigrationsPath),
		Timezone:        os.Getenv("TIMEZONE"),
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		DefaultLocation: getenv("DEFAULT_LOCATION", model.DefaultLocation),
	}

	// Пустой SWEEP_SCHEDULE отключает периодическую очистку, поэтому
	// отличаем "не задан" от "задан пустым"
	if v, ok := os.LookupEnv("SWEEP_SCHEDULE"); ok {
		cfg.SweepSchedule = v
	} else {
		cfg.SweepSchedule = defaultSweepSchedule
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	cfg.Location = time.Local
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
