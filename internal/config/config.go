package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort        string        `env:"SERVER_PORT" envDefault:"8080" validate:"required,numeric"`
	DBDriver          string        `env:"DB_DRIVER" envDefault:"postgres" validate:"oneof=postgres mysql"`
	DatabaseDSN       string        `env:"DATABASE_DSN" envDefault:"host=localhost user=postgres password=postgres dbname=workouts port=5432 sslmode=disable" validate:"required"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10" validate:"gte=1"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5" validate:"gte=0"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	RedisAddr         string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB           int           `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`
	RedisPass         string        `env:"REDIS_PASSWORD"`
	JWTSecret         string        `env:"JWT_SECRET" validate:"required"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	SwaggerHost       string        `env:"SWAGGER_HOST"`
	ResetDB           bool          `env:"RESET_DB" envDefault:"false"`
}

// Load builds Config from an optional .env file and the environment.
func Load() (*Config, error) {
	// a missing .env file is fine; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.ServerPort
}
