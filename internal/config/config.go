package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-clockin/internal/domain"
	"go-clockin/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	LocationSourceStatic = "static"
	LocationSourceRedis  = "redis"
)

// ClientConfig drives the clockin host. Values come from the environment
// (optionally a .env file loaded by main).
type ClientConfig struct {
	AppEnv             string        `env:"APP_ENV" env-default:"development" validate:"oneof=development production test"`
	APIBaseURL         string        `env:"API_BASE_URL" validate:"required,url"`
	APIToken           string        `env:"API_TOKEN"`
	HTTPTimeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"10s" validate:"gt=0"`
	LocationSource     string        `env:"LOCATION_SOURCE" env-default:"static" validate:"oneof=static redis"`
	StaticLatitude     string        `env:"STATIC_LATITUDE" validate:"omitempty,latitude"`
	StaticLongitude    string        `env:"STATIC_LONGITUDE" validate:"omitempty,longitude"`
	RedisAddr          string        `env:"REDIS_ADDR" validate:"required_if=LocationSource redis"`
	DeviceID           string        `env:"DEVICE_ID" env-default:"default" validate:"required"`
	LocationPermission string        `env:"LOCATION_PERMISSION" env-default:"none" validate:"oneof=none fine coarse both"`
	SingleFlight       bool          `env:"CLOCK_SINGLE_FLIGHT" env-default:"true"`
}

// StubConfig drives the attendance-stub service.
type StubConfig struct {
	AppEnv       string  `env:"APP_ENV" env-default:"development" validate:"oneof=development production test"`
	Port         string  `env:"PORT" env-default:"8000" validate:"required,numeric"`
	JWTSecret    string  `env:"JWT_SECRET" validate:"required,min=16"`
	FixturesPath string  `env:"STUB_FIXTURES" env-default:"fixtures/attendance.yaml" validate:"required"`
	RateLimit    float64 `env:"STUB_RATE_LIMIT" env-default:"5" validate:"gt=0"`
	RateBurst    int     `env:"STUB_RATE_BURST" env-default:"10" validate:"gt=0"`
}

func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := load(cfg); err != nil {
		return nil, err
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	return cfg, nil
}

func LoadStub() (*StubConfig, error) {
	cfg := &StubConfig{}
	if err := load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(cfg any) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return apperror.Wrap(err, apperror.CodeInvalidConfig, "Could not read configuration", 0)
	}
	v := validator.New()
	v.RegisterTagNameFunc(apperror.TagNameFunc("env"))
	if err := v.Struct(cfg); err != nil {
		return apperror.MapValidationError(err)
	}
	return nil
}

// StaticPosition returns nil when no fixed coordinates are configured.
func (c *ClientConfig) StaticPosition() (*domain.GeoPosition, error) {
	if c.StaticLatitude == "" && c.StaticLongitude == "" {
		return nil, nil
	}
	if c.StaticLatitude == "" || c.StaticLongitude == "" {
		return nil, fmt.Errorf("config: STATIC_LATITUDE and STATIC_LONGITUDE must be set together")
	}
	lat, err := strconv.ParseFloat(c.StaticLatitude, 64)
	if err != nil {
		return nil, fmt.Errorf("config: STATIC_LATITUDE: %w", err)
	}
	lon, err := strconv.ParseFloat(c.StaticLongitude, 64)
	if err != nil {
		return nil, fmt.Errorf("config: STATIC_LONGITUDE: %w", err)
	}
	return &domain.GeoPosition{Latitude: lat, Longitude: lon}, nil
}

func (c *ClientConfig) IsProduction() bool {
	return c.AppEnv == "production"
}
