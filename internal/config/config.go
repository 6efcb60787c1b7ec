// Package config assembles the service configuration from defaults,
// command line flags, a .env file and environment variables
// (in increasing priority), then validates the result.
package config

import (
	"flag"
	"log"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all runtime settings of the service.
type Config struct {
	RunAddr                    string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	ShortURLBase               string        `env:"BASE_URL" validate:"url"`
	LogLevel                   string        `env:"LOG_LEVEL" validate:"loglevel"`
	AuthCookieName             string        `env:"AUTH_COOKIE_NAME" validate:"required"`
	AuthCookieSigningSecretKey string        `env:"AUTH_COOKIE_SIGNING_SECRET_KEY" validate:"base64url"`
	SessionTTL                 time.Duration `env:"SESSION_TTL"`
	BcryptCost                 int           `env:"BCRYPT_COST" validate:"gte=0,lte=31"`
}

var defaultConfig = Config{
	RunAddr:      ":8080",
	ShortURLBase: "http://localhost:8080",
	LogLevel:     "info",

	AuthCookieName: "tinylink_session",

	// base64url of a development-only signing key; override in production.
	AuthCookieSigningSecretKey: "c2VjcmV0LWtleQ==",

	SessionTTL: 24 * time.Hour,
	BcryptCost: bcrypt.DefaultCost,
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[fieldLevel.Field().String()]
}

func (c *Config) validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}

	return validate.Struct(c)
}

func applyDefaults(target *Config, defaults Config) {
	*target = defaults
}

// InitOption customizes the behavior of New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing disables command line flag parsing.
// Tests use it to avoid clashing with the `go test` flag set.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds and validates a Config.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.ShortURLBase, "b", values.ShortURLBase, "base address of the resulting shortened URL")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.Parse()
	}

	var valuesFromEnv Config
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}

	if valuesFromEnv.RunAddr != "" {
		values.RunAddr = valuesFromEnv.RunAddr
	}

	if valuesFromEnv.ShortURLBase != "" {
		values.ShortURLBase = valuesFromEnv.ShortURLBase
	}

	if valuesFromEnv.LogLevel != "" {
		values.LogLevel = valuesFromEnv.LogLevel
	}

	if valuesFromEnv.AuthCookieName != "" {
		values.AuthCookieName = valuesFromEnv.AuthCookieName
	}

	if valuesFromEnv.AuthCookieSigningSecretKey != "" {
		values.AuthCookieSigningSecretKey = valuesFromEnv.AuthCookieSigningSecretKey
	}

	if valuesFromEnv.SessionTTL != 0 {
		values.SessionTTL = valuesFromEnv.SessionTTL
	}

	if valuesFromEnv.BcryptCost != 0 {
		values.BcryptCost = valuesFromEnv.BcryptCost
	}

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}
