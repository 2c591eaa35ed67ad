package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the application configuration.
type Config struct {
	ServerPort  int      `yaml:"port"`
	Env         string   `yaml:"env"`
	LogLevel    string   `yaml:"logLevel"`
	CORSOrigins []string `yaml:"corsAllowedOrigins"`

	JWTSecret  string        `yaml:"jwtSecret"`
	TokenTTL   time.Duration `yaml:"tokenTTL"`
	BcryptCost int           `yaml:"bcryptCost"`

	AdminUsername string `yaml:"adminUsername"`
	AdminPassword string `yaml:"adminPassword"`

	// InsecureSecret is set when JWTSecret was generated because none was configured.
	InsecureSecret bool `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerPort:    8080,
		Env:           EnvDevelopment,
		LogLevel:      "info",
		CORSOrigins:   []string{"http://localhost:3000"},
		TokenTTL:      5 * time.Minute,
		BcryptCost:    bcrypt.DefaultCost,
		AdminUsername: "admin",
		AdminPassword: "123456",
	}
}

// IsProduction reports whether the service runs in the production posture.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE and finally environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path, ok := os.LookupEnv("CONFIG_FILE"); ok && path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	var err error

	if v, ok := lookupEnv("PORT"); ok {
		if c.ServerPort, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
	}
	if v, ok := lookupEnv("APP_ENV"); ok {
		c.Env = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		c.CORSOrigins = splitList(v)
	}
	if v, ok := lookupEnv("JWT_SECRET"); ok {
		c.JWTSecret = v
	}
	if v, ok := lookupEnv("TOKEN_TTL"); ok {
		if c.TokenTTL, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
	}
	if v, ok := lookupEnv("BCRYPT_COST"); ok {
		if c.BcryptCost, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err)
		}
	}
	if v, ok := lookupEnv("ADMIN_USERNAME"); ok {
		c.AdminUsername = v
	}
	if v, ok := lookupEnv("ADMIN_PASSWORD"); ok {
		c.AdminPassword = v
	}
	return nil
}

func (c *Config) finalize() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("unknown APP_ENV %q", c.Env)
	}
	if c.TokenTTL <= 0 {
		return errors.New("token TTL must be > 0")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET must be set in production")
		}
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("generate fallback secret: %w", err)
		}
		c.JWTSecret = secret
		c.InsecureSecret = true
	}
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Helper to get a non-empty environment variable.
func lookupEnv(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return "", false
	}
	return value, true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
