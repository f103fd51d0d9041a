package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"
)

// Config holds all service configuration. It is built once at process start
// and passed by value to the components that need it.
type Config struct {
	Database DatabaseConfig
	API      APIConfig
}

// DatabaseConfig describes where the user table lives and how to reach it.
type DatabaseConfig struct {
	SecretName     string        // Secrets Manager id holding username/password
	Host           string        // RDS proxy or instance endpoint
	Port           int           // 3306 for MySQL/MariaDB
	Name           string        // database (schema) name
	Table          string        // user table, interpolated into SQL
	Engine         string        // mysql or postgres
	ConnectTimeout time.Duration // dial + ping bound
}

// APIConfig is used by the local HTTP adapter only.
type APIConfig struct {
	Address string
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Load reads configuration from environment variables with defaults.
func Load() (Config, error) {
	port, err := getEnvInt("DB_PORT", 3306)
	if err != nil {
		return Config{}, err
	}
	timeout, err := getEnvDuration("DB_CONNECT_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Database: DatabaseConfig{
			SecretName:     getEnv("DB_SECRET_NAME", ""),
			Host:           getEnv("DB_PROXY_ENDPOINT", ""),
			Port:           port,
			Name:           getEnv("DB_NAME", "customerdb"),
			Table:          getEnv("DB_TABLE", "users"),
			Engine:         getEnv("DB_ENGINE", "mysql"),
			ConnectTimeout: timeout,
		},
		API: APIConfig{
			Address: getEnv("API_ADDR", "0.0.0.0:8431"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	d := c.Database
	if d.SecretName == "" {
		return errors.New("DB_SECRET_NAME environment variable is not set")
	}
	if d.Host == "" {
		return errors.New("DB_PROXY_ENDPOINT environment variable is not set")
	}
	if d.Port < 1 || d.Port > 65535 {
		return fmt.Errorf("DB_PORT out of range: %d", d.Port)
	}
	if !identRe.MatchString(d.Table) {
		return fmt.Errorf("DB_TABLE is not a plain identifier: %q", d.Table)
	}
	switch d.Engine {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("DB_ENGINE must be mysql or postgres, got %q", d.Engine)
	}
	if d.ConnectTimeout <= 0 {
		return fmt.Errorf("DB_CONNECT_TIMEOUT must be positive, got %s", d.ConnectTimeout)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
