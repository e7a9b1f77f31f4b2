package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTokenTTLHours = 24
	DefaultDailyLimit    = 20
	DefaultPort          = ":3000"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenTTLHours int    `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	Quota struct {
		DefaultDailyLimit int `yaml:"default_daily_limit"`
	} `yaml:"quota"`
}

// LoadConfig reads configuration from the specified YAML file. Environment
// variables DATABASE_URL, PORT and JWT_SECRET_KEY override the file values.
// A missing signing secret is a hard error so the process can fail fast at
// startup instead of rejecting every request later.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		config.Server.Port = ":" + v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		config.Auth.JWTSecret = v
	}

	if config.Auth.JWTSecret == "" {
		return nil, errors.New("jwt secret is not configured (set auth.jwt_secret or JWT_SECRET_KEY)")
	}
	if config.Auth.TokenTTLHours <= 0 {
		config.Auth.TokenTTLHours = DefaultTokenTTLHours
	}
	if config.Quota.DefaultDailyLimit <= 0 {
		config.Quota.DefaultDailyLimit = DefaultDailyLimit
	}
	if config.Server.Port == "" {
		config.Server.Port = DefaultPort
	}

	return config, nil
}
