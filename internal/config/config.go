// Package config provides configuration management for the kinship backend.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Environment identifies the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is the full application configuration.
type Config struct {
	Environment Environment `yaml:"environment" json:"environment"`

	Server   Server   `yaml:"server" json:"server"`
	Storage  Storage  `yaml:"storage" json:"storage"`
	Layout   Layout   `yaml:"layout" json:"layout"`
	Security Security `yaml:"security" json:"security"`
	Logging  Logging  `yaml:"logging" json:"logging"`
	Features Features `yaml:"features" json:"features"`

	// LoadedFrom records which sources contributed, for diagnostics.
	LoadedFrom []string `yaml:"-" json:"-"`
}

// Server holds the HTTP server settings.
type Server struct {
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" json:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" json:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" json:"shutdownTimeout"`
}

// Storage selects and configures the snapshot store.
type Storage struct {
	// Provider is "memory" or "dynamodb".
	Provider  string `yaml:"provider" json:"provider"`
	TableName string `yaml:"tableName" json:"tableName"`
	Region    string `yaml:"region" json:"region"`
}

// Layout holds the force-layout tuning knobs exposed to operators.
type Layout struct {
	Width      float64 `yaml:"width" json:"width"`
	Height     float64 `yaml:"height" json:"height"`
	Iterations int     `yaml:"iterations" json:"iterations"`
	Seed       int64   `yaml:"seed" json:"seed"`
}

// Security holds authentication settings.
type Security struct {
	JWTSecret      string        `yaml:"jwtSecret" json:"jwtSecret"`
	JWTIssuer      string        `yaml:"jwtIssuer" json:"jwtIssuer"`
	JWTExpiry      time.Duration `yaml:"jwtExpiry" json:"jwtExpiry"`
	AllowedOrigins []string      `yaml:"allowedOrigins" json:"allowedOrigins"`
}

// Logging holds logger settings.
type Logging struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Features contains feature flags for the application
type Features struct {
	EnableMetrics   bool `yaml:"enableMetrics" json:"enableMetrics"`
	EnableHotReload bool `yaml:"enableHotReload" json:"enableHotReload"`
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Storage.Provider {
	case "memory", "dynamodb":
	default:
		return fmt.Errorf("unknown storage provider: %q", c.Storage.Provider)
	}
	if c.Storage.Provider == "dynamodb" && c.Storage.TableName == "" {
		return fmt.Errorf("dynamodb storage requires a table name")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("jwt secret cannot be empty")
	}
	if c.Layout.Iterations <= 0 {
		return fmt.Errorf("layout iterations must be positive")
	}
	return nil
}

func getEnvironment() Environment {
	switch strings.ToLower(os.Getenv("APP_ENV")) {
	case "production", "prod":
		return Production
	case "staging":
		return Staging
	default:
		return Development
	}
}
