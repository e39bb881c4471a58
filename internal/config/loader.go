package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader assembles configuration from layered sources.
type Loader struct {
	basePath    string
	environment Environment
	sources     []string
	fileLoaders map[string]FileLoader
	extensions  []string // registration order; first match wins
}

// FileLoader decodes one configuration file format.
type FileLoader interface {
	Load(reader io.Reader, target interface{}) error
	Extension() string
}

// NewLoader creates a configuration loader rooted at basePath.
func NewLoader(basePath string, env Environment) *Loader {
	if basePath == "" {
		basePath = "config"
	}

	loader := &Loader{
		basePath:    basePath,
		environment: env,
		fileLoaders: make(map[string]FileLoader),
	}
	loader.RegisterLoader(&YAMLLoader{})
	loader.RegisterLoader(&JSONLoader{})
	return loader
}

// RegisterLoader registers a new file loader for a specific format.
func (l *Loader) RegisterLoader(loader FileLoader) {
	ext := loader.Extension()
	if _, ok := l.fileLoaders[ext]; !ok {
		l.extensions = append(l.extensions, ext)
	}
	l.fileLoaders[ext] = loader
}

// Load builds the configuration. Priority, lowest to highest:
//  1. defaults in code
//  2. base.yaml
//  3. <environment>.yaml
//  4. local.yaml (development only)
//  5. environment variables
func (l *Loader) Load() (*Config, error) {
	cfg := l.defaultConfig()
	l.sources = append(l.sources, "defaults")

	if err := l.loadFile("base", cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load base config: %w", err)
	}

	envFile := strings.ToLower(string(l.environment))
	if err := l.loadFile(envFile, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s config: %w", envFile, err)
	}

	if l.environment == Development {
		if err := l.loadFile("local", cfg); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load local config: %v\n", err)
		}
	}

	l.loadEnvironmentVariables(cfg)
	l.sources = append(l.sources, "environment")
	cfg.LoadedFrom = l.sources

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile loads configuration from a file with automatic format
// detection; formats are tried in registration order so yaml wins over
// json when both files exist.
func (l *Loader) loadFile(name string, cfg *Config) error {
	for _, ext := range l.extensions {
		loader := l.fileLoaders[ext]
		path := filepath.Join(l.basePath, fmt.Sprintf("%s.%s", name, ext))

		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		defer file.Close()

		if err := loader.Load(file, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		l.sources = append(l.sources, path)
		return nil
	}
	return os.ErrNotExist
}

// loadEnvironmentVariables overlays environment variables, the highest
// priority source.
func (l *Loader) loadEnvironmentVariables(cfg *Config) {
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if port := parseInt(val); port > 0 {
			cfg.Server.Port = port
		}
	}
	if val := os.Getenv("SERVER_HOST"); val != "" {
		cfg.Server.Host = val
	}

	if val := os.Getenv("STORAGE_PROVIDER"); val != "" {
		cfg.Storage.Provider = val
	}
	if val := os.Getenv("TABLE_NAME"); val != "" {
		cfg.Storage.TableName = val
	}
	if val := os.Getenv("AWS_REGION"); val != "" {
		cfg.Storage.Region = val
	}

	if val := os.Getenv("JWT_SECRET"); val != "" {
		cfg.Security.JWTSecret = val
	}
	if val := os.Getenv("JWT_ISSUER"); val != "" {
		cfg.Security.JWTIssuer = val
	}
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		cfg.Security.AllowedOrigins = strings.Split(val, ",")
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("ENABLE_METRICS"); val != "" {
		cfg.Features.EnableMetrics = parseBool(val)
	}
	if val := os.Getenv("LAYOUT_ITERATIONS"); val != "" {
		if n := parseInt(val); n > 0 {
			cfg.Layout.Iterations = n
		}
	}
}

// defaultConfig returns a configuration the server can run with locally
// without any files present.
func (l *Loader) defaultConfig() *Config {
	return &Config{
		Environment: l.environment,
		Server: Server{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: Storage{
			Provider:  "memory",
			TableName: "kinship-" + strings.ToLower(string(l.environment)),
			Region:    "us-east-1",
		},
		Layout: Layout{
			Width:      1200,
			Height:     800,
			Iterations: 300,
			Seed:       1,
		},
		Security: Security{
			JWTSecret:      "dev-secret-change-me",
			JWTIssuer:      "kinship",
			JWTExpiry:      24 * time.Hour,
			AllowedOrigins: []string{"*"},
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Features: Features{
			EnableMetrics:   true,
			EnableHotReload: l.environment == Development,
		},
	}
}

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct{}

func (y *YAMLLoader) Load(reader io.Reader, target interface{}) error {
	return yaml.NewDecoder(reader).Decode(target)
}

func (y *YAMLLoader) Extension() string { return "yaml" }

// JSONLoader loads configuration from JSON files.
type JSONLoader struct{}

func (j *JSONLoader) Load(reader io.Reader, target interface{}) error {
	return json.NewDecoder(reader).Decode(target)
}

func (j *JSONLoader) Extension() string { return "json" }

func parseInt(s string) int {
	val, _ := strconv.Atoi(s)
	return val
}

func parseBool(s string) bool {
	val, _ := strconv.ParseBool(s)
	return val
}

// Load loads the configuration for the current environment.
func Load() (*Config, error) {
	env := getEnvironment()
	basePath := os.Getenv("CONFIG_DIR")
	return NewLoader(basePath, env).Load()
}

// MustLoad loads configuration and panics on error. Use only in main().
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
