// Package config loads server configuration from YAML and the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database engines supported by the storage layer
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Backup   BackupConfig   `yaml:"backup"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig selects the engine and connection parameters.
// URL, when set, wins over the discrete fields.
type DatabaseConfig struct {
	Engine   string `yaml:"engine"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	DataDir  string `yaml:"data_dir"` // directory holding the sqlite database
	Path     string `yaml:"path"`     // explicit sqlite file path; wins over data_dir
}

// AuthConfig holds token signing parameters
type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	AccessTTLMins   int    `yaml:"access_ttl_minutes"`
	RefreshTTLHours int    `yaml:"refresh_ttl_hours"`
}

// LoggingConfig controls slog output
type LoggingConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// BackupConfig controls where database dumps are written
type BackupConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads configuration with the following precedence, lowest first:
// built-in defaults, config.yaml, .env file, process environment.
func Load() (*Config, error) {
	// .env is optional; missing file is not an error
	_ = godotenv.Load()

	config := defaultConfig()

	configPath, err := getConfigPath()
	if err == nil {
		if data, readErr := os.ReadFile(configPath); readErr == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
			}
		}
	}

	config.applyEnv()
	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8000"},
		Database: DatabaseConfig{Engine: EngineSQLite},
		Auth:     AuthConfig{AccessTTLMins: 30, RefreshTTLHours: 24 * 7},
		Logging:  LoggingConfig{Level: "info"},
		Backup:   BackupConfig{Dir: "backups"},
	}
}

// applyEnv overrides file values with environment variables
func (c *Config) applyEnv() {
	setIfEnv(&c.Server.Addr, "TAREA_ADDR")
	setIfEnv(&c.Database.URL, "DATABASE_URL")
	setIfEnv(&c.Database.Engine, "DB_ENGINE")
	setIfEnv(&c.Database.Host, "DB_HOST")
	setIfEnv(&c.Database.Port, "DB_PORT")
	setIfEnv(&c.Database.User, "DB_USER")
	setIfEnv(&c.Database.Password, "DB_PASSWORD")
	setIfEnv(&c.Database.Name, "DB_NAME")
	setIfEnv(&c.Database.DataDir, "TAREA_DATA_DIR")
	setIfEnv(&c.Auth.JWTSecret, "TAREA_JWT_SECRET")
	setIfEnv(&c.Logging.File, "TAREA_LOG_FILE")
	setIfEnv(&c.Logging.Level, "TAREA_LOG_LEVEL")
	setIfEnv(&c.Backup.Dir, "TAREA_BACKUP_DIR")
}

func setIfEnv(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

// applyDefaults fills in any values still missing after file and env merge
func (c *Config) applyDefaults() {
	if c.Database.URL != "" {
		// DATABASE_URL implies the engine from its scheme
		if u, err := url.Parse(c.Database.URL); err == nil {
			switch u.Scheme {
			case "postgres", "postgresql":
				c.Database.Engine = EnginePostgres
			case "sqlite", "file":
				c.Database.Engine = EngineSQLite
				if c.Database.Path == "" {
					c.Database.Path = strings.TrimPrefix(u.Opaque+u.Path, "/")
				}
			}
		}
	}
	if c.Database.Engine == "" {
		c.Database.Engine = EngineSQLite
	}
	if c.Database.Engine == EnginePostgres {
		if c.Database.Host == "" {
			c.Database.Host = "localhost"
		}
		if c.Database.Port == "" {
			c.Database.Port = "5432"
		}
	}
	if c.Database.Engine == EngineSQLite && c.Database.Path == "" {
		if c.Database.DataDir != "" {
			c.Database.Path = filepath.Join(c.Database.DataDir, "tarea.db")
		} else if home, err := os.UserHomeDir(); err == nil {
			c.Database.Path = filepath.Join(home, ".tarea", "tarea.db")
		} else {
			c.Database.Path = "tarea.db"
		}
	}
	if c.Auth.JWTSecret == "" {
		// Development fallback; production deployments set TAREA_JWT_SECRET
		c.Auth.JWTSecret = "insecure-dev-secret"
	}
}

func (c *Config) validate() error {
	switch c.Database.Engine {
	case EngineSQLite, EnginePostgres:
	default:
		return fmt.Errorf("unsupported database engine %q", c.Database.Engine)
	}
	if c.Database.Engine == EnginePostgres && c.Database.URL == "" && c.Database.Name == "" {
		return fmt.Errorf("postgres engine requires DATABASE_URL or DB_NAME")
	}
	return nil
}

// DSN returns the driver name and connection string for database/sql
func (c *Config) DSN() (driver, dsn string) {
	if c.Database.Engine == EnginePostgres {
		if c.Database.URL != "" {
			return "postgres", c.Database.URL
		}
		return "postgres", fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.Database.Host, c.Database.Port, c.Database.User,
			c.Database.Password, c.Database.Name,
		)
	}
	return "sqlite", c.Database.Path
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tarea", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tarea", "config.yaml"), nil
}
