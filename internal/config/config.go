// Package config provides unified configuration for the sync service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider selects the spreadsheet API backing the live sync.
type Provider string

const (
	// ProviderGoogle syncs against a Google Sheets document.
	ProviderGoogle Provider = "google"
	// ProviderFake syncs against an in-memory document; for local
	// development and tests.
	ProviderFake Provider = "fake"
)

// Config holds the full service configuration.
type Config struct {
	// DataDir is the base directory for local data files.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// HTTP configuration.
	HTTP HTTPConfig `json:"http" yaml:"http"`

	// Store configuration.
	Store StoreConfig `json:"store" yaml:"store"`

	// Sheets configuration.
	Sheets SheetsConfig `json:"sheets" yaml:"sheets"`

	// Export configuration.
	Export ExportConfig `json:"export" yaml:"export"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeout is the HTTP read timeout.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the HTTP write timeout.
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout is the HTTP idle timeout.
	IdleTimeout time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
}

// StoreConfig holds canonical record store configuration.
type StoreConfig struct {
	// Path is the SQLite database file, resolved under DataDir when empty.
	Path string `json:"path" yaml:"path"`
}

// SheetsConfig holds live spreadsheet configuration.
type SheetsConfig struct {
	// Provider is the spreadsheet backend: google, fake.
	Provider Provider `json:"provider" yaml:"provider"`

	// SpreadsheetID is the target document. Inbound webhook events from
	// any other document are rejected.
	SpreadsheetID string `json:"spreadsheet_id" yaml:"spreadsheet_id"`

	// SheetName overrides the schema's default sheet title.
	SheetName string `json:"sheet_name" yaml:"sheet_name"`

	// CredentialsFile is the service-account key file (google provider).
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`

	// ReadOnlyHeaders lists column headers rendered for display only;
	// inbound edits to them are rejected.
	ReadOnlyHeaders []string `json:"read_only_headers" yaml:"read_only_headers"`
}

// ExportConfig holds export trigger configuration.
type ExportConfig struct {
	// DefaultLimit caps the records loaded per export/resync when the
	// request does not pass its own limit. 0 means no limit.
	DefaultLimit int `json:"default_limit" yaml:"default_limit"`
}

// DefaultConfig returns the default configuration for local development.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data/jwcsheet",
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Store: StoreConfig{
			Path: "",
		},
		Sheets: SheetsConfig{
			Provider: ProviderFake,
			ReadOnlyHeaders: []string{
				"이름",
				"연락처",
				"등록일시",
			},
		},
		Export: ExportConfig{
			DefaultLimit: 0,
		},
	}
}

// Resolve resolves relative paths and defaults based on DataDir.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = "./data/jwcsheet"
	}
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.DataDir, "records.db")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	switch c.Sheets.Provider {
	case ProviderGoogle:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("sheets.spreadsheet_id is required for the google provider")
		}
		if c.Sheets.CredentialsFile == "" {
			return fmt.Errorf("sheets.credentials_file is required for the google provider")
		}
	case ProviderFake:
		// No further requirements.
	default:
		return fmt.Errorf("invalid sheets provider: %s (must be google or fake)", c.Sheets.Provider)
	}

	if c.Export.DefaultLimit < 0 {
		return fmt.Errorf("export.default_limit must not be negative, got %d", c.Export.DefaultLimit)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the JWC_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("JWC_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("JWC_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("JWC_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("JWC_SHEETS_PROVIDER"); v != "" {
		cfg.Sheets.Provider = Provider(v)
	}
	if v := os.Getenv("JWC_SHEETS_SPREADSHEET_ID"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("JWC_SHEETS_SHEET_NAME"); v != "" {
		cfg.Sheets.SheetName = v
	}
	if v := os.Getenv("JWC_SHEETS_CREDENTIALS_FILE"); v != "" {
		cfg.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("JWC_EXPORT_DEFAULT_LIMIT"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Export.DefaultLimit)
	}
}

// EnsureDirectories creates the directories the service writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
		filepath.Dir(c.Store.Path),
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
