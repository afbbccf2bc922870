package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Defaults applied when the config file is missing or leaves a field
// unset.
const (
	DefaultSearchEndpoint = "https://openlibrary.org/search.json"
	DefaultCoversEndpoint = "https://covers.openlibrary.org"
	DefaultPageSize       = 20
	DefaultFacetLimit     = 50
	DefaultDebounce       = 350 * time.Millisecond
	DefaultRateLimit      = 2.0 // requests per second against the metadata API
	DefaultHTTPTimeout    = 30 * time.Second
)

type Config struct {
	DataDir string       `toml:"data_dir"`
	API     APIConfig    `toml:"api"`
	Search  SearchConfig `toml:"search"`
	Serve   ServeConfig  `toml:"serve"`
}

// APIConfig configures the outbound Open Library client.
type APIConfig struct {
	Endpoint       string   `toml:"endpoint"`
	CoversEndpoint string   `toml:"covers_endpoint"`
	RateLimit      float64  `toml:"rate_limit"`
	Timeout        Duration `toml:"timeout"`
}

// SearchConfig configures session defaults.
type SearchConfig struct {
	PageSize   int      `toml:"page_size"`
	FacetLimit int      `toml:"facet_limit"`
	Debounce   Duration `toml:"debounce"`
}

// ServeConfig configures the HTTP server started by `openshelf serve`.
type ServeConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Duration wraps time.Duration so TOML values can be written as "350ms".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Addr returns the host:port string the server binds to.
func (s ServeConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// FavoritesDBPath returns the path of the favorites database inside the
// configured data directory.
func (c *Config) FavoritesDBPath() string {
	return filepath.Join(c.DataDir, "favorites.db")
}

func GetDefaultConfig() (*Config, error) {
	dataDir, err := GetDefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("getting default data directory: %w", err)
	}
	cfg := &Config{DataDir: dataDir}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadConfig reads the TOML config at configPath. A missing file yields
// the defaults; a malformed file is an error.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.DataDir == "" {
		dataDir, err := GetDefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("getting default data directory: %w", err)
		}
		config.DataDir = dataDir
	}
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.API.Endpoint == "" {
		c.API.Endpoint = DefaultSearchEndpoint
	}
	if c.API.CoversEndpoint == "" {
		c.API.CoversEndpoint = DefaultCoversEndpoint
	}
	if c.API.RateLimit <= 0 {
		c.API.RateLimit = DefaultRateLimit
	}
	if c.API.Timeout.Duration == 0 {
		c.API.Timeout = Duration{DefaultHTTPTimeout}
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = DefaultPageSize
	}
	if c.Search.FacetLimit <= 0 {
		c.Search.FacetLimit = DefaultFacetLimit
	}
	if c.Search.Debounce.Duration == 0 {
		c.Search.Debounce = Duration{DefaultDebounce}
	}
	if c.Serve.Host == "" {
		c.Serve.Host = "localhost"
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = 8090
	}
}

// SaveTemplateConfig writes the annotated sample config to configPath,
// substituting the real default data directory.
func SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	dataDir, err := GetDefaultDataDir()
	if err != nil {
		return fmt.Errorf("getting default data directory: %w", err)
	}
	template := strings.Replace(configTemplate, "/home/user/.local/share/openshelf", dataDir, 1)

	return os.WriteFile(configPath, []byte(template), 0644)
}

// GetDefaultDataDir returns the directory holding the favorites
// database, honoring XDG_DATA_HOME.
func GetDefaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, "openshelf")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetConfigDir returns the configuration directory, honoring
// XDG_CONFIG_HOME.
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "openshelf")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
