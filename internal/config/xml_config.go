// Package config provides XML-based configuration for the chart builder.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"ChartBuilder"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Storage configuration
	Storage StorageConfig `xml:"Storage"`

	// Defaults for new editing sessions
	Defaults DefaultsConfig `xml:"Defaults"`

	// Session handling
	Processing ProcessingConfig `xml:"Processing"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// StorageConfig contains file locations
type StorageConfig struct {
	DataDirectory    string `xml:"DataDirectory"`
	UploadsDirectory string `xml:"UploadsDirectory"`
	OutputDirectory  string `xml:"OutputDirectory"`
	HistoryDatabase  string `xml:"HistoryDatabase"`
	TemplateFile     string `xml:"TemplateFile"`
	PresetsFile      string `xml:"PresetsFile"`
}

// DefaultsConfig holds the values a new session starts with
type DefaultsConfig struct {
	ServerVersion   string `xml:"ServerVersion"`
	ServerPath      string `xml:"ServerPath"`
	TrendPathAnalog string `xml:"TrendPathAnalog"`
	TrendPathBinary string `xml:"TrendPathBinary"`
	IsModbus        bool   `xml:"IsModbus"`
}

// ProcessingConfig contains session lifetime settings
type ProcessingConfig struct {
	SessionTimeoutMinutes  int  `xml:"SessionTimeoutMinutes"`
	CleanupIntervalMinutes int  `xml:"CleanupIntervalMinutes"`
	MaxSessions            int  `xml:"MaxSessions"`
	EnableCompression      bool `xml:"EnableCompression"`
	CompressionLevel       int  `xml:"CompressionLevel"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	EnableRequestLogging bool `xml:"EnableRequestLogging"`
	EnableHistory        bool `xml:"EnableHistory"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "127.0.0.1",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "64M",
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			UploadsDirectory: "./data/uploads",
			OutputDirectory:  "./output",
			HistoryDatabase:  "./data/history.duckdb",
			TemplateFile:     "",
			PresetsFile:      "",
		},
		Defaults: DefaultsConfig{
			ServerVersion:   "5.0.3.117",
			ServerPath:      "/Server 1",
			TrendPathAnalog: "../../../../Trend/Analog Group",
			TrendPathBinary: "../../../../Trend/Binary Group",
			IsModbus:        false,
		},
		Processing: ProcessingConfig{
			SessionTimeoutMinutes:  60,
			CleanupIntervalMinutes: 5,
			MaxSessions:            20,
			EnableCompression:      true,
			CompressionLevel:       5,
		},
		Advanced: AdvancedConfig{
			EnableRequestLogging: true,
			EnableHistory:        true,
		},
	}
}

// LoadConfig loads configuration from XML file. A missing file is created
// with the defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		loadDotEnv(filepath.Dir(configPath))
		config.applyEnvironmentOverrides()
		config.resolvePaths(filepath.Dir(configPath))
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so elements missing in the file keep sane values.
	config := DefaultConfig()
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.normalize()
	loadDotEnv(filepath.Dir(configPath))
	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Chart Builder Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// normalize replaces non-positive session settings with the defaults.
func (c *AppConfig) normalize() {
	d := DefaultConfig().Processing
	if c.Processing.CleanupIntervalMinutes <= 0 {
		c.Processing.CleanupIntervalMinutes = d.CleanupIntervalMinutes
	}
	if c.Processing.SessionTimeoutMinutes <= 0 {
		c.Processing.SessionTimeoutMinutes = d.SessionTimeoutMinutes
	}
	if c.Processing.MaxSessions <= 0 {
		c.Processing.MaxSessions = d.MaxSessions
	}
}

// loadDotEnv reads a .env file next to the config file into the process
// environment. Variables already set are kept.
func loadDotEnv(configDir string) {
	envPath := filepath.Join(configDir, ".env")
	if _, err := os.Stat(envPath); err != nil {
		return
	}
	if err := godotenv.Load(envPath); err != nil {
		fmt.Printf("[Config] Failed to load %s: %v\n", envPath, err)
	}
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
		c.Storage.UploadsDirectory = filepath.Join(dataDir, "uploads")
		c.Storage.HistoryDatabase = filepath.Join(dataDir, "history.duckdb")
	}

	if outDir := os.Getenv("OUTPUT_DIR"); outDir != "" {
		c.Storage.OutputDirectory = outDir
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	for _, p := range []*string{
		&c.Storage.DataDirectory,
		&c.Storage.UploadsDirectory,
		&c.Storage.OutputDirectory,
		&c.Storage.HistoryDatabase,
		&c.Storage.TemplateFile,
		&c.Storage.PresetsFile,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(configDir, *p)
		}
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.UploadsDirectory,
		c.Storage.OutputDirectory,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
