package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-inventory-sync/internal/extraction"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50MB

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable
	EnvPrefix = "INVENTORY_SYNC"

	// EnvFileVariable names the variable holding an alternative .env path
	EnvFileVariable = EnvPrefix + "_ENV_FILE"
)

// ErrVersionRequested is returned when --version is among the arguments
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the inventory sync tools
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// File configuration
	WorkDirectory   string
	OutputDirectory string // empty: next to the inventory workbook
	MaxFileSize     int64  // Maximum spreadsheet size in bytes

	// Extraction configuration
	StartRow     int
	LocationMode string
	ActaMode     string

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:          ModeStdio, // Default to stdio mode for MCP compatibility
		Host:          DefaultHost,
		Port:          DefaultPort,
		WorkDirectory: currentDir,
		MaxFileSize:   DefaultMaxFileSize,
		StartRow:      extraction.DefaultStartRow,
		LocationMode:  string(extraction.LocationFull),
		ActaMode:      string(extraction.LabelWithPrefix),
		Version:       "1.0.0",
		ServerName:    "mcp-inventory-sync",
		LogLevel:      DefaultLogLevel,
	}
}

// LoadFromFlags parses the process arguments and returns a configuration
func LoadFromFlags() (*Config, error) {
	setupUsageMessage()
	return LoadFromFlagSet(pflag.CommandLine, os.Args[1:])
}

// LoadFromFlagSet registers the configuration flags on fs, parses args and
// merges flags, environment and an optional .env file, in that order of
// precedence. Callers may register their own flags on fs beforehand.
func LoadFromFlagSet(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg := DefaultConfig()

	// Check for version flag before parsing
	if err := checkVersionFlag(args); err != nil {
		return nil, err
	}

	if err := loadEnvFile(os.Getenv(EnvFileVariable)); err != nil {
		return nil, err
	}

	v := viper.New()
	setupViperEnvironment(v, cfg)
	defineCommandLineFlags(fs, cfg)
	bindFlagsToViper(v, fs)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	populateConfigFromViper(v, cfg)

	// Expand paths if needed
	cfg.WorkDirectory = absPath(cfg.WorkDirectory)
	cfg.OutputDirectory = absPath(cfg.OutputDirectory)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadEnvFile loads variables from path, or from ./.env when path is empty.
// A missing default file is not an error; variables already set win.
func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil //nolint:nilerr // No .env file is fine
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("cannot load env file %s: %w", path, err)
	}
	return nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.WorkDirectory)
	v.SetDefault("output-dir", cfg.OutputDirectory)
	v.SetDefault("log-level", cfg.LogLevel)
	v.SetDefault("max-file-size", cfg.MaxFileSize)
	v.SetDefault("start-row", cfg.StartRow)
	v.SetDefault("location-mode", cfg.LocationMode)
	v.SetDefault("acta-mode", cfg.ActaMode)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	fs.String("dir", cfg.WorkDirectory, "Work directory containing actas and inventory workbooks")
	fs.String("output-dir", cfg.OutputDirectory, "Directory for updated inventories (default: next to the inventory)")
	fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64("max-file-size", cfg.MaxFileSize, "Maximum spreadsheet size in bytes")
	fs.Int("start-row", cfg.StartRow, "Row holding the item table header of an acta")
	fs.String("location-mode", cfg.LocationMode, "Location display: 'full' or 'first_token'")
	fs.String("acta-mode", cfg.ActaMode, "Acta number display: 'prefix' or 'number_only'")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper(v *viper.Viper, fs *pflag.FlagSet) {
	for _, name := range []string{
		"mode", "host", "port", "dir", "output-dir", "log-level",
		"max-file-size", "start-row", "location-mode", "acta-mode",
	} {
		_ = v.BindPFlag(name, fs.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Inventory Sync - applies hand-over records (actas) to inventory workbooks\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/srv/inventario                   "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/srv/inventario     # server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081 # server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (also read from .env):\n")
		fmt.Fprintf(os.Stderr, "  INVENTORY_SYNC_MODE           Server mode\n")
		fmt.Fprintf(os.Stderr, "  INVENTORY_SYNC_HOST           Server host\n")
		fmt.Fprintf(os.Stderr, "  INVENTORY_SYNC_PORT           Server port\n")
		fmt.Fprintf(os.Stderr, "  INVENTORY_SYNC_DIR            Work directory\n")
		fmt.Fprintf(os.Stderr, "  INVENTORY_SYNC_OUTPUT_DIR     Output directory\n")
		fmt.Fprintf(os.Stderr, "  INVENTORY_SYNC_LOG_LEVEL      Log level\n")
		fmt.Fprintf(os.Stderr, "  INVENTORY_SYNC_MAX_FILE_SIZE  Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  INVENTORY_SYNC_START_ROW      Item table header row\n")
		fmt.Fprintf(os.Stderr, "  INVENTORY_SYNC_LOCATION_MODE  Location display\n")
		fmt.Fprintf(os.Stderr, "  INVENTORY_SYNC_ACTA_MODE      Acta number display\n")
		fmt.Fprintf(os.Stderr, "  INVENTORY_SYNC_ENV_FILE       Alternative .env file\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag(args []string) error {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.WorkDirectory = v.GetString("dir")
	cfg.OutputDirectory = v.GetString("output-dir")
	cfg.LogLevel = v.GetString("log-level")
	cfg.MaxFileSize = v.GetInt64("max-file-size")
	cfg.StartRow = v.GetInt("start-row")
	cfg.LocationMode = v.GetString("location-mode")
	cfg.ActaMode = v.GetString("acta-mode")
}

func absPath(p string) string {
	if p == "" {
		return p
	}
	if expanded, err := filepath.Abs(p); err == nil {
		return expanded
	}
	return p
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate work directory
	if c.WorkDirectory == "" {
		return errors.New("work directory cannot be empty")
	}

	// Check if work directory exists, create if it doesn't
	if _, err := os.Stat(c.WorkDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.WorkDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create work directory %s: %w", c.WorkDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access work directory %s: %w", c.WorkDirectory, err)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if _, err := c.ExtractionOptions(); err != nil {
		return err
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// ExtractionOptions converts the extraction settings
func (c *Config) ExtractionOptions() (extraction.Options, error) {
	location, err := extraction.ParseLocationMode(c.LocationMode)
	if err != nil {
		return extraction.Options{}, err
	}
	label, err := extraction.ParseLabelMode(c.ActaMode)
	if err != nil {
		return extraction.Options{}, err
	}
	opts := extraction.Options{
		StartRow:     c.StartRow,
		LocationMode: location,
		LabelMode:    label,
	}
	return opts, opts.Validate()
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, WorkDirectory: %s, OutputDirectory: %s, "+
		"LogLevel: %s, MaxFileSize: %d, StartRow: %d, LocationMode: %s, ActaMode: %s}",
		c.Mode, c.Host, c.Port, c.WorkDirectory, c.OutputDirectory,
		c.LogLevel, c.MaxFileSize, c.StartRow, c.LocationMode, c.ActaMode)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
