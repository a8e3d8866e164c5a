package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultModel       = "gpt-5-mini"
	DefaultReportName  = "Legal Expert Report"
	DefaultCacheSize   = 64
	DefaultOCRMinChars = 50

	// EnvPrefix prefixes every environment variable read by the server.
	EnvPrefix = "CITE_AUDIT"
)

// Config holds all configuration for the citation auditor
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// PDF configuration
	PDFDirectory string
	MaxFileSize  int64 // Maximum PDF file size in bytes
	CacheSize    int   // Page snapshots kept in memory
	OCRMinChars  int   // Pages with less text are flagged as needing OCR

	// Language model configuration
	OpenAIKey   string
	OpenAIModel string
	ReportName  string

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
		Mode:         ModeStdio, // Default to stdio mode for MCP compatibility
		Host:         DefaultHost,
		Port:         DefaultPort,
		PDFDirectory: currentDir,
		MaxFileSize:  DefaultMaxFileSize,
		CacheSize:    DefaultCacheSize,
		OCRMinChars:  DefaultOCRMinChars,
		OpenAIModel:  DefaultModel,
		ReportName:   DefaultReportName,
		Version:      "1.0.0",
		ServerName:   "mcp-citation-auditor",
		LogLevel:     DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	// The key also comes from the variable the OpenAI tooling uses.
	_ = viper.BindEnv("openaikey", EnvPrefix+"_OPENAIKEY", "OPENAI_API_KEY")

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("cachesize", cfg.CacheSize)
	viper.SetDefault("ocrminchars", cfg.OCRMinChars)
	viper.SetDefault("openaikey", cfg.OpenAIKey)
	viper.SetDefault("openaimodel", cfg.OpenAIModel)
	viper.SetDefault("reportname", cfg.ReportName)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for the HTTP API")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing the expert reports")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Int("cachesize", cfg.CacheSize, "Number of parsed pages kept in memory")
	pflag.Int("ocrminchars", cfg.OCRMinChars, "Pages with fewer text characters are flagged as needing OCR")
	pflag.String("openaikey", cfg.OpenAIKey, "OpenAI API key for citation extraction and classification")
	pflag.String("openaimodel", cfg.OpenAIModel, "OpenAI model for citation extraction and classification")
	pflag.String("reportname", cfg.ReportName, "Report name written into every citation row")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "loglevel", "maxfilesize",
		"cachesize", "ocrminchars", "openaikey", "openaimodel", "reportname",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Citation Auditor - verify the citations of legal expert reports against their PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/reports                  "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/reports    # HTTP API\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081 # HTTP API on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CITE_AUDIT_MODE         Server mode\n")
		fmt.Fprintf(os.Stderr, "  CITE_AUDIT_HOST         Server host\n")
		fmt.Fprintf(os.Stderr, "  CITE_AUDIT_PORT         Server port\n")
		fmt.Fprintf(os.Stderr, "  CITE_AUDIT_DIR          Report directory\n")
		fmt.Fprintf(os.Stderr, "  CITE_AUDIT_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  CITE_AUDIT_MAXFILESIZE  Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  CITE_AUDIT_CACHESIZE    Page cache capacity\n")
		fmt.Fprintf(os.Stderr, "  CITE_AUDIT_OCRMINCHARS  OCR threshold\n")
		fmt.Fprintf(os.Stderr, "  CITE_AUDIT_OPENAIKEY    OpenAI API key (or OPENAI_API_KEY)\n")
		fmt.Fprintf(os.Stderr, "  CITE_AUDIT_OPENAIMODEL  OpenAI model\n")
		fmt.Fprintf(os.Stderr, "  CITE_AUDIT_REPORTNAME   Report name\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.CacheSize = viper.GetInt("cachesize")
	cfg.OCRMinChars = viper.GetInt("ocrminchars")
	cfg.OpenAIKey = viper.GetString("openaikey")
	cfg.OpenAIModel = viper.GetString("openaimodel")
	cfg.ReportName = viper.GetString("reportname")
}

// Validate checks if the configuration is valid. The report directory is
// not created or required to exist; clients may pass placeholder paths.
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate PDF directory
	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate cache and OCR threshold
	if c.CacheSize < 1 {
		return errors.New("cache size must be at least 1")
	}

	if c.OCRMinChars < 0 {
		return errors.New("OCR threshold cannot be negative")
	}

	// Validate model name
	if c.OpenAIModel == "" {
		return errors.New("OpenAI model cannot be empty")
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

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// HasOpenAIKey reports whether a model API key is configured
func (c *Config) HasOpenAIKey() bool {
	return c.OpenAIKey != ""
}

// String returns a string representation of the configuration. The API key
// is never printed.
func (c *Config) String() string {
	key := "unset"
	if c.HasOpenAIKey() {
		key = "set"
	}
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, LogLevel: %s, MaxFileSize: %d, "+
		"CacheSize: %d, OCRMinChars: %d, OpenAIModel: %s, OpenAIKey: %s, ReportName: %s}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.LogLevel, c.MaxFileSize,
		c.CacheSize, c.OCRMinChars, c.OpenAIModel, key, c.ReportName)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
