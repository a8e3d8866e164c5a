package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}
	if cfg.ServerName != "mcp-citation-auditor" {
		t.Errorf("Expected default server name to be 'mcp-citation-auditor', got '%s'", cfg.ServerName)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}
	if cfg.CacheSize != 64 {
		t.Errorf("Expected default cache size to be 64, got %d", cfg.CacheSize)
	}
	if cfg.OCRMinChars != 50 {
		t.Errorf("Expected default OCR threshold to be 50, got %d", cfg.OCRMinChars)
	}
	if cfg.OpenAIModel != "gpt-5-mini" {
		t.Errorf("Expected default model to be 'gpt-5-mini', got '%s'", cfg.OpenAIModel)
	}
	if cfg.ReportName != "Legal Expert Report" {
		t.Errorf("Expected default report name to be 'Legal Expert Report', got '%s'", cfg.ReportName)
	}
	if cfg.HasOpenAIKey() {
		t.Error("Expected no default API key")
	}

	currentDir, _ := os.Getwd()
	if cfg.PDFDirectory != currentDir {
		t.Errorf("Expected default PDF directory to be '%s', got '%s'", currentDir, cfg.PDFDirectory)
	}
}

func validConfig(dir string) *Config {
	cfg := DefaultConfig()
	cfg.PDFDirectory = dir
	return cfg
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid config - stdio mode", mutate: func(*Config) {}},
		{name: "valid config - server mode", mutate: func(c *Config) { c.Mode = ModeServer }},
		{name: "invalid mode", mutate: func(c *Config) { c.Mode = "invalid" }, wantErr: "mode must be"},
		{
			name:    "invalid port - too low (server mode)",
			mutate:  func(c *Config) { c.Mode = ModeServer; c.Port = 0 },
			wantErr: "port must be",
		},
		{
			name:    "invalid port - too high (server mode)",
			mutate:  func(c *Config) { c.Mode = ModeServer; c.Port = 70000 },
			wantErr: "port must be",
		},
		{name: "invalid port ignored in stdio mode", mutate: func(c *Config) { c.Port = 0 }},
		{name: "empty PDF directory", mutate: func(c *Config) { c.PDFDirectory = "" }, wantErr: "directory"},
		{name: "invalid log level", mutate: func(c *Config) { c.LogLevel = "invalid" }, wantErr: "invalid log level"},
		{name: "invalid max file size", mutate: func(c *Config) { c.MaxFileSize = 0 }, wantErr: "file size"},
		{name: "zero cache size", mutate: func(c *Config) { c.CacheSize = 0 }, wantErr: "cache size"},
		{name: "negative OCR threshold", mutate: func(c *Config) { c.OCRMinChars = -1 }, wantErr: "OCR"},
		{name: "zero OCR threshold", mutate: func(c *Config) { c.OCRMinChars = 0 }},
		{name: "empty model", mutate: func(c *Config) { c.OpenAIModel = "" }, wantErr: "model"},
		{name: "no API key is valid", mutate: func(c *Config) { c.OpenAIKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(dir)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Config.Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Config.Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Config.Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{
		Host: "192.168.1.1",
		Port: 9090,
	}

	expected := "192.168.1.1:9090"
	if got := cfg.Address(); got != expected {
		t.Errorf("Config.Address() = %v, want %v", got, expected)
	}
}

func TestConfigIsDebug(t *testing.T) {
	tests := []struct {
		logLevel string
		want     bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"error", false},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			if got := cfg.IsDebug(); got != tt.want {
				t.Errorf("Config.IsDebug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:         "server",
		Host:         "localhost",
		Port:         8080,
		PDFDirectory: "/home/user/reports",
		LogLevel:     "debug",
		MaxFileSize:  1024,
		CacheSize:    16,
		OpenAIKey:    "sk-secret-value",
		OpenAIModel:  "gpt-5-mini",
		ReportName:   "Larson Report",
	}

	result := cfg.String()

	for _, substr := range []string{
		"Mode: server",
		"Host: localhost",
		"Port: 8080",
		"PDFDirectory: /home/user/reports",
		"LogLevel: debug",
		"MaxFileSize: 1024",
		"CacheSize: 16",
		"OpenAIModel: gpt-5-mini",
		"OpenAIKey: set",
		"ReportName: Larson Report",
	} {
		if !strings.Contains(result, substr) {
			t.Errorf("Config.String() result doesn't contain expected substring: %s\nGot: %s", substr, result)
		}
	}

	if strings.Contains(result, "sk-secret-value") {
		t.Errorf("Config.String() leaked the API key: %s", result)
	}

	cfg.OpenAIKey = ""
	if !strings.Contains(cfg.String(), "OpenAIKey: unset") {
		t.Errorf("Config.String() = %s, want OpenAIKey: unset", cfg.String())
	}
}

func TestConfigValidateDoesNotCreateDirectory(t *testing.T) {
	nonExistentDir := filepath.Join(t.TempDir(), "non-existent", "reports")

	cfg := validConfig(nonExistentDir)
	if err := cfg.Validate(); err != nil {
		t.Errorf("Config.Validate() should not fail for non-existent directory, got error: %v", err)
	}

	if _, err := os.Stat(nonExistentDir); !os.IsNotExist(err) {
		t.Errorf("Directory should NOT have been created: %s", nonExistentDir)
	}
}

func TestConfigValidateLogLevels(t *testing.T) {
	dir := t.TempDir()

	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run("valid_"+level, func(t *testing.T) {
			cfg := validConfig(dir)
			cfg.LogLevel = level
			if err := cfg.Validate(); err != nil {
				t.Errorf("Config.Validate() should accept log level '%s', got error: %v", level, err)
			}
		})
	}

	for _, level := range []string{"DEBUG", "INFO", "trace", "fatal", ""} {
		t.Run("invalid_"+level, func(t *testing.T) {
			cfg := validConfig(dir)
			cfg.LogLevel = level
			if err := cfg.Validate(); err == nil {
				t.Errorf("Config.Validate() should reject log level '%s'", level)
			}
		})
	}
}

func TestConfigModes(t *testing.T) {
	tests := []struct {
		mode          string
		server, stdio bool
	}{
		{"server", true, false},
		{"stdio", false, true},
		{"other", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if got := cfg.IsServerMode(); got != tt.server {
				t.Errorf("Config.IsServerMode() = %v, want %v", got, tt.server)
			}
			if got := cfg.IsStdioMode(); got != tt.stdio {
				t.Errorf("Config.IsStdioMode() = %v, want %v", got, tt.stdio)
			}
		})
	}
}
