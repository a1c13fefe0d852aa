package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for pixivsave
type Config struct {
	// Pixiv session and request identity
	Pixiv PixivConfig `yaml:"pixiv" json:"pixiv"`

	// Controlled browser settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Navigation pacing
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PixivConfig holds pixiv-specific configuration
type PixivConfig struct {
	SessionID    string `yaml:"session_id" json:"session_id"`
	UserAgent    string `yaml:"user_agent" json:"user_agent"`
	CookieDomain string `yaml:"cookie_domain" json:"cookie_domain"`
}

// BrowserConfig holds settings for the headless browser
type BrowserConfig struct {
	Headless          bool          `yaml:"headless" json:"headless"`
	ExecPath          string        `yaml:"exec_path" json:"exec_path"`
	NoSandbox         bool          `yaml:"no_sandbox" json:"no_sandbox"`
	WindowWidth       int           `yaml:"window_width" json:"window_width"`
	WindowHeight      int           `yaml:"window_height" json:"window_height"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory     string `yaml:"base_directory" json:"base_directory"`
	CreateDirectory   bool   `yaml:"create_directory" json:"create_directory"`
	CreateUserFolders bool   `yaml:"create_user_folders" json:"create_user_folders"`
	KeepExtension     bool   `yaml:"keep_extension" json:"keep_extension"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	// MaxArtworks bounds how many discovered artworks are visited, 0 means all
	MaxArtworks      int `yaml:"max_artworks" json:"max_artworks"`
	ConcurrentWrites int `yaml:"concurrent_writes" json:"concurrent_writes"`
	RetryAttempts    int `yaml:"retry_attempts" json:"retry_attempts"`
	// RetryDelay is the pause before the first navigation retry. It doubles
	// for each further retry up to RetryMaxDelay.
	RetryDelay    time.Duration `yaml:"retry_delay" json:"retry_delay"`
	RetryMaxDelay time.Duration `yaml:"retry_max_delay" json:"retry_max_delay"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Pixiv: PixivConfig{
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			CookieDomain: ".pixiv.net",
		},
		Browser: BrowserConfig{
			Headless:          true,
			WindowWidth:       1366,
			WindowHeight:      768,
			NavigationTimeout: 30 * time.Second,
			IdleTimeout:       30 * time.Second,
		},
		Output: OutputConfig{
			BaseDirectory:     "files",
			CreateDirectory:   true,
			CreateUserFolders: false,
			KeepExtension:     true,
		},
		Download: DownloadConfig{
			MaxArtworks:      0,
			ConcurrentWrites: 2,
			RetryAttempts:    1,
			RetryDelay:       2 * time.Second,
			RetryMaxDelay:    30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sessionID := os.Getenv("PIXIVSAVE_SESSION_ID"); sessionID != "" {
		c.Pixiv.SessionID = sessionID
	}
	if userAgent := os.Getenv("PIXIVSAVE_USER_AGENT"); userAgent != "" {
		c.Pixiv.UserAgent = userAgent
	}

	if headless := os.Getenv("PIXIVSAVE_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.ToLower(headless) == "true"
	}
	if execPath := os.Getenv("PIXIVSAVE_CHROME_PATH"); execPath != "" {
		c.Browser.ExecPath = execPath
	}
	if timeout := os.Getenv("PIXIVSAVE_NAVIGATION_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid PIXIVSAVE_NAVIGATION_TIMEOUT: %w", err)
		}
		c.Browser.NavigationTimeout = d
	}

	if outputDir := os.Getenv("PIXIVSAVE_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}

	if maxArtworks := os.Getenv("PIXIVSAVE_MAX_ARTWORKS"); maxArtworks != "" {
		val, err := strconv.Atoi(maxArtworks)
		if err != nil {
			return fmt.Errorf("invalid PIXIVSAVE_MAX_ARTWORKS: %w", err)
		}
		c.Download.MaxArtworks = val
	}

	if delay := os.Getenv("PIXIVSAVE_RETRY_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid PIXIVSAVE_RETRY_DELAY: %w", err)
		}
		c.Download.RetryDelay = d
		c.raiseRetryCap()
	}

	if rpm := os.Getenv("PIXIVSAVE_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if logLevel := os.Getenv("PIXIVSAVE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".pixivsave.yaml",
		".pixivsave.yml",
		filepath.Join(home, ".config", "pixivsave", "config.yaml"),
		filepath.Join(home, ".config", "pixivsave", "config.yml"),
		filepath.Join(home, ".pixivsave.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// DefaultPath returns where `config init` writes a new file
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "pixivsave", "config.yaml")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		errs = append(errs, errors.New("window size must be positive"))
	}
	if c.Browser.NavigationTimeout <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
	}
	if c.Browser.IdleTimeout <= 0 {
		errs = append(errs, errors.New("idle timeout must be positive"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	if c.Download.MaxArtworks < 0 {
		errs = append(errs, errors.New("max artworks cannot be negative"))
	}
	if c.Download.ConcurrentWrites <= 0 {
		errs = append(errs, errors.New("concurrent writes must be positive"))
	}
	if c.Download.ConcurrentWrites > 10 {
		errs = append(errs, errors.New("concurrent writes should not exceed 10"))
	}
	if c.Download.RetryAttempts <= 0 {
		errs = append(errs, errors.New("retry attempts must be at least 1"))
	}
	if c.Download.RetryDelay < 0 {
		errs = append(errs, errors.New("retry delay cannot be negative"))
	}
	if c.Download.RetryMaxDelay < c.Download.RetryDelay {
		errs = append(errs, errors.New("retry max delay cannot be shorter than retry delay"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600 because the file may carry the session cookie
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["session-id"].(string); ok && sessionID != "" {
		c.Pixiv.SessionID = sessionID
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if execPath, ok := flags["chrome-path"].(string); ok && execPath != "" {
		c.Browser.ExecPath = execPath
	}
	if maxArtworks, ok := flags["max-artworks"].(int); ok && maxArtworks >= 0 {
		c.Download.MaxArtworks = maxArtworks
	}
	if writes, ok := flags["concurrent-writes"].(int); ok && writes > 0 {
		c.Download.ConcurrentWrites = writes
	}
	if retries, ok := flags["retry-attempts"].(int); ok && retries > 0 {
		c.Download.RetryAttempts = retries
	}
	if delay, ok := flags["retry-delay"].(time.Duration); ok && delay >= 0 {
		c.Download.RetryDelay = delay
		c.raiseRetryCap()
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if userFolders, ok := flags["user-folders"].(bool); ok {
		c.Output.CreateUserFolders = userFolders
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".pixivsave.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// raiseRetryCap keeps an explicitly chosen retry delay from sitting above
// the configured cap
func (c *Config) raiseRetryCap() {
	if c.Download.RetryMaxDelay < c.Download.RetryDelay {
		c.Download.RetryMaxDelay = c.Download.RetryDelay
	}
}
