package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/text/language"
)

// Config holds all application configuration
// Supports environment variables with sensible defaults
//
// Environment Variables:
// Translator Configuration:
// - TRANSLATOR_API_URL: Translation service endpoint (required for translate/watch)
// - TRANSLATOR_API_KEY: API key for the translation service (optional)
// - TRANSLATOR_TIMEOUT: Request timeout in seconds (default: 60)
//
// Translate Configuration:
// - TARGET_LANGUAGE: BCP 47 target language tag (default: it)
// - WATCH_CRON_EXPR: Cron schedule with seconds field for watch mode (default: 0 */5 * * * *)
//
// Batch Configuration:
// - INPUT_DIR: Folder to scan for translatable files (default: /input)
// - OUTPUT_DIR: Mirror output folder; empty writes language-suffixed siblings (default: empty)
// - SCAN_OPTIONS_FILE: Optional YAML file overriding scan options (default: empty)
//
// Processor Configuration (0 keeps the per-operation policy defaults):
// - BATCH_CONCURRENCY: Max concurrent items (default: 0)
// - BATCH_RETRY_ATTEMPTS: Retries per item after the first attempt (default: 0)
// - BATCH_RETRY_DELAY: Base retry delay in seconds (default: 1)
// - BATCH_TIMEOUT: Per-attempt timeout in seconds (default: 30)
//
// System Configuration:
// - DATA_DIR: Directory for the SQLite database (default: /data)
// - LOG_LEVEL: trace|debug|info|warn|error (default: info)
type Config struct {
	Translator TranslatorConfig `json:"translator"`
	Translate  TranslateConfig  `json:"translate"`
	Batch      BatchConfig      `json:"batch"`
	Processor  ProcessorConfig  `json:"processor"`
	System     SystemConfig     `json:"system"`
}

// TranslatorConfig holds the configuration for the translation service client
type TranslatorConfig struct {
	APIURL  string `json:"api_url"`
	APIKey  string `json:"api_key"`
	Timeout int    `json:"timeout"`
}

type TranslateConfig struct {
	TargetLanguage language.Tag `json:"target_language"`
	CronExpr       string       `json:"cron_expr"`
}

// BatchConfig holds the folder scanning configuration
type BatchConfig struct {
	InputDir        string `json:"input_dir"`
	OutputDir       string `json:"output_dir"`
	ScanOptionsFile string `json:"scan_options_file"`
}

// ProcessorConfig tunes the batch processor. Zero values defer to the
// per-operation policy table.
type ProcessorConfig struct {
	Concurrency   int `json:"concurrency"`
	RetryAttempts int `json:"retry_attempts"`
	RetryDelay    int `json:"retry_delay"`
	Timeout       int `json:"timeout"`
}

func (c ProcessorConfig) RetryDelayDuration() time.Duration {
	return time.Duration(c.RetryDelay) * time.Second
}

func (c ProcessorConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SystemConfig holds the system configuration
type SystemConfig struct {
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`
}

func (c SystemConfig) DatabasePath() string {
	return c.DataDir + "/batchloc.db"
}

// Option is a function type for configuring Config
type Option func(*Config)

// WithTargetLanguage overrides the target language.
func WithTargetLanguage(tag language.Tag) Option {
	return func(c *Config) {
		c.Translate.TargetLanguage = tag
	}
}

// WithInputDir overrides the scan root.
func WithInputDir(dir string) Option {
	return func(c *Config) {
		c.Batch.InputDir = dir
	}
}

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	targetLang, err := language.Parse(getEnvString("TARGET_LANGUAGE", "it"))
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_LANGUAGE: %w", err)
	}

	config := &Config{
		Translator: TranslatorConfig{
			APIURL:  getEnvString("TRANSLATOR_API_URL", ""),
			APIKey:  getEnvString("TRANSLATOR_API_KEY", ""),
			Timeout: getEnvInt("TRANSLATOR_TIMEOUT", 60),
		},
		Translate: TranslateConfig{
			TargetLanguage: targetLang,
			CronExpr:       getEnvString("WATCH_CRON_EXPR", "0 */5 * * * *"),
		},
		Batch: BatchConfig{
			InputDir:        getEnvString("INPUT_DIR", "/input"),
			OutputDir:       getEnvString("OUTPUT_DIR", ""),
			ScanOptionsFile: getEnvString("SCAN_OPTIONS_FILE", ""),
		},
		Processor: ProcessorConfig{
			Concurrency:   getEnvInt("BATCH_CONCURRENCY", 0),
			RetryAttempts: getEnvInt("BATCH_RETRY_ATTEMPTS", 0),
			RetryDelay:    getEnvInt("BATCH_RETRY_DELAY", 1),
			Timeout:       getEnvInt("BATCH_TIMEOUT", 30),
		},
		System: SystemConfig{
			DataDir:  getEnvString("DATA_DIR", "/data"),
			LogLevel: getEnvString("LOG_LEVEL", "info"),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	return config, nil
}

// ValidateTranslator checks the settings the translate and watch paths
// depend on. Scan-only usage never calls this.
func (c *Config) ValidateTranslator() error {
	if c.Translator.APIURL == "" {
		return fmt.Errorf("TRANSLATOR_API_URL is required")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
