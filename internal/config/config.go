package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Validation modes, one per command.
const (
	ModeAnalyze = "analyze"
	ModeScore   = "score"
	ModeServe   = "serve"
)

// Generation providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds the full application configuration.
type Config struct {
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Generate GenerateConfig `yaml:"generate" mapstructure:"generate"`
	Pricing  PricingConfig  `yaml:"pricing" mapstructure:"pricing"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Access   AccessConfig   `yaml:"access" mapstructure:"access"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// FetchConfig configures the page fetch and the speed check.
type FetchConfig struct {
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64   `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	SlowThresholdSecs float64 `yaml:"slow_threshold_secs" mapstructure:"slow_threshold_secs"`
}

// GenerateConfig selects the text-generation backend.
type GenerateConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"`
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	Model        string `yaml:"model" mapstructure:"model"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	TemplatePath string `yaml:"template_path" mapstructure:"template_path"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PricingConfig overrides per-model token pricing (USD per million tokens).
type PricingConfig struct {
	Anthropic map[string]ModelPricing `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI    map[string]ModelPricing `yaml:"openai" mapstructure:"openai"`
}

// ModelPricing holds per-model token pricing.
type ModelPricing struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port               int      `yaml:"port" mapstructure:"port"`
	RatePerMinute      int      `yaml:"rate_per_minute" mapstructure:"rate_per_minute"`
	CORSOrigins        []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RequestTimeoutSecs int      `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
}

// AccessConfig gates the analyze endpoint behind an email allow-list.
type AccessConfig struct {
	LoginRequired    bool     `yaml:"login_required" mapstructure:"login_required"`
	AuthorizedEmails []string `yaml:"authorized_emails" mapstructure:"authorized_emails"`
}

// Allows reports whether email may use the API. Matching is trimmed and
// case-insensitive. Everyone is allowed when login is not required.
func (a AccessConfig) Allows(email string) bool {
	if !a.LoginRequired {
		return true
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	return slices.ContainsFunc(a.AuthorizedEmails, func(e string) bool {
		return strings.ToLower(strings.TrimSpace(e)) == email
	})
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SITEANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; SiteAnalyzer/1.0)")
	v.SetDefault("fetch.max_body_bytes", 5*1024*1024)
	v.SetDefault("fetch.slow_threshold_secs", 4.0)
	v.SetDefault("generate.provider", ProviderOpenAI)
	v.SetDefault("generate.template_path", "rebuild_prompt_template.txt")
	v.SetDefault("generate.timeout_secs", 60)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_minute", 30)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.request_timeout_secs", 120)
	v.SetDefault("access.login_required", false)
	v.SetDefault("access.authorized_emails", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	cfg.Generate.Provider = strings.ToLower(strings.TrimSpace(cfg.Generate.Provider))
	if strings.TrimSpace(cfg.Generate.APIKey) == "" {
		cfg.Generate.APIKey = providerKeyFromEnv(cfg.Generate.Provider)
	}

	return &cfg, nil
}

// providerEnvKeys names the vendor variable consulted when no key is
// configured for the provider.
var providerEnvKeys = map[string]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

func providerKeyFromEnv(provider string) string {
	name, ok := providerEnvKeys[provider]
	if !ok {
		return ""
	}
	return strings.TrimSpace(os.Getenv(name))
}

// Validate checks that the settings mode needs are present and sane.
// ModeScore skips generation settings; ModeServe checks them only when an
// API key is configured, since the server can run score-only.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case ModeAnalyze:
		errs = append(errs, c.validateGenerate()...)
	case ModeScore:
	case ModeServe:
		if c.Generate.APIKey != "" {
			errs = append(errs, c.validateGenerate()...)
		}
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RatePerMinute <= 0 {
			errs = append(errs, "server.rate_per_minute must be > 0")
		}
		if c.Server.RequestTimeoutSecs <= 0 {
			errs = append(errs, "server.request_timeout_secs must be > 0")
		}
		if c.Access.LoginRequired && len(c.Access.AuthorizedEmails) == 0 {
			errs = append(errs, "access.authorized_emails is required when access.login_required is set")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Fetch.TimeoutSecs <= 0 {
		errs = append(errs, "fetch.timeout_secs must be > 0")
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		errs = append(errs, "fetch.max_body_bytes must be > 0")
	}
	if c.Fetch.SlowThresholdSecs <= 0 {
		errs = append(errs, "fetch.slow_threshold_secs must be > 0")
	}
	if c.Generate.TimeoutSecs < 0 {
		errs = append(errs, "generate.timeout_secs must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateGenerate() []string {
	var errs []string
	switch c.Generate.Provider {
	case ProviderOpenAI, ProviderAnthropic:
		if err := ValidateAPIKey(c.Generate.Provider, c.Generate.APIKey); err != nil {
			errs = append(errs, err.Error())
		}
	default:
		errs = append(errs, fmt.Sprintf("generate.provider must be %q or %q", ProviderOpenAI, ProviderAnthropic))
	}
	return errs
}

// ValidateAPIKey applies the provider's key shape rule. OpenAI keys must
// start with "sk-" and be longer than 20 characters.
func ValidateAPIKey(provider, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return eris.New("generate.api_key is required")
	}
	switch provider {
	case ProviderOpenAI:
		if !strings.HasPrefix(key, "sk-") || len(key) <= 20 {
			return eris.New("generate.api_key must start with \"sk-\" and be longer than 20 characters")
		}
	case ProviderAnthropic:
		if len(key) <= 20 {
			return eris.New("generate.api_key must be longer than 20 characters")
		}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
