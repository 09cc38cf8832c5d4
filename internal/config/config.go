// Package config loads textbelt command settings from flags, a config
// file, the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	textbelt "github.com/textbelt-utils/client-go"
)

// EnvPrefix prefixes every environment variable, e.g. TEXTBELT_API_KEY.
const EnvPrefix = "TEXTBELT"

// Keys understood by Load.
const (
	KeyAPIKey           = "api_key"
	KeyBaseURL          = "base_url"
	KeySender           = "sender"
	KeyTimeout          = "timeout"
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
	KeyTestPhone        = "test_phone"
	KeyWebhookAddr      = "webhook_addr"
	KeyWebhookTolerance = "webhook_tolerance"
)

// DefaultConfigName is looked up in the home directory when no config file is given.
const DefaultConfigName = ".textbelt"

// Config holds the resolved settings.
type Config struct {
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url"`
	Sender           string        `mapstructure:"sender"`
	Timeout          time.Duration `mapstructure:"timeout"`
	LogLevel         string        `mapstructure:"log_level"`
	LogFormat        string        `mapstructure:"log_format"`
	TestPhone        string        `mapstructure:"test_phone"`
	WebhookAddr      string        `mapstructure:"webhook_addr"`
	WebhookTolerance time.Duration `mapstructure:"webhook_tolerance"`
}

// New returns a viper instance with defaults and environment binding set up.
// Flags can be bound to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyBaseURL, "https://textbelt.com")
	v.SetDefault(KeySender, "")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyTestPhone, "")
	v.SetDefault(KeyWebhookAddr, ":8080")
	v.SetDefault(KeyWebhookTolerance, textbelt.DefaultWebhookTolerance)
	return v
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are skipped and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configFile, or ~/.textbelt.{yaml,json,toml} when configFile is
// empty, and resolves the settings of v. A missing default file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			v.AddConfigPath(home)
			v.SetConfigName(DefaultConfigName)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("missing API key: set %s_API_KEY or --api-key", EnvPrefix)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.WebhookTolerance < 0 {
		return fmt.Errorf("webhook tolerance must not be negative, got %v", c.WebhookTolerance)
	}
	if c.TestPhone != "" && !textbelt.IsValidE164(c.TestPhone) {
		return fmt.Errorf("test phone %q is not in E.164 format", c.TestPhone)
	}
	return nil
}

// ClientOptions returns the client options described by c.
func (c *Config) ClientOptions(logger logrus.FieldLogger) []textbelt.Option {
	opts := []textbelt.Option{
		textbelt.WithBaseURL(c.BaseURL),
		textbelt.WithTimeout(c.Timeout),
	}
	if c.Sender != "" {
		opts = append(opts, textbelt.WithSender(c.Sender))
	}
	if logger != nil {
		opts = append(opts, textbelt.WithLogger(logger))
	}
	return opts
}

// ConfigPath returns the file the config was read from, if any.
func ConfigPath(v *viper.Viper) string {
	if f := v.ConfigFileUsed(); f != "" {
		return filepath.Clean(f)
	}
	return ""
}
