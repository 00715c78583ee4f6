package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider names for the gateway client.
const (
	ProviderRelay  = "relay"
	ProviderClaude = "claude"
)

// Store modes.
const (
	StoreModeFile = "file"
	StoreModeHTTP = "http"
)

// Config holds the whole application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Anthropic AnthropicConfig `mapstructure:"anthropic" yaml:"anthropic"`
	Store     StoreConfig     `mapstructure:"store" yaml:"store"`
}

// LoggerConfig configures zap and the optional rotating log file.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to color names for the console encoder.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// ServerConfig configures the relay and session API.
type ServerConfig struct {
	Addr             string        `mapstructure:"addr" yaml:"addr"`
	SessionDir       string        `mapstructure:"session_dir" yaml:"session_dir"`
	UpstreamURL      string        `mapstructure:"upstream_url" yaml:"upstream_url"`
	AnthropicVersion string        `mapstructure:"anthropic_version" yaml:"anthropic_version"`
	UpstreamTimeout  time.Duration `mapstructure:"upstream_timeout" yaml:"upstream_timeout"`
	RelayRPS         float64       `mapstructure:"relay_rps" yaml:"relay_rps"`
	RelayBurst       int           `mapstructure:"relay_burst" yaml:"relay_burst"`
	CORSOrigins      []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LLMConfig configures the gateway client used by the wizard.
type LLMConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider"`
	RelayURL string        `mapstructure:"relay_url" yaml:"relay_url"`
	Model    string        `mapstructure:"model" yaml:"model"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// AnthropicConfig holds the process-wide API credentials.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"-"`
}

// StoreConfig selects where CLI commands persist sessions.
type StoreConfig struct {
	Mode    string        `mapstructure:"mode" yaml:"mode"`
	Dir     string        `mapstructure:"dir" yaml:"dir"`
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "actionplan")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	v.SetDefault("server.addr", ":3001")
	v.SetDefault("server.session_dir", "sessions")
	v.SetDefault("server.upstream_url", "https://api.anthropic.com/v1/messages")
	v.SetDefault("server.anthropic_version", "2023-06-01")
	v.SetDefault("server.upstream_timeout", 60*time.Second)
	v.SetDefault("server.relay_rps", 2.0)
	v.SetDefault("server.relay_burst", 5)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("llm.provider", ProviderRelay)
	v.SetDefault("llm.relay_url", "http://localhost:3001")
	v.SetDefault("llm.model", "claude-sonnet-4-20250514")
	v.SetDefault("llm.timeout", 20*time.Second)

	v.SetDefault("anthropic.api_key", "")

	v.SetDefault("store.mode", StoreModeFile)
	v.SetDefault("store.dir", "sessions")
	v.SetDefault("store.url", "http://localhost:3001")
	v.SetDefault("store.timeout", 10*time.Second)
}

// New returns a viper instance wired for defaults and environment overrides.
// Keys map to ACTIONPLAN_<SECTION>_<KEY>; ANTHROPIC_API_KEY is also honored.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("ACTIONPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("anthropic.api_key", "ACTIONPLAN_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	return v
}

// NewDefaultConfig returns the defaults without reading any file or env.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// Defaults always decode.
		panic(fmt.Sprintf("config: decode defaults: %v", err))
	}
	return cfg
}

// Load reads the optional YAML file at path on top of defaults and env.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfigFromViper decodes v into a Config.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case ProviderRelay:
		if c.LLM.RelayURL == "" {
			errs = append(errs, errors.New("llm.relay_url is required for the relay provider"))
		}
	case ProviderClaude:
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderRelay, ProviderClaude, c.LLM.Provider))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm.timeout must be a positive duration"))
	}

	switch c.Store.Mode {
	case StoreModeFile:
		if c.Store.Dir == "" {
			errs = append(errs, errors.New("store.dir is required for file mode"))
		}
	case StoreModeHTTP:
		if c.Store.URL == "" {
			errs = append(errs, errors.New("store.url is required for http mode"))
		}
		if c.Store.Timeout <= 0 {
			errs = append(errs, errors.New("store.timeout must be a positive duration"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.mode must be %q or %q, got %q", StoreModeFile, StoreModeHTTP, c.Store.Mode))
	}

	if c.Server.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("server.upstream_timeout must be a positive duration"))
	}
	if c.Server.RelayRPS <= 0 || c.Server.RelayBurst <= 0 {
		errs = append(errs, errors.New("server.relay_rps and server.relay_burst must be positive"))
	}

	return errors.Join(errs...)
}
