package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	LLM    LLMConfig    `mapstructure:"llm"`
	Graph  GraphConfig  `mapstructure:"graph"`
	Layout LayoutConfig `mapstructure:"layout"`
	UI     UIConfig     `mapstructure:"ui"`
	Log    LogConfig    `mapstructure:"log"`
}

// LLMConfig holds provider settings.
type LLMConfig struct {
	Provider          string        `mapstructure:"provider"`
	APIKeyEnv         string        `mapstructure:"api_key_env"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	Temperature       float64       `mapstructure:"temperature"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// GraphConfig controls the expansion guard.
type GraphConfig struct {
	ConcurrentExpansions bool `mapstructure:"concurrent_expansions"`
}

// LayoutConfig holds force simulation parameters.
type LayoutConfig struct {
	LinkDistance  float64 `mapstructure:"link_distance"`
	Charge        float64 `mapstructure:"charge"`
	CollideRadius float64 `mapstructure:"collide_radius"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	FPS   int  `mapstructure:"fps"`
	Mouse bool `mapstructure:"mouse"`
}

// LogConfig points the zap logger at a file. "-" disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

const envPrefix = "MINDMAP"

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(configHome(), "mindmap", "config.toml")
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func stateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state")
}

func newViper(path string) *viper.Viper {
	v := viper.New()

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key_env", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.timeout", time.Duration(0))
	v.SetDefault("llm.requests_per_second", 2.0)
	v.SetDefault("graph.concurrent_expansions", false)
	v.SetDefault("layout.link_distance", 150.0)
	v.SetDefault("layout.charge", -800.0)
	v.SetDefault("layout.collide_radius", 80.0)
	v.SetDefault("ui.fps", 30)
	v.SetDefault("ui.mouse", true)
	v.SetDefault("log.path", filepath.Join(stateHome(), "mindmap", "mindmap.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads configuration from file and env. Env var overrides use prefix MINDMAP_.
// A missing config file is not an error.
func Load(path string) (Config, error) {
	v := newViper(path)
	if err := readIfPresent(v); err != nil {
		return Config{}, err
	}
	return decode(v)
}

func readIfPresent(v *viper.Viper) error {
	if _, err := os.Stat(v.ConfigFileUsed()); err != nil {
		return nil
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return c, nil
}

func (c *Config) normalize() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel(c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.APIKeyEnv) == "" {
		c.LLM.APIKeyEnv = DefaultAPIKeyEnv(c.LLM.Provider)
	}
	if c.UI.FPS <= 0 {
		c.UI.FPS = 30
	}
}

// DefaultModel is the model used when llm.model is unset.
func DefaultModel(provider string) string {
	if provider == "openai" {
		return "gpt-4o-mini"
	}
	return "gemini-3-flash-preview"
}

// DefaultAPIKeyEnv names the env var consulted for the provider's key.
func DefaultAPIKeyEnv(provider string) string {
	if provider == "openai" {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// APIKey resolves the provider credential: the named env var wins over the file value.
func (c Config) APIKey() string {
	if v := strings.TrimSpace(os.Getenv(c.LLM.APIKeyEnv)); v != "" {
		return v
	}
	return strings.TrimSpace(c.LLM.APIKey)
}

// Watch re-reads the config file whenever it changes and hands the result to onChange.
// It returns false when there is no file to watch.
func Watch(path string, onChange func(Config, error)) bool {
	v := newViper(path)
	if _, err := os.Stat(v.ConfigFileUsed()); err != nil {
		return false
	}
	if err := v.ReadInConfig(); err != nil {
		onChange(Config{}, fmt.Errorf("read config: %w", err))
		return false
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(decode(v))
	})
	v.WatchConfig()
	return true
}
