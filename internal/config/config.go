// Package config loads the application configuration and the device
// inventory. The app config is JSON with ${VAR} environment expansion; the
// inventory is a YAML device list with an environment-variable fallback.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config is the root configuration for netbot.
type Config struct {
	General   GeneralConfig             `json:"general"`
	Providers map[string]ProviderConfig `json:"providers"`
	Channels  ChannelsConfig            `json:"channels"`
	Inventory InventoryConfig           `json:"inventory"`
}

type GeneralConfig struct {
	LogLevel        string `json:"logLevel"`
	MaxIterations   int    `json:"maxIterations"`
	DefaultProvider string `json:"defaultProvider"`
}

type ProviderConfig struct {
	Enabled      bool   `json:"enabled"`
	APIBase      string `json:"apiBase,omitempty"`
	APIKey       string `json:"apiKey,omitempty"`
	DefaultModel string `json:"defaultModel,omitempty"`
}

type ChannelsConfig struct {
	CLI      CLIConfig      `json:"cli"`
	Telegram TelegramConfig `json:"telegram"`
}

type CLIConfig struct {
	Enabled bool `json:"enabled"`
}

type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom,omitempty"`
	ParseMode string   `json:"parseMode,omitempty"`
}

// InventoryConfig points at the device inventory file. When the file is
// missing or empty, the NETBOT_DEVICE_* environment variables take over.
type InventoryConfig struct {
	Path string `json:"path"`
}

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:        "info",
			MaxIterations:   10,
			DefaultProvider: "openai",
		},
		Providers: map[string]ProviderConfig{
			"openai": {
				Enabled:      true,
				APIKey:       "${OPENAI_API_KEY}",
				DefaultModel: "gpt-4o-mini",
			},
			"ollama": {
				Enabled:      false,
				APIBase:      "http://localhost:11434",
				DefaultModel: "llama3.1:8b",
			},
		},
		Channels: ChannelsConfig{
			CLI: CLIConfig{Enabled: true},
			Telegram: TelegramConfig{
				Enabled:   false,
				Token:     "${NETBOT_TELEGRAM_TOKEN}",
				ParseMode: "Markdown",
			},
		},
		Inventory: InventoryConfig{
			Path: filepath.Join(DefaultConfigDir(), "devices.yaml"),
		},
	}
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".netbot"
	}
	return filepath.Join(home, ".netbot")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func Load(path string) (*Config, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset
// or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match
		}
		return val
	})
}

func Validate(cfg *Config) error {
	if cfg.General.MaxIterations <= 0 {
		return fmt.Errorf("general.maxIterations must be positive")
	}
	if cfg.General.DefaultProvider == "" {
		return fmt.Errorf("general.defaultProvider is required")
	}
	if _, ok := cfg.Providers[cfg.General.DefaultProvider]; !ok {
		return fmt.Errorf("general.defaultProvider %q has no providers entry", cfg.General.DefaultProvider)
	}
	if cfg.Channels.Telegram.Enabled && looksUnset(cfg.Channels.Telegram.Token) {
		return fmt.Errorf("channels.telegram.token is required when telegram is enabled")
	}
	return nil
}

// looksUnset reports whether a value is empty or still holds an unexpanded
// ${VAR} placeholder.
func looksUnset(v string) bool {
	return v == "" || strings.HasPrefix(v, "${")
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
