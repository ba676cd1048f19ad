package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/anteater/eventmap/src/logging"
)

// Config is the CLI client configuration, persisted as YAML at
// ~/.config/anteater/eventmap/cli.yml.
type Config struct {
	// Base URL of the event service REST API
	Server string `yaml:"server"`
	// Map tile/style token. Optional: the terminal map renders without
	// one, so a missing token only produces a startup warning.
	MapToken string `yaml:"map_token,omitempty"`
	// Output format: json, table, plain
	Output string `yaml:"output"`
	// Request timeout ceiling in seconds
	Timeout int `yaml:"timeout"`
	// Disable colored output
	NoColor bool `yaml:"no_color,omitempty"`
	// Cron expression for the TUI auto-refresh, e.g. "@every 2m".
	// Empty disables it.
	Refresh string `yaml:"refresh,omitempty"`
	// Debug logging
	Debug bool `yaml:"debug,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server:  "http://localhost:8000",
		Output:  "table",
		Timeout: 30,
	}
}

// LoadConfig loads the configuration from the default config file,
// starting from defaults and applying EVENTMAP_* environment overrides
// on top of whatever the file sets.
func LoadConfig() (*Config, error) {
	return LoadConfigFromPath(ConfigPath())
}

// LoadConfigFromPath loads configuration from an explicit file path.
func LoadConfigFromPath(configPath string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, NewConfigError(fmt.Sprintf("failed to read config: %v", err))
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, NewConfigError(fmt.Sprintf("failed to parse config: %v", err))
		}
	}

	// Environment overrides, pattern EVENTMAP_{KEY}
	if v := os.Getenv("EVENTMAP_API_URL"); v != "" {
		config.Server = v
	}
	if v := os.Getenv("EVENTMAP_MAP_TOKEN"); v != "" {
		config.MapToken = v
	}
	if v := os.Getenv("EVENTMAP_OUTPUT_FORMAT"); v != "" {
		config.Output = v
	}
	if os.Getenv("EVENTMAP_DEBUG") != "" {
		config.Debug = true
	}

	if config.Debug {
		logging.SetLevel(logging.LevelDebug)
	}

	// A missing map token is not fatal, the map renders without tiles.
	if config.MapToken == "" {
		logging.Warn("no map token configured, map tiles disabled")
	}

	return config, nil
}

// SaveConfig saves the configuration to the config file
func SaveConfig(config *Config) error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return NewConfigError(fmt.Sprintf("failed to create config directory: %v", err))
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return NewConfigError(fmt.Sprintf("failed to marshal config: %v", err))
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return NewConfigError(fmt.Sprintf("failed to write config: %v", err))
	}

	return nil
}

// InitConfig initializes a new configuration file
func InitConfig() error {
	configPath := ConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return NewConfigError("config file already exists")
	}

	if err := SaveConfig(DefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	return nil
}

// GetConfigValue returns a specific configuration value
func GetConfigValue(key string) (string, error) {
	config, err := LoadConfig()
	if err != nil {
		return "", err
	}

	switch key {
	case "server":
		return config.Server, nil
	case "map_token":
		return config.MapToken, nil
	case "output":
		return config.Output, nil
	case "timeout":
		return strconv.Itoa(config.Timeout), nil
	case "no_color":
		return strconv.FormatBool(config.NoColor), nil
	case "refresh":
		return config.Refresh, nil
	case "debug":
		return strconv.FormatBool(config.Debug), nil
	default:
		return "", NewConfigError(fmt.Sprintf("unknown config key: %s", key))
	}
}

// SetConfigValue sets a specific configuration value
func SetConfigValue(key, value string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	switch key {
	case "server":
		config.Server = value
	case "map_token":
		config.MapToken = value
	case "output":
		if value != "json" && value != "table" && value != "plain" {
			return NewConfigError("output must be json, table, or plain")
		}
		config.Output = value
	case "timeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return NewConfigError("timeout must be a number of seconds")
		}
		if n < 1 || n > 300 {
			return NewConfigError("timeout must be between 1 and 300 seconds")
		}
		config.Timeout = n
	case "no_color":
		b, err := parseBoolValue(value)
		if err != nil {
			return NewConfigError("no_color must be true or false")
		}
		config.NoColor = b
	case "refresh":
		config.Refresh = value
	case "debug":
		b, err := parseBoolValue(value)
		if err != nil {
			return NewConfigError("debug must be true or false")
		}
		config.Debug = b
	default:
		return NewConfigError(fmt.Sprintf("unknown config key: %s", key))
	}

	return SaveConfig(config)
}

// parseBoolValue parses a boolean string value.
// Supports true/false, yes/no, 1/0, on/off.
func parseBoolValue(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", value)
	}
}
