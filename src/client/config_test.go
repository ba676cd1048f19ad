package client

import (
	"os"
	"path/filepath"
	"testing"
)

func testHome(t *testing.T) {
	t.Helper()
	origHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", origHome) })
	os.Setenv("HOME", t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Server != "http://localhost:8000" {
		t.Errorf("Expected default server to be http://localhost:8000, got %s", config.Server)
	}
	if config.Output != "table" {
		t.Errorf("Expected default output to be table, got %s", config.Output)
	}
	if config.Timeout != 30 {
		t.Errorf("Expected default timeout to be 30, got %d", config.Timeout)
	}
	if config.NoColor {
		t.Error("Expected default NoColor to be false")
	}
	if config.MapToken != "" {
		t.Errorf("Expected default map token to be empty, got %s", config.MapToken)
	}
}

func TestConfigPath(t *testing.T) {
	path := ConfigPath()

	if !filepath.IsAbs(path) {
		t.Errorf("Expected absolute path, got %s", path)
	}
	if filepath.Base(path) != "cli.yml" {
		t.Errorf("Expected filename to be cli.yml, got %s", filepath.Base(path))
	}
}

func TestLoadConfigNonExistent(t *testing.T) {
	testHome(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	// Should return default config
	if config.Server != "http://localhost:8000" {
		t.Errorf("Expected default server, got %s", config.Server)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	testHome(t)

	config := &Config{
		Server:   "http://test.example.com",
		MapToken: "pk.test",
		Output:   "json",
		Timeout:  60,
		NoColor:  true,
		Refresh:  "@every 2m",
	}

	if err := SaveConfig(config); err != nil {
		t.Fatalf("SaveConfig() failed: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if loaded.Server != config.Server {
		t.Errorf("Expected server %s, got %s", config.Server, loaded.Server)
	}
	if loaded.MapToken != config.MapToken {
		t.Errorf("Expected map token %s, got %s", config.MapToken, loaded.MapToken)
	}
	if loaded.Output != config.Output {
		t.Errorf("Expected output %s, got %s", config.Output, loaded.Output)
	}
	if loaded.Timeout != config.Timeout {
		t.Errorf("Expected timeout %d, got %d", config.Timeout, loaded.Timeout)
	}
	if loaded.NoColor != config.NoColor {
		t.Errorf("Expected NoColor %t, got %t", config.NoColor, loaded.NoColor)
	}
	if loaded.Refresh != config.Refresh {
		t.Errorf("Expected refresh %s, got %s", config.Refresh, loaded.Refresh)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	testHome(t)

	t.Setenv("EVENTMAP_API_URL", "http://env.example.com")
	t.Setenv("EVENTMAP_OUTPUT_FORMAT", "plain")
	t.Setenv("EVENTMAP_MAP_TOKEN", "pk.env")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Server != "http://env.example.com" {
		t.Errorf("EVENTMAP_API_URL not applied, got %s", config.Server)
	}
	if config.Output != "plain" {
		t.Errorf("EVENTMAP_OUTPUT_FORMAT not applied, got %s", config.Output)
	}
	if config.MapToken != "pk.env" {
		t.Errorf("EVENTMAP_MAP_TOKEN not applied, got %s", config.MapToken)
	}
}

func TestInitConfig(t *testing.T) {
	testHome(t)

	if err := InitConfig(); err != nil {
		t.Fatalf("InitConfig() failed: %v", err)
	}

	if _, err := os.Stat(ConfigPath()); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	// Initializing again must fail with a config error
	err := InitConfig()
	if err == nil {
		t.Error("Expected error when initializing existing config")
	}
	if exitErr, ok := err.(*ExitError); ok {
		if exitErr.Code != ExitConfigError {
			t.Errorf("Expected ExitConfigError, got exit code %d", exitErr.Code)
		}
	} else {
		t.Error("Expected ExitError type")
	}
}

func TestGetConfigValue(t *testing.T) {
	testHome(t)

	SaveConfig(&Config{
		Server:  "http://test.example.com",
		Output:  "json",
		Timeout: 45,
		NoColor: true,
	})

	tests := []struct {
		key      string
		expected string
	}{
		{"server", "http://test.example.com"},
		{"output", "json"},
		{"timeout", "45"},
		{"no_color", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			value, err := GetConfigValue(tt.key)
			if err != nil {
				t.Fatalf("GetConfigValue(%s) failed: %v", tt.key, err)
			}
			if value != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, value)
			}
		})
	}

	if _, err := GetConfigValue("invalid_key"); err == nil {
		t.Error("Expected error for invalid key")
	}
}

func TestSetConfigValue(t *testing.T) {
	testHome(t)
	InitConfig()

	tests := []struct {
		key   string
		value string
	}{
		{"server", "http://new.example.com"},
		{"map_token", "pk.new"},
		{"output", "json"},
		{"timeout", "60"},
		{"no_color", "true"},
		{"refresh", "@every 5m"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := SetConfigValue(tt.key, tt.value); err != nil {
				t.Fatalf("SetConfigValue(%s, %s) failed: %v", tt.key, tt.value, err)
			}

			value, err := GetConfigValue(tt.key)
			if err != nil {
				t.Fatalf("GetConfigValue(%s) failed: %v", tt.key, err)
			}
			if value != tt.value {
				t.Errorf("Expected %s, got %s", tt.value, value)
			}
		})
	}
}

func TestSetConfigValueValidation(t *testing.T) {
	testHome(t)
	InitConfig()

	if err := SetConfigValue("output", "invalid"); err == nil {
		t.Error("Expected error for invalid output format")
	}
	if err := SetConfigValue("timeout", "abc"); err == nil {
		t.Error("Expected error for invalid timeout")
	}
	if err := SetConfigValue("timeout", "500"); err == nil {
		t.Error("Expected error for timeout out of range")
	}
	if err := SetConfigValue("no_color", "maybe"); err == nil {
		t.Error("Expected error for invalid no_color value")
	}
	if err := SetConfigValue("invalid_key", "value"); err == nil {
		t.Error("Expected error for invalid key")
	}
}
