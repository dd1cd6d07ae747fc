package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.ProviderURL != DefaultProviderURL {
		t.Errorf("Expected provider URL '%s', got '%s'", DefaultProviderURL, cfg.ProviderURL)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("Expected worker count 4, got %d", cfg.WorkerCount)
	}
	if cfg.PresetsDir != "./presets" {
		t.Errorf("Expected presets dir './presets', got '%s'", cfg.PresetsDir)
	}
	if cfg.UserAgent != "RSS Ticker/1.0" {
		t.Errorf("Expected user agent 'RSS Ticker/1.0', got '%s'", cfg.UserAgent)
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadArgsFlagsAndEnv(t *testing.T) {
	t.Setenv("PROVIDER_API_KEY", "env-key")

	cfg, err := LoadArgs([]string{"--port", "9090", "--worker-count", "0", "--debug", "--log-format", "json"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 1 {
		t.Errorf("Expected worker count clamped to 1, got %d", cfg.WorkerCount)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("Expected log format 'json', got '%s'", cfg.LogFormat)
	}
	if cfg.ProviderAPIKey != "env-key" {
		t.Errorf("Expected provider API key 'env-key', got '%s'", cfg.ProviderAPIKey)
	}
}

func TestLoadArgsRejectsUnknownLogFormat(t *testing.T) {
	if _, err := LoadArgs([]string{"--log-format", "xml"}); err == nil {
		t.Error("Expected error for unsupported log format")
	}
}
