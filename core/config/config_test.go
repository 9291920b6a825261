package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "telegram:\n  token: \"123:abc\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("RunMode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.Storage.Driver != StorageDriverFile {
		t.Fatalf("Storage.Driver = %q, want %q", cfg.Storage.Driver, StorageDriverFile)
	}
	if cfg.Storage.Path != "state/subscribers.json" {
		t.Fatalf("Storage.Path = %q, want default", cfg.Storage.Path)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
storage:
  driver: file
`)
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("COMMANDS_SUBSCRIBE_ALIASES", "🔔 Subscribe,  ,Abonnieren")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != StorageDriverMemory {
		t.Fatalf("Storage.Driver = %q, want memory from env", cfg.Storage.Driver)
	}
	want := []string{"🔔 Subscribe", "Abonnieren"}
	if !reflect.DeepEqual(cfg.Commands.SubscribeAliases, want) {
		t.Fatalf("SubscribeAliases = %v, want %v", cfg.Commands.SubscribeAliases, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load of missing file succeeded")
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	if err := Normalize(&Config{}); err == nil {
		t.Fatal("Normalize accepted an empty token")
	}
}

func TestNormalizeWebhookMode(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("webhook mode accepted without url/listen/port")
	}

	cfg.Webhook.URL = "https://bot.example.com/hook"
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
}

func TestNormalizeRunModeAliases(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.RunMode = "Polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("RunMode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}

	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Fatal("invalid run mode accepted")
	}
}

func TestNormalizeStorage(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Storage.Driver = "postgres"
	if err := Normalize(cfg); err == nil {
		t.Fatal("postgres driver accepted without database host")
	}

	cfg.Database.Host = "db.internal"
	cfg.Database.Name = "kinobot"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	cfg.Storage.Driver = "floppy"
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown storage driver accepted")
	}
}

func TestNormalizeRateLimitExcludes(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.RateLimit.ExcludeUpdates = []string{" Message "}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateMessage {
		t.Fatalf("ExcludeUpdates[0] = %q, want %q", cfg.RateLimit.ExcludeUpdates[0], UpdateMessage)
	}

	cfg.RateLimit.ExcludeUpdates = []string{"callback_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("unsupported exclude value accepted")
	}
}
