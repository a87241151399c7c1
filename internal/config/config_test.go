package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
	if cfg.REST.BaseURL != "https://api.kucoin.com" {
		t.Fatalf("base_url = %q", cfg.REST.BaseURL)
	}
	if cfg.Poll.Accounts != 15*time.Second {
		t.Fatalf("poll.accounts = %s", cfg.Poll.Accounts)
	}
	if cfg.Poll.Tickers != 5*time.Second {
		t.Fatalf("poll.tickers = %s", cfg.Poll.Tickers)
	}
	if cfg.Scheduler.Interval != time.Second {
		t.Fatalf("scheduler.interval = %s", cfg.Scheduler.Interval)
	}
	if cfg.Journal.SQLitePath == "" {
		t.Fatalf("journal path default missing")
	}
	if cfg.Announce.Period != 100*time.Second {
		t.Fatalf("announce.period = %s", cfg.Announce.Period)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
rest:
  base_url: https://sandbox.example.com
telegram:
  enabled: true
  token: tok
  chat_id: "123"
  operator_allowed_user_ids: [42]
announce:
  enabled: true
  types: [new-listings]
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.REST.BaseURL != "https://sandbox.example.com" {
		t.Fatalf("base_url = %q", cfg.REST.BaseURL)
	}
	if len(cfg.Telegram.OperatorAllowedUserIDs) != 1 || cfg.Telegram.OperatorAllowedUserIDs[0] != 42 {
		t.Fatalf("allowed users = %v", cfg.Telegram.OperatorAllowedUserIDs)
	}
	if !cfg.Announce.Enabled || len(cfg.Announce.Types) != 1 {
		t.Fatalf("announce = %+v", cfg.Announce)
	}
}

func TestPollDefaultsLeaveOverridesAlone(t *testing.T) {
	cfg := &Config{Poll: PollConfig{Tickers: 2 * time.Second}}
	applyDefaults(cfg)
	if cfg.Poll.Tickers != 2*time.Second {
		t.Fatalf("poll.tickers = %s", cfg.Poll.Tickers)
	}
	if cfg.Poll.LendingOrders != 20*time.Second {
		t.Fatalf("poll.lending_orders = %s", cfg.Poll.LendingOrders)
	}
}

func TestLoadRejectsTelegramWithoutToken(t *testing.T) {
	if _, err := Load(writeConfig(t, "telegram:\n  enabled: true\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("KUCOIN_API_KEY", "key")
	t.Setenv("KUCOIN_API_SECRET", "secret")
	t.Setenv("KUCOIN_API_PASSPHRASE", "pass")
	t.Setenv("KUCOIN_API_KEY_VERSION", "")

	creds, err := CredentialsFromEnv()
	if err != nil {
		t.Fatalf("CredentialsFromEnv: %v", err)
	}
	if creds.KeyVersion != "2" {
		t.Fatalf("key version default = %q", creds.KeyVersion)
	}

	t.Setenv("KUCOIN_API_SECRET", "")
	if _, err := CredentialsFromEnv(); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}
