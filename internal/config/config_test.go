package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interval.Std() != 60*time.Second {
		t.Errorf("interval = %s, want 60s", cfg.Interval.Std())
	}
	if cfg.Duration.Std() != time.Hour {
		t.Errorf("duration = %s, want 1h", cfg.Duration.Std())
	}
	if cfg.LogPath != "device_log.txt" {
		t.Errorf("log path = %q", cfg.LogPath)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devtrack.yaml")
	data := `
interval: 30s
log_path: /tmp/presence.log
notifications:
  telegram:
    enabled: true
    bot_token: token123
    chat_id: "42"
anomaly:
  offline_streak: 10
  flap_window: 300
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interval.Std() != 30*time.Second {
		t.Errorf("interval = %s, want 30s", cfg.Interval.Std())
	}
	// Unset fields keep their defaults.
	if cfg.Duration.Std() != time.Hour {
		t.Errorf("duration = %s, want default 1h", cfg.Duration.Std())
	}
	if cfg.LogPath != "/tmp/presence.log" {
		t.Errorf("log path = %q", cfg.LogPath)
	}
	if !cfg.Notifications.Telegram.Enabled || cfg.Notifications.Telegram.BotToken != "token123" {
		t.Errorf("telegram config not loaded: %+v", cfg.Notifications.Telegram)
	}
	if cfg.Notifications.Email.Enabled {
		t.Error("email should default to disabled")
	}
	if cfg.Anomaly.OfflineStreak != 10 {
		t.Errorf("offline streak = %d, want 10", cfg.Anomaly.OfflineStreak)
	}
	// Bare numbers are seconds, matching the original config format.
	if cfg.Anomaly.FlapWindow.Std() != 5*time.Minute {
		t.Errorf("flap window = %s, want 5m", cfg.Anomaly.FlapWindow.Std())
	}
}

func TestLoadMalformedDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devtrack.yaml")
	if err := os.WriteFile(path, []byte("interval: banana"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("unparseable duration should fail")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devtrack.yaml")
	if err := os.WriteFile(path, []byte("{unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed config should fail")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("empty path should return defaults, got %+v", cfg)
	}
}
