// Package config loads the devtrack configuration file. All settings
// travel in an explicit Config value handed to constructors; there is
// no process-wide configuration state.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML accepts both "90s" strings and
// plain numbers of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// Std converts back to the standard duration type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the complete devtrack configuration.
type Config struct {
	// Interval between reachability checks.
	Interval Duration `yaml:"interval"`
	// Duration of a tracking run.
	Duration Duration `yaml:"duration"`
	// LogPath is the append-only observation log.
	LogPath string `yaml:"log_path"`
	// Subnet scanned by the nmap fallback source.
	Subnet string `yaml:"subnet"`
	// Geo enables the public-IP geolocation lookup at startup.
	Geo bool `yaml:"geo"`

	Notifications Notifications `yaml:"notifications"`

	Anomaly Anomaly `yaml:"anomaly"`
}

// Notifications configures the alert channels. A channel with
// Enabled=false (or absent) is replaced by a typed no-op.
type Notifications struct {
	Email    Email    `yaml:"email"`
	SMS      SMS      `yaml:"sms"`
	Telegram Telegram `yaml:"telegram"`
}

// Email is the SMTP channel configuration.
type Email struct {
	Enabled   bool   `yaml:"enabled"`
	Server    string `yaml:"smtp_server"`
	Port      int    `yaml:"smtp_port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"`
}

// SMS is the (not yet implemented) SMS gateway configuration.
type SMS struct {
	Enabled     bool   `yaml:"enabled"`
	PhoneNumber string `yaml:"phone_number"`
}

// Telegram is the bot API channel configuration.
type Telegram struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// Anomaly holds the presence anomaly thresholds.
type Anomaly struct {
	FlapThreshold int      `yaml:"flap_threshold"`
	FlapWindow    Duration `yaml:"flap_window"`
	OfflineStreak int      `yaml:"offline_streak"`
	Cooldown      Duration `yaml:"cooldown"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Interval: Duration(60 * time.Second),
		Duration: Duration(time.Hour),
		LogPath:  "device_log.txt",
		Subnet:   "192.168.1.0/24",
	}
}

// Load reads path and overlays it on the defaults. A missing file is
// not an error: the defaults apply. A malformed file is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Zero values fall back to defaults so a partial file stays valid.
	def := Default()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Duration <= 0 {
		cfg.Duration = def.Duration
	}
	if cfg.LogPath == "" {
		cfg.LogPath = def.LogPath
	}
	if cfg.Subnet == "" {
		cfg.Subnet = def.Subnet
	}
	return cfg, nil
}
