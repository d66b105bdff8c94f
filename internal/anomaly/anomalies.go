package anomaly

import (
	"fmt"
	"sync"
	"time"

	"devtrack/internal/models"
)

// Type classifies a detected anomaly.
type Type string

const (
	TypeFlapping        Type = "FLAPPING"
	TypeExtendedOffline Type = "EXTENDED_OFFLINE"
)

// Config holds thresholds for the presence anomaly rules.
type Config struct {
	// FlapThreshold is the number of online/offline transitions inside
	// FlapWindow that counts as flapping.
	FlapThreshold int
	FlapWindow    time.Duration
	// OfflineStreak is how many consecutive offline observations raise
	// an extended-offline alert.
	OfflineStreak int
	// Cooldown throttles repeated alerts of the same type for the same
	// device.
	Cooldown time.Duration
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		FlapThreshold: 4,
		FlapWindow:    10 * time.Minute,
		OfflineStreak: 5,
		Cooldown:      15 * time.Minute,
	}
}

// Alert is a detected presence anomaly.
type Alert struct {
	Type      Type
	Device    string // IP or identity of the device
	Message   string
	Timestamp time.Time
}

// Detector watches an observation stream for flapping devices and
// extended offline streaks.
type Detector struct {
	mu sync.Mutex

	config Config

	transitions   map[string][]time.Time // device -> recent state changes
	lastOnline    map[string]bool
	seen          map[string]bool
	offlineStreak map[string]int
	lastAlert     map[string]time.Time // "type/device" -> last alert time

	// Alert history, newest last, capped at maxAlerts.
	alerts    []Alert
	maxAlerts int

	// Alerts raised by the Process call in flight.
	pending []Alert
}

// NewDetector creates a detector with the given thresholds.
func NewDetector(cfg Config) *Detector {
	return &Detector{
		config:        cfg,
		transitions:   make(map[string][]time.Time),
		lastOnline:    make(map[string]bool),
		seen:          make(map[string]bool),
		offlineStreak: make(map[string]int),
		lastAlert:     make(map[string]time.Time),
		maxAlerts:     20,
	}
}

// Process feeds one observation through the rules and returns any
// alerts it raised, so the caller can dispatch notifications.
func (d *Detector) Process(obs models.Observation) []Alert {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := obs.IP
	if key == "" {
		key = obs.MAC
	}
	now := obs.Time()

	d.pending = nil
	d.detectFlapping(key, obs.Online, now)
	d.detectExtendedOffline(key, obs.Online, now)
	return d.pending
}

func (d *Detector) detectFlapping(key string, online bool, now time.Time) {
	if d.seen[key] && d.lastOnline[key] != online {
		d.transitions[key] = append(d.transitions[key], now)
	}
	d.seen[key] = true
	d.lastOnline[key] = online

	// Drop transitions outside the window.
	recent := d.transitions[key][:0]
	for _, t := range d.transitions[key] {
		if now.Sub(t) <= d.config.FlapWindow {
			recent = append(recent, t)
		}
	}
	d.transitions[key] = recent

	if len(recent) >= d.config.FlapThreshold {
		d.raise(Alert{
			Type:      TypeFlapping,
			Device:    key,
			Message:   fmt.Sprintf("Device %s changed state %d times in %s", key, len(recent), d.config.FlapWindow),
			Timestamp: now,
		})
		d.transitions[key] = nil
	}
}

func (d *Detector) detectExtendedOffline(key string, online bool, now time.Time) {
	if online {
		d.offlineStreak[key] = 0
		return
	}
	d.offlineStreak[key]++
	if d.offlineStreak[key] >= d.config.OfflineStreak {
		d.raise(Alert{
			Type:      TypeExtendedOffline,
			Device:    key,
			Message:   fmt.Sprintf("Device %s offline for %d consecutive checks", key, d.offlineStreak[key]),
			Timestamp: now,
		})
		d.offlineStreak[key] = 0
	}
}

// raise records an alert unless the same type fired for the same
// device inside the cooldown window.
func (d *Detector) raise(alert Alert) {
	key := string(alert.Type) + "/" + alert.Device
	if last, ok := d.lastAlert[key]; ok && alert.Timestamp.Sub(last) < d.config.Cooldown {
		return
	}
	d.lastAlert[key] = alert.Timestamp
	d.pending = append(d.pending, alert)

	d.alerts = append(d.alerts, alert)
	if len(d.alerts) > d.maxAlerts {
		d.alerts = d.alerts[len(d.alerts)-d.maxAlerts:]
	}
}

// RecentAlerts returns up to limit of the most recent alerts, oldest
// first.
func (d *Detector) RecentAlerts(limit int) []Alert {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.alerts) == 0 {
		return []Alert{}
	}
	start := 0
	if len(d.alerts) > limit {
		start = len(d.alerts) - limit
	}
	result := make([]Alert, len(d.alerts)-start)
	copy(result, d.alerts[start:])
	return result
}
