// Package tracker runs the presence-polling loop: one device, one
// reachability check per interval, for a bounded duration, every
// observation appended to the durable log.
package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"devtrack/internal/logstore"
	"devtrack/internal/models"
	"devtrack/internal/probe"
)

// State of a tracking run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Config bounds a tracking run.
type Config struct {
	// Interval between reachability checks. Defaults to 60s.
	Interval time.Duration
	// Duration of the whole run. Defaults to 1h.
	Duration time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 60 * time.Second
	}
	if c.Duration <= 0 {
		c.Duration = time.Hour
	}
	return c
}

// Observer is called after each observation is recorded. Used to feed
// the anomaly detector and the live view.
type Observer func(models.Observation)

// Tracker polls a single device. One Tracker tracks exactly one
// device for one run; Run may be called once.
type Tracker struct {
	device    models.Device
	prober    probe.Prober
	store     *logstore.Store
	cfg       Config
	observers []Observer

	mu           sync.Mutex
	state        State
	runID        string
	started      time.Time
	observations []models.Observation
}

// New builds a tracker for device. store may be nil to disable the
// durable log (used by the summary-only path and some tests).
func New(device models.Device, prober probe.Prober, store *logstore.Store, cfg Config, observers ...Observer) *Tracker {
	return &Tracker{
		device:    device,
		prober:    prober,
		store:     store,
		cfg:       cfg.withDefaults(),
		observers: observers,
	}
}

// Device returns the tracked device.
func (t *Tracker) Device() models.Device { return t.device }

// State returns the current run state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// RunID identifies the run; empty until Run starts.
func (t *Tracker) RunID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runID
}

// Started returns when the run began.
func (t *Tracker) Started() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started
}

// Remaining is how much of the run duration is left.
func (t *Tracker) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateRunning {
		return 0
	}
	left := t.cfg.Duration - time.Since(t.started)
	if left < 0 {
		return 0
	}
	return left
}

// Observations returns a snapshot of the observations recorded so
// far, in tick order.
func (t *Tracker) Observations() []models.Observation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Observation, len(t.observations))
	copy(out, t.observations)
	return out
}

// Run executes the polling loop until the configured duration elapses
// or ctx is cancelled. A single failed check or log write never ends
// the run; the next tick proceeds after the interval sleep.
func (t *Tracker) Run(ctx context.Context) error {
	t.mu.Lock()
	t.state = StateRunning
	t.runID = uuid.NewString()
	t.started = time.Now()
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.state = StateCompleted
		t.mu.Unlock()
	}()

	log.Printf("Starting tracking run %s for device ip=%s mac=%s (interval=%s duration=%s)",
		t.RunID(), t.device.IP, t.device.MAC, t.cfg.Interval, t.cfg.Duration)

	for time.Since(t.Started()) < t.cfg.Duration {
		t.tick(ctx)

		select {
		case <-ctx.Done():
			log.Printf("Tracking run %s cancelled", t.RunID())
			return ctx.Err()
		case <-time.After(t.cfg.Interval):
		}
	}

	log.Printf("Tracking run %s completed with %d observations", t.RunID(), len(t.Observations()))
	return nil
}

// tick performs one reachability check and records the result. A
// probe invocation error is reported and recorded as offline; a log
// write error drops the tick entirely so the in-memory record never
// gets ahead of the file.
func (t *Tracker) tick(ctx context.Context) {
	online, err := t.prober.Probe(ctx, t.device.IP)
	if err != nil {
		log.Printf("Error tracking device %s: %v", t.device.IP, err)
		online = false
	}

	obs := models.NewObservation(t.device, online)

	if t.store != nil {
		if err := t.store.Append(obs); err != nil {
			log.Printf("Error writing device log: %v", err)
			return
		}
	}

	t.mu.Lock()
	t.observations = append(t.observations, obs)
	t.mu.Unlock()

	status := "Offline"
	if obs.Online {
		status = "Online"
	}
	log.Printf("Device %s status: %s", t.device.IP, status)

	for _, fn := range t.observers {
		fn(obs)
	}
}
