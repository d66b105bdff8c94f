// Package notify delivers anomaly alerts through pluggable channels.
// Channels that are not yet implemented are explicit typed no-ops
// rather than silent placeholders.
package notify

import (
	"context"
	"log"
)

// Channel delivers one notification. Implementations must be safe to
// call from the tracking loop; a failed delivery is the caller's
// problem to log, never to propagate.
type Channel interface {
	// Name identifies the channel in console output.
	Name() string
	Notify(ctx context.Context, subject, body string) error
}

// NullChannel discards every notification. It stands in wherever no
// channel is configured.
type NullChannel struct{}

func (NullChannel) Name() string { return "null" }

func (NullChannel) Notify(context.Context, string, string) error { return nil }

// SMSChannel is a typed placeholder for a future SMS gateway
// integration. It logs the notification and delivers nothing.
type SMSChannel struct {
	PhoneNumber string
}

func (SMSChannel) Name() string { return "sms" }

func (s SMSChannel) Notify(_ context.Context, subject, _ string) error {
	log.Printf("SMS notification to %s not yet supported, dropping %q", s.PhoneNumber, subject)
	return nil
}

// Dispatcher fans a notification out to every configured channel.
// Per-channel failures are logged and swallowed.
type Dispatcher struct {
	channels []Channel
}

// NewDispatcher builds a dispatcher over the given channels.
func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// Dispatch sends the notification through all channels.
func (d *Dispatcher) Dispatch(ctx context.Context, subject, body string) {
	for _, ch := range d.channels {
		if err := ch.Notify(ctx, subject, body); err != nil {
			log.Printf("Failed to send %s notification: %v", ch.Name(), err)
		}
	}
}
