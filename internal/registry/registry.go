// Package registry keeps the list of devices the operator has chosen
// to monitor.
package registry

import (
	"context"
	"log"

	"devtrack/internal/discovery"
	"devtrack/internal/models"
)

// Registry is an ordered list of tracked devices, unique on the device
// identity key (IP when known, MAC otherwise). It is not safe for
// concurrent use; the tracking flow is single-threaded.
type Registry struct {
	source  discovery.Source
	devices []models.Device
}

// New builds a registry that resolves identifiers against src.
func New(src discovery.Source) *Registry {
	return &Registry{source: src}
}

// Add resolves identifier against a fresh discovery scan and, when a
// device matches by IP or MAC, appends it. It returns false for an
// empty identifier, an already-tracked device, or an identifier absent
// from the scan; the registry is unchanged in every false case.
func (r *Registry) Add(ctx context.Context, identifier string) bool {
	if identifier == "" {
		log.Print("Invalid device identifier")
		return false
	}

	for _, d := range r.devices {
		if d.Key() == identifier {
			log.Print("Device is already being tracked")
			return false
		}
	}

	for _, d := range r.source.Discover(ctx) {
		if d.Matches(identifier) {
			// The identifier may be the MAC of a device tracked by IP;
			// uniqueness holds on the identity key either way.
			for _, existing := range r.devices {
				if existing.Key() == d.Key() {
					log.Print("Device is already being tracked")
					return false
				}
			}
			r.devices = append(r.devices, d)
			log.Printf("Added device to tracking: ip=%s mac=%s", d.IP, d.MAC)
			return true
		}
	}

	log.Printf("Could not find device %s on network", identifier)
	return false
}

// Devices returns the tracked devices in insertion order.
func (r *Registry) Devices() []models.Device {
	out := make([]models.Device, len(r.devices))
	copy(out, r.devices)
	return out
}
