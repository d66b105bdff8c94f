package discovery

import (
	"context"

	"devtrack/internal/models"
)

// Source produces the set of devices currently visible on the local
// network. Implementations never return an error: on failure they
// report the condition on the console and yield an empty list, and the
// caller proceeds with no devices.
type Source interface {
	Discover(ctx context.Context) []models.Device
}

// Static is a fixed device list, used when the operator supplies
// devices directly and by tests that script a scan result.
type Static []models.Device

func (s Static) Discover(context.Context) []models.Device {
	out := make([]models.Device, len(s))
	copy(out, s)
	return out
}
