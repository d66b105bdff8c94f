package models

import "time"

// UnknownMAC is recorded when a discovery source cannot resolve a
// device's hardware address.
const UnknownMAC = "Unknown"

// Device is a host found on the local network.
type Device struct {
	IP  string `json:"ip"`
	MAC string `json:"mac"`
}

// Key returns the identity of the device: the IP when known,
// otherwise the MAC.
func (d Device) Key() string {
	if d.IP != "" {
		return d.IP
	}
	return d.MAC
}

// Matches reports whether identifier names this device by either
// address.
func (d Device) Matches(identifier string) bool {
	return identifier != "" && (d.IP == identifier || d.MAC == identifier)
}

// Observation is a single reachability check of a tracked device.
// Field order and names match the on-disk log format, one JSON object
// per line.
type Observation struct {
	Timestamp float64 `json:"timestamp"`
	IP        string  `json:"ip"`
	MAC       string  `json:"mac"`
	Online    bool    `json:"online"`
}

// NewObservation builds an observation stamped with the current time.
func NewObservation(d Device, online bool) Observation {
	mac := d.MAC
	if mac == "" {
		mac = UnknownMAC
	}
	return Observation{
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		IP:        d.IP,
		MAC:       mac,
		Online:    online,
	}
}

// Time converts the epoch-seconds timestamp back to a time.Time.
func (o Observation) Time() time.Time {
	sec := int64(o.Timestamp)
	nsec := int64((o.Timestamp - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}
