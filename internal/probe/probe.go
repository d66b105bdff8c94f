// Package probe answers the question "is this host reachable right
// now". A probe distinguishes an unreachable host (online=false, nil
// error) from a failure to run the check at all (non-nil error); the
// caller decides how to record the latter.
package probe

import "context"

// Prober checks reachability of a single IP address.
type Prober interface {
	Probe(ctx context.Context, ip string) (online bool, err error)
}

// Func adapts a function to the Prober interface.
type Func func(ctx context.Context, ip string) (bool, error)

func (f Func) Probe(ctx context.Context, ip string) (bool, error) {
	return f(ctx, ip)
}
