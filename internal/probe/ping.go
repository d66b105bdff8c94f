package probe

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strconv"
)

// PingProber shells out to the platform ping utility. The host counts
// as online when the process exits zero.
type PingProber struct {
	// Count is the number of echo requests per probe. Defaults to 4.
	Count int
}

func (p *PingProber) Probe(ctx context.Context, ip string) (bool, error) {
	cmd := exec.CommandContext(ctx, "ping", pingArgs(runtime.GOOS, p.count(), ip)...)
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ping ran and reported the host unreachable.
		return false, nil
	}
	// The tool itself could not be invoked.
	return false, err
}

func (p *PingProber) count() int {
	if p.Count <= 0 {
		return 4
	}
	return p.Count
}

// pingArgs builds the argument list for the platform ping. Windows
// takes -n for the echo count, everything else takes -c.
func pingArgs(goos string, count int, ip string) []string {
	flag := "-c"
	if goos == "windows" {
		flag = "-n"
	}
	return []string{flag, strconv.Itoa(count), ip}
}
