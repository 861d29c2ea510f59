package sync

import (
	"context"
	"net"
	"time"
)

// Connectivity reports whether the remote system is reachable.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// DialChecker probes reachability with a TCP dial.
type DialChecker struct {
	Addr    string
	Timeout time.Duration
}

func (d DialChecker) Online(ctx context.Context) bool {
	timeout := d.Timeout
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}
	conn, err := net.DialTimeout("tcp", d.Addr, timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Static is a fixed connectivity answer, for tests and for deployments that
// skip the probe.
type Static bool

func (s Static) Online(context.Context) bool { return bool(s) }
