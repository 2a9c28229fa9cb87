package netcheck

import (
	"context"
	"net"
	"time"
)

// Prober answers "can we reach the API host right now" with a cheap bounded
// TCP dial. Offline is a state, not an error, so the answer is only a bool.
type Prober struct {
	addr    string
	timeout time.Duration
}

func NewProber(addr string, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Prober{addr: addr, timeout: timeout}
}

func (p *Prober) Online(ctx context.Context) bool {
	d := net.Dialer{Timeout: p.timeout}
	conn, err := d.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
