// Package mode decides between generative and offline question delivery.
// It is deliberately thin: a connectivity probe and nothing else.
package mode

import (
	"context"
	"net"
	"os"
	"time"
)

// Prober reports whether the generative providers are reachable.
type Prober interface {
	IsOnline(ctx context.Context) bool
}

// DialProber probes connectivity by opening a TCP connection to a
// well-known address.
type DialProber struct {
	Addr    string
	Timeout time.Duration
}

// NewDialProber builds a DialProber from the environment, defaulting to
// a public endpoint on port 443.
func NewDialProber() *DialProber {
	addr := os.Getenv("QUIZFORGE_PROBE_ADDR")
	if addr == "" {
		addr = "api.openai.com:443"
	}
	return &DialProber{Addr: addr, Timeout: 2 * time.Second}
}

func (p *DialProber) IsOnline(ctx context.Context) bool {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Static is a Prober with a fixed answer. Used in tests and to force a
// mode from configuration.
type Static bool

func (s Static) IsOnline(context.Context) bool { return bool(s) }
