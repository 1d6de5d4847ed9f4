package blocker

import (
	"context"
	"strings"
	"time"
)

// command is one step of a DNS cache flush.
type command struct {
	name string
	args []string
	// pause is waited after the command runs.
	pause time.Duration
}

// flushPlan lists the commands that invalidate resolver caches on goos.
func flushPlan(goos string, restartPause time.Duration) []command {
	switch goos {
	case "windows":
		return []command{
			{name: "net", args: []string{"stop", "dnscache"}, pause: restartPause},
			{name: "net", args: []string{"start", "dnscache"}},
			{name: "ipconfig", args: []string{"/flushdns"}},
			{name: "nbtstat", args: []string{"-R"}},
			{name: "nbtstat", args: []string{"-RR"}},
		}
	case "darwin":
		return []command{
			{name: "dscacheutil", args: []string{"-flushcache"}},
			{name: "killall", args: []string{"-HUP", "mDNSResponder"}},
		}
	default:
		return []command{
			{name: "resolvectl", args: []string{"flush-caches"}},
			{name: "nscd", args: []string{"-i", "hosts"}},
		}
	}
}

// FlushDNS runs the flush plan. Failures are logged; a missing tool is
// normal on most systems.
func (m *Manager) FlushDNS(ctx context.Context) {
	ok := 0
	for _, c := range flushPlan(m.goos, m.restartPause) {
		out, err := m.runner.Run(ctx, c.name, c.args...)
		if err != nil {
			m.logger.Debug("dns flush step failed",
				"command", c.name+" "+strings.Join(c.args, " "),
				"output", trimOutput(out), "error", err)
		} else {
			ok++
		}
		if c.pause > 0 {
			if err := m.sleep(ctx, c.pause); err != nil {
				return
			}
		}
	}

	if ok == 0 {
		m.logger.Warn("could not flush the DNS cache; blocked sites may resolve until it expires")
		return
	}
	m.logger.Info("dns cache flushed", "steps", ok)
}

func trimOutput(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
