package blocker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// PolicyFile is the managed-policy file written into browser policy
// directories.
const PolicyFile = "focusguard-doh.json"

var errUnsupported = errors.New("not supported on this platform")

// DefaultPolicyDirs are the managed-policy directories of Chrome,
// Chromium and Edge on Linux.
func DefaultPolicyDirs() []string {
	return []string{
		"/etc/opt/chrome/policies/managed",
		"/etc/chromium/policies/managed",
		"/etc/opt/edge/policies/managed",
	}
}

// DisableDoH turns off DNS-over-HTTPS so browsers resolve through the
// hosts file. Failures are logged.
func (m *Manager) DisableDoH(ctx context.Context) {
	if m.goos == "windows" {
		if err := disableSystemDoH(); err != nil {
			m.logger.Warn("could not disable DNS-over-HTTPS", "error", err)
			return
		}
		m.logger.Info("DNS-over-HTTPS disabled for the system, Chrome and Edge")
		return
	}

	n, err := writeBrowserPolicies(m.policyDirs)
	if err != nil {
		m.logger.Warn("could not write browser DNS-over-HTTPS policy", "error", err)
	}
	if n > 0 {
		m.logger.Info("browser DNS-over-HTTPS disabled", "policies", n)
	}
}

// writeBrowserPolicies writes the DoH-off policy into each directory whose
// browser is installed, that is whose grandparent directory exists. It
// returns the number of files written.
func writeBrowserPolicies(dirs []string) (int, error) {
	data, err := json.MarshalIndent(map[string]string{"DnsOverHttpsMode": "off"}, "", "  ")
	if err != nil {
		return 0, err
	}

	n := 0
	var errs []error
	for _, dir := range dirs {
		if _, err := os.Stat(filepath.Dir(filepath.Dir(dir))); err != nil {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, PolicyFile), append(data, '\n'), 0o644); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}
