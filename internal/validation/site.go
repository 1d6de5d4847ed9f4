package validation

import (
	"fmt"
	"net"
	"strings"
)

const maxHostnameLen = 253

// NormalizeSite turns user input such as "https://www.YouTube.com/feed"
// into the bare domain stored in the block list ("youtube.com").
func NormalizeSite(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")

	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if strings.Contains(s, ":") {
		host, _, err := net.SplitHostPort(s)
		if err != nil {
			return "", fmt.Errorf("invalid site %q: %w", raw, err)
		}
		s = host
	}

	s = strings.TrimSuffix(s, ".")
	s = strings.TrimPrefix(s, "www.")

	if err := ValidateHostname(s); err != nil {
		return "", fmt.Errorf("invalid site %q: %w", raw, err)
	}
	return s, nil
}

// ValidateHostname checks that s is a dotted DNS name made of letters,
// digits and hyphens.
func ValidateHostname(s string) error {
	if s == "" {
		return fmt.Errorf("hostname cannot be empty")
	}
	if len(s) > maxHostnameLen {
		return fmt.Errorf("hostname exceeds %d characters", maxHostnameLen)
	}
	if net.ParseIP(s) != nil {
		return fmt.Errorf("IP addresses cannot be blocked through the hosts file")
	}

	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return fmt.Errorf("hostname must contain a dot")
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return fmt.Errorf("label %q has invalid length", label)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fmt.Errorf("label %q cannot start or end with a hyphen", label)
		}
		for _, r := range label {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
				return fmt.Errorf("label %q contains invalid character %q", label, r)
			}
		}
	}
	return nil
}
