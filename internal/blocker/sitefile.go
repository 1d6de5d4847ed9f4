package blocker

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/focusguard/internal/validation"
)

// ReadSiteFile reads a newline-delimited site list. Blank lines and lines
// starting with # are skipped. Entries are normalised like sites added by
// hand ("https://www.YouTube.com/feed" becomes "youtube.com") and
// duplicates dropped; an entry that is not a hostname is an error.
func ReadSiteFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open site file: %w", err)
	}
	defer f.Close()

	sites := []string{}
	seen := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		site, err := validation.NormalizeSite(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		if seen[site] {
			continue
		}
		seen[site] = true
		sites = append(sites, site)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read site file: %w", err)
	}
	return sites, nil
}

// WriteSiteFile writes sites one per line.
func WriteSiteFile(path string, sites []string) error {
	var b strings.Builder
	for _, s := range sites {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write site file: %w", err)
	}
	return nil
}
