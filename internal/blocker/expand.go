package blocker

import (
	"sort"
	"strings"
)

// sitePrefixes are the subdomains blocked alongside every site.
var sitePrefixes = []string{"", "www.", "m.", "mobile."}

// ExpandSites returns the host names to sink for sites: each site with its
// www, m and mobile variants, followed by the provider hosts of every
// provider the site belongs to (see matchesProvider). The result keeps first-seen
// order and holds no duplicates.
func ExpandSites(sites []string, providers map[string][]string) []string {
	keys := make([]string, 0, len(providers))
	for k := range providers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]bool)
	var hosts []string
	add := func(h string) {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" || seen[h] {
			return
		}
		seen[h] = true
		hosts = append(hosts, h)
	}

	for _, site := range sites {
		site = strings.ToLower(strings.TrimSpace(site))
		if site == "" {
			continue
		}
		for _, p := range sitePrefixes {
			add(p + site)
		}
		for _, k := range keys {
			if matchesProvider(site, k, providers[k]) {
				for _, h := range providers[k] {
					add(h)
				}
			}
		}
	}

	return hosts
}

// matchesProvider reports whether site belongs to a provider: the key
// occurs in the site name, or the site is one of the provider's hosts or
// a subdomain of one.
func matchesProvider(site, key string, hosts []string) bool {
	if strings.Contains(site, key) {
		return true
	}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if site == h || strings.HasSuffix(site, "."+h) {
			return true
		}
	}
	return false
}
