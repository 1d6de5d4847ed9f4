package blocker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runnerr0/focusguard/internal/config"
)

func TestExpandSites_Variants(t *testing.T) {
	hosts := ExpandSites([]string{"example.com"}, nil)
	assert.Equal(t, []string{"example.com", "www.example.com", "m.example.com", "mobile.example.com"}, hosts)
}

func TestExpandSites_YouTubeProvider(t *testing.T) {
	hosts := ExpandSites([]string{"youtube.com"}, config.DefaultProviderHosts())

	for _, h := range []string{
		"youtube.com", "www.youtube.com", "m.youtube.com", "mobile.youtube.com",
		"youtu.be", "googlevideo.com", "ytimg.com", "i.ytimg.com",
	} {
		assert.Contains(t, hosts, h)
	}
	assert.NotContains(t, hosts, "google.com")
	assert.Equal(t, "youtube.com", hosts[0])
}

func TestExpandSites_Deduplicates(t *testing.T) {
	hosts := ExpandSites([]string{"youtube.com", "YouTube.com ", "music.youtube.com"}, config.DefaultProviderHosts())

	seen := make(map[string]int)
	for _, h := range hosts {
		seen[h]++
	}
	for h, n := range seen {
		assert.Equal(t, 1, n, "%s listed %d times", h, n)
	}
	assert.Contains(t, hosts, "www.music.youtube.com")
}

func TestExpandSites_SkipsBlank(t *testing.T) {
	assert.Empty(t, ExpandSites([]string{"", "  "}, nil))
}

func TestExpandSites_ProviderMatchedByListedHost(t *testing.T) {
	providers := config.DefaultProviderHosts()

	for _, site := range []string{"x.com", "mobile.x.com", "youtu.be"} {
		hosts := ExpandSites([]string{site}, providers)
		assert.Equal(t, site, hosts[0])
		if site == "youtu.be" {
			assert.Contains(t, hosts, "googlevideo.com")
			continue
		}
		assert.Contains(t, hosts, "twimg.com", site)
		assert.Contains(t, hosts, "t.co", site)
		assert.Contains(t, hosts, "twitter.com", site)
	}

	hosts := ExpandSites([]string{"notx.com"}, providers)
	assert.NotContains(t, hosts, "twimg.com")
}
