package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSite(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"youtube.com", "youtube.com"},
		{"  YouTube.com ", "youtube.com"},
		{"https://www.youtube.com/feed/subscriptions", "youtube.com"},
		{"http://reddit.com/r/golang?sort=new", "reddit.com"},
		{"www.news.ycombinator.com", "news.ycombinator.com"},
		{"example.com:8080", "example.com"},
		{"example.com.", "example.com"},
		{"music.youtube.com", "music.youtube.com"},
		{"my-site.co.uk#top", "my-site.co.uk"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeSite(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeSiteRejectsInvalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"https://",
		"localhost",
		"127.0.0.1",
		"bad_domain.com",
		"-start.com",
		"end-.com",
		"two..dots.com",
		"spa ce.com",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := NormalizeSite(in)
			assert.Error(t, err)
		})
	}
}
