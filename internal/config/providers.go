package config

import "strings"

// DefaultProviderHosts returns the extra hostnames blocked alongside
// well-known services. A site matches a provider when the provider key
// occurs in it or the site is one of the listed hosts, so "youtube.com",
// "music.youtube.com" and "youtu.be" all pull in the YouTube CDN and
// thumbnail hosts.
func DefaultProviderHosts() map[string][]string {
	return map[string][]string{
		// Video
		"youtube": {
			"youtube.com",
			"www.youtube.com",
			"m.youtube.com",
			"youtu.be",
			"www.youtu.be",
			"youtube-nocookie.com",
			"www.youtube-nocookie.com",
			"googlevideo.com",
			"www.googlevideo.com",
			"ytimg.com",
			"www.ytimg.com",
			"i.ytimg.com",
			"s.ytimg.com",
			"yt3.ggpht.com",
		},
		"netflix": {
			"netflix.com",
			"www.netflix.com",
			"nflxso.net",
			"nflxext.com",
			"nflximg.net",
			"nflxvideo.net",
		},
		"tiktok": {
			"tiktok.com",
			"www.tiktok.com",
			"tiktokcdn.com",
			"tiktokv.com",
		},

		// Social
		"facebook": {
			"facebook.com",
			"www.facebook.com",
			"fb.com",
			"fbcdn.net",
		},
		"instagram": {
			"instagram.com",
			"www.instagram.com",
			"cdninstagram.com",
		},
		"reddit": {
			"reddit.com",
			"www.reddit.com",
			"old.reddit.com",
			"redd.it",
			"redditmedia.com",
			"redditstatic.com",
		},
		"twitter": {
			"twitter.com",
			"www.twitter.com",
			"x.com",
			"www.x.com",
			"t.co",
			"twimg.com",
			"abs.twimg.com",
			"pbs.twimg.com",
		},
	}
}

// ProviderHosts merges the defaults with the configured providers.
// Configured entries extend, never replace, the built-in lists.
func (b BlockingConfig) ProviderHosts() map[string][]string {
	merged := DefaultProviderHosts()
	for key, hosts := range b.Providers {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		merged[key] = append(merged[key], hosts...)
	}
	return merged
}
