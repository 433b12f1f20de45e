package scraper

import (
	"net/url"
	"strings"
)

// HostProfile overrides selectors for a single site.
type HostProfile struct {
	Host      string `mapstructure:"host"`
	Selectors `mapstructure:",squash"`
}

// Profiles holds the default selector set plus per-host overrides.
type Profiles struct {
	Default Selectors     `mapstructure:"default"`
	Hosts   []HostProfile `mapstructure:"profiles"`
}

// Resolve returns the selectors for rawURL. Hosts are compared without a
// leading "www."; empty profile fields inherit from Default.
func (p Profiles) Resolve(rawURL string) Selectors {
	host := hostKey(rawURL)
	if host != "" {
		for _, profile := range p.Hosts {
			if hostKey(profile.Host) == host {
				return profile.Selectors.withFallback(p.Default)
			}
		}
	}
	return p.Default
}

func hostKey(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
