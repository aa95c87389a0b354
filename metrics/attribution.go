// api/metrics/attribution.go
package metrics

import (
	"strings"

	"scratchwin/api/models"
)

// Traffic channels a user can be attributed to.
const (
	ChannelDirect   = "direct"
	ChannelOrganic  = "organic"
	ChannelSocial   = "social"
	ChannelPaid     = "paid"
	ChannelReferral = "referral"
	ChannelUnknown  = "unknown"
)

// Attribution is the first-touch traffic classification for one user.
// It is fixed once resolved; metadata on later events is ignored.
type Attribution struct {
	Channel  string `json:"channel"`
	Source   string `json:"source,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Referrer string `json:"referrer,omitempty"`
}

var knownChannels = map[string]bool{
	ChannelDirect:   true,
	ChannelOrganic:  true,
	ChannelSocial:   true,
	ChannelPaid:     true,
	ChannelReferral: true,
	ChannelUnknown:  true,
}

var paidSources = map[string]bool{
	"google_ads":   true,
	"googleads":    true,
	"adwords":      true,
	"facebook_ads": true,
	"fb_ads":       true,
	"meta_ads":     true,
	"tiktok_ads":   true,
	"kwai_ads":     true,
}

var searchDomains = []string{
	"google.", "bing.", "yahoo.", "duckduckgo.", "search.brave.",
}

var socialDomains = []string{
	"facebook.", "instagram.", "twitter.", "x.com", "t.co", "tiktok.",
	"linkedin.", "youtube.", "whatsapp.", "wa.me", "telegram.",
}

// ResolveAttribution derives the first-touch attribution from a user's
// chronologically sorted events. Classification is total: malformed or
// absent metadata degrades to "unknown" (or "direct" for users whose only
// activity is unattributed page views), never an error.
func ResolveAttribution(events []models.RawEvent) Attribution {
	for _, ev := range events {
		p := ev.Props
		if p.Channel == "" && p.Source == "" && p.Campaign == "" && p.Referrer == "" {
			continue
		}
		return Attribution{
			Channel:  classifyChannel(p.Channel, p.Source, p.Referrer),
			Source:   p.Source,
			Campaign: p.Campaign,
			Referrer: p.Referrer,
		}
	}

	// No event ever carried traffic metadata. A user who at least viewed a
	// page arrived with nothing to attribute, which is the definition of
	// direct; a user with no page views at all stays unknown.
	for _, ev := range events {
		if ev.Type == models.EventPageView {
			return Attribution{Channel: ChannelDirect}
		}
	}
	return Attribution{Channel: ChannelUnknown}
}

func classifyChannel(channel, source, referrer string) string {
	if channel != "" {
		c := strings.ToLower(strings.TrimSpace(channel))
		if knownChannels[c] {
			return c
		}
		return ChannelUnknown
	}

	src := strings.ToLower(strings.TrimSpace(source))
	ref := strings.ToLower(strings.TrimSpace(referrer))

	if src != "" && isPaidSource(src) {
		return ChannelPaid
	}
	if ref != "" {
		if matchesAnyDomain(ref, searchDomains) {
			return ChannelOrganic
		}
		if matchesAnyDomain(ref, socialDomains) {
			return ChannelSocial
		}
		return ChannelReferral
	}
	if src == "" {
		return ChannelDirect
	}
	return ChannelUnknown
}

func isPaidSource(src string) bool {
	if paidSources[src] {
		return true
	}
	return strings.Contains(src, "cpc") || strings.Contains(src, "ppc") ||
		strings.Contains(src, "paid")
}

func matchesAnyDomain(referrer string, domains []string) bool {
	for _, d := range domains {
		if strings.Contains(referrer, d) {
			return true
		}
	}
	return false
}
