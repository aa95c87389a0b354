// api/metrics/section.go
package metrics

import (
	"errors"
	"fmt"
	"strings"
)

// Section identifies one independently requestable metrics category.
type Section string

const (
	SectionOverview       Section = "overview"
	SectionTraffic        Section = "traffic"
	SectionDevices        Section = "devices"
	SectionGeo            Section = "geo"
	SectionEngagement     Section = "engagement"
	SectionUsers          Section = "users"
	SectionGameplay       Section = "gameplay"
	SectionFunnelDetailed Section = "funnel_detailed"
	SectionTimeline       Section = "timeline"
	SectionAPICosts       Section = "api_costs"
)

// ErrUnknownSection is returned when a request names a section outside
// the fixed enumeration. The whole request is rejected before computing.
var ErrUnknownSection = errors.New("unknown section")

var allSections = []Section{
	SectionOverview,
	SectionTraffic,
	SectionDevices,
	SectionGeo,
	SectionEngagement,
	SectionUsers,
	SectionGameplay,
	SectionFunnelDetailed,
	SectionTimeline,
	SectionAPICosts,
}

// AllSections returns the full section enumeration in catalogue order.
func AllSections() []Section {
	out := make([]Section, len(allSections))
	copy(out, allSections)
	return out
}

// ParseSections parses a comma-separated section list from the request.
// An empty list selects every section. Duplicates are collapsed.
func ParseSections(csv string) ([]Section, error) {
	if strings.TrimSpace(csv) == "" {
		return AllSections(), nil
	}

	valid := make(map[Section]bool, len(allSections))
	for _, s := range allSections {
		valid[s] = true
	}

	seen := make(map[Section]bool)
	var out []Section
	for _, part := range strings.Split(csv, ",") {
		s := Section(strings.TrimSpace(part))
		if s == "" {
			continue
		}
		if !valid[s] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, s)
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return AllSections(), nil
	}
	return out, nil
}
