// api/metrics/traffic.go
package metrics

import (
	"sort"

	"scratchwin/api/models"
)

// ChannelStat is one traffic channel with distinct users, their share of
// the section total, and the conversion rate to purchase.
type ChannelStat struct {
	Channel       string  `json:"channel"`
	Users         int     `json:"users"`
	PctOfUsers    float64 `json:"pctOfUsers"`
	Buyers        int     `json:"buyers"`
	ConversionPct float64 `json:"conversionPct"`
}

// NamedStat is a generic name/users/share row (sources, campaigns).
type NamedStat struct {
	Name       string  `json:"name"`
	Users      int     `json:"users"`
	PctOfUsers float64 `json:"pctOfUsers"`
}

type TrafficResult struct {
	Channels  []ChannelStat `json:"channels"`
	Sources   []NamedStat   `json:"sources"`
	Campaigns []NamedStat   `json:"campaigns"`
}

func computeTraffic(req *request) any {
	ds := req.ds

	buyers := make(map[string]bool)
	for _, ev := range ds.events {
		if ev.Type == models.EventCheckoutComplete {
			buyers[ev.UserID] = true
		}
	}

	channelUsers := make(map[string]int)
	channelBuyers := make(map[string]int)
	sourceUsers := make(map[string]int)
	campaignUsers := make(map[string]int)
	for _, userID := range ds.userIDs {
		attr := ds.attribution[userID]
		channelUsers[attr.Channel]++
		if buyers[userID] {
			channelBuyers[attr.Channel]++
		}
		if attr.Source != "" {
			sourceUsers[attr.Source]++
		}
		if attr.Campaign != "" {
			campaignUsers[attr.Campaign]++
		}
	}

	total := len(ds.userIDs)
	channels := make([]ChannelStat, 0, len(channelUsers))
	for channel, users := range channelUsers {
		channels = append(channels, ChannelStat{
			Channel:       channel,
			Users:         users,
			PctOfUsers:    safePct(users, total),
			Buyers:        channelBuyers[channel],
			ConversionPct: safePct(channelBuyers[channel], users),
		})
	}
	sort.Slice(channels, func(i, j int) bool {
		if channels[i].Users != channels[j].Users {
			return channels[i].Users > channels[j].Users
		}
		return channels[i].Channel < channels[j].Channel
	})

	return TrafficResult{
		Channels:  channels,
		Sources:   namedStats(sourceUsers, total),
		Campaigns: namedStats(campaignUsers, total),
	}
}

func namedStats(counts map[string]int, total int) []NamedStat {
	out := make([]NamedStat, 0, len(counts))
	for name, users := range counts {
		out = append(out, NamedStat{Name: name, Users: users, PctOfUsers: safePct(users, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Users != out[j].Users {
			return out[i].Users > out[j].Users
		}
		return out[i].Name < out[j].Name
	})
	return out
}
