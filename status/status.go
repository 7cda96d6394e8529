// Package status derives lifecycle state for time-bounded entities.
//
// Campaign status is computed client-side from calendar dates. Post status is
// assigned by the server and only read here. The two are deliberately kept as
// separate code paths because they have different sources of truth.
package status

import (
	"time"

	"github.com/postpilot/dashboard/campaigns"
	"github.com/postpilot/dashboard/posts"
)

// CampaignStatus is the derived lifecycle state of a campaign.
type CampaignStatus string

const (
	Upcoming  CampaignStatus = "Upcoming"
	Active    CampaignStatus = "Active"
	Completed CampaignStatus = "Completed"
)

// ForCampaign classifies a campaign relative to today. All three dates are
// normalised to midnight before comparison so time-of-day skew cannot flip a
// campaign between states. A campaign starting or ending today is Active.
func ForCampaign(today time.Time, c campaigns.Campaign) CampaignStatus {
	now := midnight(today)
	start := midnight(c.StartDate.Time)
	end := midnight(c.EndDate.Time)

	switch {
	case now.Before(start):
		return Upcoming
	case now.After(end):
		return Completed
	default:
		return Active
	}
}

// CampaignEditable reports whether a campaign may still be modified. Completed
// campaigns are locked. The check here is a shortcut for the UI; the server
// remains the final arbiter.
func CampaignEditable(today time.Time, c campaigns.Campaign) bool {
	return ForCampaign(today, c) != Completed
}

// PostEditable reports whether a post may still be modified. Published posts
// are locked.
func PostEditable(p posts.Post) bool {
	return p.Status != posts.StatusPublished
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
