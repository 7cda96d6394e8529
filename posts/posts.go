package posts

import "time"

// Platform is the social network a post targets.
type Platform string

const (
	PlatformFacebook  Platform = "Facebook"
	PlatformInstagram Platform = "Instagram"
)

// Status is the post lifecycle state assigned by the server. Unlike campaign
// status it is never derived client-side; the client only reads it.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

// Post is a scheduled or published piece of content.
type Post struct {
	ID            int64      `json:"id,omitempty"`
	Caption       string     `json:"caption"`
	MediaURL      string     `json:"media_url,omitempty"`
	Platform      Platform   `json:"platform"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	CampaignID    *int64     `json:"campaign_id,omitempty"`
	Status        Status     `json:"status,omitempty"`
	CreatedAt     time.Time  `json:"created_at,omitempty"`
}
