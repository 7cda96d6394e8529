// Package dashboard assembles the rollups the dashboard screens display and
// applies the client-side mutability gates before any write reaches the API.
package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/postpilot/dashboard/analytics"
	"github.com/postpilot/dashboard/api"
	"github.com/postpilot/dashboard/campaigns"
	"github.com/postpilot/dashboard/guard"
	"github.com/postpilot/dashboard/posts"
	"github.com/postpilot/dashboard/session"
	"github.com/postpilot/dashboard/status"
	"github.com/postpilot/dashboard/users"
)

// recentPostCount is how many posts the "recent posts" panel shows.
const recentPostCount = 5

// Service fetches entities and reduces them for presentation. It owns no
// state of its own; every call works on freshly fetched data.
type Service struct {
	client  *api.Client
	log     zerolog.Logger
	nowTime func() time.Time
}

// ServiceOption modifies a Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithLogger sets the service's logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a Service around the entity API client.
func NewService(client *api.Client, options ...ServiceOption) (*Service, error) {
	if client == nil {
		return nil, errors.New("[NewService] client is required")
	}

	service := &Service{
		client:  client,
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// CampaignSummary counts campaigns per derived lifecycle state.
type CampaignSummary struct {
	Active    int
	Upcoming  int
	Completed int
}

// EngagementSummary is the engagement headline block.
type EngagementSummary struct {
	analytics.Totals
	AverageRate float64
}

// Overview is the dashboard landing summary.
type Overview struct {
	TotalPosts     int
	ScheduledPosts int
	PublishedPosts int
	TotalCampaigns int
	TotalMembers   int // populated only when the viewer is an ADMIN
	Campaigns      CampaignSummary
	Engagement     EngagementSummary
	RecentPosts    []posts.Post
}

// Overview fetches posts, campaigns and analytics and reduces them into the
// landing summary. The member count comes from an ADMIN-only endpoint, so the
// call is skipped entirely unless the viewer's role admits it.
func (s *Service) Overview(ctx context.Context, current session.Session) (Overview, error) {
	postList, err := s.client.Posts(ctx, api.PostFilter{})
	if err != nil {
		return Overview{}, errors.Wrap(err, "[Service.Overview] fetch posts")
	}
	campaignList, err := s.client.Campaigns(ctx)
	if err != nil {
		return Overview{}, errors.Wrap(err, "[Service.Overview] fetch campaigns")
	}
	records, err := s.client.Analytics(ctx, api.AnalyticsFilter{})
	if err != nil {
		return Overview{}, errors.Wrap(err, "[Service.Overview] fetch analytics")
	}

	overview := Overview{
		TotalPosts:     len(postList),
		TotalCampaigns: len(campaignList),
		Campaigns:      SummarizeCampaigns(s.nowTime(), campaignList),
		Engagement:     SummarizeEngagement(records),
		RecentPosts:    RecentPosts(postList, recentPostCount),
	}
	for _, p := range postList {
		switch p.Status {
		case posts.StatusScheduled:
			overview.ScheduledPosts++
		case posts.StatusPublished:
			overview.PublishedPosts++
		}
	}

	if guard.RequireRole(current, users.RoleAdmin).Admitted {
		members, err := s.client.Users(ctx)
		if err != nil {
			return Overview{}, errors.Wrap(err, "[Service.Overview] fetch users")
		}
		overview.TotalMembers = len(members)
	}

	return overview, nil
}

// SummarizeCampaigns counts campaigns per lifecycle state as of today.
func SummarizeCampaigns(today time.Time, list []campaigns.Campaign) CampaignSummary {
	var summary CampaignSummary
	for _, c := range list {
		switch status.ForCampaign(today, c) {
		case status.Active:
			summary.Active++
		case status.Upcoming:
			summary.Upcoming++
		case status.Completed:
			summary.Completed++
		}
	}
	return summary
}

// SummarizeEngagement reduces engagement records to the headline block.
func SummarizeEngagement(records []analytics.Record) EngagementSummary {
	return EngagementSummary{
		Totals:      analytics.Sum(records),
		AverageRate: analytics.AverageEngagementRate(records),
	}
}

// RecentPosts returns the n most recently created posts, newest first. The
// sort is stable and leaves the input untouched.
func RecentPosts(list []posts.Post, n int) []posts.Post {
	sorted := make([]posts.Post, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
