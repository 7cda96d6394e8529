package dashboard

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/postpilot/dashboard/campaigns"
	apperrors "github.com/postpilot/dashboard/internal/errors"
	"github.com/postpilot/dashboard/posts"
	"github.com/postpilot/dashboard/status"
)

// CreateCampaign validates the form data and forwards it to the API.
func (s *Service) CreateCampaign(ctx context.Context, campaign campaigns.Campaign) error {
	if err := ValidateCampaign(campaign); err != nil {
		return err
	}
	return errors.Wrap(s.client.CreateCampaign(ctx, campaign), "[Service.CreateCampaign] create")
}

// UpdateCampaign rejects edits to Completed campaigns before any request is
// issued; the server still enforces the same rule on its side.
func (s *Service) UpdateCampaign(ctx context.Context, current campaigns.Campaign, changes campaigns.Campaign) error {
	if !status.CampaignEditable(s.nowTime(), current) {
		return apperrors.ErrCampaignLocked
	}
	if err := ValidateCampaign(changes); err != nil {
		return err
	}
	return errors.Wrap(s.client.UpdateCampaign(ctx, current.ID, changes), "[Service.UpdateCampaign] update")
}

// DeleteCampaign removes a campaign. Deletion is allowed in any lifecycle
// state; only edits are locked.
func (s *Service) DeleteCampaign(ctx context.Context, id int64) error {
	return errors.Wrap(s.client.DeleteCampaign(ctx, id), "[Service.DeleteCampaign] delete")
}

// CreatePost validates the form data and forwards it to the API. The server
// assigns the post's status.
func (s *Service) CreatePost(ctx context.Context, post posts.Post) error {
	if err := s.validatePost(post); err != nil {
		return err
	}
	return errors.Wrap(s.client.CreatePost(ctx, post), "[Service.CreatePost] create")
}

// UpdatePost rejects edits to published posts before any request is issued.
func (s *Service) UpdatePost(ctx context.Context, current posts.Post, changes posts.Post) error {
	if !status.PostEditable(current) {
		return apperrors.ErrPostPublished
	}
	if err := s.validatePost(changes); err != nil {
		return err
	}
	return errors.Wrap(s.client.UpdatePost(ctx, current.ID, changes), "[Service.UpdatePost] update")
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, id int64) error {
	return errors.Wrap(s.client.DeletePost(ctx, id), "[Service.DeletePost] delete")
}

// ValidateCampaign mirrors the campaign form rules.
func ValidateCampaign(c campaigns.Campaign) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("campaign name is required")
	}
	if c.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	if c.EndDate.IsZero() {
		return errors.New("end date is required")
	}
	if c.EndDate.Before(c.StartDate.Time) {
		return apperrors.ErrEndBeforeStart
	}
	return nil
}

// validatePost mirrors the post form rules. Scheduling in the past is
// rejected here; an unset scheduled time means "post now" and is fine.
func (s *Service) validatePost(p posts.Post) error {
	if p.Platform == "" {
		return errors.New("platform is required")
	}
	if strings.TrimSpace(p.Caption) == "" {
		return errors.New("caption is required")
	}
	if p.ScheduledTime != nil && !p.ScheduledTime.After(s.nowTime()) {
		return apperrors.ErrScheduleInPast
	}
	return nil
}
