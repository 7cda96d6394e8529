package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/postpilot/dashboard/analytics"
	"github.com/postpilot/dashboard/campaigns"
	"github.com/postpilot/dashboard/posts"
	"github.com/postpilot/dashboard/users"
)

// Client reads and writes dashboard entities. Give it an *http.Client built
// with oauth2.NewClient around the session store so every request carries the
// current bearer token; attaching the token is the transport's job, not the
// caller's.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient returns a Client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	o := newOptions(opts...)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    o.httpClient,
		log:     o.log,
	}
}

// PostFilter narrows a post listing.
type PostFilter struct {
	CampaignID *int64
}

// AnalyticsFilter narrows an engagement-record listing to a date range.
type AnalyticsFilter struct {
	StartDate *campaigns.Date
	EndDate   *campaigns.Date
}

func (c *Client) Campaigns(ctx context.Context) ([]campaigns.Campaign, error) {
	var out []campaigns.Campaign
	if err := c.get(ctx, "/campaigns", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Posts(ctx context.Context, filter PostFilter) ([]posts.Post, error) {
	query := url.Values{}
	if filter.CampaignID != nil {
		query.Set("campaign_id", strconv.FormatInt(*filter.CampaignID, 10))
	}
	var out []posts.Post
	if err := c.get(ctx, "/posts", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Analytics(ctx context.Context, filter AnalyticsFilter) ([]analytics.Record, error) {
	query := url.Values{}
	if filter.StartDate != nil {
		query.Set("startDate", filter.StartDate.Format(campaigns.DateFormat))
	}
	if filter.EndDate != nil {
		query.Set("endDate", filter.EndDate.Format(campaigns.DateFormat))
	}
	var out []analytics.Record
	if err := c.get(ctx, "/analytics", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Users(ctx context.Context) ([]users.User, error) {
	var out []users.User
	if err := c.get(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCampaign(ctx context.Context, campaign campaigns.Campaign) error {
	return c.send(ctx, http.MethodPost, "/campaigns", campaign)
}

func (c *Client) UpdateCampaign(ctx context.Context, id int64, campaign campaigns.Campaign) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/campaigns/%d", id), campaign)
}

func (c *Client) DeleteCampaign(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/campaigns/%d", id), nil)
}

func (c *Client) CreatePost(ctx context.Context, post posts.Post) error {
	return c.send(ctx, http.MethodPost, "/posts", post)
}

func (c *Client) UpdatePost(ctx context.Context, id int64, post posts.Post) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), post)
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return do(ctx, c.http, c.log, http.MethodGet, c.baseURL+path, query, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body any) error {
	return do(ctx, c.http, c.log, method, c.baseURL+path, nil, body, nil)
}
