// Package api talks to the remote dashboard API. Successful responses arrive
// in a {"data": ...} envelope; failures carry a {"message": ...} body that is
// surfaced verbatim to the user.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// StatusError is a non-2xx response from the API. Message carries the
// server-provided message verbatim for display next to the originating form.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// Option modifies client construction.
type Option func(*options)

type options struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// WithHTTPClient sets the underlying HTTP client. The entity client should be
// given one built with oauth2.NewClient so requests carry the bearer token.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the client's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func newOptions(opts ...Option) options {
	o := options{
		httpClient: http.DefaultClient,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
}

func do(ctx context.Context, client *http.Client, log zerolog.Logger, method, rawURL string, query url.Values, body, out any) error {
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[api.do] marshal %s %s body", method, rawURL)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return errors.Wrapf(err, "[api.do] build %s %s", method, rawURL)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[api.do] %s %s", method, rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := newStatusError(resp)
		log.Debug().Int("status", resp.StatusCode).Str("method", method).Str("url", rawURL).Msg("request failed")
		return statusErr
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrapf(err, "[api.do] decode %s %s envelope", method, rawURL)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrapf(err, "[api.do] decode %s %s data", method, rawURL)
	}
	return nil
}

func newStatusError(resp *http.Response) *StatusError {
	statusErr := &StatusError{StatusCode: resp.StatusCode}
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		statusErr.Message = body.Message
	}
	return statusErr
}
