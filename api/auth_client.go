package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/postpilot/dashboard/session"
	"github.com/postpilot/dashboard/users"
)

// AuthClient talks to the authentication collaborator. Its endpoints are the
// only ones reached without a bearer token.
type AuthClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

var _ session.Authenticator = (*AuthClient)(nil)

// NewAuthClient returns an AuthClient rooted at baseURL.
func NewAuthClient(baseURL string, opts ...Option) *AuthClient {
	o := newOptions(opts...)
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    o.httpClient,
		log:     o.log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Token string     `json:"token"`
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Role  users.Role `json:"role"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts credentials to /auth/login. Non-2xx responses come back as a
// *StatusError whose message is the server's own.
func (c *AuthClient) Login(ctx context.Context, email, password string) (session.Credentials, error) {
	var payload loginPayload
	err := do(ctx, c.http, c.log, http.MethodPost, c.baseURL+"/auth/login", nil, loginRequest{Email: email, Password: password}, &payload)
	if err != nil {
		return session.Credentials{}, err
	}
	return session.Credentials{
		Token: payload.Token,
		User:  users.User{ID: payload.ID, Name: payload.Name, Role: payload.Role},
	}, nil
}

// Register posts a new account to /auth/register. A 2xx response means the
// account exists; logging in remains a separate step.
func (c *AuthClient) Register(ctx context.Context, name, email, password string) error {
	return do(ctx, c.http, c.log, http.MethodPost, c.baseURL+"/auth/register", nil, registerRequest{Name: name, Email: email, Password: password}, nil)
}
