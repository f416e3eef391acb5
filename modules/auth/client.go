package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/guarzo/hrmapi/common"
	"github.com/guarzo/hrmapi/common/model"
	"github.com/guarzo/hrmapi/modules/gateway"
)

const (
	LoginPath = "/api/v1/auth/login"
	MePath    = "/api/v1/auth/me"
)

// ErrEmptyCredentials is returned by Login when email or password is blank.
var ErrEmptyCredentials = errors.New("email and password are required")

// Requester is the part of the gateway the auth endpoints need.
type Requester interface {
	GetJSON(ctx context.Context, path string, out interface{}, opts ...gateway.RequestOption) error
	PostJSON(ctx context.Context, path string, body, out interface{}, opts ...gateway.RequestOption) error
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// Client wraps the /auth endpoints.
type Client struct {
	api Requester
	now func() time.Time
}

var _ common.AuthClient = (*Client)(nil)

// NewClient creates an auth Client.
func NewClient(api Requester) *Client {
	return &Client{api: api, now: time.Now}
}

// Login exchanges credentials for a token pair. It does not store the pair.
func (c *Client) Login(ctx context.Context, email, password string) (*oauth2.Token, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	var env model.Response[model.TokenPair]
	err := c.api.PostJSON(ctx, LoginPath, model.LoginRequest{Email: email, Password: password}, &env, gateway.WithSkipAuth())
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		msg := env.Message
		if msg == "" {
			msg = "Login failed"
		}
		return nil, fmt.Errorf("%s: %w", msg, common.ErrIncompleteTokenPair)
	}
	if !env.Data.Complete() {
		return nil, common.ErrIncompleteTokenPair
	}
	return env.Data.OAuth2Token(c.now()), nil
}

// RefreshToken exchanges a refresh token for a new pair. It does not store the pair.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return c.api.RefreshToken(ctx, refreshToken)
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var env model.Response[model.User]
	if err := c.api.GetJSON(ctx, MePath, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("empty user profile in response")
	}
	return env.Data, nil
}
