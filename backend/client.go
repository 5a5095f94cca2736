// Package backend is the low-level client for the ticketing REST backend.
// It owns the wire dialect (paths, payload shapes, error bodies) and nothing
// else: no token storage, no retries, no refresh coordination.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/ticketzen/go-web-gateway/users"
	"golang.org/x/oauth2"
)

const (
	loginPath   = "/auth/login/"
	refreshPath = "/auth/refresh/"
	userPath    = "/auth/user/"
	logoutPath  = "/auth/logout/"
)

type Client struct {
	baseURL string
	http    *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for tests
// and for callers that need custom timeouts).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

func New(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type authResponse struct {
	Message string      `json:"message,omitempty"`
	User    *users.User `json:"user"`
	Tokens  tokenPair   `json:"tokens"`
}

// Login exchanges credentials for a user record and a token pair. A 401
// means bad credentials, never an expired session.
func (c *Client) Login(ctx context.Context, email, password string) (*users.User, *oauth2.Token, error) {
	body := map[string]string{"email": email, "password": password}

	var resp authResponse
	if err := c.postJSON(ctx, loginPath, body, &resp, ""); err != nil {
		if IsUnauthorized(err) {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, nil, errors.Wrap(err, "[Client.Login]")
	}
	return resp.User, pairToken(resp.Tokens.Access, resp.Tokens.Refresh), nil
}

// Refresh exchanges a refresh token for a new access token. The backend
// rotates refresh tokens, so the response may carry a replacement.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	body := map[string]string{"refresh": refreshToken}

	var resp tokenPair
	if err := c.postJSON(ctx, refreshPath, body, &resp, ""); err != nil {
		if IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		return nil, errors.Wrap(err, "[Client.Refresh]")
	}
	return pairToken(resp.Access, resp.Refresh), nil
}

// CurrentUser fetches the identity behind an access token.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*users.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.CurrentUser] build request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var user users.User
	if err := c.do(req, &user); err != nil {
		return nil, errors.Wrap(err, "[Client.CurrentUser]")
	}
	return &user, nil
}

// Logout asks the backend to invalidate a refresh token. Best effort: the
// caller clears local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh": refreshToken}
	if err := c.postJSON(ctx, logoutPath, body, nil, ""); err != nil {
		return errors.Wrap(err, "[Client.Logout]")
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any, accessToken string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "dispatch")
	}
	defer resp.Body.Close()

	return Decode(resp, out)
}

// Decode turns a backend response into out, or into an *APIError for any
// non-2xx status. Exported for the resource services that share the dialect.
func Decode(resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
