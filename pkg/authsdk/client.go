// Package authsdk is the HTTP client for the hosted backend auth service.
// The gateway uses it for password sign-in, current-user lookup, and
// sign-out; session storage itself lives entirely on the backend side.
package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the backend auth service.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new auth service client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SignInWithPassword exchanges email/password for a backend session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp sessionResponse
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", "", body, &resp); err != nil {
		return nil, err
	}

	return newSession(resp), nil
}

// GetUser returns the user owning the given session token, or ErrNoSession
// when the token is missing, expired, or revoked.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	// Skip the round trip when the token has visibly expired.
	if exp, err := TokenExpiry(token); err == nil && time.Now().After(exp) {
		return nil, ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrNoSession
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &u, nil
}

// SignOut revokes the session behind the given token. Revoking an already
// dead session is not an error.
func (c *Client) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusUnauthorized:
		return nil
	default:
		return decodeAPIError(resp)
	}
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req, token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	if c.APIKey != "" {
		req.Header.Set("apikey", c.APIKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
