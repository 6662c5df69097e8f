// Package dirsdk is the HTTP client for the privileged directory RPC. The
// directory holds provisioned and demo accounts that may not exist in the
// backend auth service, and its lookup bypasses the backend's own attempt
// throttling.
package dirsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNoMatch is returned when the directory holds no account for the
	// email/password pair. Callers fall through to the general auth path.
	ErrNoMatch = errors.New("dirsdk: no matching directory account")

	// ErrUnavailable is returned when the directory RPC cannot be reached.
	ErrUnavailable = errors.New("dirsdk: service unavailable")
)

// Record is a directory account as returned by the lookup RPC.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Client calls the directory lookup RPC.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login checks email/password against the directory table and returns the
// matching record. A miss is ErrNoMatch; the RPC deliberately does not
// distinguish unknown emails from wrong passwords.
func (c *Client) Login(ctx context.Context, email, password string) (*Record, error) {
	raw, err := json.Marshal(map[string]string{
		"login_email":    email,
		"login_password": password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/rest/v1/rpc/demo_login", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("apikey", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dirsdk: rpc status %d", resp.StatusCode)
	}

	// The RPC returns a JSON record for a hit and null for a miss.
	var rec *Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("dirsdk: decode rpc response: %w", err)
	}
	if rec == nil || rec.ID == "" {
		return nil, ErrNoMatch
	}
	return rec, nil
}
