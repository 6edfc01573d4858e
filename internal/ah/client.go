// Package ah talks to the Albert Heijn consumer mobile API.
//
// Every resource call is bearer-authenticated against the token slot. On a
// 401 the client performs exactly one token refresh and one retry; a failed
// refresh clears the slot, which forces the user back through the login flow.
package ah

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bonnetje/internal/core"
	"bonnetje/internal/tokens"
)

const (
	defaultBaseURL     = "https://api.ah.nl"
	defaultAuthBaseURL = "https://api.ah.nl"

	// Fixed product identity; the API rejects unknown agents.
	userAgent = "Appie/8.22.3"
	clientID  = "appie"

	receiptsPath      = "/mobile-services/v1/receipts"
	receiptDetailPath = "/mobile-services/v2/receipts/%s"
	tokenPath         = "/mobile-auth/v1/auth/token"
	refreshPath       = "/mobile-auth/v1/auth/token/refresh"
)

// Client is the authenticated fetch layer over the mobile API.
type Client struct {
	http        *http.Client
	store       tokens.Store
	baseURL     string
	authBaseURL string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides both the resource and auth base URLs. Tests point
// this at an httptest server.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
		c.authBaseURL = url
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a mobile API client backed by the given token store.
func NewClient(store tokens.Store, opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: 30 * time.Second},
		store:       store,
		baseURL:     defaultBaseURL,
		authBaseURL: defaultAuthBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a bearer-authenticated GET against path.
//
// On a 401 it refreshes the token pair once and retries once; the result of
// the retry is returned as-is. At most one round-trip hits the refresh
// endpoint and at most two hit the resource. Concurrent callers in an
// expired-token window may each refresh independently; refresh is idempotent
// server-side and the slot keeps whichever write lands last.
func (c *Client) do(ctx context.Context, path string) (*http.Response, error) {
	pair, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tokens: %w", err)
	}
	if !pair.Valid() {
		return nil, core.ErrNotAuthenticated
	}

	resp, err := c.get(ctx, path, pair.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	slog.InfoContext(ctx, "Access token rejected, refreshing", "path", path)
	accessToken, err := c.refresh(ctx, pair)
	if err != nil {
		return nil, err
	}

	resp, err = c.get(ctx, path, accessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch %s after refresh: %w", path, err)
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path, accessToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return c.http.Do(req)
}

// refresh exchanges the refresh token for a new pair and persists it. Any
// failure is fatal for the session: the slot is cleared and the caller gets
// ErrNotAuthenticated, which the UI turns into the login form.
func (c *Client) refresh(ctx context.Context, pair *core.TokenPair) (string, error) {
	if pair.RefreshToken == "" {
		c.clearSession(ctx)
		return "", core.ErrNotAuthenticated
	}

	body := map[string]string{"clientId": clientID, "refreshToken": pair.RefreshToken}
	next, err := c.postToken(ctx, refreshPath, body)
	if err != nil {
		slog.WarnContext(ctx, "Token refresh failed, clearing session", "error", err)
		c.clearSession(ctx)
		return "", core.ErrNotAuthenticated
	}

	if err := c.store.Save(ctx, next); err != nil {
		return "", fmt.Errorf("persist refreshed tokens: %w", err)
	}
	slog.InfoContext(ctx, "Token pair refreshed")
	return next.AccessToken, nil
}

func (c *Client) clearSession(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to clear token slot", "error", err)
	}
}

// ExchangeCode trades an authorization code from the login flow for the
// initial token pair. The caller decides whether to persist it.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*core.TokenPair, error) {
	pair, err := c.postToken(ctx, tokenPath, map[string]string{"clientId": clientID, "code": code})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return pair, nil
}

func (c *Client) postToken(ctx context.Context, path string, payload map[string]string) (*core.TokenPair, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var pair core.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &pair, nil
}

// Receipts fetches the full receipt list, newest first as the API returns it.
func (c *Client) Receipts(ctx context.Context) ([]core.Receipt, error) {
	var receipts []core.Receipt
	if err := c.getJSON(ctx, receiptsPath, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

// ReceiptDetail fetches the itemized receipt for one transaction.
func (c *Client) ReceiptDetail(ctx context.Context, transactionID string) (*core.DetailedReceipt, error) {
	var detail core.DetailedReceipt
	if err := c.getJSON(ctx, fmt.Sprintf(receiptDetailPath, transactionID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
