package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

var (
	// ErrAuthRequired means the gate answered 401; the page shows the
	// sign-in prompt and never retries on its own.
	ErrAuthRequired = errors.New("web: authentication required")
	// ErrQuotaExhausted means the recorder answered 403 with the
	// needsSubscription envelope.
	ErrQuotaExhausted = errors.New("web: free quota exhausted")
	// ErrGateUnavailable means the gate could not be reached or answered
	// outside its contract; the page shows a retry view.
	ErrGateUnavailable = errors.New("web: access gate unavailable")
)

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the backend API the same way the browser does, forwarding
// the caller's session cookie.
type Client struct {
	base   *url.URL
	client HTTPClient
}

// NewClient constructs an API client rooted at baseURL.
func NewClient(baseURL string, client HTTPClient) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("web: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("web: parse base URL: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		base:   parsed,
		client: client,
	}, nil
}

// CheckAccess asks the gate whether the caller may start a session in the
// given domain. A 401 maps to a NeedsAuth state rather than an error; any
// other failure is ErrGateUnavailable because gating must fail closed.
func (c *Client) CheckAccess(ctx context.Context, d domain.Domain, session *http.Cookie) (domain.AccessState, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/%s/can-use", d.Slug()), nil, session)
	if err != nil {
		return domain.AccessState{}, fmt.Errorf("%w: %v", ErrGateUnavailable, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return domain.AccessState{}, fmt.Errorf("%w: %v", ErrGateUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.AccessState{NeedsAuth: true}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.AccessState{}, fmt.Errorf("%w: %v", ErrGateUnavailable, c.errorFromResponse(resp))
	}

	var payload struct {
		CanUse       bool `json:"canUse"`
		UsageCount   int  `json:"usageCount"`
		IsSubscribed bool `json:"isSubscribed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.AccessState{}, fmt.Errorf("%w: decode gate response: %v", ErrGateUnavailable, err)
	}
	return domain.AccessState{
		NeedsSubscription: !payload.CanUse,
		UsageCount:        payload.UsageCount,
		IsSubscribed:      payload.IsSubscribed,
	}, nil
}

// RecordUsage reports one started session. Quota exhaustion surfaces as
// ErrQuotaExhausted so the caller can re-gate; everything else is
// best-effort and only worth logging.
func (c *Client) RecordUsage(ctx context.Context, d domain.Domain, label string, session *http.Cookie) error {
	body := map[string]string{d.ItemField(): strings.TrimSpace(label)}
	req, err := c.newJSONRequest(ctx, http.MethodPost, fmt.Sprintf("/api/%s/use", d.Slug()), body, session)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("web: record usage: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthRequired
	case resp.StatusCode == http.StatusForbidden:
		var payload struct {
			NeedsSubscription bool `json:"needsSubscription"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.NeedsSubscription {
			return ErrQuotaExhausted
		}
		return fmt.Errorf("web: record usage refused (%d)", resp.StatusCode)
	default:
		return c.errorFromResponse(resp)
	}
}

// JournalEntry mirrors the journal payload rendered on the journal page.
type JournalEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Mood      string `json:"mood"`
	Tags      string `json:"tags"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// JournalEntries lists the caller's journal, newest first.
func (c *Client) JournalEntries(ctx context.Context, session *http.Cookie) ([]JournalEntry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/journal/entries", nil, session)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web: list journal: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrAuthRequired
	case resp.StatusCode != http.StatusOK:
		return nil, c.errorFromResponse(resp)
	}

	var payload struct {
		Entries []JournalEntry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("web: decode journal entries: %w", err)
	}
	return payload.Entries, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, session *http.Cookie) (*http.Request, error) {
	ref := &url.URL{Path: strings.TrimPrefix(endpoint, "/")}
	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), body)
	if err != nil {
		return nil, fmt.Errorf("web: build request: %w", err)
	}
	if session != nil {
		req.AddCookie(session)
	}
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, endpoint string, payload any, session *http.Cookie) (*http.Request, error) {
	var buf bytes.Buffer
	if payload != nil {
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(payload); err != nil {
			return nil, fmt.Errorf("web: encode payload: %w", err)
		}
	}
	req, err := c.newRequest(ctx, method, endpoint, &buf, session)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload struct {
		Code    string `json:"error"`
		Message string `json:"message"`
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
			return fmt.Errorf("web: backend error (%s): %s", strings.TrimSpace(payload.Code), payload.Message)
		}
		return fmt.Errorf("web: backend error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("web: backend error (%d): %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
