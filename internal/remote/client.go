// Package remote talks to the user's hosted calendar provider. The
// provider follows the Microsoft Graph conventions: bearer auth, a
// calendarView window query, and event times as {dateTime, timeZone}
// objects.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"aawo/internal/event"
)

// DefaultBaseURL targets Microsoft Graph.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

const (
	maxAttempts    = 4
	maxRetryAfter  = 10 * time.Second
	pageSize       = 80
	requestTimeout = 30 * time.Second
)

// ErrNotConnected means no account is linked. Callers treat this as a
// valid empty calendar, not a failure.
var ErrNotConnected = errors.New("calendar provider is not connected")

// APIError is a non-retryable provider error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}

// TokenSource supplies bearer tokens for provider requests. It returns
// ErrNotConnected when no account is linked.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource for a fixed token, used for personal
// access tokens and tests.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(ctx context.Context) (string, error) {
	if t == "" {
		return "", ErrNotConnected
	}
	return string(t), nil
}

// Client fetches calendar events from the provider.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client

	// sleep is swapped out in tests to avoid real throttling waits.
	sleep func(time.Duration)
}

// NewClient creates a provider client. An empty baseURL targets Graph.
func NewClient(baseURL string, tokens TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: requestTimeout},
		sleep:      time.Sleep,
	}
}

type calendarViewResponse struct {
	Value []event.RemoteEvent `json:"value"`
}

// ListEvents returns the provider's events intersecting [start, end).
// Throttling responses are retried with the advertised backoff.
func (c *Client) ListEvents(ctx context.Context, start, end time.Time) ([]event.RemoteEvent, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("startDateTime", start.UTC().Format(time.RFC3339))
	query.Set("endDateTime", end.UTC().Format(time.RFC3339))
	query.Set("$top", strconv.Itoa(pageSize))
	query.Set("$orderby", "start/dateTime")

	endpoint := c.baseURL + "/me/calendar/calendarView?" + query.Encode()

	var lastStatus int
	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching calendar view: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			_ = resp.Body.Close()
			lastStatus = resp.StatusCode
			c.sleep(retryAfter)
			continue

		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: provider rejected the token (status %d)",
				ErrNotConnected, resp.StatusCode)

		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
			return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		}

		var view calendarViewResponse
		err = json.NewDecoder(resp.Body).Decode(&view)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding calendar view: %w", err)
		}
		return view.Value, nil
	}

	return nil, &APIError{StatusCode: lastStatus, Message: "request failed repeatedly due to throttling"}
}

func parseRetryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 1 {
		seconds = 2
	}
	d := time.Duration(seconds) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d
}
