package pwned

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the public Pwned Passwords API.
	DefaultBaseURL = "https://api.pwnedpasswords.com"

	// DefaultUserAgent identifies zphrase to the API, which requires one.
	DefaultUserAgent = "zphrase"

	defaultTimeout = 30 * time.Second
)

// Config holds range API settings. Zero values fall back to defaults.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client talks to the Pwned Passwords range API.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       *slog.Logger
}

// NewClient creates a range API client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		log:       logger.With("client", "pwned"),
	}
}

// Range fetches every breached hash suffix sharing prefix. Responses are
// padded by the API with zero-count entries so the size leaks nothing.
func (c *Client) Range(ctx context.Context, prefix string) (string, error) {
	u := c.baseURL + "/range/" + prefix

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("range: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Add-Padding", "true")

	c.log.DebugContext(ctx, "range request", slog.String("prefix", prefix))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("range: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("range: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{
			URL:        u,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	c.log.DebugContext(ctx, "range response",
		slog.String("prefix", prefix),
		slog.Int("bytes", len(body)),
	)

	return string(body), nil
}

// StatusError is returned when the range API answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("URL: %s; Status Code: %d; Body: %s", e.URL, e.StatusCode, e.Body)
}
