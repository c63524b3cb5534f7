// Package pixabay is a client for the Pixabay photo and video search API.
package pixabay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	TypePhoto = "photo"
	TypeVideo = "video"
)

type SearchRequest struct {
	Query   string
	Type    string
	Page    int
	PerPage int
}

// Result is the subset of the search response the proxy needs. Hits keep
// their raw JSON so callers can pass the original payload through.
type Result struct {
	TotalHits int   `json:"totalHits"`
	Hits      []Hit `json:"hits"`
}

// Hit covers both photo and video hits; Videos is nil for photos.
type Hit struct {
	ID           int64       `json:"id"`
	Tags         string      `json:"tags"`
	PreviewURL   string      `json:"previewURL"`
	WebformatURL string      `json:"webformatURL"`
	Videos       *VideoFiles `json:"videos"`
	Downloads    int         `json:"downloads"`
	Likes        int         `json:"likes"`
	Comments     int         `json:"comments"`
	User         string      `json:"user"`

	Raw json.RawMessage `json:"-"`
}

func (h *Hit) UnmarshalJSON(b []byte) error {
	type plain Hit
	var p plain
	err := json.Unmarshal(b, &p)
	if err != nil {
		return err
	}
	*h = Hit(p)
	h.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// VideoFiles holds the rendition the proxy maps; the others stay in Hit.Raw.
type VideoFiles struct {
	Medium VideoFile `json:"medium"`
}

type VideoFile struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
}

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pixabay returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type Client struct {
	apiKey          string
	photoURL        string
	videoURL        string
	httpClient      *http.Client
	timeout         time.Duration
	maxTries        uint
	initialInterval time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds a whole Search call, retries included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithMaxTries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTries = uint(n)
		}
	}
}

func WithInitialInterval(d time.Duration) Option {
	return func(c *Client) { c.initialInterval = d }
}

func New(apiKey, photoURL, videoURL string, opts ...Option) *Client {
	c := &Client{
		apiKey:          apiKey,
		photoURL:        photoURL,
		videoURL:        videoURL,
		httpClient:      &http.Client{},
		timeout:         10 * time.Second,
		maxTries:        3,
		initialInterval: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Search(ctx context.Context, req SearchRequest) (*Result, error) {
	endpoint := c.photoURL
	if req.Type == TypeVideo {
		endpoint = c.videoURL
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid pixabay endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	q.Set("q", req.Query)
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("per_page", strconv.Itoa(req.PerPage))
	q.Set("safesearch", "true")
	u.RawQuery = q.Encode()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialInterval
	bo.MaxInterval = 2 * time.Second

	return backoff.Retry(ctx, func() (*Result, error) {
		return c.fetch(ctx, u.String())
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("pixabay request failed, retrying", "error", err, "type", req.Type, "retry_in", next)
		}),
	)
}

// fetch performs one attempt. Errors wrapped with backoff.Permanent stop the retry loop.
func (c *Client) fetch(ctx context.Context, rawURL string) (*Result, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// url.Error embeds the request URL, which carries the API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fmt.Errorf("pixabay request: %w", err))
		}
		return nil, fmt.Errorf("pixabay request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		if statusErr.Retryable() {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	var result Result
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode pixabay response: %w", err))
	}

	return &result, nil
}
