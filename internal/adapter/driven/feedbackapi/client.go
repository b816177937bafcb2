// Package feedbackapi implements the ReviewBackend port as an HTTP client of
// the feedback REST API.
package feedbackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReviewBackend = (*Client)(nil)

// ErrUnexpectedStatus is returned when the API answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status from feedback api")

// requestTimeout bounds a single API call alongside context cancellation.
const requestTimeout = 30 * time.Second

// Client talks to the feedback API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Client whose transport honours ETag revalidation:
// an unchanged /submissions list is answered with 304 and served from memory.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return NewClientWithHTTPClient(NewCachingHTTPClient(http.DefaultTransport), baseURL, logger)
}

// NewCachingHTTPClient wraps base with an in-memory HTTP cache.
func NewCachingHTTPClient(base http.RoundTripper) *http.Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = base
	return &http.Client{Transport: cacheTransport, Timeout: requestTimeout}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client. This
// constructor is intended for testing with httptest servers.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// ListSubmissions fetches every record in insertion order.
func (c *Client) ListSubmissions(ctx context.Context) ([]model.Submission, error) {
	var dtos []submissionDTO
	if err := c.do(ctx, http.MethodGet, "/submissions", nil, &dtos); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	subs := make([]model.Submission, 0, len(dtos))
	for i, d := range dtos {
		sub, err := d.toModel()
		if err != nil {
			c.logger.DebugContext(ctx, "submission timestamp ignored", "index", i, "error", err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// SubmitReview posts a new review and returns the AI reply for its author.
func (c *Client) SubmitReview(ctx context.Context, rating int, review string) (string, error) {
	var resp submitResponse
	if err := c.do(ctx, http.MethodPost, "/submit_review", submitRequest{Rating: rating, Review: review}, &resp); err != nil {
		return "", fmt.Errorf("submit review: %w", err)
	}
	return resp.UserReply, nil
}

// StarSummary requests the group action text for reviews sharing rating. An
// absent group_action yields "".
func (c *Client) StarSummary(ctx context.Context, reviews []string, rating int) (string, error) {
	if reviews == nil {
		reviews = []string{}
	}

	var resp starSummaryResponse
	if err := c.do(ctx, http.MethodPost, "/star_summary", starSummaryRequest{Reviews: reviews, Rating: rating}, &resp); err != nil {
		return "", fmt.Errorf("star summary: %w", err)
	}
	return resp.GroupAction, nil
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if resp.Header.Get(httpcache.XFromCache) != "" {
		c.logger.DebugContext(ctx, "feedback api response served from cache", "path", path)
	}

	// Read to EOF so the caching transport stores the body.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, er.Error)
	}
	return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
}
