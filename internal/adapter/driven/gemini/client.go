// Package gemini implements the LLMClient port against the Gemini
// generateContent REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/port/driven"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/metrics"
)

// Compile-time interface satisfaction check.
var _ driven.LLMClient = (*Client)(nil)

// ErrEmptyResponse is returned when the model answers without any text part.
var ErrEmptyResponse = errors.New("gemini: response contained no text")

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = gobreaker.ErrOpenState

const breakerName = "gemini"

// defaultHTTPClient enforces a timeout as a safety net alongside context cancellation.
var defaultHTTPClient = &http.Client{Timeout: 60 * time.Second}

// BreakerSettings configures the circuit breaker guarding the API.
type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerSettings returns the production breaker configuration.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Client calls generateContent for a single model.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	breaker    *gobreaker.CircuitBreaker[string]
	logger     *slog.Logger
}

// NewClient creates a Client using a default HTTP client with a timeout.
func NewClient(apiKey, model, baseURL string, logger *slog.Logger) *Client {
	return NewClientWithHTTPClient(defaultHTTPClient, apiKey, model, baseURL, DefaultBreakerSettings(), logger)
}

// NewClientWithHTTPClient creates a Client with a custom HTTP client and
// breaker settings. Used for testing with httptest servers.
func NewClientWithHTTPClient(
	httpClient *http.Client,
	apiKey, model, baseURL string,
	bs BreakerSettings,
	logger *slog.Logger,
) *Client {
	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: bs.MaxRequests,
		Interval:    bs.Interval,
		Timeout:     bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bs.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bs.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}
	metrics.BreakerState.WithLabelValues(breakerName).Set(0)

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		breaker:    gobreaker.NewCircuitBreaker[string](settings),
		logger:     logger,
	}
}

// GenerateText sends prompt as a single user turn and returns the text of
// the first candidate's first part.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", driven.ErrLLMNotConfigured
	}

	start := time.Now()
	text, err := c.breaker.Execute(func() (string, error) {
		return c.generate(ctx, prompt)
	})
	metrics.LLMDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMRequests.WithLabelValues(c.model, metrics.OutcomeError).Inc()
		return "", fmt.Errorf("generate content: %w", err)
	}
	metrics.LLMRequests.WithLabelValues(c.model, metrics.OutcomeOK).Inc()
	return text, nil
}

// State returns the current breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the API key; report the operation only.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	c.logger.DebugContext(ctx, "gemini response received", "model", c.model, "candidates", len(parsed.Candidates))
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// stateToFloat maps gobreaker states to gauge values.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
