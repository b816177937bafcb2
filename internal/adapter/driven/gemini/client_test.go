package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driven/gemini"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/port/driven"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, server *httptest.Server, apiKey string, bs gemini.BreakerSettings) *gemini.Client {
	t.Helper()
	return gemini.NewClientWithHTTPClient(server.Client(), apiKey, "test-model", server.URL+"/v1/", bs, testLogger())
}

func candidateResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

func TestGenerateText_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		require.Len(t, body.Contents[0].Parts, 1)
		assert.Equal(t, "Summarize this", body.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(candidateResponse("A short summary."))
	}))
	defer server.Close()

	client := newTestClient(t, server, "secret", gemini.DefaultBreakerSettings())

	text, err := client.GenerateText(context.Background(), "Summarize this")

	require.NoError(t, err)
	assert.Equal(t, "A short summary.", text)
}

func TestGenerateText_NoAPIKey(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server, "", gemini.DefaultBreakerSettings())

	_, err := client.GenerateText(context.Background(), "hi")

	require.ErrorIs(t, err, driven.ErrLLMNotConfigured)
	assert.Zero(t, calls.Load())
}

func TestGenerateText_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"API key not valid"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(t, server, "bad", gemini.DefaultBreakerSettings())

	_, err := client.GenerateText(context.Background(), "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 400")
	assert.Contains(t, err.Error(), "API key not valid")
	assert.NotContains(t, err.Error(), "key=bad")
}

func TestGenerateText_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, "secret", gemini.DefaultBreakerSettings())

	_, err := client.GenerateText(context.Background(), "hi")

	require.ErrorIs(t, err, gemini.ErrEmptyResponse)
}

func TestGenerateText_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": [`))
	}))
	defer server.Close()

	client := newTestClient(t, server, "secret", gemini.DefaultBreakerSettings())

	_, err := client.GenerateText(context.Background(), "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestGenerateText_BreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	bs := gemini.BreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  2,
	}
	client := newTestClient(t, server, "secret", bs)

	for range 2 {
		_, err := client.GenerateText(context.Background(), "hi")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, client.State())

	_, err := client.GenerateText(context.Background(), "hi")
	require.ErrorIs(t, err, gemini.ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerateText_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(t, server, "secret", gemini.DefaultBreakerSettings())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GenerateText(ctx, "hi")

	require.ErrorIs(t, err, context.DeadlineExceeded)
}
