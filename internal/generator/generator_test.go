package generator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_PLANNER/internal/config"
)

func testConfig(baseURL string) config.GeneratorConfig {
	return config.GeneratorConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "gpt-4o-mini",
		Temperature:    0.7,
		MaxAttempts:    3,
		Timeout:        5 * time.Second,
		AttemptTimeout: 2 * time.Second,
		BaseBackoff:    time.Millisecond,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func reply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
	})
	return string(b)
}

func TestGenerateSendsChatRequest(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, reply("  **Day 1**\n- Museum  "))
	}))
	defer srv.Close()

	ctx := WithBaseClient(context.Background(), srv.Client())
	c, err := New(ctx, testConfig(srv.URL+"/v1/"), quietLogger())
	require.NoError(t, err)

	text, err := c.Generate(context.Background(), Request{System: "planner", Prompt: "plan it"})
	require.NoError(t, err)
	assert.Equal(t, "**Day 1**\n- Museum", text)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 0.7, got.Temperature)
	assert.Equal(t, []chatMessage{{Role: "system", Content: "planner"}, {Role: "user", Content: "plan it"}}, got.Messages)
	assert.Nil(t, got.ResponseFormat)
}

func TestGenerateRequestsJSONObject(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, reply(`{"days":[]}`))
	}))
	defer srv.Close()

	c := NewChatClient(srv.Client(), testConfig(srv.URL), quietLogger())
	_, err := c.Generate(context.Background(), Request{Prompt: "x", JSON: true})
	require.NoError(t, err)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestGenerateRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			io.WriteString(w, reply("ok"))
		}
	}))
	defer srv.Close()

	c := NewChatClient(srv.Client(), testConfig(srv.URL), quietLogger())
	text, err := c.Generate(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"error":{"message":"upstream down"}}`)
	}))
	defer srv.Close()

	c := NewChatClient(srv.Client(), testConfig(srv.URL), quietLogger())
	_, err := c.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	var genErr *Error
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, 3, genErr.Attempts)
	assert.Equal(t, http.StatusBadGateway, genErr.StatusCode)
	assert.True(t, genErr.Retryable)
	assert.Contains(t, err.Error(), "upstream down")
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateDoesNotRetryPermanentFailures(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"bad request": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"choices": [`)
		},
		"no choices": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"choices": []}`)
		},
		"empty content": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, reply("   "))
		},
	}
	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				h(w, r)
			}))
			defer srv.Close()

			c := NewChatClient(srv.Client(), testConfig(srv.URL), quietLogger())
			text, err := c.Generate(context.Background(), Request{Prompt: "x"})
			assert.Empty(t, text)
			assert.ErrorIs(t, err, ErrGenerationFailed)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestGenerateRetriesNetworkErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewChatClient(http.DefaultClient, testConfig(url), quietLogger())
	_, err := c.Generate(context.Background(), Request{Prompt: "x"})

	var genErr *Error
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, 3, genErr.Attempts)
	assert.True(t, genErr.Retryable)
}

func TestGenerateHonoursCancellation(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := NewChatClient(srv.Client(), testConfig(srv.URL), quietLogger())
	_, err := c.Generate(ctx, Request{Prompt: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateOverallTimeoutCutsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 100 * time.Millisecond
	cfg.BaseBackoff = time.Second

	c := NewChatClient(srv.Client(), cfg, quietLogger())
	start := time.Now()
	_, err := c.Generate(context.Background(), Request{Prompt: "x"})
	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateOverallTimeoutBoundsSlowAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 100 * time.Millisecond
	cfg.AttemptTimeout = 5 * time.Second

	c := NewChatClient(srv.Client(), cfg, quietLogger())
	start := time.Now()
	_, err := c.Generate(context.Background(), Request{Prompt: "x"})
	assert.Less(t, time.Since(start), 2*time.Second)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 1, gerr.Attempts)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUnconfigured(t *testing.T) {
	c, err := New(context.Background(), config.GeneratorConfig{}, quietLogger())
	require.NoError(t, err)
	_, err = c.Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestBackoffGrowsAndIsCapped(t *testing.T) {
	c := NewChatClient(http.DefaultClient, config.GeneratorConfig{BaseBackoff: 100 * time.Millisecond, MaxAttempts: 3}, nil)
	for attempt, lo := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 3: 400 * time.Millisecond} {
		d := c.backoff(attempt)
		assert.GreaterOrEqual(t, d, lo)
		assert.LessOrEqual(t, d, lo+lo/2)
	}
	assert.LessOrEqual(t, c.backoff(20), maxBackoff+maxBackoff/2)
}
