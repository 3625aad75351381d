// Package generator calls an OpenAI-compatible chat completions endpoint to
// produce itinerary text.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"GO2GETHER_PLANNER/internal/config"
)

var (
	// ErrGenerationFailed is matched by every error Generate returns.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrNotConfigured means no credentials were provided.
	ErrNotConfigured = errors.New("generator is not configured")
)

const (
	maxBackoff       = 8 * time.Second
	maxResponseBytes = 4 << 20
)

// Request is one prompt sent to the generator.
type Request struct {
	System string
	Prompt string
	// JSON asks the endpoint for a JSON object reply.
	JSON bool
}

// Client produces free text for a prompt.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Func adapts a function to Client.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Generate(ctx context.Context, req Request) (string, error) { return f(ctx, req) }

// Error describes a failed generation. It matches ErrGenerationFailed and
// the underlying cause with errors.Is.
type Error struct {
	Attempts   int
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation failed after %d attempt(s): status %d: %v", e.Attempts, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("generation failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *Error) Unwrap() []error { return []error{ErrGenerationFailed, e.Err} }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Temperature    float64         `json:"temperature"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ChatClient is the production Client.
type ChatClient struct {
	httpClient     *http.Client
	endpoint       string
	model          string
	temperature    float64
	maxAttempts    int
	timeout        time.Duration
	attemptTimeout time.Duration
	baseBackoff    time.Duration
	logger         *slog.Logger
	tracer         trace.Tracer
}

// NewChatClient builds a client over an already authenticated http.Client.
func NewChatClient(httpClient *http.Client, cfg config.GeneratorConfig, logger *slog.Logger) *ChatClient {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &ChatClient{
		httpClient:     httpClient,
		endpoint:       strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		model:          cfg.Model,
		temperature:    cfg.Temperature,
		maxAttempts:    attempts,
		timeout:        cfg.Timeout,
		attemptTimeout: cfg.AttemptTimeout,
		baseBackoff:    cfg.BaseBackoff,
		logger:         logger.With("component", "generator"),
		tracer:         otel.Tracer("GO2GETHER_PLANNER/generator"),
	}
}

// Generate sends the prompt, retrying transient failures (network errors,
// 429 and 5xx) with exponential backoff and jitter. The reply is the first
// choice's content; an empty reply is a failure. The configured overall
// timeout bounds all attempts and backoffs together.
func (c *ChatClient) Generate(ctx context.Context, req Request) (string, error) {
	ctx, span := c.tracer.Start(ctx, "generator.Generate",
		trace.WithAttributes(attribute.String("generator.model", c.model)))
	defer span.End()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
	}
	if req.JSON {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Err: err}
	}

	var last *Error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		text, status, err := c.once(ctx, body)
		if err == nil {
			span.SetAttributes(attribute.Int("generator.attempts", attempt))
			return text, nil
		}

		last = &Error{Attempts: attempt, StatusCode: status, Err: err}
		if ctx.Err() != nil {
			last.Err = ctx.Err()
			break
		}
		last.Retryable = retryable(status, err)
		if !last.Retryable || attempt == c.maxAttempts {
			break
		}

		wait := c.backoff(attempt)
		c.logger.WarnContext(ctx, "generation attempt failed, retrying",
			"attempt", attempt, "status", status, "backoff", wait, "error", err)
		if err := sleep(ctx, wait); err != nil {
			last.Err = err
			break
		}
	}

	span.RecordError(last)
	span.SetStatus(codes.Error, last.Error())
	span.SetAttributes(attribute.Int("generator.attempts", last.Attempts))
	return "", last
}

// errTransport marks failures before any HTTP status was received.
type errTransport struct{ err error }

func (e errTransport) Error() string { return e.err.Error() }
func (e errTransport) Unwrap() error { return e.err }

func (c *ChatClient) once(ctx context.Context, body []byte) (string, int, error) {
	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", 0, errTransport{err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", resp.StatusCode, errTransport{err}
	}

	var decoded chatResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && decoded.Error != nil && decoded.Error.Message != "" {
			msg = decoded.Error.Message
		}
		return "", resp.StatusCode, errors.New(msg)
	}
	if decodeErr != nil {
		return "", resp.StatusCode, fmt.Errorf("malformed response: %w", decodeErr)
	}
	if len(decoded.Choices) == 0 {
		return "", resp.StatusCode, errors.New("response has no choices")
	}
	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if text == "" {
		return "", resp.StatusCode, errors.New("response content is empty")
	}
	return text, resp.StatusCode, nil
}

func retryable(status int, err error) bool {
	if status == http.StatusTooManyRequests || status >= 500 {
		return true
	}
	var te errTransport
	return status == 0 && errors.As(err, &te)
}

// backoff is base * 2^(attempt-1) plus up to half of that as jitter.
func (c *ChatClient) backoff(attempt int) time.Duration {
	base := c.baseBackoff
	if base <= 0 {
		return 0
	}
	d := base << (attempt - 1)
	if d > maxBackoff || d <= 0 {
		d = maxBackoff
	}
	return d + time.Duration(rand.Int64N(int64(d)/2+1))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Unconfigured fails every request with ErrNotConfigured.
func Unconfigured() Client {
	return Func(func(context.Context, Request) (string, error) {
		return "", &Error{Err: ErrNotConfigured}
	})
}
