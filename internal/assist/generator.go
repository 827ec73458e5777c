// Package assist wraps an OpenAI-compatible text generation endpoint used to
// polish prompts and summarize them.
package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"promptvault/internal/middleware"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sony/gobreaker"
)

// ErrDisabled is returned when no generation backend is configured.
var ErrDisabled = errors.New("assist: text generation is not configured")

// Generator produces text from a system instruction and a user message.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// NoopGenerator is used when no API key is configured.
type NoopGenerator struct{}

func (NoopGenerator) Generate(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

// Config holds the OpenAIGenerator settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Attempts   uint
	RetryDelay time.Duration
	HTTPClient *http.Client // Optional (tests)
}

// OpenAIGenerator talks to any OpenAI-compatible chat completions API.
type OpenAIGenerator struct {
	client     openai.Client
	model      string
	attempts   uint
	retryDelay time.Duration
	breaker    *gobreaker.CircuitBreaker
}

// NewGenerator returns an OpenAIGenerator when an API key is set and a
// NoopGenerator otherwise.
func NewGenerator(cfg Config) Generator {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return NoopGenerator{}
	}
	return NewOpenAIGenerator(cfg)
}

func NewOpenAIGenerator(cfg Config) *OpenAIGenerator {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// retries are handled below so they are visible to the breaker
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	st := gobreaker.Settings{
		Name:        "assist",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// a rejected request says nothing about upstream health
			return err == nil || !isRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			middleware.Logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &OpenAIGenerator{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
		breaker:    gobreaker.NewCircuitBreaker(st),
	}
}

// Generate runs one chat completion, retrying transient failures.
func (g *OpenAIGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	out, err := g.breaker.Execute(func() (interface{}, error) {
		var text string
		err := retry.Do(
			func() error {
				var err error
				text, err = g.complete(ctx, system, user)
				return err
			},
			retry.Context(ctx),
			retry.Attempts(g.attempts),
			retry.Delay(g.retryDelay),
			retry.DelayType(retry.BackOffDelay),
			retry.RetryIf(isRetryable),
			retry.LastErrorOnly(true),
		)
		return text, err
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	}
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("assist: completion returned no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("assist: completion returned empty text")
	}
	return text, nil
}

// StatusError carries the upstream HTTP status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("assist: upstream status %d: %s", e.StatusCode, e.Message)
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &StatusError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}
	return err
}

// isRetryable reports whether err is worth another attempt: rate limits,
// server errors and network failures. Cancellation never is.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
