package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"promptvault/internal/middleware"
	"promptvault/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultDescription is used whenever no summary could be generated.
const DefaultDescription = "A user submitted prompt."

const (
	optimizeInstruction = "You are an expert prompt engineer. Optimize the prompt you are given to be more " +
		"effective for a large language model. Make it clearer, more specific, and structured. " +
		"Do not lose the original intent. Return ONLY the optimized prompt text, no explanations."
	describeInstruction = "Write a very short description (one sentence, at most 15 words) of the AI prompt " +
		"you are given. Return only the sentence."
)

var errEmptyOutput = errors.New("assist: empty output")

// Service exposes the prompt assistance operations. Failures never surface
// to callers of Optimize and Describe; they fall back instead.
type Service struct {
	gen Generator
}

func NewService(gen Generator) *Service {
	if gen == nil {
		gen = NoopGenerator{}
	}
	return &Service{gen: gen}
}

// Enabled reports whether a real backend is configured.
func (s *Service) Enabled() bool {
	_, noop := s.gen.(NoopGenerator)
	return !noop
}

// Optimize rewrites a prompt, or returns it unchanged on any failure.
func (s *Service) Optimize(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	out, err := s.run(ctx, "optimize", optimizeInstruction, fmt.Sprintf("Original prompt:\n%q", text))
	if err != nil {
		return text
	}
	return out
}

// Describe returns a one sentence summary or DefaultDescription.
func (s *Service) Describe(ctx context.Context, title, content string) string {
	out, err := s.GenerateDescription(ctx, title, content)
	if err != nil {
		return DefaultDescription
	}
	return out
}

// GenerateDescription is Describe without the fallback.
func (s *Service) GenerateDescription(ctx context.Context, title, content string) (string, error) {
	user := fmt.Sprintf("Title: %s\n\nPrompt:\n%q", strings.TrimSpace(title), content)
	return s.run(ctx, "describe", describeInstruction, user)
}

func (s *Service) run(ctx context.Context, operation, system, user string) (out string, err error) {
	ctx, span := observability.StartSpan(ctx, "assist", operation,
		attribute.Int("assist.input_bytes", len(user)))
	defer func() { observability.EndSpan(span, err) }()

	out, err = s.gen.Generate(ctx, system, user)
	switch {
	case errors.Is(err, ErrDisabled):
		observability.AssistRequests.WithLabelValues(operation, "disabled").Inc()
	case err != nil:
		observability.AssistRequests.WithLabelValues(operation, "error").Inc()
		middleware.Logger.WarnContext(ctx, "text generation failed, using fallback",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	default:
		observability.AssistRequests.WithLabelValues(operation, "ok").Inc()
	}
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(strings.Trim(strings.TrimSpace(out), "\""))
	if out == "" {
		return "", errEmptyOutput
	}
	return out, nil
}
