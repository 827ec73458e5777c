package middleware

import (
	"fmt"
	"strings"

	"promptvault/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens one server span per request. The span is renamed to
// the matched route once routing has run, so /api/prompts/:id groups every
// prompt read under a single name.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		method := c.Method()
		ctx, span := observability.Tracer.Start(ctx, method+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", method),
				attribute.String("http.target", c.OriginalURL()),
				attribute.String("http.client_ip", c.IP()),
				attribute.String("http.user_agent", c.Get(fiber.HeaderUserAgent)),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		c.Locals("spanID", span.SpanContext().SpanID().String())
		c.Set("X-Trace-ID", traceID)
		if requestID := c.Locals("requestid"); requestID != nil {
			span.SetAttributes(attribute.String("request.id", fmt.Sprintf("%v", requestID)))
		}
		c.SetUserContext(ctx)

		err := c.Next()

		// c.Route() now points at the last route that ran.
		if route := c.Route(); route != nil && route.Method == method {
			span.SetName(method + " " + route.Path)
			span.SetAttributes(attribute.String("http.route", route.Path))
			if strings.HasPrefix(route.Path, "/api/prompts/:id") {
				span.SetAttributes(attribute.String("promptvault.prompt_id", c.Params("id")))
			}
		}
		if userID, ok := UserID(c); ok {
			span.SetAttributes(attribute.String("enduser.id", userID))
		}

		status := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, fmt.Sprintf("status %d", status))
		}
		return err
	}
}
