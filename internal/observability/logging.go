// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// JobLogger logs the lifecycle of background jobs that outlive their request.
type JobLogger struct {
	logger *slog.Logger
	job    string
}

// NewJobLogger returns a JobLogger writing through logger.
func NewJobLogger(logger *slog.Logger, job string) *JobLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobLogger{logger: logger, job: job}
}

// Start logs the job start and returns a function that logs its end.
// The returned function must be called exactly once with the job's error.
func (l *JobLogger) Start(ctx context.Context, attrs ...any) func(error) {
	start := time.Now()
	base := append([]any{slog.String("job", l.job)}, attrs...)
	l.logger.DebugContext(ctx, "background job started", base...)

	return func(err error) {
		fields := append(base[:len(base):len(base)], slog.Duration("elapsed", time.Since(start)))
		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			l.logger.WarnContext(ctx, "background job failed", fields...)
			return
		}
		l.logger.InfoContext(ctx, "background job completed", fields...)
	}
}
