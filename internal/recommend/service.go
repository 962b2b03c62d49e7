// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recommend

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/bolgeo/internal/catalog"
	"github.com/taibuivan/bolgeo/internal/platform/metrics"
	"github.com/taibuivan/bolgeo/internal/platform/validate"
)

// MaxPromptLength bounds the free-text request of a user.
const MaxPromptLength = 500

// Outcome is the product of one recommendation run.
type Outcome struct {
	// Raw is the completion text exactly as returned by the model.
	Raw      string    `json:"-"`
	Result   *Result   `json:"result"`
	Warnings []Warning `json:"warnings"`
}

// Service runs the prompt, complete, parse and check pipeline.
type Service struct {
	completer Completer
	catalog   *catalog.Catalog
	logger    *slog.Logger
}

// NewService creates a new Service.
func NewService(completer Completer, c *catalog.Catalog, logger *slog.Logger) *Service {
	return &Service{
		completer: completer,
		catalog:   c,
		logger:    logger,
	}
}

/*
Recommend asks the model for titles matching prompt while excluding seen.

The pipeline ignores cancellation of the caller: once started, a retry
sequence runs to completion. When the completion succeeds but cannot be
parsed, the returned Outcome still carries the raw text alongside an
[ErrMalformedResponse] error.

Parameters:
  - ctx: context.Context (values only; cancellation is ignored)
  - prompt: string (1..MaxPromptLength characters)
  - seen: []string (titles to exclude)

Returns:
  - *Outcome: Raw text, parsed result and soft warnings
  - error: Validation, rate-limit, transport or malformed-response errors
*/
func (service *Service) Recommend(ctx context.Context, prompt string, seen []string) (*Outcome, error) {
	if err := (&validate.Validator{}).
		Required("prompt", prompt).
		MaxLen("prompt", prompt, MaxPromptLength).
		Err(); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	startTime := time.Now()

	raw, err := service.completer.Complete(ctx, BuildPrompt(service.catalog, seen, prompt))
	if err != nil {
		service.finish(ctx, outcomeOf(err), startTime, err)
		return nil, toAppError(err)
	}

	outcome := &Outcome{Raw: raw}

	result, err := ParseResult(raw)
	if err != nil {
		service.finish(ctx, "malformed", startTime, err)
		return outcome, toAppError(err)
	}
	outcome.Result = result
	outcome.Warnings = Validate(result, service.catalog, seen)

	for _, warning := range outcome.Warnings {
		metrics.RecordRecommendWarning(string(warning.Kind))
		service.logger.WarnContext(ctx, "recommendation_warning",
			slog.String("kind", string(warning.Kind)),
			slog.String("title", warning.Title),
			slog.String("message", warning.Message),
		)
	}

	service.finish(ctx, "success", startTime, nil)
	return outcome, nil
}

func (service *Service) finish(ctx context.Context, outcome string, startTime time.Time, err error) {
	metrics.RecordRecommendOutcome(outcome)

	attrs := []any{
		slog.String("outcome", outcome),
		slog.Duration("duration", time.Since(startTime)),
	}
	if err != nil {
		service.logger.ErrorContext(ctx, "recommendation_failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	service.logger.InfoContext(ctx, "recommendation_completed", attrs...)
}

func outcomeOf(err error) string {
	switch {
	case IsRateLimited(err):
		return "rate_limited"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "transport"
	}
}
