// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recommend

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

	"github.com/taibuivan/bolgeo/internal/platform/constants"
	"github.com/taibuivan/bolgeo/internal/platform/metrics"
)

// # Retry Policy

const (
	// MaxRetries is the number of retries after the first rate-limited attempt.
	MaxRetries = 3

	// BaseDelay is the wait before the first retry. It doubles on every retry.
	BaseDelay = 2 * time.Second

	// maxErrorBody bounds how much of an error answer is read.
	maxErrorBody = 64 * 1024
)

// Backoff returns the wait before retry number attempt+1: 2s, 4s, 8s.
func Backoff(attempt int) time.Duration {
	return BaseDelay << attempt
}

// Completer produces raw completion text for a prompt.
type Completer interface {
	Complete(context context.Context, prompt string) (string, error)
}

// SleepFunc blocks for d. Tests replace it to observe the retry sequence.
type SleepFunc func(context context.Context, d time.Duration) error

// GenerationConfig is the fixed sampling configuration of every call.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// DefaultGeneration keeps answers deterministic and short.
var DefaultGeneration = GenerationConfig{
	Temperature:     0.0,
	TopP:            0.95,
	MaxOutputTokens: 1000,
}

// # Wire Types

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// # Client

// Client calls the Gemini generateContent REST endpoint.
//
// # Resilience
//
// Rate-limited attempts are retried with exponential backoff. A circuit
// breaker trips on repeated transport failures; rate limits never count
// against it.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	generation GenerationConfig
	breaker    *gobreaker.CircuitBreaker[string]
	sleep      SleepFunc
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) { client.httpClient = httpClient }
}

// WithSleep replaces the backoff sleep.
func WithSleep(sleep SleepFunc) Option {
	return func(client *Client) { client.sleep = sleep }
}

// NewClient creates a Client for model served under baseURL.
func NewClient(apiKey, model, baseURL string, logger *slog.Logger, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: constants.RecommendRequestTimeout},
		endpoint:   strings.TrimRight(baseURL, "/") + "/models/" + url.PathEscape(model) + ":generateContent",
		apiKey:     apiKey,
		generation: DefaultGeneration,
		sleep:      sleepContext,
		logger:     logger,
	}

	client.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "completion",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsRateLimited(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit_breaker_state_changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Complete returns the completion text for prompt.
//
// A rate-limited attempt is retried up to [MaxRetries] times after waiting
// [Backoff] of the attempt number. Any other failure returns immediately.
// After the last retry the final rate-limit error is returned.
func (client *Client) Complete(context context.Context, prompt string) (string, error) {
	for attempt := 0; ; attempt++ {
		text, err := client.breaker.Execute(func() (string, error) {
			return client.generate(context, prompt)
		})

		switch {
		case err == nil:
			metrics.RecordCompletionAttempt("success")
			return text, nil

		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordCompletionAttempt("rejected")
			return "", fmt.Errorf("%w: %w", ErrTransport, err)

		case !IsRateLimited(err):
			metrics.RecordCompletionAttempt("failure")
			return "", err
		}

		metrics.RecordCompletionAttempt("rate_limited")
		if attempt >= MaxRetries {
			return "", err
		}

		delay := Backoff(attempt)
		client.logger.WarnContext(context, "completion_rate_limited",
			slog.Int("attempt", attempt+1),
			slog.Duration("retry_in", delay),
		)

		if err := client.sleep(context, delay); err != nil {
			return "", fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}
}

// generate performs one generateContent call.
func (client *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: client.generation,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", ErrTransport, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", client.apiKey)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", decodeStatusError(response)
	}

	var decoded generateResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrTransport, err)
	}

	if len(decoded.Candidates) == 0 {
		return "", nil
	}

	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

func decodeStatusError(response *http.Response) *StatusError {
	statusError := &StatusError{StatusCode: response.StatusCode, Message: response.Status}

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
	if err != nil {
		return statusError
	}

	var decoded errorResponse
	if json.Unmarshal(raw, &decoded) == nil && decoded.Error.Message != "" {
		statusError.Status = decoded.Error.Status
		statusError.Message = decoded.Error.Message
	}
	return statusError
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
