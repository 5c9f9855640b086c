package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Resilient wraps an LLMClient with a shared request rate limit and
// exponential-backoff retries for rate-limit and server errors. It is safe
// for concurrent use by the triage worker pool.
type Resilient struct {
	next       LLMClient
	limiter    *rate.Limiter
	maxRetries int
	logger     *zap.Logger

	// InitialInterval and MaxInterval bound the backoff between attempts.
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// NewResilient returns next wrapped with the given limits. A zero
// requestsPerSecond disables rate limiting; zero maxRetries means a single
// attempt.
func NewResilient(next LLMClient, requestsPerSecond float64, maxRetries int, logger *zap.Logger) *Resilient {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resilient{
		next:            next,
		limiter:         limiter,
		maxRetries:      maxRetries,
		logger:          logger,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

func (r *Resilient) Generate(ctx context.Context, prompt string) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.InitialInterval
	b.MaxInterval = r.MaxInterval

	attempt := 0
	operation := func() (string, error) {
		attempt++
		if err := r.limiter.Wait(ctx); err != nil {
			return "", backoff.Permanent(err)
		}
		resp, err := r.next.Generate(ctx, prompt)
		if err == nil {
			return resp, nil
		}
		if !IsRetryable(err) {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(r.maxRetries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			r.logger.Warn("model call failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
		}),
	)
}

// IsRetryable reports whether err looks like a transient provider failure:
// HTTP 429, any 5xx, or a quota message from providers that do not expose a
// status code.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "rate_limit", "quota", "resource_exhausted", "overloaded"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
