package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dgallion1/finreport/internal/failure"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 120 * time.Second

// Options tunes a Client. Zero values mean: DefaultTimeout, no retries,
// no rate limit.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	// RateLimit is the maximum number of calls per second.
	RateLimit float64
	// Backoff picks the wait before retry attempt n; nil uses Backoff.
	Backoff func(attempt int) time.Duration
}

// Client wraps a Provider with timeouts, optional retries, rate limiting
// and latency stats.
type Client struct {
	provider   Provider
	timeout    time.Duration
	maxRetries int
	limiter    *rate.Limiter
	backoff    func(attempt int) time.Duration
	stats      *Stats
	log        *slog.Logger
}

func NewClient(p Provider, opts Options, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff == nil {
		opts.Backoff = Backoff
	}
	c := &Client{
		provider:   p,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		stats:      NewStats(time.Hour),
		log:        log,
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c
}

func (c *Client) Stats() *Stats      { return c.stats }
func (c *Client) Provider() Provider { return c.provider }

// Generate sends prompt and returns the first candidate's parts,
// concatenated and trimmed. A response with no candidates fails with
// failure.NoCandidates; a failed call with failure.Generation.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.call(ctx, prompt)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		c.stats.Record(elapsed, OutcomeFailed)
		c.log.Error("model call failed",
			"provider", c.provider.Name(),
			"model", c.provider.Model(),
			"duration_ms", elapsed,
			"error", err,
		)
		return "", failure.New(failure.Generation, "generate", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		c.stats.Record(elapsed, OutcomeEmpty)
		c.log.Warn("model returned no candidates",
			"provider", c.provider.Name(),
			"duration_ms", elapsed,
		)
		return "", failure.New(failure.NoCandidates, "generate", nil)
	}

	c.stats.Record(elapsed, OutcomeOK)
	text := strings.TrimSpace(strings.Join(resp.Candidates[0].Parts, ""))
	c.log.Info("model call complete",
		"provider", c.provider.Name(),
		"model", c.provider.Model(),
		"duration_ms", elapsed,
		"prompt_chars", len(prompt),
		"prompt_tokens_est", EstimateTokens(prompt),
		"response_chars", len(text),
		"stop_reason", resp.StopReason,
	)
	return text, nil
}

// Answer is Generate for question answering. It never fails: a response
// without candidates becomes failure.NotAvailable and any other failure
// becomes failure.QueryError.
func (c *Client) Answer(ctx context.Context, prompt string) string {
	text, err := c.Generate(ctx, prompt)
	if err != nil {
		if kind, _ := failure.KindOf(err); kind == failure.NoCandidates {
			return failure.NotAvailable
		}
		return failure.QueryError
	}
	return text
}

// Complete is Generate with failures reduced to an empty string.
func (c *Client) Complete(ctx context.Context, prompt string) string {
	text, err := c.Generate(ctx, prompt)
	if err != nil {
		return ""
	}
	return text
}

func (c *Client) call(ctx context.Context, prompt string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	for attempt := 0; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.provider.Generate(callCtx, prompt)
		cancel()
		if err == nil || !IsRetryable(err) || attempt >= c.maxRetries {
			return resp, err
		}

		wait := c.backoff(attempt)
		c.log.Warn("retrying model call",
			"provider", c.provider.Name(),
			"attempt", attempt+1,
			"wait", wait,
			"error", err,
		)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
