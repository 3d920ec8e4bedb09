package llm_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/finreport/internal/failure"
	"github.com/dgallion1/finreport/internal/llm"
	"github.com/dgallion1/finreport/internal/llm/llmtest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noWait(int) time.Duration { return 0 }

func TestGenerateConcatenatesFirstCandidate(t *testing.T) {
	p := &llmtest.Provider{}
	resp := &llm.Response{Candidates: []llm.Candidate{
		{Parts: []string{"  {\"Metrics\":", " {}}\n"}},
		{Parts: []string{"ignored"}},
	}}
	p.On("Generate", mock.Anything, "prompt").Return(resp, nil).Once()

	c := llm.NewClient(p, llm.Options{}, quietLogger())
	text, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"Metrics": {}}`, text)
	p.AssertExpectations(t)
}

func TestGenerateNoCandidates(t *testing.T) {
	p := &llmtest.Provider{}
	p.On("Generate", mock.Anything, mock.Anything).Return(llmtest.Empty(), nil)

	c := llm.NewClient(p, llm.Options{}, quietLogger())
	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.Sentinel(failure.NoCandidates))

	assert.Equal(t, failure.NotAvailable, c.Answer(context.Background(), "prompt"))
	assert.Equal(t, "", c.Complete(context.Background(), "prompt"))
}

func TestGenerateProviderError(t *testing.T) {
	p := &llmtest.Provider{}
	p.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	c := llm.NewClient(p, llm.Options{}, quietLogger())
	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.Sentinel(failure.Generation))
	assert.Contains(t, err.Error(), "connection refused")

	assert.Equal(t, failure.QueryError, c.Answer(context.Background(), "prompt"))
	assert.Equal(t, "", c.Complete(context.Background(), "prompt"))
}

func TestAnswerReturnsText(t *testing.T) {
	p := &llmtest.Provider{}
	p.On("Generate", mock.Anything, mock.Anything).Return(llmtest.Text("Revenue was ", "500 Cr."), nil)

	c := llm.NewClient(p, llm.Options{}, quietLogger())
	assert.Equal(t, "Revenue was 500 Cr.", c.Answer(context.Background(), "q"))
}

func TestGenerateRetriesRetryableErrors(t *testing.T) {
	p := &llmtest.Provider{}
	transient := &llm.RetryableError{StatusCode: 429, Err: errors.New("rate limited")}
	p.On("Generate", mock.Anything, mock.Anything).Return(nil, transient).Twice()
	p.On("Generate", mock.Anything, mock.Anything).Return(llmtest.Text("ok"), nil).Once()

	c := llm.NewClient(p, llm.Options{MaxRetries: 2, Backoff: noWait}, quietLogger())
	text, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	p.AssertNumberOfCalls(t, "Generate", 3)
}

func TestGenerateGivesUpAfterMaxRetries(t *testing.T) {
	p := &llmtest.Provider{}
	transient := &llm.RetryableError{StatusCode: 503, Err: errors.New("unavailable")}
	p.On("Generate", mock.Anything, mock.Anything).Return(nil, transient)

	c := llm.NewClient(p, llm.Options{MaxRetries: 1, Backoff: noWait}, quietLogger())
	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, llm.IsRetryable(err))
	p.AssertNumberOfCalls(t, "Generate", 2)
}

func TestGenerateDoesNotRetryByDefault(t *testing.T) {
	p := &llmtest.Provider{}
	transient := &llm.RetryableError{StatusCode: 500, Err: errors.New("boom")}
	p.On("Generate", mock.Anything, mock.Anything).Return(nil, transient)

	c := llm.NewClient(p, llm.Options{Backoff: noWait}, quietLogger())
	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	p.AssertNumberOfCalls(t, "Generate", 1)
}

func TestGenerateNonRetryableNotRetried(t *testing.T) {
	p := &llmtest.Provider{}
	p.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("bad request"))

	c := llm.NewClient(p, llm.Options{MaxRetries: 3, Backoff: noWait}, quietLogger())
	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	p.AssertNumberOfCalls(t, "Generate", 1)
}

func TestGenerateAppliesTimeout(t *testing.T) {
	p := &llmtest.Provider{}
	p.On("Generate", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 5*time.Second
	}), mock.Anything).Return(llmtest.Text("ok"), nil)

	c := llm.NewClient(p, llm.Options{Timeout: 5 * time.Second}, quietLogger())
	text, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestGenerateRecordsStats(t *testing.T) {
	p := &llmtest.Provider{}
	p.On("Generate", mock.Anything, "good").Return(llmtest.Text("ok"), nil)
	p.On("Generate", mock.Anything, "empty").Return(llmtest.Empty(), nil)
	p.On("Generate", mock.Anything, "bad").Return(nil, errors.New("boom"))

	c := llm.NewClient(p, llm.Options{}, quietLogger())
	ctx := context.Background()
	_, _ = c.Generate(ctx, "good")
	_, _ = c.Generate(ctx, "good")
	_, _ = c.Generate(ctx, "empty")
	_, _ = c.Generate(ctx, "bad")

	snap := c.Stats().Snapshot()
	assert.Equal(t, 4, snap.Count)
	assert.Equal(t, 2, snap.OK)
	assert.Equal(t, 1, snap.Empty)
	assert.Equal(t, 1, snap.Failed)
}

func TestGenerateHonorsCancelledContextWithRateLimit(t *testing.T) {
	p := &llmtest.Provider{}
	p.On("Generate", mock.Anything, mock.Anything).Return(llmtest.Text("ok"), nil)

	c := llm.NewClient(p, llm.Options{RateLimit: 0.001}, quietLogger())
	_, err := c.Generate(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Generate(ctx, "second")
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.Sentinel(failure.Generation))
	p.AssertNumberOfCalls(t, "Generate", 1)
}
