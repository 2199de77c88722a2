package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvents(t *testing.T, repo EventRepo) {
	t.Helper()
	ctx := context.Background()
	events := []LLMRequestEventData{
		{RequestID: "req-1", Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "question-gen",
			InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true,
			RequestBody: "[user]\nGenerate 3 questions", ResponseBody: `{"questions":[]}`},
		{RequestID: "req-2", Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "question-gen",
			LatencyMs: 100, Success: false, ErrorMessage: "LLM provider unavailable"},
		{RequestID: "req-2", Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "question-gen",
			InputTokens: 120, OutputTokens: 300, LatencyMs: 800, Success: true},
		{RequestID: "req-3", Provider: "openai", Model: "gpt-4o-mini", Purpose: "cli",
			InputTokens: 50, OutputTokens: 60, LatencyMs: 300, Success: true},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}
}

func newTestRepo(t *testing.T) *eventRepo {
	t.Helper()
	s := openTestStore(t)
	repo := s.EventRepo().(*eventRepo)
	repo.now = fixedClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return repo
}

func TestQueryLLMEvents_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	seedEvents(t, repo)

	events, err := repo.QueryLLMEvents(context.Background(), QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, int64(4), events[0].Sequence)
	assert.Equal(t, "gpt-4o-mini", events[0].Model)
	assert.Equal(t, int64(1), events[3].Sequence)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 1, 0, 0, time.UTC), events[3].Timestamp)
	assert.True(t, events[3].Success)
	assert.False(t, events[2].Success)
	assert.Equal(t, "LLM provider unavailable", events[2].ErrorMessage)
}

func TestQueryLLMEvents_Filters(t *testing.T) {
	repo := newTestRepo(t)
	seedEvents(t, repo)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		opts QueryOpts
		want []int64
	}{
		{"limit", QueryOpts{Limit: 2}, []int64{4, 3}},
		{"after", QueryOpts{After: 2}, []int64{4, 3}},
		{"before", QueryOpts{Before: 3}, []int64{2, 1}},
		{"purpose", QueryOpts{Purpose: "cli"}, []int64{4}},
		{"request id", QueryOpts{RequestID: "req-2"}, []int64{3, 2}},
		{"time window", QueryOpts{From: base.Add(2 * time.Minute), To: base.Add(3 * time.Minute)}, []int64{3, 2}},
		{"no match", QueryOpts{Purpose: "lesson"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := repo.QueryLLMEvents(ctx, tt.opts)
			require.NoError(t, err)
			var got []int64
			for _, e := range events {
				got = append(got, e.Sequence)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetLLMEvent(t *testing.T) {
	repo := newTestRepo(t)
	seedEvents(t, repo)
	ctx := context.Background()

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{RequestID: "req-1"})
	require.NoError(t, err)
	require.Len(t, events, 1)

	e, err := repo.GetLLMEvent(ctx, events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "[user]\nGenerate 3 questions", e.RequestBody)
	assert.Equal(t, `{"questions":[]}`, e.ResponseBody)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMUsageByPurpose(t *testing.T) {
	repo := newTestRepo(t)
	seedEvents(t, repo)

	usage, err := repo.LLMUsageByPurpose(context.Background())
	require.NoError(t, err)
	require.Len(t, usage, 2)

	qg := usage[0]
	assert.Equal(t, "question-gen", qg.Purpose)
	assert.Empty(t, qg.Model)
	assert.Equal(t, 3, qg.Calls)
	assert.Equal(t, 1, qg.Failures)
	assert.Equal(t, 220, qg.InputTokens)
	assert.Equal(t, 700, qg.OutputTokens)
	assert.Equal(t, int64(600), qg.AvgLatencyMs)

	assert.Equal(t, "cli", usage[1].Purpose)
	assert.Equal(t, 1, usage[1].Calls)
}

func TestLLMUsageByModel(t *testing.T) {
	repo := newTestRepo(t)
	seedEvents(t, repo)

	usage, err := repo.LLMUsageByModel(context.Background())
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, "claude-haiku-4-5-20251001", usage[0].Model)
	assert.Equal(t, 3, usage[0].Calls)
	assert.Equal(t, "gpt-4o-mini", usage[1].Model)
	assert.Equal(t, 50, usage[1].InputTokens)
}

func TestLLMUsage_Empty(t *testing.T) {
	repo := newTestRepo(t)
	usage, err := repo.LLMUsageByPurpose(context.Background())
	require.NoError(t, err)
	assert.Empty(t, usage)
}
