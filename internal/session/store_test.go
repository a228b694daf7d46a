package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaint-console/internal/common/database"
	"complaint-console/internal/common/logger"
	"complaint-console/internal/domain"
)

func newTestStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, ttl, logger.NewTestLogger(t)), mr
}

func sampleState() domain.WorkflowState {
	analysis := domain.AnalysisResult{
		Category:        domain.CategoryCardIssue,
		Priority:        domain.PriorityHigh,
		Sentiment:       domain.SentimentNeutral,
		ConfidenceScore: 0.75,
		Reasoning:       "Kategori güveni: %80, Öncelik güveni: %70",
	}
	return domain.WorkflowState{
		Phase: domain.PhaseReady,
		Complaint: domain.Complaint{
			ID:              "CMP-1",
			BackendID:       42,
			Timestamp:       time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
			CustomerName:    "Ayşe Yılmaz",
			CustomerSegment: domain.SegmentGold,
			OriginalText:    "Kartım çalışmıyor.",
			MaskedText:      "Kartım çalışmıyor.",
		},
		Analysis:      &analysis,
		Similar:       []domain.SimilarComplaint{{ID: 7, SimilarityScore: 0.8}},
		SimilarLoaded: true,
		Draft:         "Yanıt taslağı",
	}
}

func TestSaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	want := sampleState()
	require.NoError(t, store.Save(ctx, "sess-1", want))

	got, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadUnknownSession(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveReplacesWholesale(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	first := sampleState()
	require.NoError(t, store.Save(ctx, "sess-1", first))

	second := first
	second.Analysis = nil
	second.Similar = nil
	second.Phase = domain.PhaseIdle
	require.NoError(t, store.Save(ctx, "sess-1", second))

	got, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got.Analysis)
	assert.Empty(t, got.Similar)
	assert.Equal(t, domain.PhaseIdle, got.Phase)
}

func TestSessionExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", sampleState()))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRefreshesTTL(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", sampleState()))
	mr.FastForward(45 * time.Second)
	require.NoError(t, store.Save(ctx, "sess-1", sampleState()))
	mr.FastForward(45 * time.Second)

	_, err := store.Load(ctx, "sess-1")
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", sampleState()))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
