package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/policywatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fixedClock makes Save timestamps advance one minute per call
func fixedClock(s *Store) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	s.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
}

func result(score int, source model.Source) model.AnalysisResult {
	return model.AnalysisResult{
		Score:          score,
		HarmfulPoints:  "Shares data with advertisers",
		WorstData:      "Location",
		Recommendation: "Limit permissions",
		Source:         source,
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "history")
		s, err := Open(dir)
		require.NoError(t, err)
		defer func() { _ = s.Close() }()

		_, err = os.Stat(s.Path())
		assert.NoError(t, err)
		assert.NotEmpty(t, s.Session())
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		first, err := Open(dir)
		require.NoError(t, err)
		_, err = first.Save(context.Background(), Entry{Website: "https://example.com", AnalysisType: TypeCompany, Score: 50, Source: model.SourceFallback})
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second, err := Open(dir)
		require.NoError(t, err)
		defer func() { _ = second.Close() }()

		entries, err := second.Recent(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.NotEqual(t, first.Session(), second.Session())
	})
}

func TestRecord(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "https://www.facebook.com/privacy/policy", model.PlatformFacebook, result(25, model.SourceRemote)))
	require.NoError(t, s.Record(ctx, "https://shop.example.co.uk", model.PlatformUnknown, result(50, model.SourceFallback)))

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byType := map[string]Entry{}
	for _, e := range entries {
		byType[e.AnalysisType] = e
	}

	policy := byType[TypePolicy]
	assert.Equal(t, "https://www.facebook.com/privacy/policy", policy.Website)
	assert.Equal(t, "Facebook", policy.Company)
	assert.Equal(t, model.PlatformFacebook, policy.Platform)
	assert.Equal(t, 25, policy.Score)
	assert.Equal(t, "Location", policy.WorstData)
	assert.Equal(t, model.SourceRemote, policy.Source)
	assert.Equal(t, s.Session(), policy.Session)

	company := byType[TypeCompany]
	assert.Equal(t, "Example", company.Company)
	assert.Equal(t, model.SourceFallback, company.Source)
}

func TestRecent(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	fixedClock(s)
	ctx := context.Background()

	for i, site := range []string{"https://a.test", "https://b.test", "https://c.test"} {
		_, err := s.Save(ctx, Entry{Website: site, AnalysisType: TypeCompany, Score: 10 * (i + 1), Source: model.SourceRemote})
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		entries, err := s.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "https://c.test", entries[0].Website)
		assert.Equal(t, "https://a.test", entries[2].Website)
		assert.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt))
	})

	t.Run("limit", func(t *testing.T) {
		entries, err := s.Recent(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		entries, err := s.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}

func TestRecent_Empty(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)

	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_DefaultsPlatform(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, Entry{Website: "https://x.test", AnalysisType: TypeCompany, Score: 50, Source: model.SourceFallback})
	require.NoError(t, err)
	assert.Positive(t, id)

	entries, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.PlatformUnknown, entries[0].Platform)
}

func TestPlatformStats(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	fixedClock(s)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "https://facebook.com/privacy", model.PlatformFacebook, result(20, model.SourceRemote)))
	require.NoError(t, s.Record(ctx, "https://facebook.com/policy", model.PlatformFacebook, result(30, model.SourceRemote)))
	require.NoError(t, s.Record(ctx, "https://tiktok.com/legal/privacy", model.PlatformTikTok, result(15, model.SourceFallback)))

	stats, err := s.PlatformStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, model.PlatformFacebook, stats[0].Platform)
	assert.Equal(t, 2, stats[0].Count)
	assert.InDelta(t, 25.0, stats[0].AverageScore, 0.001)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 2, 0, 0, time.UTC), stats[0].LastAnalyzed)

	assert.Equal(t, model.PlatformTikTok, stats[1].Platform)
	assert.Equal(t, 1, stats[1].Count)
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	ctx := context.Background()

	empty, err := s.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, empty)

	require.NoError(t, s.Record(ctx, "https://facebook.com/privacy", model.PlatformFacebook, result(20, model.SourceRemote)))
	require.NoError(t, s.Record(ctx, "https://facebook.com/privacy", model.PlatformFacebook, result(40, model.SourceRemote)))
	require.NoError(t, s.Record(ctx, "https://finn.no", model.PlatformFinn, result(75, model.SourceFallback)))

	sum, err := s.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.UniqueWebsites)
	assert.InDelta(t, 45.0, sum.AverageScore, 0.001)
	assert.Equal(t, 2, sum.HighRisk)
}
