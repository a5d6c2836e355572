package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docindex/internal/diag"
	"git.home.luguber.info/inful/docindex/internal/pipeline"
)

func sampleReport(id string, start time.Time) *pipeline.RunReport {
	return &pipeline.RunReport{
		ID:        id,
		Start:     start,
		End:       start.Add(time.Minute),
		Outcome:   pipeline.OutcomeSuccess,
		Language:  "Go",
		Artifacts: 10,
		Services:  3,
		Diagnostics: []diag.Diagnostic{
			{Kind: diag.MissingServiceName, Subject: "X", Message: "no catalog entry"},
		},
		StageDurations: map[string]time.Duration{"fetch_catalog": time.Second},
	}
}

func TestRecordAndRecent(t *testing.T) {
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, sampleReport("run-1", base)))
	require.NoError(t, store.Record(ctx, sampleReport("run-2", base.Add(time.Hour))))

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "run-2", entries[0].ID, "newest first")
	require.Equal(t, "run-1", entries[1].ID)
	require.Equal(t, 10, entries[0].Artifacts)
	require.Equal(t, 1, entries[0].Diagnostics)
	require.Contains(t, entries[0].ReportJSON, "missing_service_name")
}

func TestRecordIsIdempotentPerRunID(t *testing.T) {
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	r := sampleReport("run-1", time.Now())
	require.NoError(t, store.Record(ctx, r))
	require.NoError(t, store.Record(ctx, r))

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRecentLimitDefaults(t *testing.T) {
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, entries)
}
