package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjellis/flowconv/internal/convert"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(success bool) *convert.Report {
	report := &convert.Report{
		Success:        success,
		Errors:         []convert.Issue{},
		Warnings:       []convert.Issue{},
		ProcessedNodes: 2,
		SkippedNodes:   0,
		TotalNodes:     2,
	}
	if !success {
		report.Errors = append(report.Errors, convert.Issue{
			Category: convert.CategorySchema,
			Severity: convert.SeverityCritical,
			Message:  "no schema registered for node type \"Bad\"",
			NodeID:   "2",
		})
		report.ProcessedNodes = 1
		report.SkippedNodes = 1
	}
	return report
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveRun(ctx, "flow.json", sampleReport(false))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.Success)
	assert.Equal(t, 1, saved.ErrorCount)
	assert.Equal(t, 0, saved.WarningCount)
	assert.Equal(t, 1, saved.ProcessedNodes)
	assert.Equal(t, 1, saved.SkippedNodes)
	assert.Equal(t, 2, saved.TotalNodes)

	got, err := s.GetRun(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "flow.json", got.Source)
	assert.Equal(t, saved.CreatedAt.UTC(), got.CreatedAt.UTC())
	assert.Contains(t, got.ReportJSON, `"success":false`)
}

func TestGetRunMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRun(context.Background(), "no-such-id")
	assert.Error(t, err)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.SaveRun(ctx, "a.json", sampleReport(true))
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, "b.json", sampleReport(false))
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)
}

func TestListRunsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.SaveRun(ctx, "flow.json", sampleReport(true))
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
