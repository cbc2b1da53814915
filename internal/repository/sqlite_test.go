package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akoreshkov/logstats/internal/models"
)

var _ LogRepository = (*SQLiteRepository)(nil)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func str(s string) *string { return &s }

func record(day int, hour int, url string, browser, os, arch *string) models.LogRecord {
	return models.LogRecord{
		IP:           "10.0.0.1",
		RequestTime:  time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC),
		URL:          url,
		Browser:      browser,
		OS:           os,
		Architecture: arch,
	}
}

func seed(t *testing.T, repo *SQLiteRepository) {
	t.Helper()
	require.NoError(t, repo.InsertBatch([]models.LogRecord{
		// 2024-01-01: three requests, Chrome x2 /a x2
		record(1, 9, "/a", str("Chrome"), str("Windows"), str("x64")),
		record(1, 10, "/a", str("Chrome"), str("Windows"), str("x64")),
		record(1, 11, "/b", str("Firefox"), str("Linux"), str("x86")),
		// 2024-01-02: two requests, tie between /a and /b, Chrome vs Safari
		record(2, 9, "/b", str("Safari"), str("macOS"), str("arm64")),
		record(2, 10, "/a", str("Chrome"), str("Windows"), str("x64")),
		// 2024-01-03: one unclassified request
		record(3, 9, "/c", nil, nil, nil),
	}))
}

func TestInsertBatch_Empty(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.InsertBatch(nil))
}

func TestCountByDate(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)

	counts, err := repo.CountByDate(Filters{})
	require.NoError(t, err)
	assert.Equal(t, []DateCount{
		{Date: "2024-01-01", Count: 3},
		{Date: "2024-01-02", Count: 2},
		{Date: "2024-01-03", Count: 1},
	}, counts)
}

func TestCountByDate_Filters(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)

	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	counts, err := repo.CountByDate(Filters{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []DateCount{{Date: "2024-01-02", Count: 2}}, counts)

	counts, err = repo.CountByDate(Filters{OS: "Windows"})
	require.NoError(t, err)
	assert.Equal(t, []DateCount{
		{Date: "2024-01-01", Count: 2},
		{Date: "2024-01-02", Count: 1},
	}, counts)

	counts, err = repo.CountByDate(Filters{Architecture: "x86"})
	require.NoError(t, err)
	assert.Equal(t, []DateCount{{Date: "2024-01-01", Count: 1}}, counts)

	counts, err = repo.CountByDate(Filters{OS: "Windows", Architecture: "x86"})
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestTopURLByDate_TieBreaksLexicographically(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)

	top, err := repo.TopURLByDate(Filters{})
	require.NoError(t, err)
	assert.Equal(t, "/a", top["2024-01-01"])
	// /a and /b both have one request on 2024-01-02; /a wins the tie.
	assert.Equal(t, "/a", top["2024-01-02"])
	assert.Equal(t, "/c", top["2024-01-03"])
}

func TestTopBrowserByDate_SkipsUnclassified(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)

	top, err := repo.TopBrowserByDate(Filters{})
	require.NoError(t, err)
	assert.Equal(t, "Chrome", top["2024-01-01"])
	// Chrome and Safari tie on 2024-01-02; Chrome sorts first.
	assert.Equal(t, "Chrome", top["2024-01-02"])
	_, present := top["2024-01-03"]
	assert.False(t, present, "a day with only null browsers has no top browser")
}

func TestTopBrowsers(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)

	top, err := repo.TopBrowsers(Filters{}, 3)
	require.NoError(t, err)
	assert.Equal(t, []BrowserCount{
		{Browser: "Chrome", Count: 3},
		// Firefox and Safari tie with 1; name ascending.
		{Browser: "Firefox", Count: 1},
		{Browser: "Safari", Count: 1},
	}, top)

	top, err = repo.TopBrowsers(Filters{}, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
}

func TestBrowserCountsByDate(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)

	counts, err := repo.BrowserCountsByDate(Filters{}, "Chrome")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		"2024-01-01": 2,
		"2024-01-02": 1,
	}, counts)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	counts, err = repo.BrowserCountsByDate(Filters{From: &from, To: &to}, "Chrome")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"2024-01-01": 2}, counts)
}

func TestDistinctValues(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)

	oses, err := repo.DistinctValues("os")
	require.NoError(t, err)
	assert.Equal(t, []string{"Linux", "Windows", "macOS"}, oses)

	archs, err := repo.DistinctValues("architecture")
	require.NoError(t, err)
	assert.Equal(t, []string{"arm64", "x64", "x86"}, archs)

	_, err = repo.DistinctValues("browser; DROP TABLE logs")
	assert.Error(t, err)
}

func TestProcessedFileMarkers(t *testing.T) {
	repo := newTestRepo(t)

	seen, err := repo.HasProcessedFile("abc123")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, repo.MarkFileProcessed(models.ProcessedFile{
		FileName: "access.log", FileHash: "abc123", ParsedAt: time.Now(),
	}))

	seen, err = repo.HasProcessedFile("abc123")
	require.NoError(t, err)
	assert.True(t, seen)

	err = repo.MarkFileProcessed(models.ProcessedFile{
		FileName: "renamed.log", FileHash: "abc123", ParsedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrDuplicateFile)
}
