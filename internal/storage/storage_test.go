package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-leadscout/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testPost(key string) *models.Post {
	return &models.Post{
		IdentityKey:     key,
		URL:             "https://www.linkedin.com/posts/" + key,
		AuthorName:      "Jane Doe",
		Text:            "We are hiring a backend engineer",
		PublishedAt:     time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Source:          models.SourceKeyword,
		SourceTerm:      "hiring",
		MatchedKeywords: mapset.NewSet("hiring", "engineer"),
		Score:           2,
		Likes:           10,
		Comments:        3,
		CollectedAt:     time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_InsertThenLookup(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	updated, err := store.Upsert(ctx, testPost("p1"))
	require.NoError(t, err)
	assert.False(t, updated)

	got, err := store.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.AuthorName)
	assert.Equal(t, 2, got.Score)
	assert.ElementsMatch(t, []string{"engineer", "hiring"}, got.MatchedList())
}

func TestStore_UpsertPreservesFirstSeenPublishedAt(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := testPost("p1")
	_, err := store.Upsert(ctx, first)
	require.NoError(t, err)

	// Re-collection: different collected_at, refreshed score/engagement,
	// and a drifted published_at that must not win.
	second := testPost("p1")
	second.PublishedAt = first.PublishedAt.Add(-3 * time.Hour)
	second.Score = 5
	second.Likes = 42
	second.CollectedAt = first.CollectedAt.Add(6 * time.Hour)

	updated, err := store.Upsert(ctx, second)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := store.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, first.PublishedAt, got.PublishedAt, "first-seen published_at wins")
	assert.Equal(t, 5, got.Score)
	assert.Equal(t, 42, got.Likes)
	assert.Equal(t, second.CollectedAt, got.CollectedAt)
}

func TestStore_SeenKeys(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"a", "b"} {
		_, err := store.Upsert(ctx, testPost(key))
		require.NoError(t, err)
	}

	keys, err := store.SeenKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, keys.Cardinality())
	assert.True(t, keys.Contains("a"))
	assert.True(t, keys.Contains("b"))
}

func TestStore_TopPostsRankedOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	low := testPost("low")
	low.Score = 1
	high := testPost("high")
	high.Score = 9

	for _, p := range []*models.Post{low, high} {
		_, err := store.Upsert(ctx, p)
		require.NoError(t, err)
	}

	top, err := store.TopPosts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "high", top[0].IdentityKey)
}

func TestWriteCSVSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteCSVSnapshot(path, []*models.Post{testPost("p1")}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "p1", rows[1][0])
	assert.Equal(t, "2", rows[1][4])

	// Rewriting with an empty batch leaves just the header: it is a
	// snapshot, not a log.
	require.NoError(t, WriteCSVSnapshot(path, nil))
	f2, err := os.Open(path)
	require.NoError(t, err)
	defer f2.Close()
	rows, err = csv.NewReader(f2).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestManager_SinkFailuresAreIndependent(t *testing.T) {
	store := openTestStore(t)

	// Point the CSV sink at a directory that does not exist.
	manager := NewManager(store, filepath.Join(t.TempDir(), "missing", "out.csv"), zerolog.Nop())

	result := manager.UpsertAll(context.Background(), []*models.Post{testPost("p1")})

	assert.Error(t, result.CSVErr)
	assert.NoError(t, result.DBErr)
	assert.Equal(t, 1, result.Written)

	// The database write went through despite the CSV failure.
	_, err := store.GetPost(context.Background(), "p1")
	assert.NoError(t, err)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", Snippet("short", 10))

	long := "The quick brown fox jumps over the lazy dog and keeps on running"
	got := Snippet(long, 30)
	assert.LessOrEqual(t, len([]rune(got)), 34)
	assert.Contains(t, got, "...")
}

func TestSnippet_MultibyteRuneBoundaries(t *testing.T) {
	// Two-byte runes, with the only space at rune index 10. That sits well
	// before the word-boundary window for max=20, so the cut must land at
	// the full 20 runes, not at the space.
	text := "éééééééééé ééééééééééééééééééé"
	got := Snippet(text, 20)
	assert.Equal(t, string([]rune(text)[:20])+"...", got)

	// A space inside the window still wins, counted in runes.
	text = "éééééééééééééééééé ééééééééééééééééééé"
	got = Snippet(text, 20)
	assert.Equal(t, string([]rune(text)[:18])+"...", got)
}
