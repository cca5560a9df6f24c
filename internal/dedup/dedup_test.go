package dedup_test

import (
	"testing"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-leadscout/internal/dedup"
	"go-leadscout/internal/models"
	"go-leadscout/internal/parser"
)

func TestIdentityKey_URLWins(t *testing.T) {
	key := dedup.IdentityKey("https://www.linkedin.com/posts/a", "some text")
	assert.Equal(t, "https://www.linkedin.com/posts/a", key)
}

func TestIdentityKey_HashFallbackIsStable(t *testing.T) {
	first := dedup.IdentityKey("", "We are hiring a backend engineer")
	second := dedup.IdentityKey("", "We are hiring a backend engineer")

	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
	assert.NotEqual(t, dedup.IdentityKey("", "different text"), first)
}

func TestProcess_DropsWithinRunDuplicates(t *testing.T) {
	posts := []*models.Post{
		{IdentityKey: "k1", Text: "hiring"},
		{IdentityKey: "k1", Text: "hiring"},
		{IdentityKey: "k2", Text: "hiring"},
	}

	out := dedup.Process(posts, []string{"hiring"}, mapset.NewSet[string]())
	assert.Len(t, out, 2)
}

func TestProcess_IsIdempotent(t *testing.T) {
	batch := func() []*models.Post {
		return []*models.Post{
			{IdentityKey: "k1", Text: "hiring"},
			{IdentityKey: "k2", Text: "engineer"},
		}
	}

	seen := mapset.NewSet[string]()
	first := dedup.Process(batch(), []string{"hiring"}, seen)
	require.Len(t, first, 2)

	// Same batch against the accumulated seen set yields nothing new.
	second := dedup.Process(batch(), []string{"hiring"}, seen)
	assert.Empty(t, second)
}

func TestProcess_RankingIsTotalOrder(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	posts := []*models.Post{
		{IdentityKey: "a", Text: "nothing relevant", PublishedAt: now.Add(-1 * time.Hour)},
		{IdentityKey: "b", Text: "hiring engineer", PublishedAt: now.Add(-5 * time.Hour)},
		{IdentityKey: "c", Text: "hiring", PublishedAt: now.Add(-2 * time.Hour)},
		{IdentityKey: "d", Text: "hiring", PublishedAt: now.Add(-1 * time.Hour)},
	}

	out := dedup.Process(posts, []string{"hiring", "engineer"}, mapset.NewSet[string]())
	require.Len(t, out, 4)

	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], out[i]
		ok := prev.Score > cur.Score ||
			(prev.Score == cur.Score && !prev.PublishedAt.Before(cur.PublishedAt))
		assert.True(t, ok, "ordering violated between %s and %s", prev.IdentityKey, cur.IdentityKey)
	}

	assert.Equal(t, "b", out[0].IdentityKey, "highest score first")
	assert.Equal(t, "d", out[1].IdentityKey, "newer post wins the score tie")
}

// Two fragments with identical text, one with a URL and one without, derive
// different identity keys and are both retained, each scoring both terms.
func TestProcess_URLAndHashKeysDoNotCollapse(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	frags := []models.RawPostFragment{
		{URL: "https://www.linkedin.com/posts/a", Text: "We are hiring a backend engineer", TimeText: "2h"},
		{Text: "We are hiring a backend engineer", TimeText: "3h"},
	}

	var posts []*models.Post
	for _, frag := range frags {
		post, ok := parser.Extract(frag, now)
		require.True(t, ok)
		posts = append(posts, post)
	}

	out := dedup.Process(posts, []string{"hiring", "engineer"}, mapset.NewSet[string]())
	require.Len(t, out, 2)
	assert.NotEqual(t, out[0].IdentityKey, out[1].IdentityKey)
	for _, post := range out {
		assert.Equal(t, 2, post.Score)
	}
}

func TestProcess_ScoreIsRecomputed(t *testing.T) {
	posts := []*models.Post{{IdentityKey: "k", Text: "hiring", Score: 99}}

	out := dedup.Process(posts, []string{"nothing"}, mapset.NewSet[string]())
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].Score, "score is derived, never carried over")
}
