// Dedup & Scoring Engine: stable identity keys, duplicate drop, relevance
// ranking. Pure batch transform over one run's posts; the seen set is an
// explicit argument, not a hidden process-wide cache.

package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"go-leadscout/internal/filter"
	"go-leadscout/internal/models"
)

// IdentityKey derives a post's dedup primary key: the canonical URL when one
// was extracted, else a content hash of the normalized text. A hash key can
// never collide with a URL key since URLs always carry a scheme prefix.
func IdentityKey(url, normalizedText string) string {
	if url != "" {
		return url
	}
	sum := md5.Sum([]byte(normalizedText))
	return hex.EncodeToString(sum[:])
}

// Process drops posts whose identity key is already in seen, recomputes
// matched keywords and relevance scores against terms, and returns the
// survivors ranked by (score desc, published_at desc). seen is mutated so a
// second pass over the same batch yields nothing.
func Process(posts []*models.Post, terms []string, seen mapset.Set[string]) []*models.Post {
	unique := make([]*models.Post, 0, len(posts))

	for _, post := range posts {
		if post.IdentityKey == "" {
			post.IdentityKey = IdentityKey(post.URL, post.Text)
		}
		if !seen.Add(post.IdentityKey) {
			continue
		}

		post.MatchedKeywords, post.Score = filter.MatchKeywords(post.Text, terms)
		unique = append(unique, post)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].Score != unique[j].Score {
			return unique[i].Score > unique[j].Score
		}
		return unique[i].PublishedAt.After(unique[j].PublishedAt)
	})

	return unique
}
