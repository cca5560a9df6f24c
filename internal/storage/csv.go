package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go-leadscout/internal/models"
)

var csvHeader = []string{
	"identity_key", "published_at", "author", "url",
	"score", "matched_keywords", "likes", "comments", "text",
}

// WriteCSVSnapshot rewrites path with the run's ranked batch. The file is a
// human-reviewable snapshot, so it always reflects the current ranked order
// rather than appending across runs.
func WriteCSVSnapshot(path string, posts []*models.Post) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, post := range posts {
		row := []string{
			post.IdentityKey,
			post.PublishedAt.UTC().Format(time.RFC3339),
			post.AuthorName,
			post.URL,
			strconv.Itoa(post.Score),
			strings.Join(post.MatchedList(), ";"),
			strconv.Itoa(post.Likes),
			strconv.Itoa(post.Comments),
			Snippet(post.Text, 200),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Snippet truncates text to max runes, preferring a word boundary when one
// is reasonably close to the limit.
func Snippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := runes[:max]
	for i := len(cut) - 1; i > max*4/5; i-- {
		if cut[i] == ' ' {
			cut = cut[:i]
			break
		}
	}
	return string(cut) + "..."
}
