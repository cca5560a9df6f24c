package filter

import (
	"time"

	"go-leadscout/internal/models"
)

// WithinDays is the hard date filter: a post is retained iff its resolved
// timestamp is no older than daysLimit days before now. The boundary is
// inclusive. Posts whose timestamp never resolved (zero) are dropped rather
// than stored with a sentinel.
func WithinDays(post *models.Post, now time.Time, daysLimit int) bool {
	if post.PublishedAt.IsZero() {
		return false
	}

	age := now.Sub(post.PublishedAt)

	// Small clock skew can make a fresh post look future-dated; anything
	// further ahead than that is garbage.
	if age < -2*24*time.Hour {
		return false
	}

	return age <= time.Duration(daysLimit)*24*time.Hour
}
