package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-leadscout/internal/models"
)

func TestWithinDays(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	daysLimit := 7

	tests := []struct {
		name        string
		publishedAt time.Time
		want        bool
	}{
		{"fresh", now.Add(-2 * time.Hour), true},
		{"exactly at boundary is retained", now.Add(-7 * 24 * time.Hour), true},
		{"just past boundary", now.Add(-7*24*time.Hour - time.Second), false},
		{"stale", now.Add(-30 * 24 * time.Hour), false},
		{"unresolved timestamp", time.Time{}, false},
		{"slight clock skew tolerated", now.Add(12 * time.Hour), true},
		{"far future rejected", now.Add(5 * 24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &models.Post{PublishedAt: tt.publishedAt}
			assert.Equal(t, tt.want, WithinDays(post, now, daysLimit))
		})
	}
}
