// Post Extractor: turns raw rendered fragments into normalized lead records.
// Markup on the target site is volatile, so everything optional degrades to
// a zero value instead of failing the fragment.

package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go-leadscout/internal/dedup"
	"go-leadscout/internal/models"
)

const baseURL = "https://www.linkedin.com"

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	numberRegex     = regexp.MustCompile(`\d+`)
)

// Extract parses one fragment into a Post. ok is false when the fragment
// has no usable text at all, in which case it is dropped, not errored.
func Extract(frag models.RawPostFragment, now time.Time) (*models.Post, bool) {
	text := NormalizeWhitespace(frag.Text)
	if text == "" {
		return nil, false
	}

	post := &models.Post{
		URL:         CanonicalURL(frag.URL),
		AuthorName:  NormalizeWhitespace(frag.AuthorName),
		AuthorURL:   CanonicalURL(frag.AuthorURL),
		AuthorTitle: NormalizeWhitespace(frag.AuthorTitle),
		Text:        text,
		Source:      frag.Source,
		SourceTerm:  frag.SourceTerm,
		Likes:       ParseCount(frag.LikesText),
		Comments:    ParseCount(frag.CommentsText),
		CollectedAt: now,
	}

	// Unparsable dates stay zero here; the date filter drops them.
	if ts, ok := ParsePostedAt(frag.TimeAttr, frag.TimeText, now); ok {
		post.PublishedAt = ts
	}

	post.IdentityKey = dedup.IdentityKey(post.URL, post.Text)
	return post, true
}

// NormalizeWhitespace collapses whitespace runs and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// CanonicalURL absolutizes relative hrefs and strips query parameters.
// Tracking params (?refId=..., ?trackingId=...) make the same post look like
// different URLs and would break deduplication.
func CanonicalURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if !strings.HasPrefix(href, "http") {
		href = baseURL + href
	}
	if idx := strings.IndexByte(href, '?'); idx >= 0 {
		href = href[:idx]
	}
	return href
}

// ParseCount pulls the first integer out of engagement text like
// "1,204 reactions" or "87 comments".
func ParseCount(s string) int {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	match := numberRegex.FindString(s)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}
