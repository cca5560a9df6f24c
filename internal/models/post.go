package models

import (
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// QuerySource tells which search family produced a post.
type QuerySource string

const (
	SourceFeed    QuerySource = "feed"
	SourceKeyword QuerySource = "keyword"
	SourceHashtag QuerySource = "hashtag"
)

// Post is the canonical lead record flowing through the pipeline.
type Post struct {
	// IdentityKey is the dedup primary key: URL when present, else a hash
	// of the normalized text. Never empty once the extractor has run.
	IdentityKey string `json:"identity_key"`
	URL         string `json:"url,omitempty"`

	AuthorName  string `json:"author_name,omitempty"`
	AuthorURL   string `json:"author_url,omitempty"`
	AuthorTitle string `json:"author_title,omitempty"`

	// Text is whitespace-normalized: runs collapsed, ends trimmed.
	Text string `json:"text"`

	PublishedAt time.Time `json:"published_at"`

	Source     QuerySource `json:"source"`
	SourceTerm string      `json:"source_term,omitempty"`

	// MatchedKeywords and Score are derived from Text and the configured
	// terms on every run, never set independently.
	MatchedKeywords mapset.Set[string] `json:"-"`
	Score           int                `json:"score"`

	Likes    int `json:"likes"`
	Comments int `json:"comments"`

	CollectedAt time.Time `json:"collected_at"`
}

// MatchedList returns the matched terms as a sorted slice, for storage and
// display.
func (p *Post) MatchedList() []string {
	if p.MatchedKeywords == nil {
		return nil
	}
	terms := p.MatchedKeywords.ToSlice()
	sort.Strings(terms)
	return terms
}
