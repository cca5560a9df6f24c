package scraper

import (
	"fmt"
	"net/url"

	"go-leadscout/internal/config"
	"go-leadscout/internal/models"
)

const (
	feedURL          = "https://www.linkedin.com/feed/"
	contentSearchFmt = "https://www.linkedin.com/search/results/content/?keywords=%s"
)

// Query is one navigation target: the feed scan or a content search for a
// keyword or hashtag.
type Query struct {
	Source models.QuerySource
	Term   string
}

// URL returns the navigation target. Hashtag terms keep their '#', which
// QueryEscape encodes as %23.
func (q Query) URL() string {
	if q.Source == models.SourceFeed {
		return feedURL
	}
	return fmt.Sprintf(contentSearchFmt, url.QueryEscape(q.Term))
}

func (q Query) String() string {
	if q.Source == models.SourceFeed {
		return "feed scan"
	}
	return fmt.Sprintf("%s %q", q.Source, q.Term)
}

// BuildPlan lays out one run's queries: the feed pass first, then one
// search per keyword, then one per hashtag.
func BuildPlan(cfg *config.Config) []Query {
	plan := make([]Query, 0, 1+len(cfg.Keywords)+len(cfg.Hashtags))
	plan = append(plan, Query{Source: models.SourceFeed})
	for _, kw := range cfg.Keywords {
		plan = append(plan, Query{Source: models.SourceKeyword, Term: kw})
	}
	for _, tag := range cfg.Hashtags {
		plan = append(plan, Query{Source: models.SourceHashtag, Term: tag})
	}
	return plan
}
