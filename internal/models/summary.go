package models

import "time"

// RunSummary is what a pipeline run hands back to its trigger (CLI or
// scheduler). A run always produces one, even when it failed partway.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Collected      int `json:"collected"`       // raw fragments pulled off pages
	Extracted      int `json:"extracted"`       // fragments that yielded a Post
	Filtered       int `json:"filtered"`        // posts surviving the date filter
	Deduped        int `json:"deduped"`         // posts surviving dedup
	Stored         int `json:"stored"`          // new rows written
	Updated        int `json:"updated"`         // existing rows refreshed
	SkippedQueries int `json:"skipped_queries"` // queries lost to navigation failures

	Errors []string `json:"errors,omitempty"`

	TopLeads []Post `json:"top_leads,omitempty"`
}

// AddError records a non-fatal failure on the summary.
func (s *RunSummary) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}
