package models

// RawPostFragment is one post-sized chunk of rendered content, pulled off a
// result page before any parsing. Every field is the raw string the page
// happened to expose; optional pieces are simply empty.
type RawPostFragment struct {
	URL         string
	AuthorName  string
	AuthorURL   string
	AuthorTitle string
	Text        string

	// TimeAttr is the ISO value of a <time datetime="..."> attribute when
	// present; TimeText is the visible relative token ("3h", "2d ago").
	TimeAttr string
	TimeText string

	LikesText    string
	CommentsText string

	Source     QuerySource
	SourceTerm string
}
