package browser

import "errors"

var (
	// ErrAuth means cookies or credentials were rejected: the post-login
	// marker never appeared. Fatal for the run.
	ErrAuth = errors.New("authentication failed: expired or invalid cookies/credentials")

	// ErrChallengeRequired means the site raised an interactive verification
	// step. We never try to solve those; the caller decides whether to pause
	// for a human or abort.
	ErrChallengeRequired = errors.New("verification challenge required: complete it manually in the browser and re-run")
)
