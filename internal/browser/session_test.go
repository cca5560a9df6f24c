package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-leadscout/internal/config"
)

func TestSessionTimeoutTracksConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scraping.TimeoutMs = 45000

	s := &Session{cfg: cfg}
	assert.Equal(t, float64(45000), s.timeout())
}

func TestIsChallengeURL(t *testing.T) {
	assert.True(t, IsChallengeURL("https://www.linkedin.com/checkpoint/challenge/abc"))
	assert.True(t, IsChallengeURL("https://www.linkedin.com/Checkpoint/lg/login-submit"))
	assert.False(t, IsChallengeURL("https://www.linkedin.com/feed/"))
}
