package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

// ScreenshotDebugger captures full-page screenshots when a query goes
// sideways, so selector drift can be diagnosed after the fact.
type ScreenshotDebugger struct {
	outputDir string
	log       zerolog.Logger
}

func NewScreenshotDebugger(log zerolog.Logger) *ScreenshotDebugger {
	dir := filepath.Join(".", "logs", "screenshots")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Warn().Err(err).Msg("could not create screenshot directory")
	}
	return &ScreenshotDebugger{outputDir: dir, log: log}
}

func (s *ScreenshotDebugger) Capture(page playwright.Page, name, message string) {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to capture screenshot")
		return
	}
	s.log.Info().Str("path", path).Msg("📸 " + message)
}
