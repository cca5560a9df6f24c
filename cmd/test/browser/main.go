package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-leadscout/internal/browser"
	"go-leadscout/internal/config"
	"go-leadscout/internal/logging"
)

// Manual smoke check: open an authenticated stealth session, screenshot the
// feed, close. Needs a valid cookies file or credentials in the env.
func main() {
	fmt.Println("🌐 Testing session manager...")

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New("debug")

	cookies, err := browser.LoadCookies(cfg.CookiesPath)
	if err != nil {
		log.Fatalf("Failed to load cookies: %v", err)
	}
	fmt.Printf("✅ Loaded %d cookies\n", len(cookies))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	session, err := browser.OpenSession(ctx, browser.Auth{Cookies: cookies}, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}
	defer session.Close()

	title, _ := session.Page().Title()
	fmt.Printf("✅ Page title: %s\n", title)

	if _, err := session.Page().Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String("session-test.png"),
	}); err != nil {
		log.Printf("Failed to take screenshot: %v", err)
	} else {
		fmt.Println("📸 Screenshot saved: session-test.png")
	}
	fmt.Println("✨ Test complete!")
}
