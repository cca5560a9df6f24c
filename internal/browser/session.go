// Session Manager: one long-lived, authenticated, stealth-hardened browsing
// context per pipeline run.

package browser

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"

	"go-leadscout/internal/config"
)

const (
	homeURL  = "https://www.linkedin.com"
	feedURL  = "https://www.linkedin.com/feed/"
	loginURL = "https://www.linkedin.com/login"

	// loggedInMarker is the post-login page marker. If it never shows up,
	// the session is not authenticated.
	loggedInMarker = "#global-nav"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// hideWebdriver suppresses the most obvious automation signal.
	hideWebdriver = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`
)

// Auth is either a non-empty cookie set (preferred) or a credential pair.
type Auth struct {
	Cookies  []playwright.OptionalCookie
	Email    string
	Password string
}

// Session owns the browsing context for exactly one in-flight run.
type Session struct {
	pw       *playwright.Playwright
	ctx      playwright.BrowserContext
	page     playwright.Page
	cfg      *config.Config
	log      zerolog.Logger
	keepOpen bool
}

// OpenSession launches a persistent stealth context and authenticates it.
// The caller must Close() the session on every exit path.
func OpenSession(ctx context.Context, auth Auth, cfg *config.Config, log zerolog.Logger) (*Session, error) {
	if len(auth.Cookies) == 0 && auth.Email == "" {
		return nil, fmt.Errorf("no auth provided: need a cookie set or credentials")
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	s := &Session{pw: pw, cfg: cfg, log: log, keepOpen: cfg.Scraping.KeepBrowserOpen}

	if err := os.MkdirAll(cfg.Scraping.UserDataDir, 0755); err != nil {
		s.teardown()
		return nil, fmt.Errorf("create user data dir: %w", err)
	}

	// Persistent user data dir keeps the login session between runs.
	browserCtx, err := pw.Chromium.LaunchPersistentContext(cfg.Scraping.UserDataDir,
		playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless:  playwright.Bool(cfg.Scraping.Headless),
			UserAgent: playwright.String(userAgent),
			Viewport:  &playwright.Size{Width: 1920, Height: 1080},
			Locale:    playwright.String("en-US"),
			ExtraHttpHeaders: map[string]string{
				"Accept-Language": "en-US,en;q=0.9",
			},
			Args: []string{"--disable-blink-features=AutomationControlled"},
		})
	if err != nil {
		s.teardown()
		return nil, fmt.Errorf("launch persistent context: %w", err)
	}
	s.ctx = browserCtx

	if err := browserCtx.AddInitScript(playwright.Script{Content: playwright.String(hideWebdriver)}); err != nil {
		log.Warn().Err(err).Msg("could not add stealth init script")
	}

	page, err := s.freshPage()
	if err != nil {
		s.teardown()
		return nil, err
	}
	s.page = page

	if ctx.Err() != nil {
		s.teardown()
		return nil, ctx.Err()
	}

	if len(auth.Cookies) > 0 {
		err = s.authenticateWithCookies(auth.Cookies)
	} else {
		err = s.authenticateWithCredentials(auth.Email, auth.Password)
	}
	if err != nil {
		s.teardown()
		return nil, err
	}

	log.Info().Msg("🍪 session authenticated")
	return s, nil
}

// Page returns the session's navigation handle.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Close releases the browser resources. With keep_browser_open set the
// window is left up so the login session can be reused manually; playwright
// itself is still stopped.
func (s *Session) Close() error {
	if s.keepOpen {
		s.log.Info().Msg("leaving browser window open to preserve the session")
		return nil
	}
	s.teardown()
	return nil
}

func (s *Session) teardown() {
	if s.ctx != nil {
		if err := s.ctx.Close(); err != nil {
			s.log.Warn().Err(err).Msg("close browser context")
		}
		s.ctx = nil
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			s.log.Warn().Err(err).Msg("stop playwright")
		}
		s.pw = nil
	}
}

func (s *Session) freshPage() (playwright.Page, error) {
	if pages := s.ctx.Pages(); len(pages) > 0 {
		return pages[0], nil
	}
	page, err := s.ctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return page, nil
}

func (s *Session) timeout() float64 {
	return float64(s.cfg.Scraping.TimeoutMs)
}

func (s *Session) authenticateWithCookies(cookies []playwright.OptionalCookie) error {
	// Cookies need a matching origin before injection.
	if _, err := s.page.Goto(homeURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(s.timeout()),
	}); err != nil {
		return fmt.Errorf("navigate before cookie injection: %w", err)
	}

	if err := s.ctx.AddCookies(cookies); err != nil {
		return fmt.Errorf("inject cookies: %w", err)
	}
	s.log.Info().Int("count", len(cookies)).Msg("cookies injected")

	return s.verifyLoggedIn()
}

func (s *Session) authenticateWithCredentials(email, password string) error {
	s.log.Info().Msg("🔑 logging in with credentials")
	if _, err := s.page.Goto(loginURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(s.timeout()),
	}); err != nil {
		return fmt.Errorf("navigate to login page: %w", err)
	}

	// Already logged in from the persistent profile: login page redirects.
	if !strings.Contains(strings.ToLower(s.page.URL()), "login") {
		s.log.Info().Msg("already logged in (redirected from login page)")
		return s.verifyLoggedIn()
	}

	if err := s.page.Fill(`input[name="session_key"]`, email); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	RandomDelay(s.cfg.Scraping.MinActionDelayMs, s.cfg.Scraping.MaxActionDelayMs)
	if err := s.page.Fill(`input[name="session_password"]`, password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	RandomDelay(s.cfg.Scraping.MinActionDelayMs, s.cfg.Scraping.MaxActionDelayMs)
	if err := s.page.Click(`button[type="submit"]`); err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}

	if err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(s.timeout()),
	}); err != nil {
		s.log.Warn().Err(err).Msg("post-login navigation slow, checking URL anyway")
	}
	time.Sleep(2 * time.Second)

	if IsChallengeURL(s.page.URL()) {
		return ErrChallengeRequired
	}

	if err := s.verifyLoggedIn(); err != nil {
		return err
	}

	// Persist the fresh session so the next run skips this flow.
	cookies, err := s.ctx.Cookies()
	if err != nil {
		s.log.Warn().Err(err).Msg("could not read cookies after login")
		return nil
	}
	if err := SaveCookies(s.cfg.CookiesPath, cookies); err != nil {
		s.log.Warn().Err(err).Msg("could not save cookies after login")
	} else {
		s.log.Info().Str("path", s.cfg.CookiesPath).Msg("💾 login cookies saved")
	}
	return nil
}

func (s *Session) verifyLoggedIn() error {
	if _, err := s.page.Goto(feedURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(s.timeout()),
	}); err != nil {
		return fmt.Errorf("navigate to feed: %w", err)
	}

	if IsChallengeURL(s.page.URL()) {
		return ErrChallengeRequired
	}

	if _, err := s.page.WaitForSelector(loggedInMarker, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(s.timeout()),
	}); err != nil {
		return ErrAuth
	}
	return nil
}

// IsChallengeURL reports whether url is an interstitial verification page.
func IsChallengeURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.Contains(lower, "checkpoint") || strings.Contains(lower, "challenge")
}
