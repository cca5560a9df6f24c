// Search Orchestrator: drives the feed scan and per-term content searches,
// paginating by scroll until caps or a stall, and yields raw post fragments
// one at a time to the consumer.

package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"

	"go-leadscout/internal/browser"
	"go-leadscout/internal/config"
	"go-leadscout/internal/models"
	"go-leadscout/utils"
)

// postSelectors is the ordered fallback list for locating post containers.
// The markup churns; the first selector that matches anything wins.
var postSelectors = []string{
	`div[data-id*="urn:li:activity"]`,
	`div.feed-shared-update-v2`,
	`article.feed-shared-update-v2`,
	`div[data-urn*="urn:li:activity"]`,
}

// textSelectors locate the post body inside a container, most specific first.
var textSelectors = []string{
	`div.feed-shared-update-v2__description`,
	`div.update-components-text`,
	`span[dir="ltr"]`,
}

// maxStalls bounds consecutive scrolls that surface nothing new, so a dead
// or fully-consumed result page cannot spin forever.
const maxStalls = 3

// EmitFunc consumes one fragment; returning false stops the whole run
// (global cap reached).
type EmitFunc func(models.RawPostFragment) bool

// Orchestrator owns one run's query plan. It is not restartable: a second
// run needs a fresh Orchestrator against the (possibly changed) live feed.
type Orchestrator struct {
	cfg     *config.Config
	log     zerolog.Logger
	shots   *utils.ScreenshotDebugger
	emitted int
}

func NewOrchestrator(cfg *config.Config, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{cfg: cfg, log: log, shots: utils.NewScreenshotDebugger(log)}
}

// Run walks the full query plan. A single query's navigation failure is
// logged and skipped; de-authentication aborts with ErrSessionLost. The
// returned count is the number of skipped queries.
func (o *Orchestrator) Run(ctx context.Context, page playwright.Page, emit EmitFunc) (int, error) {
	plan := BuildPlan(o.cfg)
	skipped := 0

	for i, q := range plan {
		if i > 0 {
			// Mandatory backpressure delay between queries. Not skippable,
			// even after an empty or failed query.
			delay := time.Duration(o.cfg.Scraping.DelayBetweenRequests) * time.Second
			o.log.Debug().Dur("delay", delay).Msg("waiting before next query")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return skipped, ctx.Err()
			}
		}

		if ctx.Err() != nil {
			return skipped, ctx.Err()
		}
		if o.emitted >= o.cfg.Scraping.MaxTotalPosts {
			o.log.Info().Int("total", o.emitted).Msg("global post cap reached, stopping early")
			return skipped, nil
		}

		o.log.Info().Str("query", q.String()).Msg("🔍 running query")
		stop, err := o.runQuery(ctx, page, q, emit)
		if errors.Is(err, ErrSessionLost) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return skipped, err
		}
		if err != nil {
			skipped++
			o.log.Warn().Err(err).Str("query", q.String()).Msg("⚠️ query skipped")
			o.shots.Capture(page, "query-skipped", fmt.Sprintf("query %s failed", q))
			continue
		}
		if stop {
			return skipped, nil
		}
	}

	return skipped, nil
}

func (o *Orchestrator) runQuery(ctx context.Context, page playwright.Page, q Query, emit EmitFunc) (stop bool, err error) {
	if _, err := page.Goto(q.URL(), playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(o.cfg.Scraping.TimeoutMs)),
	}); err != nil {
		return false, fmt.Errorf("navigate: %w", err)
	}

	if sessionLost(page) {
		return false, ErrSessionLost
	}

	browser.RandomDelay(o.cfg.Scraping.MinActionDelayMs, o.cfg.Scraping.MaxActionDelayMs)
	if err := browser.MouseJiggle(page); err != nil {
		o.log.Debug().Err(err).Msg("mouse jiggle failed")
	}

	harvested := 0 // elements already turned into fragments on this page
	stalls := 0
	perQuery := 0

	for {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		elements, err := o.findPosts(page)
		if err != nil {
			return false, err
		}

		fresh := 0
		for ; harvested < len(elements); harvested++ {
			frag := o.harvestFragment(elements[harvested], q)
			fresh++
			o.emitted++
			perQuery++
			if !emit(frag) {
				return true, nil
			}
			if perQuery >= o.cfg.Scraping.MaxPostsPerSearch || o.emitted >= o.cfg.Scraping.MaxTotalPosts {
				o.log.Debug().Int("per_query", perQuery).Int("total", o.emitted).Msg("cap reached")
				return false, nil
			}
		}

		if fresh == 0 {
			stalls++
			if stalls >= maxStalls {
				break
			}
		} else {
			stalls = 0
		}

		if err := browser.HumanScroll(page); err != nil {
			return false, fmt.Errorf("scroll: %w", err)
		}
		browser.RandomDelay(o.cfg.Scraping.MinActionDelayMs, o.cfg.Scraping.MaxActionDelayMs)

		if sessionLost(page) {
			return false, ErrSessionLost
		}
	}

	o.log.Info().Str("query", q.String()).Int("fragments", perQuery).Msg("query finished")
	return false, nil
}

// findPosts tries each container selector in order and returns the matches
// of the first one that yields anything.
func (o *Orchestrator) findPosts(page playwright.Page) ([]playwright.Locator, error) {
	for _, sel := range postSelectors {
		elements, err := page.Locator(sel).All()
		if err != nil {
			continue
		}
		if len(elements) > 0 {
			return elements, nil
		}
	}
	return nil, nil
}

// harvestFragment pulls the raw strings for one post. Optional pieces that
// are missing simply stay empty; the extractor decides what is fatal.
func (o *Orchestrator) harvestFragment(el playwright.Locator, q Query) models.RawPostFragment {
	frag := models.RawPostFragment{Source: q.Source, SourceTerm: q.Term}

	frag.URL = attrOf(el.Locator(`a[href*="/posts/"]`).First(), "href")

	authorLink := el.Locator(`a[href*="/in/"], a[href*="/company/"]`).First()
	frag.AuthorURL = attrOf(authorLink, "href")
	frag.AuthorName = textOf(authorLink)
	frag.AuthorTitle = textOf(el.Locator(`span.update-components-actor__description`).First())

	for _, sel := range textSelectors {
		if txt := textOf(el.Locator(sel).First()); txt != "" {
			frag.Text = txt
			break
		}
	}

	timeEl := el.Locator("time").First()
	frag.TimeAttr = attrOf(timeEl, "datetime")
	frag.TimeText = textOf(timeEl)
	if frag.TimeText == "" {
		// Search results render the age inside the actor sub-description.
		frag.TimeText = textOf(el.Locator(`span.update-components-actor__sub-description`).First())
	}

	frag.LikesText = textOf(el.Locator(`span.social-details-social-counts__reactions-count`).First())
	frag.CommentsText = textOf(el.Locator(`li.social-details-social-counts__comments`).First())

	return frag
}

func sessionLost(page playwright.Page) bool {
	url := strings.ToLower(page.URL())
	return strings.Contains(url, "/login") ||
		strings.Contains(url, "/authwall") ||
		strings.Contains(url, "checkpoint") ||
		strings.Contains(url, "challenge")
}

func textOf(l playwright.Locator) string {
	count, err := l.Count()
	if err != nil || count == 0 {
		return ""
	}
	txt, err := l.InnerText(playwright.LocatorInnerTextOptions{Timeout: playwright.Float(1500)})
	if err != nil {
		return ""
	}
	return txt
}

func attrOf(l playwright.Locator, name string) string {
	count, err := l.Count()
	if err != nil || count == 0 {
		return ""
	}
	val, err := l.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: playwright.Float(1500)})
	if err != nil {
		return ""
	}
	return val
}
