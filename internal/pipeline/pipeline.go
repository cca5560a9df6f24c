// Pipeline wiring: one run from session open to persisted, ranked leads.
// This is the trigger interface the CLI and scheduler collaborate with.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-leadscout/internal/browser"
	"go-leadscout/internal/config"
	"go-leadscout/internal/dedup"
	"go-leadscout/internal/filter"
	"go-leadscout/internal/models"
	"go-leadscout/internal/parser"
	"go-leadscout/internal/reporter"
	"go-leadscout/internal/scraper"
	"go-leadscout/internal/storage"
)

const topLeadCount = 5

// RunOnce executes one full pipeline pass. It always returns a summary,
// even for partial or failed runs; err is non-nil only for run-fatal causes
// (auth, challenge, session loss, cancellation, storage bring-up).
func RunOnce(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*models.RunSummary, error) {
	summary := &models.RunSummary{RunID: uuid.NewString(), StartedAt: time.Now()}
	defer func() { summary.FinishedAt = time.Now() }()

	log.Info().Str("run_id", summary.RunID).
		Strs("keywords", cfg.Keywords).
		Strs("hashtags", cfg.Hashtags).
		Msg("🚀 starting lead run")

	store, err := storage.OpenStore(cfg.Storage.DBFile)
	if err != nil {
		summary.AddError(err.Error())
		return summary, err
	}
	defer store.Close()
	manager := storage.NewManager(store, cfg.Storage.CSVFile, log)

	auth, err := buildAuth(cfg, log)
	if err != nil {
		summary.AddError(err.Error())
		return summary, err
	}

	session, err := browser.OpenSession(ctx, auth, cfg, log)
	if err != nil {
		summary.AddError(err.Error())
		reportFatal(cfg, log, err)
		return summary, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("close session")
		}
	}()

	// now anchors every relative timestamp in this batch.
	now := time.Now()

	var posts []*models.Post
	orch := scraper.NewOrchestrator(cfg, log)
	skipped, runErr := orch.Run(ctx, session.Page(), func(frag models.RawPostFragment) bool {
		summary.Collected++
		if post, ok := parser.Extract(frag, now); ok {
			posts = append(posts, post)
		}
		return summary.Collected < cfg.Scraping.MaxTotalPosts
	})
	summary.Extracted = len(posts)
	summary.SkippedQueries = skipped

	if runErr != nil {
		// Session loss still gets the partial batch processed and stored.
		summary.AddError(runErr.Error())
		log.Error().Err(runErr).Int("partial", len(posts)).Msg("run aborted early, persisting partial batch")
	}

	processBatch(ctx, cfg, log, manager, posts, now, summary)
	PrintTopLeads(os.Stdout, summary.TopLeads)

	report(cfg, log, summary)

	log.Info().
		Int("collected", summary.Collected).
		Int("deduped", summary.Deduped).
		Int("stored", summary.Stored).
		Int("updated", summary.Updated).
		Int("skipped_queries", summary.SkippedQueries).
		Msg("🏁 run finished")

	if isFatal(runErr) {
		return summary, runErr
	}
	return summary, nil
}

// processBatch runs the post-collection stages: date filter, dedup and
// ranking, dual-sink persistence, and the summary's top leads.
func processBatch(ctx context.Context, cfg *config.Config, log zerolog.Logger, manager *storage.Manager, posts []*models.Post, now time.Time, summary *models.RunSummary) {
	kept := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if filter.WithinDays(post, now, cfg.DaysLimit) {
			kept = append(kept, post)
		}
	}
	summary.Filtered = len(kept)
	log.Info().Int("extracted", len(posts)).Int("within_window", len(kept)).
		Int("days_limit", cfg.DaysLimit).Msg("date filter applied")

	// Dedup within the run; cross-run repeats become upsert refreshes, not
	// drops, so re-collections keep engagement and scores current.
	ranked := dedup.Process(kept, cfg.Terms(), mapset.NewSet[string]())
	summary.Deduped = len(ranked)

	// Store keys loaded up front tell refreshes from new leads before the
	// write phase.
	if known, err := manager.Store().SeenKeys(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load stored keys")
	} else {
		refreshes := 0
		for _, post := range ranked {
			if known.Contains(post.IdentityKey) {
				refreshes++
			}
		}
		log.Info().Int("known", refreshes).Int("new", len(ranked)-refreshes).
			Msg("batch split against stored keys")
	}

	result := manager.UpsertAll(ctx, ranked)
	summary.Stored = result.Written
	summary.Updated = result.Updated
	for _, e := range result.Errors() {
		summary.AddError(e.Error())
	}

	// Top leads come from the store, not just this batch, so a quiet run
	// still surfaces the best leads on file.
	top, err := manager.Store().TopPosts(ctx, topLeadCount)
	if err != nil {
		log.Warn().Err(err).Msg("could not query top posts, falling back to this batch")
		top = ranked
		if len(top) > topLeadCount {
			top = top[:topLeadCount]
		}
	}
	for _, post := range top {
		summary.TopLeads = append(summary.TopLeads, *post)
	}
}

func isFatal(err error) bool {
	return errors.Is(err, scraper.ErrSessionLost) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// buildAuth prefers the cookie file; credentials are the fallback that can
// trip an interactive challenge.
func buildAuth(cfg *config.Config, log zerolog.Logger) (browser.Auth, error) {
	cookies, err := browser.LoadCookies(cfg.CookiesPath)
	if err == nil && len(cookies) > 0 {
		log.Info().Int("count", len(cookies)).Str("path", cfg.CookiesPath).Msg("using cookie auth")
		return browser.Auth{Cookies: cookies}, nil
	}
	if err != nil {
		log.Debug().Err(err).Msg("no usable cookie file")
	}

	if cfg.Auth.Email != "" && cfg.Auth.Password != "" {
		return browser.Auth{Email: cfg.Auth.Email, Password: cfg.Auth.Password}, nil
	}

	return browser.Auth{}, fmt.Errorf(
		"no auth available: provide %s or set LINKEDIN_EMAIL/LINKEDIN_PASSWORD", cfg.CookiesPath)
}

func report(cfg *config.Config, log zerolog.Logger, summary *models.RunSummary) {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		return
	}
	tg, err := reporter.NewTelegramReporter(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Warn().Err(err).Msg("telegram reporter unavailable")
		return
	}
	if err := tg.SendSummary(summary); err != nil {
		log.Warn().Err(err).Msg("failed to send telegram summary")
	}
}

func reportFatal(cfg *config.Config, log zerolog.Logger, runErr error) {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		return
	}
	tg, err := reporter.NewTelegramReporter(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		return
	}
	if err := tg.SendError(runErr); err != nil {
		log.Warn().Err(err).Msg("failed to send telegram error")
	}
}
