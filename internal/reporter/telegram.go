// Telegram run reports: a stats line plus the top leads, sent after every
// run so the chat doubles as a lightweight lead inbox.

package reporter

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-leadscout/internal/models"
	"go-leadscout/internal/storage"
)

type TelegramReporter struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramReporter{api: api, chatID: chatID}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// SendSummary posts the run's stats and top leads to the configured chat.
func (r *TelegramReporter) SendSummary(summary *models.RunSummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 *Lead run %s*\n", escapeMarkdown(summary.RunID[:8]))
	fmt.Fprintf(&b, "collected %d \\| deduped %d \\| stored %d \\| updated %d\n",
		summary.Collected, summary.Deduped, summary.Stored, summary.Updated)
	if summary.SkippedQueries > 0 {
		fmt.Fprintf(&b, "⚠️ %d queries skipped\n", summary.SkippedQueries)
	}
	for _, e := range summary.Errors {
		fmt.Fprintf(&b, "❌ %s\n", escapeMarkdown(e))
	}

	if len(summary.TopLeads) > 0 {
		b.WriteString("\n*Top leads:*\n")
	}
	for _, lead := range summary.TopLeads {
		author := lead.AuthorName
		if author == "" {
			author = "Unknown"
		}
		fmt.Fprintf(&b, "• \\[%d\\] *%s* — %s\n",
			lead.Score, escapeMarkdown(author), escapeMarkdown(storage.Snippet(lead.Text, 120)))
		if lead.URL != "" {
			fmt.Fprintf(&b, "  [view post](%s)\n", lead.URL)
		}
	}

	msg := tgbotapi.NewMessage(r.chatID, b.String())
	msg.ParseMode = "MarkdownV2"
	msg.DisableWebPagePreview = true
	_, err := r.api.Send(msg)
	return err
}

// SendError reports a fatal run failure.
func (r *TelegramReporter) SendError(runErr error) error {
	msg := tgbotapi.NewMessage(r.chatID, fmt.Sprintf("❌ Lead run failed: %v", runErr))
	_, err := r.api.Send(msg)
	return err
}
