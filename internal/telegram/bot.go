package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/reporter"
	"aujobs-pipeline/internal/summary"
)

// Sender is the part of tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api    Sender
	chatID int64
}

var _ reporter.Reporter = (*Bot)(nil)

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return NewBotWithSender(api, chatID), nil
}

func NewBotWithSender(api Sender, chatID int64) *Bot {
	return &Bot{api: api, chatID: chatID}
}

var markdownEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// JobMessage renders a saved posting as a MarkdownV2 message with a
// "View Job" button.
func (b *Bot) JobMessage(p *models.JobPosting) tgbotapi.MessageConfig {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔥 *%s*\n", escapeMarkdown(p.Title))
	fmt.Fprintf(&sb, "🏢 %s\n", escapeMarkdown(p.CompanyName))

	loc := p.LocationName
	if loc == "" {
		loc = "N/A"
	}
	fmt.Fprintf(&sb, "📍 %s\n", escapeMarkdown(loc))

	if salary := salaryLine(p); salary != "" {
		fmt.Fprintf(&sb, "💰 %s\n", escapeMarkdown(salary))
	}
	fmt.Fprintf(&sb, "🗂 %s · %s\n", escapeMarkdown(string(p.JobType)), escapeMarkdown(p.Category))
	if p.PostedAgo != "" {
		fmt.Fprintf(&sb, "📅 %s\n", escapeMarkdown(p.PostedAgo))
	}
	fmt.Fprintf(&sb, "🔖 Source: %s\n", escapeMarkdown(p.ExternalSource))

	msg := tgbotapi.NewMessage(b.chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	if strings.HasPrefix(p.ExternalURL, "http") {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", p.ExternalURL),
			),
		)
	}
	return msg
}

func salaryLine(p *models.JobPosting) string {
	switch {
	case p.SalaryMin != nil && p.SalaryMax != nil && *p.SalaryMin != *p.SalaryMax:
		return fmt.Sprintf("%s %.0f - %.0f %s", p.SalaryCurrency, *p.SalaryMin, *p.SalaryMax, p.SalaryPeriod)
	case p.SalaryMin != nil:
		return fmt.Sprintf("%s %.0f %s", p.SalaryCurrency, *p.SalaryMin, p.SalaryPeriod)
	case p.SalaryRawText != "":
		return p.SalaryRawText
	}
	return ""
}

func (b *Bot) JobSaved(p *models.JobPosting) error {
	_, err := b.api.Send(b.JobMessage(p))
	return err
}

func (b *Bot) RunFinished(site string, snap summary.Snapshot, runErr error) error {
	if runErr != nil {
		return b.SendError(fmt.Errorf("%s: %w", site, runErr))
	}
	return b.SendStatus(fmt.Sprintf("%s finished: %s", site, snap))
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
