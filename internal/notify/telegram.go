package notify

import (
	"fmt"
	"log"

	"go-ezynotify/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers messages through two Telegram bots: one for keyword
// alerts and one for change notices, mirroring the two configured tokens.
// Both may share a single bot when only one token is set.
type Notifier struct {
	alerts  *tgbotapi.BotAPI
	updates *tgbotapi.BotAPI
}

func NewNotifier(token, updatesToken string) (*Notifier, error) {
	alerts, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	updates := alerts
	if updatesToken != "" && updatesToken != token {
		updates, err = tgbotapi.NewBotAPI(updatesToken)
		if err != nil {
			return nil, fmt.Errorf("failed to init telegram updates bot: %w", err)
		}
	}

	return &Notifier{
		alerts:  alerts,
		updates: updates,
	}, nil
}

func send(bot *tgbotapi.BotAPI, chatID int64, text string) error {
	if chatID == 0 {
		log.Println("⚠️ Chat ID missing - notification not sent")
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, Truncate(text))
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := bot.Send(msg)
	return err
}

// SendKeywordAlert notifies a chat that keywords were found on their page.
func (n *Notifier) SendKeywordAlert(chatID int64, url string, hits []models.KeywordHit) error {
	if len(hits) == 0 {
		return nil
	}
	return send(n.alerts, chatID, FormatKeywordAlert(url, hits))
}

// SendChangeAlert notifies a chat that their page changed. Detailed rows
// get the full change list; the rest get a brief notice.
func (n *Notifier) SendChangeAlert(chatID int64, url string, newChanges, history []models.ChangeRecord, detailed bool) error {
	text := FormatChangeAlertBrief(url)
	if detailed {
		text = FormatChangeAlertDetailed(url, newChanges, history)
	}
	return send(n.updates, chatID, text)
}
