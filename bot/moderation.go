package bot

import (
	"time"

	"github.com/insikex/safeguard/moderation"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
	tb "gopkg.in/tucnak/telebot.v2"
)

// handleMessage feeds every non-command group message through the filter
// pipeline. Administrators are exempt from filtering but still counted in
// the activity stats.
func (b *Bot) handleMessage(m *tb.Message) {
	if m.Chat == nil || m.Chat.Type == tb.ChatPrivate || m.Sender == nil {
		return
	}
	settings, err := service.GetOrCreateGroup(m.Chat.ID, m.Chat.Title)
	if err != nil {
		log.Warn("bot: settings for %v: %v", m.Chat.ID, err)
		return
	}
	userID := int64(m.Sender.ID)
	if b.IsAdmin(m.Chat, m.Sender) {
		if err := service.IncrementStat(m.Chat.ID, service.StatMessages); err != nil {
			log.Warn("bot: stat: %v", err)
		}
		if err := service.TouchActivity(userID, m.Chat.ID); err != nil {
			log.Warn("bot: touch activity: %v", err)
		}
		return
	}
	when := m.Time()
	if when.IsZero() {
		when = time.Now()
	}
	b.Pipeline.Inspect(moderation.Message{
		ChatID:    m.Chat.ID,
		UserID:    userID,
		MessageID: m.ID,
		Text:      m.Text,
		Time:      when,
	}, settings)
}

// handleUserLeft clears the leaver's flood window so a rejoin starts clean.
func (b *Bot) handleUserLeft(m *tb.Message) {
	if m.Chat == nil || m.UserLeft == nil {
		return
	}
	b.Pipeline.ForgetMember(m.Chat.ID, int64(m.UserLeft.ID))
}
