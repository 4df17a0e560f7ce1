package command_handler

import (
	"github.com/insikex/safeguard/bot"
	"github.com/insikex/safeguard/locale"
	"github.com/insikex/safeguard/service"
	tb "gopkg.in/tucnak/telebot.v2"
)

func chatLang(chatID int64) string {
	settings, err := service.GetGroup(chatID)
	if err != nil || settings == nil || settings.Language == "" {
		return locale.DefaultLanguage
	}
	return settings.Language
}

// requireAdminReply enforces the shared preconditions of the moderation
// commands: a group chat, an admin sender and a reply target. Returns the
// target of the replied-to message, or nil after telling the sender what
// is missing.
func requireAdminReply(b *bot.Bot, m *tb.Message) *tb.User {
	lang := chatLang(m.Chat.ID)
	if m.Chat.Type == tb.ChatPrivate {
		b.Bot.Reply(m, locale.GetText("moderation.group_only", lang, nil), tb.Silent)
		return nil
	}
	if !b.IsAdmin(m.Chat, m.Sender) {
		b.Bot.Reply(m, locale.GetText("moderation.admin_only", lang, nil), tb.Silent)
		return nil
	}
	if m.ReplyTo == nil || m.ReplyTo.Sender == nil {
		b.Bot.Reply(m, locale.GetText("moderation.reply_required", lang, nil), tb.Silent)
		return nil
	}
	return m.ReplyTo.Sender
}
