package command_handler

import (
	"github.com/insikex/safeguard/bot"
	"github.com/insikex/safeguard/common"
	"github.com/insikex/safeguard/locale"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommands("kick", Kick)
}

func Kick(b *bot.Bot, m *tb.Message, params []string) {
	target := requireAdminReply(b, m)
	if target == nil {
		return
	}
	chatID := m.Chat.ID
	targetID := int64(target.ID)
	lang := chatLang(chatID)

	if err := b.Kick(chatID, targetID); err != nil {
		log.Warn("kick: remove %v from %v: %v", targetID, chatID, err)
		return
	}
	if err := service.IncrementStat(chatID, service.StatKicked); err != nil {
		log.Warn("kick: stat: %v", err)
	}
	b.Bot.Reply(m, locale.GetText("moderation.kicked", lang, map[string]string{
		"user": common.MentionHTML(targetID, bot.DisplayName(target)),
	}), tb.Silent)
}
