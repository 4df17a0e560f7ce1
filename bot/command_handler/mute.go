package command_handler

import (
	"time"

	"github.com/insikex/safeguard/bot"
	"github.com/insikex/safeguard/common"
	"github.com/insikex/safeguard/locale"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommands("mute", Mute)
	bot.RegisterCommands("unmute", Unmute)
}

// Mute silences the replied-to member. An optional duration argument like
// "30m" or "2h" overrides the group's configured mute duration.
func Mute(b *bot.Bot, m *tb.Message, params []string) {
	target := requireAdminReply(b, m)
	if target == nil {
		return
	}
	chatID := m.Chat.ID
	targetID := int64(target.ID)
	lang := chatLang(chatID)

	settings, err := service.GetOrCreateGroup(chatID, m.Chat.Title)
	if err != nil {
		log.Warn("mute: settings for %v: %v", chatID, err)
		return
	}
	seconds := settings.MuteDuration
	if len(params) > 0 {
		if parsed := common.ParseDuration(params[0]); parsed > 0 {
			seconds = parsed
		}
	}
	muteFor := time.Duration(seconds) * time.Second
	if err := b.MuteMember(chatID, targetID, time.Now().Add(muteFor)); err != nil {
		log.Warn("mute: restrict %v in %v: %v", targetID, chatID, err)
		return
	}
	if err := service.MuteMember(targetID, chatID, muteFor); err != nil {
		log.Warn("mute: record mute: %v", err)
	}
	if err := service.IncrementStat(chatID, service.StatMuted); err != nil {
		log.Warn("mute: stat: %v", err)
	}
	b.Bot.Reply(m, locale.GetText("moderation.muted", lang, map[string]string{
		"user":     common.MentionHTML(targetID, bot.DisplayName(target)),
		"duration": common.FormatDuration(seconds),
	}), tb.Silent)
}

func Unmute(b *bot.Bot, m *tb.Message, params []string) {
	target := requireAdminReply(b, m)
	if target == nil {
		return
	}
	chatID := m.Chat.ID
	targetID := int64(target.ID)
	lang := chatLang(chatID)

	if err := b.Restrict(chatID, targetID, true, time.Time{}); err != nil {
		log.Warn("unmute: restore rights of %v in %v: %v", targetID, chatID, err)
		return
	}
	if err := service.UnmuteMember(targetID, chatID); err != nil {
		log.Warn("unmute: record unmute: %v", err)
	}
	b.Bot.Reply(m, locale.GetText("moderation.unmuted", lang, map[string]string{
		"user": common.MentionHTML(targetID, bot.DisplayName(target)),
	}), tb.Silent)
}
