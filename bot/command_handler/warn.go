package command_handler

import (
	"strconv"
	"time"

	"github.com/insikex/safeguard/bot"
	"github.com/insikex/safeguard/common"
	"github.com/insikex/safeguard/locale"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommands("warn", Warn)
	bot.RegisterCommands("unwarn", Unwarn)
}

func Warn(b *bot.Bot, m *tb.Message, params []string) {
	target := requireAdminReply(b, m)
	if target == nil {
		return
	}
	chatID := m.Chat.ID
	targetID := int64(target.ID)
	lang := chatLang(chatID)

	settings, err := service.GetOrCreateGroup(chatID, m.Chat.Title)
	if err != nil {
		log.Warn("warn: settings for %v: %v", chatID, err)
		return
	}
	count, err := service.AddWarning(targetID, chatID)
	if err != nil {
		log.Warn("warn: add warning for %v in %v: %v", targetID, chatID, err)
		return
	}
	if err := service.IncrementStat(chatID, service.StatWarned); err != nil {
		log.Warn("warn: stat: %v", err)
	}
	mention := common.MentionHTML(targetID, bot.DisplayName(target))
	if count < settings.WarnLimit {
		b.Bot.Reply(m, locale.GetText("moderation.warned", lang, map[string]string{
			"user":  mention,
			"count": strconv.Itoa(count),
			"limit": strconv.Itoa(settings.WarnLimit),
		}), tb.Silent)
		return
	}

	// limit reached: mute and start over
	muteFor := time.Duration(settings.MuteDuration) * time.Second
	if err := b.MuteMember(chatID, targetID, time.Now().Add(muteFor)); err != nil {
		log.Warn("warn: mute %v in %v: %v", targetID, chatID, err)
	}
	if err := service.MuteMember(targetID, chatID, muteFor); err != nil {
		log.Warn("warn: record mute: %v", err)
	}
	if err := service.ResetWarnings(targetID, chatID); err != nil {
		log.Warn("warn: reset warnings: %v", err)
	}
	if err := service.IncrementStat(chatID, service.StatMuted); err != nil {
		log.Warn("warn: stat: %v", err)
	}
	b.Bot.Reply(m, locale.GetText("moderation.warn_limit", lang, map[string]string{
		"user":     mention,
		"duration": common.FormatDuration(settings.MuteDuration),
	}), tb.Silent)
}

func Unwarn(b *bot.Bot, m *tb.Message, params []string) {
	target := requireAdminReply(b, m)
	if target == nil {
		return
	}
	chatID := m.Chat.ID
	targetID := int64(target.ID)
	lang := chatLang(chatID)

	settings, err := service.GetOrCreateGroup(chatID, m.Chat.Title)
	if err != nil {
		log.Warn("unwarn: settings for %v: %v", chatID, err)
		return
	}
	count, err := service.RemoveWarning(targetID, chatID)
	if err != nil {
		log.Warn("unwarn: remove warning for %v in %v: %v", targetID, chatID, err)
		return
	}
	b.Bot.Reply(m, locale.GetText("moderation.unwarned", lang, map[string]string{
		"user":  common.MentionHTML(targetID, bot.DisplayName(target)),
		"count": strconv.Itoa(count),
		"limit": strconv.Itoa(settings.WarnLimit),
	}), tb.Silent)
}
