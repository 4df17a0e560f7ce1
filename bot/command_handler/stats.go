package command_handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/insikex/safeguard/bot"
	"github.com/insikex/safeguard/locale"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommands("stats", Stats)
}

var statRows = []struct {
	kind  string
	label string
}{
	{service.StatMessages, "💬 Messages"},
	{service.StatVerified, "✅ Verified"},
	{service.StatKicked, "👢 Kicked"},
	{service.StatFloodBlocked, "🌊 Flood blocked"},
	{service.StatLinksBlocked, "🔗 Links blocked"},
	{service.StatSpamBlocked, "🚫 Spam blocked"},
	{service.StatBadwordBlocked, "🤬 Bad words blocked"},
	{service.StatWarned, "⚠️ Warnings"},
	{service.StatMuted, "🔇 Mutes"},
}

// Stats prints the chat's counters. An optional argument selects the
// trailing number of days, default 7.
func Stats(b *bot.Bot, m *tb.Message, params []string) {
	lang := chatLang(m.Chat.ID)
	if m.Chat.Type == tb.ChatPrivate {
		b.Bot.Reply(m, locale.GetText("moderation.group_only", lang, nil), tb.Silent)
		return
	}
	if !b.IsAdmin(m.Chat, m.Sender) {
		b.Bot.Reply(m, locale.GetText("moderation.admin_only", lang, nil), tb.Silent)
		return
	}
	days := 7
	if len(params) > 0 {
		if n, err := strconv.Atoi(params[0]); err == nil && n > 0 && n <= 90 {
			days = n
		}
	}
	stats, err := service.GetStats(m.Chat.ID, days)
	if err != nil {
		log.Warn("stats: read counters for %v: %v", m.Chat.ID, err)
		return
	}
	var sb strings.Builder
	sb.WriteString(locale.GetText("stats.header", lang, map[string]string{
		"days": strconv.Itoa(days),
	}))
	sb.WriteString("\n")
	for _, row := range statRows {
		sb.WriteString(fmt.Sprintf("\n%v: <b>%v</b>", row.label, stats[row.kind]))
	}
	b.Bot.Reply(m, sb.String(), tb.Silent)
}
