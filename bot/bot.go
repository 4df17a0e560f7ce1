package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/insikex/safeguard/flood"
	"github.com/insikex/safeguard/moderation"
	"github.com/insikex/safeguard/payment"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/scheduler"
	"github.com/insikex/safeguard/verify"
	tb "gopkg.in/tucnak/telebot.v2"
)

type Bot struct {
	Bot    *tb.Bot
	WebURL string

	Coordinator *verify.Coordinator
	Pipeline    *moderation.Pipeline

	// payment backends; either may be nil when unconfigured
	CryptoPay *payment.CryptoPayClient
	Pakasir   *payment.PakasirClient
}

type CommandHandler func(b *Bot, m *tb.Message, params []string)

var GlobalCommandMapper = make(map[string]CommandHandler)

func RegisterCommands(command string, f CommandHandler) {
	GlobalCommandMapper[command] = f
}

func New(token string, webURL string, poller *tb.LongPoller, opts verify.Options) (*Bot, error) {
	if poller == nil {
		poller = &tb.LongPoller{Timeout: 15 * time.Second}
	}
	b, err := tb.NewBot(tb.Settings{
		Token:     token,
		Poller:    poller,
		ParseMode: tb.ModeHTML,
	})
	if err != nil {
		return nil, err
	}
	bot := &Bot{
		Bot:    b,
		WebURL: strings.TrimSuffix(webURL, "/"),
	}
	bot.Coordinator = verify.New(bot, scheduler.New(), opts)
	bot.Pipeline = moderation.NewPipeline(bot, flood.NewDetector())

	b.Handle(tb.OnUserJoined, bot.handleUserJoined)
	b.Handle(tb.OnUserLeft, bot.handleUserLeft)
	b.Handle(tb.OnCallback, bot.handleCallback)
	b.Handle(tb.OnText, bot.handleText)
	return bot, nil
}

func (b *Bot) Start() {
	b.Bot.Start()
}

func (b *Bot) handleText(m *tb.Message) {
	if strings.HasPrefix(m.Text, "/") && len(m.Text) > 1 {
		text := strings.TrimPrefix(m.Text, "/")
		fields := strings.Fields(text)
		if len(fields) == 0 {
			// "/" followed by whitespace only, not a command
			b.handleMessage(m)
			return
		}
		// commands may arrive as /cmd@botname in groups
		command := strings.SplitN(fields[0], "@", 2)[0]
		if handler, ok := GlobalCommandMapper[command]; ok {
			handler(b, m, fields[1:])
		}
		return
	}
	b.handleMessage(m)
}

// IsAdmin reports whether the user administers the chat. Lookup failures
// count as not-admin.
func (b *Bot) IsAdmin(chat *tb.Chat, user *tb.User) bool {
	member, err := b.Bot.ChatMemberOf(chat, user)
	if err != nil {
		log.Warn("bot: ChatMemberOf %v in %v: %v", user.ID, chat.ID, err)
		return false
	}
	return member.Role == tb.Creator || member.Role == tb.Administrator
}

// DisplayName returns the user's full name, falling back to username and a
// numeric placeholder.
func DisplayName(user *tb.User) string {
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	if name != "" {
		return name
	}
	if user.Username != "" {
		return "@" + user.Username
	}
	return fmt.Sprintf("User %v", user.ID)
}

// memberName looks up a chat member's display name, best effort.
func (b *Bot) memberName(chatID, userID int64) string {
	member, err := b.Bot.ChatMemberOf(&tb.Chat{ID: chatID}, &tb.User{ID: userID})
	if err != nil || member.User == nil {
		return fmt.Sprintf("User %v", userID)
	}
	return DisplayName(member.User)
}
