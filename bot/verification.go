package bot

import (
	"strconv"
	"strings"

	"github.com/insikex/safeguard/common"
	"github.com/insikex/safeguard/locale"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
	"github.com/insikex/safeguard/verify"
	tb "gopkg.in/tucnak/telebot.v2"
)

func (b *Bot) handleUserJoined(m *tb.Message) {
	if m.Chat == nil || m.Chat.Type == tb.ChatPrivate {
		return
	}
	var joined []tb.User
	if len(m.UsersJoined) > 0 {
		joined = m.UsersJoined
	} else if m.UserJoined != nil {
		joined = []tb.User{*m.UserJoined}
	}
	settings, err := service.GetOrCreateGroup(m.Chat.ID, m.Chat.Title)
	if err != nil {
		log.Warn("bot: settings for %v: %v", m.Chat.ID, err)
		return
	}
	for i := range joined {
		user := &joined[i]
		if user.IsBot {
			continue
		}
		userID := int64(user.ID)
		name := DisplayName(user)
		if !settings.VerificationEnabled {
			if settings.WelcomeEnabled {
				b.sendWelcome(m.Chat.ID, userID, name, settings.Language)
			}
			if err := service.MarkVerified(userID, m.Chat.ID); err != nil {
				log.Warn("bot: mark verified %v in %v: %v", userID, m.Chat.ID, err)
			}
			continue
		}
		if err := b.Coordinator.OnJoin(m.Chat.ID, userID, name, settings); err != nil {
			log.Warn("bot: start verification for %v in %v: %v", userID, m.Chat.ID, err)
		}
	}
}

func (b *Bot) sendWelcome(chatID, userID int64, name, lang string) {
	text := locale.GetText("welcome.new_member", lang, map[string]string{
		"name":  common.MentionHTML(userID, name),
		"group": b.chatTitle(chatID),
	})
	if _, err := b.Bot.Send(tb.ChatID(chatID), text, &tb.SendOptions{ParseMode: tb.ModeHTML}); err != nil {
		log.Warn("bot: send welcome in %v: %v", chatID, err)
	}
}

// Callback data is "verify_btn_<uid>", "verify_math_<uid>_<answer>" or
// "verify_emoji_<uid>_<answer>".
func (b *Bot) handleCallback(c *tb.Callback) {
	if c.Message == nil || c.Message.Chat == nil {
		return
	}
	data := strings.TrimSpace(c.Data)
	if !strings.HasPrefix(data, "verify_") {
		b.Bot.Respond(c, &tb.CallbackResponse{})
		return
	}
	parts := strings.SplitN(data, "_", 4)
	if len(parts) < 3 {
		b.Bot.Respond(c, &tb.CallbackResponse{})
		return
	}
	kind := parts[1]
	targetID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		b.Bot.Respond(c, &tb.CallbackResponse{})
		return
	}
	var answer string
	switch kind {
	case "btn":
		answer = "verify"
	case "math", "emoji":
		if len(parts) < 4 {
			b.Bot.Respond(c, &tb.CallbackResponse{})
			return
		}
		answer = parts[3]
	default:
		b.Bot.Respond(c, &tb.CallbackResponse{})
		return
	}

	chatID := c.Message.Chat.ID
	lang := b.chatLang(chatID)
	outcome, remaining, err := b.Coordinator.OnAnswer(chatID, int64(c.Sender.ID), targetID, answer)
	if err != nil {
		log.Warn("bot: answer from %v in %v: %v", c.Sender.ID, chatID, err)
		b.Bot.Respond(c, &tb.CallbackResponse{})
		return
	}
	switch outcome {
	case verify.OutcomeWrongUser:
		b.Bot.Respond(c, &tb.CallbackResponse{
			Text:      locale.GetText("verification.wrong_user", lang, nil),
			ShowAlert: true,
		})
	case verify.OutcomeAlreadyResolved:
		b.Bot.Respond(c, &tb.CallbackResponse{
			Text: locale.GetText("verification.already_verified", lang, nil),
		})
	case verify.OutcomeVerified:
		b.Bot.Respond(c, &tb.CallbackResponse{
			Text: locale.GetText("verification.success_toast", lang, nil),
		})
	case verify.OutcomeRetry:
		b.Bot.Respond(c, &tb.CallbackResponse{
			Text: locale.GetText("verification.failed", lang, map[string]string{
				"attempts": strconv.Itoa(remaining),
			}),
			ShowAlert: true,
		})
	case verify.OutcomeKicked:
		b.Bot.Respond(c, &tb.CallbackResponse{})
	}
}
