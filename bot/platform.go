package bot

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/insikex/safeguard/captcha"
	"github.com/insikex/safeguard/common"
	"github.com/insikex/safeguard/locale"
	"github.com/insikex/safeguard/model"
	"github.com/insikex/safeguard/moderation"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
	tb "gopkg.in/tucnak/telebot.v2"
)

// The Bot is the chat-platform boundary of the coordinator and the
// moderation pipeline. Everything here is fallible and reported upward;
// none of it is allowed to block a state transition.

func fullRights() tb.Rights {
	return tb.Rights{
		CanSendMessages: true,
		CanSendMedia:    true,
		CanSendPolls:    true,
		CanSendOther:    true,
		CanAddPreviews:  true,
	}
}

func (b *Bot) Restrict(chatID, userID int64, canSend bool, until time.Time) error {
	member := &tb.ChatMember{
		User: &tb.User{ID: userID},
	}
	if canSend {
		member.Rights = fullRights()
	} else {
		member.Rights = tb.Rights{CanSendMessages: false}
	}
	if !until.IsZero() {
		member.RestrictedUntil = until.Unix()
	} else {
		member.RestrictedUntil = tb.Forever()
	}
	return b.Bot.Restrict(&tb.Chat{ID: chatID}, member)
}

// Kick bans then immediately unbans: removal with re-join allowed.
func (b *Bot) Kick(chatID, userID int64) error {
	chat := &tb.Chat{ID: chatID}
	user := &tb.User{ID: userID}
	if err := b.Bot.Ban(chat, &tb.ChatMember{User: user}); err != nil {
		return err
	}
	if err := b.Bot.Unban(chat, user); err != nil {
		return err
	}
	return nil
}

func (b *Bot) chatLang(chatID int64) string {
	settings, err := service.GetGroup(chatID)
	if err != nil || settings == nil || settings.Language == "" {
		return locale.DefaultLanguage
	}
	return settings.Language
}

func (b *Bot) chatTitle(chatID int64) string {
	settings, err := service.GetGroup(chatID)
	if err != nil || settings == nil {
		return ""
	}
	return settings.Title
}

// SendChallenge renders and posts the verification message for one kind of
// challenge and returns the message id for later edits.
func (b *Bot) SendChallenge(chatID, userID int64, displayName string, ch *captcha.Challenge, timeout time.Duration) (int, error) {
	lang := b.chatLang(chatID)
	text := locale.GetText("welcome.new_member_verify", lang, map[string]string{
		"name":    common.MentionHTML(userID, displayName),
		"group":   b.chatTitle(chatID),
		"timeout": common.FormatDuration(int(timeout.Seconds())),
	})

	var keyboard [][]tb.InlineButton
	switch ch.Type {
	case model.VerificationMath:
		text += "\n\n" + locale.GetText("verification.math_prompt", lang, map[string]string{
			"question": ch.Question,
		})
		var row []tb.InlineButton
		for _, option := range ch.Options {
			row = append(row, tb.InlineButton{
				Text: option,
				Data: fmt.Sprintf("verify_math_%v_%v", userID, option),
			})
			if len(row) == 2 {
				keyboard = append(keyboard, row)
				row = nil
			}
		}
		if len(row) > 0 {
			keyboard = append(keyboard, row)
		}
	case model.VerificationEmoji:
		text += "\n\n" + locale.GetText("verification.emoji_prompt", lang, map[string]string{
			"emoji": ch.Question,
		})
		var row []tb.InlineButton
		for _, option := range ch.Options {
			row = append(row, tb.InlineButton{
				Text: option,
				Data: fmt.Sprintf("verify_emoji_%v_%v", userID, option),
			})
		}
		keyboard = append(keyboard, row)
	case model.VerificationPortal:
		text += "\n\n" + locale.GetText("verification.portal_prompt", lang, nil)
		portalURL := fmt.Sprintf("%v/verify?token=%v&chat_id=%v&user_id=%v",
			b.WebURL, url.QueryEscape(ch.Answer), chatID, userID)
		keyboard = append(keyboard, []tb.InlineButton{{
			Text: locale.GetText("verification.portal_button", lang, nil),
			URL:  portalURL,
		}})
	default:
		text += "\n\n" + locale.GetText("verification.button_prompt", lang, nil)
		keyboard = append(keyboard, []tb.InlineButton{{
			Text: locale.GetText("verification.button_text", lang, nil),
			Data: fmt.Sprintf("verify_btn_%v", userID),
		}})
	}

	msg, err := b.Bot.Send(tb.ChatID(chatID), text, &tb.SendOptions{
		ParseMode: tb.ModeHTML,
		ReplyMarkup: &tb.ReplyMarkup{
			InlineKeyboard: keyboard,
		},
	})
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (b *Bot) editMessage(chatID int64, messageID int, text string) {
	if messageID == 0 {
		return
	}
	_, err := b.Bot.Edit(&tb.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	}, text, &tb.SendOptions{ParseMode: tb.ModeHTML})
	if err != nil {
		log.Warn("bot: edit message %v in %v: %v", messageID, chatID, err)
	}
}

func (b *Bot) NotifyVerified(chatID, userID int64, messageID int, viaPortal bool) {
	lang := b.chatLang(chatID)
	key := "verification.success"
	if viaPortal {
		key = "verification.success_portal"
	}
	b.editMessage(chatID, messageID, locale.GetText(key, lang, map[string]string{
		"name": common.MentionHTML(userID, b.memberName(chatID, userID)),
	}))
}

func (b *Bot) NotifyAttemptsExceeded(chatID, userID int64, messageID int, maxAttempts int) {
	lang := b.chatLang(chatID)
	b.editMessage(chatID, messageID, locale.GetText("verification.max_attempts", lang, map[string]string{
		"name": common.MentionHTML(userID, b.memberName(chatID, userID)),
		"max":  strconv.Itoa(maxAttempts),
	}))
}

func (b *Bot) NotifyTimeout(chatID, userID int64, messageID int) {
	lang := b.chatLang(chatID)
	b.editMessage(chatID, messageID, locale.GetText("verification.timeout", lang, map[string]string{
		"name": common.MentionHTML(userID, b.memberName(chatID, userID)),
	}))
}

// SendPremiumActivated messages a buyer in private chat after a payment
// settles. Failures are logged only; the subscription is already active.
func (b *Bot) SendPremiumActivated(userID int64, langCode string, until time.Time) {
	lang := locale.DetectLanguage(langCode)
	text := locale.GetText("premium.activated", lang, map[string]string{
		"until": until.Format("2006-01-02"),
	})
	if _, err := b.Bot.Send(tb.ChatID(userID), text, &tb.SendOptions{ParseMode: tb.ModeHTML}); err != nil {
		log.Warn("bot: notify premium user %v: %v", userID, err)
	}
}

func (b *Bot) DeleteMessage(chatID int64, messageID int) error {
	return b.Bot.Delete(&tb.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	})
}

func (b *Bot) MuteMember(chatID, userID int64, until time.Time) error {
	return b.Restrict(chatID, userID, false, until)
}

func (b *Bot) WarnNotice(chatID, userID int64, reason moderation.Reason, muteDuration time.Duration) {
	lang := b.chatLang(chatID)
	var key string
	switch reason {
	case moderation.ReasonFlood:
		key = "protection.flood_detected"
	case moderation.ReasonLink:
		key = "protection.link_deleted"
	case moderation.ReasonSpam:
		key = "protection.spam_detected"
	case moderation.ReasonBadword:
		key = "protection.badword_detected"
	default:
		return
	}
	text := locale.GetText(key, lang, map[string]string{
		"user":     common.MentionHTML(userID, b.memberName(chatID, userID)),
		"duration": common.FormatDuration(int(muteDuration.Seconds())),
	})
	if _, err := b.Bot.Send(tb.ChatID(chatID), text, &tb.SendOptions{ParseMode: tb.ModeHTML}); err != nil {
		log.Warn("bot: send warn notice in %v: %v", chatID, err)
	}
}
