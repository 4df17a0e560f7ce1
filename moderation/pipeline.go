// Package moderation runs the per-message filter chain: flood, link, spam
// pattern, bad word. Filters short-circuit on first match.
package moderation

import (
	"regexp"
	"strings"
	"time"

	"github.com/insikex/safeguard/flood"
	"github.com/insikex/safeguard/model"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
)

// FloodMuteDuration is the fixed mute applied on a flood trigger,
// independent of the chat's configured mute duration for manual mutes.
const FloodMuteDuration = 5 * time.Minute

// Reason a message was suppressed.
type Reason string

const (
	ReasonFlood   Reason = "flood"
	ReasonLink    Reason = "link"
	ReasonSpam    Reason = "spam"
	ReasonBadword Reason = "badword"
)

// Actions is what the pipeline may do to an offending message. Failures are
// best-effort: the pipeline logs and moves on.
type Actions interface {
	DeleteMessage(chatID int64, messageID int) error
	MuteMember(chatID, userID int64, until time.Time) error
	// WarnNotice posts the in-chat notice explaining the suppression.
	WarnNotice(chatID, userID int64, reason Reason, muteDuration time.Duration)
}

// Message is one inbound text message.
type Message struct {
	ChatID    int64
	UserID    int64
	MessageID int
	Text      string
	Time      time.Time
}

var linkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://`),
	regexp.MustCompile(`(?i)t\.me/`),
	regexp.MustCompile(`(?i)telegram\.me/`),
	regexp.MustCompile(`@\w+`),
}

// Regex-expressible spam heuristics, checked after the two scan-based ones.
var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z\s]{50,}`),
	regexp.MustCompile(`(?i)(?:crypto|bitcoin|earn|money|investment|profit).{0,50}(?:http|www|t\.me)`),
	regexp.MustCompile(`(?i)(?:join|click|visit).{0,30}(?:http|www|t\.me).{0,50}(?:free|bonus|reward)`),
	regexp.MustCompile(`@\w+\s*@\w+\s*@\w+\s*@\w+`),
}

type Pipeline struct {
	actions  Actions
	detector *flood.Detector
}

func NewPipeline(actions Actions, detector *flood.Detector) *Pipeline {
	return &Pipeline{actions: actions, detector: detector}
}

// Inspect runs the filter chain for one message from a non-admin sender.
// On a match it deletes the message, notices the chat, and for flood also
// mutes the sender; it returns the matched reason. A clean message bumps
// the chat's message counter and the sender's activity marker and returns
// ok=false.
func (p *Pipeline) Inspect(msg Message, settings *model.GroupSettings) (Reason, bool) {
	if settings.AntifloodEnabled && p.checkFlood(msg, settings) {
		return ReasonFlood, true
	}
	if settings.AntilinkEnabled && ContainsLink(msg.Text) {
		p.suppress(msg, ReasonLink, service.StatLinksBlocked)
		return ReasonLink, true
	}
	if settings.AntispamEnabled && IsSpam(msg.Text) {
		p.suppress(msg, ReasonSpam, service.StatSpamBlocked)
		return ReasonSpam, true
	}
	if settings.AntibadwordEnabled && ContainsBadWord(msg.Text, settings.BadWords) {
		p.suppress(msg, ReasonBadword, service.StatBadwordBlocked)
		return ReasonBadword, true
	}

	if err := service.IncrementStat(msg.ChatID, service.StatMessages); err != nil {
		log.Warn("moderation: stat: %v", err)
	}
	if err := service.TouchActivity(msg.UserID, msg.ChatID); err != nil {
		log.Warn("moderation: touch activity: %v", err)
	}
	return "", false
}

// ForgetMember drops the member's flood window, used when they leave the
// chat so a rejoin starts clean.
func (p *Pipeline) ForgetMember(chatID, userID int64) {
	p.detector.Forget(chatID, userID)
}

func (p *Pipeline) checkFlood(msg Message, settings *model.GroupSettings) bool {
	limit := settings.FloodLimit
	window := time.Duration(settings.FloodTimeWindow) * time.Second
	if limit <= 0 || window <= 0 {
		return false
	}
	if !p.detector.RecordAndCheck(msg.ChatID, msg.UserID, msg.Time, limit, window) {
		return false
	}
	if err := p.actions.DeleteMessage(msg.ChatID, msg.MessageID); err != nil {
		log.Warn("moderation: delete flood message: %v", err)
	}
	if err := p.actions.MuteMember(msg.ChatID, msg.UserID, time.Now().Add(FloodMuteDuration)); err != nil {
		log.Warn("moderation: mute flooding user: %v", err)
	}
	if err := service.MuteMember(msg.UserID, msg.ChatID, FloodMuteDuration); err != nil {
		log.Warn("moderation: record mute: %v", err)
	}
	if err := service.IncrementStat(msg.ChatID, service.StatFloodBlocked); err != nil {
		log.Warn("moderation: stat: %v", err)
	}
	p.actions.WarnNotice(msg.ChatID, msg.UserID, ReasonFlood, FloodMuteDuration)
	return true
}

func (p *Pipeline) suppress(msg Message, reason Reason, stat string) {
	if err := p.actions.DeleteMessage(msg.ChatID, msg.MessageID); err != nil {
		log.Warn("moderation: delete message: %v", err)
	}
	if err := service.IncrementStat(msg.ChatID, stat); err != nil {
		log.Warn("moderation: stat: %v", err)
	}
	p.actions.WarnNotice(msg.ChatID, msg.UserID, reason, 0)
}

// ContainsLink reports whether the text carries a link or channel mention.
func ContainsLink(text string) bool {
	for _, re := range linkPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// IsSpam applies the ordered spam heuristics: long identical-character run,
// repeated-word run, long all-caps span, crypto scam and click-bait keyword
// plus link co-occurrence, and mention stuffing. First match wins.
func IsSpam(text string) bool {
	if hasCharRun(text, 11) {
		return true
	}
	if hasWordRun(text, 6) {
		return true
	}
	for _, re := range spamPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// hasCharRun reports whether any rune repeats n or more times in a row.
func hasCharRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// hasWordRun reports whether the same word occurs n or more times in a row,
// case-insensitively.
func hasWordRun(text string, n int) bool {
	words := strings.Fields(strings.ToLower(text))
	run := 0
	prev := ""
	for _, w := range words {
		if w == prev && w != "" {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = w
			run = 1
		}
	}
	return false
}

// ContainsBadWord reports whether any configured bad word occurs in the
// text, case-insensitively. With no configured list a minimal default
// applies.
func ContainsBadWord(text string, badWords []string) bool {
	if len(badWords) == 0 {
		badWords = []string{"spam", "scam"}
	}
	lower := strings.ToLower(text)
	for _, w := range badWords {
		if w == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}
