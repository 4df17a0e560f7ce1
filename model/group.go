package model

import "time"

// GroupSettings is the moderation configuration of one chat. Fields always
// carry concrete values; use DefaultGroupSettings for new chats so missing
// settings cannot silently fall back to zero.
type GroupSettings struct {
	ChatID   int64
	Title    string
	Language string

	WelcomeEnabled bool
	WelcomeMessage string

	VerificationEnabled bool
	VerificationType    string // button, math, emoji, portal
	VerificationTimeout int    // seconds
	MaxAttempts         int

	AntifloodEnabled bool
	FloodLimit       int
	FloodTimeWindow  int // seconds

	AntilinkEnabled    bool
	AntispamEnabled    bool
	AntibadwordEnabled bool
	BadWords           []string

	WarnLimit    int
	MuteDuration int // seconds, for admin mutes and warn-limit escalation

	CreatedAt time.Time
	UpdatedAt time.Time
}

func DefaultGroupSettings(chatID int64, title string) *GroupSettings {
	now := time.Now()
	return &GroupSettings{
		ChatID:              chatID,
		Title:               title,
		Language:            "en",
		WelcomeEnabled:      true,
		VerificationEnabled: true,
		VerificationType:    VerificationButton,
		VerificationTimeout: 120,
		MaxAttempts:         3,
		AntifloodEnabled:    true,
		FloodLimit:          5,
		FloodTimeWindow:     10,
		AntilinkEnabled:     false,
		AntispamEnabled:     true,
		AntibadwordEnabled:  false,
		WarnLimit:           3,
		MuteDuration:        3600,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}
