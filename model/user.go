package model

import "time"

// Member is one user's record within one chat.
type Member struct {
	UserID   int64
	ChatID   int64
	Username string
	FullName string
	Language string

	Verified  bool
	Muted     bool
	MuteUntil time.Time
	Warnings  int

	JoinedAt     time.Time
	LastMessage  time.Time
	MessageCount int64
}

// BotUser is a user who talked to the bot in private chat; premium state
// lives here.
type BotUser struct {
	UserID   int64
	Username string
	FullName string
	Language string

	Premium      bool
	PremiumUntil time.Time
	PremiumPlan  string
	TotalSpent   float64

	CreatedAt  time.Time
	LastActive time.Time
}
