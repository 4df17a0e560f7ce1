package model

import "time"

const (
	VerificationButton = "button"
	VerificationMath   = "math"
	VerificationEmoji  = "emoji"
	VerificationPortal = "portal"
)

// PendingVerification is the record of one in-flight challenge. At most one
// exists per (user, chat); creation overwrites any prior record so a re-join
// restarts verification. Its absence is the terminal signal: whichever of the
// answer and timeout paths deletes it first wins the race.
type PendingVerification struct {
	UserID           int64
	ChatID           int64
	VerificationType string
	Answer           string
	Attempts         int
	MessageID        int
	ExpiresAt        time.Time
	CreatedAt        time.Time
}
