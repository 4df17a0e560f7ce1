package controller

import (
	"github.com/insikex/safeguard/verify"
)

var (
	coordinator *verify.Coordinator
	// notifyActivated is called after a webhook payment activates premium,
	// so the bot can message the buyer. May stay nil.
	notifyActivated func(userID int64, plan string)
)

// Init hands the controllers their collaborators before the router starts.
func Init(c *verify.Coordinator, onActivated func(userID int64, plan string)) {
	coordinator = c
	notifyActivated = onActivated
}
