// Package verify owns the new-member verification state machine: restrict
// on join, challenge, attempt-limited answers from chat or portal, and the
// timeout eviction racing against them.
package verify

import (
	"fmt"
	"time"

	"github.com/insikex/safeguard/captcha"
	"github.com/insikex/safeguard/model"
	"github.com/insikex/safeguard/pkg/keymutex"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/scheduler"
	"github.com/insikex/safeguard/service"
)

// Platform is the narrow slice of the chat platform the coordinator needs.
// Every method may fail for platform reasons (lost permissions, member
// already gone); implementations report the error and the coordinator logs
// and keeps going, so the store-side state machine always makes progress.
type Platform interface {
	// Restrict toggles the member's permission to send messages.
	Restrict(chatID, userID int64, canSend bool, until time.Time) error
	// Kick bans and immediately unbans, removing the member while
	// leaving re-join possible.
	Kick(chatID, userID int64) error
	// SendChallenge renders and posts the challenge message, returning
	// its message id for later edits.
	SendChallenge(chatID, userID int64, displayName string, ch *captcha.Challenge, timeout time.Duration) (messageID int, err error)
	// NotifyVerified edits the challenge message into a success notice.
	NotifyVerified(chatID, userID int64, messageID int, viaPortal bool)
	// NotifyAttemptsExceeded edits the challenge message into the
	// max-attempts notice.
	NotifyAttemptsExceeded(chatID, userID int64, messageID int, maxAttempts int)
	// NotifyTimeout edits the challenge message into the time's-up notice.
	NotifyTimeout(chatID, userID int64, messageID int)
}

// Outcome of an answer submission.
type Outcome int

const (
	// OutcomeWrongUser: someone other than the challenged member pressed
	// the button; nothing changed.
	OutcomeWrongUser Outcome = iota
	// OutcomeAlreadyResolved: no pending record; the verification was
	// resolved earlier by answer, timeout or kick.
	OutcomeAlreadyResolved
	// OutcomeVerified: correct answer, member unlocked.
	OutcomeVerified
	// OutcomeRetry: wrong answer, attempts remain.
	OutcomeRetry
	// OutcomeKicked: wrong answer consumed the last attempt.
	OutcomeKicked
)

var (
	ErrNoPending = fmt.Errorf("no pending verification")
	ErrBadToken  = fmt.Errorf("invalid token")
)

type Options struct {
	// DefaultTimeout applies when the group settings carry no timeout.
	DefaultTimeout time.Duration
	// DefaultMaxAttempts applies when the group settings carry no cap.
	DefaultMaxAttempts int
}

type Coordinator struct {
	platform Platform
	sched    *scheduler.Scheduler
	locks    *keymutex.KeyMutex
	opts     Options
}

func New(platform Platform, sched *scheduler.Scheduler, opts Options) *Coordinator {
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = 120 * time.Second
	}
	if opts.DefaultMaxAttempts <= 0 {
		opts.DefaultMaxAttempts = 3
	}
	return &Coordinator{
		platform: platform,
		sched:    sched,
		locks:    keymutex.New(64),
		opts:     opts,
	}
}

func pairKey(chatID, userID int64) string {
	return fmt.Sprintf("%v:%v", chatID, userID)
}

func timerKey(chatID, userID int64) string {
	return "verify_timeout:" + pairKey(chatID, userID)
}

func (c *Coordinator) timeoutFor(settings *model.GroupSettings) time.Duration {
	if settings != nil && settings.VerificationTimeout > 0 {
		return time.Duration(settings.VerificationTimeout) * time.Second
	}
	return c.opts.DefaultTimeout
}

func (c *Coordinator) maxAttemptsFor(settings *model.GroupSettings) int {
	if settings != nil && settings.MaxAttempts > 0 {
		return settings.MaxAttempts
	}
	return c.opts.DefaultMaxAttempts
}

// OnJoin starts verification for a freshly joined member: restrict, send a
// challenge of the chat's configured kind, persist the pending record and
// arm the eviction timer. The caller has already checked that verification
// is enabled and the member is not a bot.
func (c *Coordinator) OnJoin(chatID, userID int64, displayName string, settings *model.GroupSettings) error {
	k := pairKey(chatID, userID)
	c.locks.Lock(k)
	defer c.locks.Unlock(k)

	if err := c.platform.Restrict(chatID, userID, false, time.Time{}); err != nil {
		// without the restriction a challenge is pointless; leave the
		// member alone rather than kicking someone who can post anyway
		log.Warn("verify: restrict %v in %v: %v", userID, chatID, err)
		return nil
	}

	kind := model.VerificationButton
	if settings != nil && settings.VerificationType != "" {
		kind = settings.VerificationType
	}
	ch := captcha.Generate(kind)
	timeout := c.timeoutFor(settings)

	messageID, err := c.platform.SendChallenge(chatID, userID, displayName, ch, timeout)
	if err != nil {
		log.Warn("verify: send challenge to %v in %v: %v", userID, chatID, err)
		return nil
	}

	now := time.Now()
	if err := service.PutPendingVerification(&model.PendingVerification{
		UserID:           userID,
		ChatID:           chatID,
		VerificationType: ch.Type,
		Answer:           ch.Answer,
		Attempts:         0,
		MessageID:        messageID,
		ExpiresAt:        now.Add(timeout),
		CreatedAt:        now,
	}); err != nil {
		return err
	}

	c.sched.ArmOnce(timerKey(chatID, userID), timeout, func() {
		c.OnTimeout(chatID, userID)
	})
	return nil
}

// OnAnswer processes an answer from the in-chat UI. submitterID is whoever
// pressed the button; only the challenged member may answer. Returns the
// outcome and, for OutcomeRetry, how many attempts remain.
func (c *Coordinator) OnAnswer(chatID, submitterID, targetID int64, answer string) (Outcome, int, error) {
	if submitterID != targetID {
		return OutcomeWrongUser, 0, nil
	}

	k := pairKey(chatID, targetID)
	c.locks.Lock(k)
	defer c.locks.Unlock(k)

	pending, err := service.GetPendingVerification(targetID, chatID)
	if err != nil {
		return OutcomeAlreadyResolved, 0, err
	}
	if pending == nil {
		return OutcomeAlreadyResolved, 0, nil
	}

	if captcha.VerifyAnswer(pending.VerificationType, pending.Answer, answer) {
		if !c.unlock(chatID, targetID, pending.MessageID, false) {
			return OutcomeAlreadyResolved, 0, nil
		}
		return OutcomeVerified, 0, nil
	}

	settings, _ := service.GetGroup(chatID)
	maxAttempts := c.maxAttemptsFor(settings)

	attempts, err := service.IncrementVerificationAttempts(targetID, chatID)
	if err != nil {
		return OutcomeRetry, 0, err
	}
	if attempts >= maxAttempts {
		resolved, err := service.ResolvePendingVerification(targetID, chatID)
		if err != nil {
			return OutcomeRetry, 0, err
		}
		if resolved == nil {
			return OutcomeAlreadyResolved, 0, nil
		}
		c.sched.Cancel(timerKey(chatID, targetID))
		if err := c.platform.Kick(chatID, targetID); err != nil {
			log.Warn("verify: kick %v from %v: %v", targetID, chatID, err)
		}
		if err := service.IncrementStat(chatID, service.StatKicked); err != nil {
			log.Warn("verify: stat: %v", err)
		}
		c.platform.NotifyAttemptsExceeded(chatID, targetID, resolved.MessageID, maxAttempts)
		return OutcomeKicked, 0, nil
	}
	return OutcomeRetry, maxAttempts - attempts, nil
}

// OnPortal processes the out-of-band web submission. Portal tokens are
// opaque secrets and must match exactly. Resubmission after resolution
// returns ErrNoPending, so the endpoint stays idempotent.
func (c *Coordinator) OnPortal(chatID, userID int64, token string) error {
	k := pairKey(chatID, userID)
	c.locks.Lock(k)
	defer c.locks.Unlock(k)

	pending, err := service.GetPendingVerification(userID, chatID)
	if err != nil {
		return err
	}
	if pending == nil {
		return ErrNoPending
	}
	if pending.Answer != token {
		return ErrBadToken
	}
	if !c.unlock(chatID, userID, pending.MessageID, true) {
		return ErrNoPending
	}
	return nil
}

// PortalPending checks the (token, chat, user) triple for the confirmation
// page without consuming anything.
func (c *Coordinator) PortalPending(chatID, userID int64, token string) error {
	pending, err := service.GetPendingVerification(userID, chatID)
	if err != nil {
		return err
	}
	if pending == nil {
		return ErrNoPending
	}
	if pending.Answer != token {
		return ErrBadToken
	}
	return nil
}

// OnTimeout is the eviction transition. It fires from the armed timer (or
// the background sweep) and no-ops when the record was already resolved.
func (c *Coordinator) OnTimeout(chatID, userID int64) {
	k := pairKey(chatID, userID)
	c.locks.Lock(k)
	defer c.locks.Unlock(k)

	resolved, err := service.ResolvePendingVerification(userID, chatID)
	if err != nil {
		log.Warn("verify: resolve on timeout %v in %v: %v", userID, chatID, err)
		return
	}
	if resolved == nil {
		// already answered or kicked; losing this race is the normal case
		return
	}
	if err := c.platform.Kick(chatID, userID); err != nil {
		log.Warn("verify: kick on timeout %v from %v: %v", userID, chatID, err)
	}
	if err := service.IncrementStat(chatID, service.StatKicked); err != nil {
		log.Warn("verify: stat: %v", err)
	}
	c.platform.NotifyTimeout(chatID, userID, resolved.MessageID)
}

// unlock performs the shared success sequence: consume the record, cancel
// the timer, lift the restriction, mark verified. Reports false when the
// record was consumed by a concurrent transition first.
func (c *Coordinator) unlock(chatID, userID int64, messageID int, viaPortal bool) bool {
	resolved, err := service.ResolvePendingVerification(userID, chatID)
	if err != nil {
		log.Warn("verify: resolve %v in %v: %v", userID, chatID, err)
		return false
	}
	if resolved == nil {
		return false
	}
	c.sched.Cancel(timerKey(chatID, userID))
	if err := c.platform.Restrict(chatID, userID, true, time.Time{}); err != nil {
		log.Warn("verify: unrestrict %v in %v: %v", userID, chatID, err)
	}
	if err := service.MarkVerified(userID, chatID); err != nil {
		log.Warn("verify: mark verified: %v", err)
	}
	if err := service.IncrementStat(chatID, service.StatVerified); err != nil {
		log.Warn("verify: stat: %v", err)
	}
	c.platform.NotifyVerified(chatID, userID, messageID, viaPortal)
	return true
}
