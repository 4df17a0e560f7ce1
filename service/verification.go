package service

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/insikex/safeguard/db"
	"github.com/insikex/safeguard/model"
	jsoniter "github.com/json-iterator/go"
)

func pendingKey(userID, chatID int64) []byte {
	return []byte(fmt.Sprintf("%v:%v", chatID, userID))
}

// PutPendingVerification stores the pending record for (user, chat),
// overwriting any prior one: a re-join restarts verification from scratch.
func PutPendingVerification(p *model.PendingVerification) error {
	return db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketVerification))
		if err != nil {
			return err
		}
		b, err := jsoniter.Marshal(p)
		if err != nil {
			return err
		}
		return bkt.Put(pendingKey(p.UserID, p.ChatID), b)
	})
}

// GetPendingVerification returns the pending record, or nil if the
// verification has already been resolved.
func GetPendingVerification(userID, chatID int64) (*model.PendingVerification, error) {
	var pending *model.PendingVerification
	err := db.DB().View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketVerification))
		if bkt == nil {
			return nil
		}
		b := bkt.Get(pendingKey(userID, chatID))
		if b == nil {
			return nil
		}
		var p model.PendingVerification
		if err := jsoniter.Unmarshal(b, &p); err != nil {
			return err
		}
		pending = &p
		return nil
	})
	return pending, err
}

// IncrementVerificationAttempts bumps the attempt counter and returns the
// new value, all inside one transaction. Returns 0 if no record exists.
func IncrementVerificationAttempts(userID, chatID int64) (int, error) {
	var attempts int
	err := db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketVerification))
		if err != nil {
			return err
		}
		k := pendingKey(userID, chatID)
		b := bkt.Get(k)
		if b == nil {
			return nil
		}
		var p model.PendingVerification
		if err := jsoniter.Unmarshal(b, &p); err != nil {
			return err
		}
		p.Attempts++
		attempts = p.Attempts
		b, err = jsoniter.Marshal(&p)
		if err != nil {
			return err
		}
		return bkt.Put(k, b)
	})
	return attempts, err
}

// ResolvePendingVerification atomically removes the pending record and
// returns it. The answer path and the timeout path both funnel through
// here; whichever call finds the record wins the race, the other observes
// nil and must no-op. The check and the delete share one bolt write
// transaction, so there is no window for both to win.
func ResolvePendingVerification(userID, chatID int64) (*model.PendingVerification, error) {
	var resolved *model.PendingVerification
	err := db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketVerification))
		if err != nil {
			return err
		}
		k := pendingKey(userID, chatID)
		b := bkt.Get(k)
		if b == nil {
			return nil
		}
		var p model.PendingVerification
		if err := jsoniter.Unmarshal(b, &p); err != nil {
			// a corrupt record still has to be removed, or it would
			// pin the user in the pending state forever
			return bkt.Delete(k)
		}
		resolved = &p
		return bkt.Delete(k)
	})
	return resolved, err
}

// ExpiredVerifications lists pending records whose deadline passed before
// now. Used by the background sweep that covers timers lost to a restart.
func ExpiredVerifications(now time.Time) ([]model.PendingVerification, error) {
	var expired []model.PendingVerification
	err := db.DB().View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketVerification))
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(func(k, b []byte) error {
			var p model.PendingVerification
			if err := jsoniter.Unmarshal(b, &p); err != nil {
				return nil
			}
			if now.After(p.ExpiresAt) {
				expired = append(expired, p)
			}
			return nil
		})
	})
	return expired, err
}
