package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"
	"github.com/insikex/safeguard/db"
	"github.com/insikex/safeguard/model"
	jsoniter "github.com/json-iterator/go"
)

var ErrUnknownPlan = fmt.Errorf("unknown premium plan")

func botUserKey(userID int64) []byte {
	return []byte(strconv.FormatInt(userID, 10))
}

func GetBotUser(userID int64) (*model.BotUser, error) {
	var user *model.BotUser
	err := db.DB().View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketBotUser))
		if bkt == nil {
			return nil
		}
		b := bkt.Get(botUserKey(userID))
		if b == nil {
			return nil
		}
		var u model.BotUser
		if err := jsoniter.Unmarshal(b, &u); err != nil {
			return err
		}
		user = &u
		return nil
	})
	return user, err
}

// TouchBotUser creates or refreshes the private-chat user record.
func TouchBotUser(userID int64, username, fullName, language string) (*model.BotUser, error) {
	var user model.BotUser
	err := db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketBotUser))
		if err != nil {
			return err
		}
		k := botUserKey(userID)
		if b := bkt.Get(k); b != nil {
			if err := jsoniter.Unmarshal(b, &user); err != nil {
				user = model.BotUser{}
			}
		}
		if user.UserID == 0 {
			user = model.BotUser{UserID: userID, CreatedAt: time.Now()}
		}
		user.Username = username
		user.FullName = fullName
		if language != "" {
			user.Language = language
		}
		user.LastActive = time.Now()
		b, err := jsoniter.Marshal(&user)
		if err != nil {
			return err
		}
		return bkt.Put(k, b)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// HasPremium reports whether the user holds an unexpired subscription.
func HasPremium(userID int64) (bool, error) {
	user, err := GetBotUser(userID)
	if err != nil || user == nil {
		return false, err
	}
	return user.Premium && time.Now().Before(user.PremiumUntil), nil
}

// ActivatePremium grants the plan to the user. An unexpired subscription is
// extended from its current end date rather than from now.
func ActivatePremium(userID int64, planType string, amount float64, currency string) error {
	plan, ok := model.Plans[planType]
	if !ok {
		return ErrUnknownPlan
	}
	return db.DB().Update(func(tx *bolt.Tx) error {
		users, err := tx.CreateBucketIfNotExists([]byte(model.BucketBotUser))
		if err != nil {
			return err
		}
		var user model.BotUser
		k := botUserKey(userID)
		if b := users.Get(k); b != nil {
			if err := jsoniter.Unmarshal(b, &user); err != nil {
				user = model.BotUser{}
			}
		}
		if user.UserID == 0 {
			user = model.BotUser{UserID: userID, CreatedAt: time.Now()}
		}
		start := time.Now()
		base := start
		if user.Premium && user.PremiumUntil.After(start) {
			base = user.PremiumUntil
		}
		end := base.AddDate(0, 0, plan.DurationDays)

		user.Premium = true
		user.PremiumUntil = end
		user.PremiumPlan = planType
		user.TotalSpent += amount
		user.LastActive = time.Now()
		b, err := jsoniter.Marshal(&user)
		if err != nil {
			return err
		}
		if err := users.Put(k, b); err != nil {
			return err
		}

		subs, err := tx.CreateBucketIfNotExists([]byte(model.BucketSubscription))
		if err != nil {
			return err
		}
		sub := model.Subscription{
			ID:           uuid.NewString(),
			UserID:       userID,
			Plan:         planType,
			Amount:       amount,
			Currency:     currency,
			DurationDays: plan.DurationDays,
			StartDate:    start,
			EndDate:      end,
			Status:       "active",
			CreatedAt:    time.Now(),
		}
		b, err = jsoniter.Marshal(&sub)
		if err != nil {
			return err
		}
		return subs.Put([]byte(sub.ID), b)
	})
}

// ExpirePremium drops the premium flag of users whose subscription ended.
func ExpirePremium() error {
	return db.DB().Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketBotUser))
		if bkt == nil {
			return nil
		}
		now := time.Now()
		var toUpdate [][2][]byte
		if err := bkt.ForEach(func(k, b []byte) error {
			var u model.BotUser
			if err := jsoniter.Unmarshal(b, &u); err != nil {
				return nil
			}
			if u.Premium && now.After(u.PremiumUntil) {
				u.Premium = false
				nb, err := jsoniter.Marshal(&u)
				if err != nil {
					return nil
				}
				toUpdate = append(toUpdate, [2][]byte{append([]byte{}, k...), nb})
			}
			return nil
		}); err != nil {
			return err
		}
		for _, kv := range toUpdate {
			if err := bkt.Put(kv[0], kv[1]); err != nil {
				return err
			}
		}
		return nil
	})
}
