package service

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/insikex/safeguard/db"
	"github.com/insikex/safeguard/model"
	jsoniter "github.com/json-iterator/go"
)

func memberKey(userID, chatID int64) []byte {
	return []byte(fmt.Sprintf("%v:%v", chatID, userID))
}

func GetMember(userID, chatID int64) (*model.Member, error) {
	var member *model.Member
	err := db.DB().View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketMember))
		if bkt == nil {
			return nil
		}
		b := bkt.Get(memberKey(userID, chatID))
		if b == nil {
			return nil
		}
		var m model.Member
		if err := jsoniter.Unmarshal(b, &m); err != nil {
			return err
		}
		member = &m
		return nil
	})
	return member, err
}

// UpdateMember loads or creates the member record and applies mutate inside
// one transaction.
func UpdateMember(userID, chatID int64, mutate func(m *model.Member)) (*model.Member, error) {
	var member model.Member
	err := db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketMember))
		if err != nil {
			return err
		}
		k := memberKey(userID, chatID)
		if b := bkt.Get(k); b != nil {
			if err := jsoniter.Unmarshal(b, &member); err != nil {
				member = model.Member{}
			}
		}
		if member.UserID == 0 {
			member = model.Member{UserID: userID, ChatID: chatID, JoinedAt: time.Now()}
		}
		if mutate != nil {
			mutate(&member)
		}
		b, err := jsoniter.Marshal(&member)
		if err != nil {
			return err
		}
		return bkt.Put(k, b)
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func MarkVerified(userID, chatID int64) error {
	_, err := UpdateMember(userID, chatID, func(m *model.Member) {
		m.Verified = true
	})
	return err
}

// AddWarning increments the member's warning count and returns the new
// count.
func AddWarning(userID, chatID int64) (int, error) {
	m, err := UpdateMember(userID, chatID, func(m *model.Member) {
		m.Warnings++
	})
	if err != nil {
		return 0, err
	}
	return m.Warnings, nil
}

// RemoveWarning decrements the warning count, not below zero.
func RemoveWarning(userID, chatID int64) (int, error) {
	m, err := UpdateMember(userID, chatID, func(m *model.Member) {
		if m.Warnings > 0 {
			m.Warnings--
		}
	})
	if err != nil {
		return 0, err
	}
	return m.Warnings, nil
}

func ResetWarnings(userID, chatID int64) error {
	_, err := UpdateMember(userID, chatID, func(m *model.Member) {
		m.Warnings = 0
	})
	return err
}

func MuteMember(userID, chatID int64, duration time.Duration) error {
	_, err := UpdateMember(userID, chatID, func(m *model.Member) {
		m.Muted = true
		m.MuteUntil = time.Now().Add(duration)
	})
	return err
}

func UnmuteMember(userID, chatID int64) error {
	_, err := UpdateMember(userID, chatID, func(m *model.Member) {
		m.Muted = false
		m.MuteUntil = time.Time{}
	})
	return err
}

// TouchActivity records one more message from the member.
func TouchActivity(userID, chatID int64) error {
	_, err := UpdateMember(userID, chatID, func(m *model.Member) {
		m.LastMessage = time.Now()
		m.MessageCount++
	})
	return err
}
