package service

import (
	"strconv"

	"github.com/boltdb/bolt"
	"github.com/insikex/safeguard/db"
	"github.com/insikex/safeguard/model"
	jsoniter "github.com/json-iterator/go"
)

func groupKey(chatID int64) []byte {
	return []byte(strconv.FormatInt(chatID, 10))
}

// GetGroup returns the settings of a chat, or nil if the chat is unknown.
func GetGroup(chatID int64) (*model.GroupSettings, error) {
	var settings *model.GroupSettings
	err := db.DB().View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketGroup))
		if bkt == nil {
			return nil
		}
		b := bkt.Get(groupKey(chatID))
		if b == nil {
			return nil
		}
		var s model.GroupSettings
		if err := jsoniter.Unmarshal(b, &s); err != nil {
			return err
		}
		settings = &s
		return nil
	})
	return settings, err
}

// GetOrCreateGroup returns the settings of a chat, creating the default
// record on first contact. The title is refreshed on every call.
func GetOrCreateGroup(chatID int64, title string) (*model.GroupSettings, error) {
	var settings *model.GroupSettings
	err := db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketGroup))
		if err != nil {
			return err
		}
		var s model.GroupSettings
		if b := bkt.Get(groupKey(chatID)); b != nil {
			if err := jsoniter.Unmarshal(b, &s); err != nil {
				// an unreadable record is replaced with defaults
				s = *model.DefaultGroupSettings(chatID, title)
			}
			if title != "" && s.Title != title {
				s.Title = title
			}
		} else {
			s = *model.DefaultGroupSettings(chatID, title)
		}
		b, err := jsoniter.Marshal(&s)
		if err != nil {
			return err
		}
		if err := bkt.Put(groupKey(chatID), b); err != nil {
			return err
		}
		settings = &s
		return nil
	})
	return settings, err
}

// SaveGroup persists modified settings.
func SaveGroup(settings *model.GroupSettings) error {
	return db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketGroup))
		if err != nil {
			return err
		}
		b, err := jsoniter.Marshal(settings)
		if err != nil {
			return err
		}
		return bkt.Put(groupKey(settings.ChatID), b)
	})
}
