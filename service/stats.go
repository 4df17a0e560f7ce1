package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/boltdb/bolt"
	"github.com/insikex/safeguard/db"
	"github.com/insikex/safeguard/model"
)

// Statistic kinds.
const (
	StatMessages       = "messages"
	StatVerified       = "verified"
	StatKicked         = "kicked"
	StatFloodBlocked   = "flood_blocked"
	StatLinksBlocked   = "links_blocked"
	StatSpamBlocked    = "spam_blocked"
	StatBadwordBlocked = "badword_blocked"
	StatWarned         = "warned"
	StatMuted          = "muted"
)

func statKey(chatID int64, kind string, day time.Time) []byte {
	return []byte(fmt.Sprintf("%v:%v:%v", chatID, kind, day.Format("2006-01-02")))
}

// IncrementStat adds one to the chat's daily counter for kind. The
// read-modify-write happens inside a single bolt write transaction.
func IncrementStat(chatID int64, kind string) error {
	return db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketStatistic))
		if err != nil {
			return err
		}
		k := statKey(chatID, kind, time.Now())
		var count int64
		if b := bkt.Get(k); b != nil {
			count, _ = strconv.ParseInt(string(b), 10, 64)
		}
		count++
		return bkt.Put(k, []byte(strconv.FormatInt(count, 10)))
	})
}

// GetStats sums per-kind counters of one chat over the trailing number of
// days (1 = today only).
func GetStats(chatID int64, days int) (map[string]int64, error) {
	if days < 1 {
		days = 1
	}
	since := time.Now().AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	prefix := fmt.Sprintf("%v:", chatID)
	stats := make(map[string]int64)
	err := db.DB().View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketStatistic))
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(func(k, b []byte) error {
			key := string(k)
			if !strings.HasPrefix(key, prefix) {
				return nil
			}
			rest := key[len(prefix):]
			i := strings.LastIndex(rest, ":")
			if i < 0 {
				return nil
			}
			kind, day := rest[:i], rest[i+1:]
			if day < since {
				return nil
			}
			n, _ := strconv.ParseInt(string(b), 10, 64)
			stats[kind] += n
			return nil
		})
	})
	return stats, err
}
