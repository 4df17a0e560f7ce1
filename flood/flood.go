// Package flood decides whether a user is sending messages faster than the
// chat allows. State is in-memory only; it does not survive a restart.
package flood

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 64

type shard struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

// Detector keeps a sliding window of message timestamps per (chat, user).
// Keys are sharded so concurrent messages from different users never
// contend; messages from the same user serialize on their shard lock.
type Detector struct {
	shards [shardCount]*shard
}

func NewDetector() *Detector {
	d := &Detector{}
	for i := range d.shards {
		d.shards[i] = &shard{windows: make(map[string][]time.Time)}
	}
	return d
}

func key(chatID, userID int64) string {
	return fmt.Sprintf("%v:%v", chatID, userID)
}

func (d *Detector) shardFor(k string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(k))
	return d.shards[h.Sum32()%shardCount]
}

// RecordAndCheck appends now to the user's window, prunes entries older than
// window, and reports whether the count strictly exceeds limit. On a
// trigger the window is cleared, not decayed, so the burst does not
// re-trigger on every following message before the mute lands.
func (d *Detector) RecordAndCheck(chatID, userID int64, now time.Time, limit int, window time.Duration) bool {
	k := key(chatID, userID)
	s := d.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := append(s.windows[k], now)
	pruned := kept[:0]
	for _, ts := range kept {
		if now.Sub(ts) < window {
			pruned = append(pruned, ts)
		}
	}
	if len(pruned) > limit {
		delete(s.windows, k)
		return true
	}
	s.windows[k] = pruned
	return false
}

// Forget drops the tracked window for one user, e.g. when they leave.
func (d *Detector) Forget(chatID, userID int64) {
	k := key(chatID, userID)
	s := d.shardFor(k)
	s.mu.Lock()
	delete(s.windows, k)
	s.mu.Unlock()
}
