// Package keymutex provides a fixed-shard mutex keyed by string, for
// serializing work per (chat, user) pair without a lock per live key.
package keymutex

import (
	"hash/fnv"
	"sync"
)

type KeyMutex struct {
	shards []sync.Mutex
}

func New(shards int) *KeyMutex {
	if shards <= 0 {
		shards = 64
	}
	return &KeyMutex{shards: make([]sync.Mutex, shards)}
}

func (m *KeyMutex) index(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % uint32(len(m.shards))
}

func (m *KeyMutex) Lock(key string) {
	m.shards[m.index(key)].Lock()
}

func (m *KeyMutex) Unlock(key string) {
	m.shards[m.index(key)].Unlock()
}
