package flood

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordAndCheckTriggersAboveLimit(t *testing.T) {
	d := NewDetector()
	now := time.Now()

	for i := 0; i < 5; i++ {
		assert.False(t, d.RecordAndCheck(1, 2, now.Add(time.Duration(i)*time.Second), 5, 10*time.Second))
	}
	// the sixth message within the window trips the limit
	assert.True(t, d.RecordAndCheck(1, 2, now.Add(5*time.Second), 5, 10*time.Second))
	// the window was cleared on trigger, the next message starts fresh
	assert.False(t, d.RecordAndCheck(1, 2, now.Add(6*time.Second), 5, 10*time.Second))
}

func TestRecordAndCheckPrunesOldEntries(t *testing.T) {
	d := NewDetector()
	now := time.Now()

	for i := 0; i < 5; i++ {
		d.RecordAndCheck(1, 2, now, 5, 10*time.Second)
	}
	// 10 seconds later the old burst has aged out
	assert.False(t, d.RecordAndCheck(1, 2, now.Add(10*time.Second), 5, 10*time.Second))
}

func TestRecordAndCheckIsolatesUsersAndChats(t *testing.T) {
	d := NewDetector()
	now := time.Now()

	for i := 0; i < 6; i++ {
		d.RecordAndCheck(1, 2, now, 5, 10*time.Second)
	}
	assert.False(t, d.RecordAndCheck(1, 3, now, 5, 10*time.Second))
	assert.False(t, d.RecordAndCheck(2, 2, now, 5, 10*time.Second))
}

func TestForget(t *testing.T) {
	d := NewDetector()
	now := time.Now()

	for i := 0; i < 5; i++ {
		d.RecordAndCheck(1, 2, now, 5, 10*time.Second)
	}
	d.Forget(1, 2)
	assert.False(t, d.RecordAndCheck(1, 2, now, 5, 10*time.Second))
}

func TestRecordAndCheckConcurrent(t *testing.T) {
	d := NewDetector()
	now := time.Now()
	var wg sync.WaitGroup
	for u := int64(0); u < 32; u++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				d.RecordAndCheck(1, userID, now.Add(time.Duration(i)*time.Millisecond), 5, time.Second)
			}
		}(u)
	}
	wg.Wait()
}
