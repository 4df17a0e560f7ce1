package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArmOnceFires(t *testing.T) {
	s := New()
	done := make(chan struct{})
	s.ArmOnce("k", 10*time.Millisecond, func() { close(done) })
	assert.True(t, s.Armed("k"))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	// fired timers forget their key
	assert.Eventually(t, func() bool { return !s.Armed("k") }, time.Second, 5*time.Millisecond)
}

func TestArmOnceReplaces(t *testing.T) {
	s := New()
	var first, second int32
	s.ArmOnce("k", 20*time.Millisecond, func() { atomic.StoreInt32(&first, 1) })
	s.ArmOnce("k", 20*time.Millisecond, func() { atomic.StoreInt32(&second, 1) })
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&first))
	assert.Equal(t, int32(1), atomic.LoadInt32(&second))
}

func TestCancel(t *testing.T) {
	s := New()
	var fired int32
	s.ArmOnce("k", 20*time.Millisecond, func() { atomic.StoreInt32(&fired, 1) })
	s.Cancel("k")
	require.False(t, s.Armed("k"))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestCancelUnknownKeyIsNoop(t *testing.T) {
	s := New()
	s.Cancel("missing")
	assert.False(t, s.Armed("missing"))
}
