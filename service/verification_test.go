package service

import (
	"sync"
	"testing"
	"time"

	"github.com/insikex/safeguard/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putPending(t *testing.T, userID, chatID int64, answer string, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, PutPendingVerification(&model.PendingVerification{
		UserID:           userID,
		ChatID:           chatID,
		VerificationType: model.VerificationMath,
		Answer:           answer,
		ExpiresAt:        expiresAt,
		CreatedAt:        time.Now(),
	}))
}

func TestPendingVerificationRoundTrip(t *testing.T) {
	putPending(t, 100, -200, "7", time.Now().Add(time.Minute))

	p, err := GetPendingVerification(100, -200)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "7", p.Answer)
	assert.Equal(t, int64(100), p.UserID)
	assert.Equal(t, int64(-200), p.ChatID)

	p, err = GetPendingVerification(100, -999)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPutPendingVerificationOverwrites(t *testing.T) {
	putPending(t, 101, -200, "3", time.Now().Add(time.Minute))
	putPending(t, 101, -200, "9", time.Now().Add(time.Minute))

	p, err := GetPendingVerification(101, -200)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "9", p.Answer)
	assert.Equal(t, 0, p.Attempts)
}

func TestIncrementVerificationAttempts(t *testing.T) {
	putPending(t, 102, -200, "5", time.Now().Add(time.Minute))

	n, err := IncrementVerificationAttempts(102, -200)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = IncrementVerificationAttempts(102, -200)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// no record means no counting
	n, err = IncrementVerificationAttempts(102, -999)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestResolvePendingVerificationIsExactlyOnce(t *testing.T) {
	putPending(t, 103, -200, "5", time.Now().Add(time.Minute))

	p, err := ResolvePendingVerification(103, -200)
	require.NoError(t, err)
	require.NotNil(t, p)

	p, err = ResolvePendingVerification(103, -200)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestResolvePendingVerificationConcurrent(t *testing.T) {
	putPending(t, 104, -200, "5", time.Now().Add(time.Minute))

	const racers = 16
	var wg sync.WaitGroup
	wins := make(chan *model.PendingVerification, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := ResolvePendingVerification(104, -200)
			assert.NoError(t, err)
			if p != nil {
				wins <- p
			}
		}()
	}
	wg.Wait()
	close(wins)
	assert.Len(t, wins, 1)
}

func TestExpiredVerifications(t *testing.T) {
	now := time.Now()
	putPending(t, 105, -300, "1", now.Add(-time.Minute))
	putPending(t, 106, -300, "2", now.Add(time.Minute))

	expired, err := ExpiredVerifications(now)
	require.NoError(t, err)

	var ids []int64
	for _, p := range expired {
		if p.ChatID == -300 {
			ids = append(ids, p.UserID)
		}
	}
	assert.Equal(t, []int64{105}, ids)
}
