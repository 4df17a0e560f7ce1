package moderation

import (
	"os"
	"testing"
	"time"

	"github.com/insikex/safeguard/db"
	"github.com/insikex/safeguard/flood"
	"github.com/insikex/safeguard/model"
	"github.com/insikex/safeguard/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "safeguard-moderation-test")
	if err != nil {
		panic(err)
	}
	db.InitDB(dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type fakeActions struct {
	deleted []int
	muted   []int64
	notices []Reason
}

func (f *fakeActions) DeleteMessage(chatID int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeActions) MuteMember(chatID, userID int64, until time.Time) error {
	f.muted = append(f.muted, userID)
	return nil
}

func (f *fakeActions) WarnNotice(chatID, userID int64, reason Reason, muteDuration time.Duration) {
	f.notices = append(f.notices, reason)
}

func testSettings(chatID int64) *model.GroupSettings {
	s := model.DefaultGroupSettings(chatID, "test")
	s.AntilinkEnabled = true
	s.AntibadwordEnabled = true
	return s
}

func msg(chatID, userID int64, id int, text string, at time.Time) Message {
	return Message{ChatID: chatID, UserID: userID, MessageID: id, Text: text, Time: at}
}

func TestInspectCleanMessage(t *testing.T) {
	a := &fakeActions{}
	p := NewPipeline(a, flood.NewDetector())
	chatID := int64(-1000)

	reason, acted := p.Inspect(msg(chatID, 1, 1, "hello there", time.Now()), testSettings(chatID))
	assert.False(t, acted)
	assert.Empty(t, reason)
	assert.Empty(t, a.deleted)

	stats, err := service.GetStats(chatID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats[service.StatMessages])
	m, err := service.GetMember(1, chatID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, int64(1), m.MessageCount)
}

func TestInspectFloodMutes(t *testing.T) {
	a := &fakeActions{}
	p := NewPipeline(a, flood.NewDetector())
	chatID := int64(-1001)
	settings := testSettings(chatID)
	now := time.Now()

	for i := 0; i < 5; i++ {
		reason, acted := p.Inspect(msg(chatID, 2, i, "hi", now), settings)
		require.False(t, acted, "message %v should pass", i)
		_ = reason
	}
	reason, acted := p.Inspect(msg(chatID, 2, 5, "hi", now), settings)
	assert.True(t, acted)
	assert.Equal(t, ReasonFlood, reason)
	assert.Equal(t, []int{5}, a.deleted)
	assert.Equal(t, []int64{2}, a.muted)
	assert.Equal(t, []Reason{ReasonFlood}, a.notices)

	m, err := service.GetMember(2, chatID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.Muted)
	stats, err := service.GetStats(chatID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats[service.StatFloodBlocked])
}

func TestForgetMemberResetsFloodWindow(t *testing.T) {
	a := &fakeActions{}
	p := NewPipeline(a, flood.NewDetector())
	chatID := int64(-1008)
	settings := testSettings(chatID)
	now := time.Now()

	for i := 0; i < 5; i++ {
		_, acted := p.Inspect(msg(chatID, 9, i, "hi", now), settings)
		require.False(t, acted, "message %v should pass", i)
	}
	p.ForgetMember(chatID, 9)

	// the window restarts, so another full burst is needed to trip
	for i := 5; i < 10; i++ {
		_, acted := p.Inspect(msg(chatID, 9, i, "hi", now), settings)
		require.False(t, acted, "message %v should pass", i)
	}
	reason, acted := p.Inspect(msg(chatID, 9, 10, "hi", now), settings)
	assert.True(t, acted)
	assert.Equal(t, ReasonFlood, reason)
}

func TestInspectLink(t *testing.T) {
	a := &fakeActions{}
	p := NewPipeline(a, flood.NewDetector())
	chatID := int64(-1002)

	reason, acted := p.Inspect(msg(chatID, 3, 1, "join https://t.me/something now", time.Now()), testSettings(chatID))
	assert.True(t, acted)
	assert.Equal(t, ReasonLink, reason)
	assert.Equal(t, []int{1}, a.deleted)
	assert.Empty(t, a.muted)
}

func TestInspectLinkDisabled(t *testing.T) {
	a := &fakeActions{}
	p := NewPipeline(a, flood.NewDetector())
	chatID := int64(-1003)
	settings := testSettings(chatID)
	settings.AntilinkEnabled = false

	_, acted := p.Inspect(msg(chatID, 4, 1, "see https://example.com", time.Now()), settings)
	assert.False(t, acted)
}

func TestInspectSpam(t *testing.T) {
	a := &fakeActions{}
	p := NewPipeline(a, flood.NewDetector())
	chatID := int64(-1004)

	reason, acted := p.Inspect(msg(chatID, 5, 1, "aaaaaaaaaaaaaaa", time.Now()), testSettings(chatID))
	assert.True(t, acted)
	assert.Equal(t, ReasonSpam, reason)
}

func TestInspectBadWord(t *testing.T) {
	a := &fakeActions{}
	p := NewPipeline(a, flood.NewDetector())
	chatID := int64(-1005)
	settings := testSettings(chatID)
	settings.BadWords = []string{"forbidden"}

	reason, acted := p.Inspect(msg(chatID, 6, 1, "this is FORBIDDEN content", time.Now()), settings)
	assert.True(t, acted)
	assert.Equal(t, ReasonBadword, reason)
}

func TestContainsLink(t *testing.T) {
	assert.True(t, ContainsLink("go to https://example.com"))
	assert.True(t, ContainsLink("join t.me/group"))
	assert.False(t, ContainsLink("no links here"))
}

func TestIsSpam(t *testing.T) {
	// a character repeated more than ten times
	assert.True(t, IsSpam("loooooooooooool"))
	// the same word repeated more than five times
	assert.True(t, IsSpam("buy buy buy buy buy buy now"))
	assert.False(t, IsSpam("a perfectly normal sentence"))
}

func TestContainsBadWordDefaults(t *testing.T) {
	assert.True(t, ContainsBadWord("free SCAM here", nil))
	assert.False(t, ContainsBadWord("clean message", nil))
}
