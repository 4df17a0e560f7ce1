package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarningLifecycle(t *testing.T) {
	n, err := AddWarning(500, -600)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = AddWarning(500, -600)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = RemoveWarning(500, -600)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// never below zero
	_, err = RemoveWarning(500, -600)
	require.NoError(t, err)
	n, err = RemoveWarning(500, -600)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = AddWarning(500, -600)
	require.NoError(t, err)
	require.NoError(t, ResetWarnings(500, -600))
	m, err := GetMember(500, -600)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 0, m.Warnings)
}

func TestMuteAndUnmute(t *testing.T) {
	require.NoError(t, MuteMember(501, -600, time.Hour))
	m, err := GetMember(501, -600)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.Muted)
	assert.True(t, m.MuteUntil.After(time.Now()))

	require.NoError(t, UnmuteMember(501, -600))
	m, err = GetMember(501, -600)
	require.NoError(t, err)
	assert.False(t, m.Muted)
}

func TestMarkVerified(t *testing.T) {
	require.NoError(t, MarkVerified(502, -600))
	m, err := GetMember(502, -600)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.Verified)
}

func TestGetOrCreateGroupDefaults(t *testing.T) {
	s, err := GetOrCreateGroup(-700, "Test Group")
	require.NoError(t, err)
	assert.Equal(t, "Test Group", s.Title)
	assert.True(t, s.VerificationEnabled)
	assert.Equal(t, 120, s.VerificationTimeout)
	assert.Equal(t, 3, s.MaxAttempts)
	assert.Equal(t, 5, s.FloodLimit)

	// a second contact refreshes the title but keeps the settings
	s.VerificationTimeout = 60
	require.NoError(t, SaveGroup(s))
	s2, err := GetOrCreateGroup(-700, "Renamed Group")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Group", s2.Title)
	assert.Equal(t, 60, s2.VerificationTimeout)
}
