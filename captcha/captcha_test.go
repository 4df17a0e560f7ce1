package captcha

import (
	"strconv"
	"strings"
	"testing"

	"github.com/insikex/safeguard/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMath(t *testing.T) {
	for i := 0; i < 100; i++ {
		ch := Generate(model.VerificationMath)
		require.Equal(t, model.VerificationMath, ch.Type)

		fields := strings.Fields(ch.Question)
		require.Len(t, fields, 3)
		a, err := strconv.Atoi(fields[0])
		require.NoError(t, err)
		b, err := strconv.Atoi(fields[2])
		require.NoError(t, err)
		var want int
		switch fields[1] {
		case "+":
			want = a + b
		case "-":
			want = a - b
		default:
			t.Fatalf("unexpected operator %q", fields[1])
		}
		assert.GreaterOrEqual(t, want, 0)
		assert.Equal(t, strconv.Itoa(want), ch.Answer)

		require.Len(t, ch.Options, 4)
		seen := map[string]bool{}
		correct := 0
		for _, o := range ch.Options {
			require.False(t, seen[o], "duplicate option %v", o)
			seen[o] = true
			n, err := strconv.Atoi(o)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, 0)
			if o == ch.Answer {
				correct++
			}
		}
		assert.Equal(t, 1, correct)
	}
}

func TestGenerateEmoji(t *testing.T) {
	for i := 0; i < 100; i++ {
		ch := Generate(model.VerificationEmoji)
		require.Equal(t, model.VerificationEmoji, ch.Type)
		require.Len(t, ch.Options, 4)
		assert.Equal(t, ch.Question, ch.Answer)
		assert.Contains(t, ch.Options, ch.Answer)
		seen := map[string]bool{}
		for _, o := range ch.Options {
			require.False(t, seen[o])
			seen[o] = true
		}
	}
}

func TestGeneratePortal(t *testing.T) {
	ch := Generate(model.VerificationPortal)
	require.Equal(t, model.VerificationPortal, ch.Type)
	assert.Len(t, ch.Answer, 32)
	for _, r := range ch.Answer {
		assert.Contains(t, portalTokenAlphabet, string(r))
	}
	other := Generate(model.VerificationPortal)
	assert.NotEqual(t, ch.Answer, other.Answer)
}

func TestGenerateUnknownKindFallsBackToButton(t *testing.T) {
	ch := Generate("riddle")
	assert.Equal(t, model.VerificationButton, ch.Type)
	assert.Equal(t, ButtonAnswer, ch.Answer)
}

func TestVerifyAnswer(t *testing.T) {
	assert.True(t, VerifyAnswer(model.VerificationButton, ButtonAnswer, "verify"))
	assert.False(t, VerifyAnswer(model.VerificationButton, ButtonAnswer, "Verify"))

	assert.True(t, VerifyAnswer(model.VerificationMath, "12", " 12 "))
	assert.False(t, VerifyAnswer(model.VerificationMath, "12", "13"))

	assert.True(t, VerifyAnswer(model.VerificationEmoji, "🐶", "🐶"))
	assert.False(t, VerifyAnswer(model.VerificationEmoji, "🐶", "🐱"))

	// portal tokens are compared exactly
	assert.True(t, VerifyAnswer(model.VerificationPortal, "AbC123", "AbC123"))
	assert.False(t, VerifyAnswer(model.VerificationPortal, "AbC123", "abc123"))
	assert.False(t, VerifyAnswer(model.VerificationPortal, "AbC123", " AbC123"))
}
