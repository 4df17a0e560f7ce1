package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tb "gopkg.in/tucnak/telebot.v2"
)

func privateMessage(text string) *tb.Message {
	return &tb.Message{
		Text:   text,
		Chat:   &tb.Chat{ID: 7, Type: tb.ChatPrivate},
		Sender: &tb.User{ID: 42},
	}
}

func TestHandleTextSlashOnlyDoesNotPanic(t *testing.T) {
	b := &Bot{}
	for _, text := range []string{"/ ", "/  ", "/\t", "/\n"} {
		assert.NotPanics(t, func() {
			b.handleText(privateMessage(text))
		}, "text %q", text)
	}
}

func TestHandleTextDispatchesCommand(t *testing.T) {
	var got []string
	RegisterCommands("pingtest", func(b *Bot, m *tb.Message, params []string) {
		got = params
	})
	defer delete(GlobalCommandMapper, "pingtest")

	b := &Bot{}
	b.handleText(privateMessage("/pingtest one two"))
	require.Equal(t, []string{"one", "two"}, got)

	// group commands may carry the bot's username suffix
	got = nil
	b.handleText(privateMessage("/pingtest@some_bot three"))
	require.Equal(t, []string{"three"}, got)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", DisplayName(&tb.User{FirstName: "Ada", LastName: "Lovelace"}))
	assert.Equal(t, "Ada", DisplayName(&tb.User{FirstName: "Ada"}))
	assert.Equal(t, "@ada", DisplayName(&tb.User{Username: "ada"}))
	assert.Equal(t, "User 99", DisplayName(&tb.User{ID: 99}))
}
