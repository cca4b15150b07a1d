package limerickhammer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestExplain(t *testing.T) {
	err := detector.Check("There once was a man from Peru\nWho dreamed he was eating his shoe\nHe woke in the night\nWith a terrible fright\nAnd found that his dream had come home")
	assert.Equal(t, `That's not a limerick: "Peru" does not rhyme with "home"`, explain(err))

	err = fmt.Errorf("checking message: %w", &LookupError{Word: "xyzzy"})
	assert.Equal(t, `I couldn't check your limerick, I don't know how to pronounce "xyzzy"`, explain(err))

	assert.Equal(t, "boom", explain(errors.New("boom")))
}

func TestIsPoemShaped(t *testing.T) {
	assert.False(t, isPoemShaped("lol"))
	assert.False(t, isPoemShaped("one\ntwo\n\n\nthree"))
	assert.True(t, isPoemShaped("one\ntwo\nthree\nfour"))
	assert.True(t, isPoemShaped(peru))
}

func TestCleanEmoji(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"no emoji here", "no emoji here"},
		{"a limerick :tada:", "a limerick"},
		{"<:pepe:690680416373571585> hello <a:party:704842231227482182>", "hello"},
		{":one::two:", ""},
		{"ratio 3:2", "ratio 3:2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, cleanEmoji(tt.input), tt.input)
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "> one", quote("one"))
	assert.Equal(t, "> one\n> two\n> ", quote("one\ntwo\n"))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `one\ntwo`, escape("one\ntwo"))
}

func TestRandomString(t *testing.T) {
	assert.Equal(t, "", randomString(nil))
	assert.Equal(t, "💯", randomString([]string{"💯"}))
	choices := []string{"🚫", "⛔"}
	for i := 0; i < 20; i++ {
		assert.Contains(t, choices, randomString(choices))
	}
}

func TestReference(t *testing.T) {
	m := &discordgo.Message{ID: "3", ChannelID: "2", GuildID: "1"}
	assert.Equal(t, &discordgo.MessageReference{MessageID: "3", ChannelID: "2", GuildID: "1"}, reference(m))
}

func TestMentionsMe(t *testing.T) {
	h := &LimerickHammer{}
	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: "42"}

	assert.True(t, h.mentionsMe(s, &discordgo.Message{Mentions: []*discordgo.User{{ID: "7"}, {ID: "42"}}}))
	assert.False(t, h.mentionsMe(s, &discordgo.Message{Mentions: []*discordgo.User{{ID: "7"}}}))
	assert.False(t, h.mentionsMe(&discordgo.Session{}, &discordgo.Message{Mentions: []*discordgo.User{{ID: "42"}}}))
}
