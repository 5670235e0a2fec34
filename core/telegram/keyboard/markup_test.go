package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyButtons(t *testing.T) {
	m := OneTimeReplyButtons([]string{"✅ Yes", "❌ No"})
	assert.True(t, m.ResizeKeyboard)
	assert.True(t, m.OneTimeKeyboard)
	require.Len(t, m.ReplyKeyboard, 1)
	require.Len(t, m.ReplyKeyboard[0], 2)
	assert.Equal(t, "❌ No", m.ReplyKeyboard[0][1].Text)
}

func TestInlineButtonsNPerRow(t *testing.T) {
	btns := []InlineBtn{
		{Text: "Yes", Unique: "continue_yes"},
		{Text: "No", Unique: "continue_no"},
		{Text: "Back", Unique: "start"},
	}
	m := InlineButtonsNPerRow(btns, 2)
	require.Len(t, m.InlineKeyboard, 2)
	assert.Len(t, m.InlineKeyboard[0], 2)
	assert.Equal(t, "continue_no", m.InlineKeyboard[0][1].Unique)
	assert.Equal(t, "start", m.InlineKeyboard[1][0].Unique)
}

func TestInlineButtonsOnePerRow(t *testing.T) {
	m := InlineButtons([]InlineBtn{{Text: "Pandas Note", Unique: "pandas"}, {Text: "NumPy Note", Unique: "numpy"}})
	require.Len(t, m.InlineKeyboard, 2)
	assert.Equal(t, "Pandas Note", m.InlineKeyboard[0][0].Text)

	assert.Empty(t, InlineButtonsNPerRow(nil, 0).InlineKeyboard)
	assert.True(t, RemoveKeyboard().RemoveKeyboard)
}
