package menu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOrderAndLabels(t *testing.T) {
	var keys, labels []string
	for _, l := range Default().Links() {
		keys = append(keys, l.Key)
		labels = append(labels, l.Label)
	}
	if diff := cmp.Diff([]string{"Python", "NumPy", "Pandas", "Matplotlib", "Seaborn", "SciPy"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Python Note", labels[0])
	assert.Equal(t, "SciPY Note", labels[5])
}

func TestDispatch(t *testing.T) {
	table := Default()

	l, ok := table.Dispatch("NumPy")
	require.True(t, ok)
	assert.Equal(t, "NumPy Note Drive Link: "+l.URL, l.Text())

	_, ok = table.Dispatch("numpy")
	assert.False(t, ok)
	_, ok = table.Dispatch(KeyContinueNo)
	assert.False(t, ok)
}

func TestNewTableSkipsDuplicates(t *testing.T) {
	table := NewTable(Link{Key: "A", URL: "u1"}, Link{Key: "A", URL: "u2"}, Link{URL: "no-key"})
	require.Len(t, table.Links(), 1)
	l, _ := table.Dispatch("A")
	assert.Equal(t, "u1", l.URL)
}

func TestMarkups(t *testing.T) {
	main := MainMarkup()
	require.Len(t, main.InlineKeyboard, 3)
	assert.Equal(t, KeyStart, main.InlineKeyboard[0][0].Unique)

	confirm := ConfirmMarkup()
	require.Len(t, confirm.InlineKeyboard, 1)
	require.Len(t, confirm.InlineKeyboard[0], 2)
	assert.Equal(t, KeyContinueNo, confirm.InlineKeyboard[0][1].Unique)

	content := Default().ContentMarkup()
	require.Len(t, content.InlineKeyboard, 6)
	assert.Equal(t, "SciPY Note", content.InlineKeyboard[5][0].Text)
	assert.Equal(t, "SciPy", content.InlineKeyboard[5][0].Unique)
}
