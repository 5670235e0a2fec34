// Package menu holds the static study-notes link table and the inline
// keyboards of the notes bot.
package menu

import (
	"fmt"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Callback keys of the navigation buttons.
const (
	KeyStart       = "start"
	KeyContent     = "content"
	KeyContact     = "contact"
	KeyContinueYes = "continue_yes"
	KeyContinueNo  = "continue_no"
)

// Fixed texts.
const (
	MenuText     = "Hello, Welcome to HAMOZA AI! Please choose an option:"
	ContentText  = "Choose a resource:"
	ContactText  = "Contact us at: jayed2305101640@diu.edu.bd"
	ContinueText = "Do you want to continue?"
	GoodbyeText  = "Goodbye! If you want to start again, \ntype /start."
)

// Link is one study note.
type Link struct {
	Key   string
	Label string
	URL   string
}

// Text renders the message that carries the link.
func (l Link) Text() string {
	return fmt.Sprintf("%s Note Drive Link: %s", l.Key, l.URL)
}

// Table is an ordered, read-only key to link mapping.
type Table struct {
	links []Link
	byKey map[string]Link
}

// NewTable builds a Table. Later duplicates of a key are ignored.
func NewTable(links ...Link) *Table {
	t := &Table{byKey: make(map[string]Link, len(links))}
	for _, l := range links {
		if l.Key == "" {
			continue
		}
		if _, dup := t.byKey[l.Key]; dup {
			continue
		}
		if l.Label == "" {
			l.Label = l.Key + " Note"
		}
		t.links = append(t.links, l)
		t.byKey[l.Key] = l
	}
	return t
}

// Default returns the built-in notes.
func Default() *Table {
	return NewTable(
		Link{Key: "Python", URL: "https://drive.google.com/file/d/1yO87Ly0yrmA2qNpa7cPknGbDA2e1r5nD/view?usp=drive_link"},
		Link{Key: "NumPy", URL: "https://colab.research.google.com/drive/1kYo7Wj7qwhVL4z4eu8FNk8eZbS5BW3IU?usp=drive_link"},
		Link{Key: "Pandas", URL: "https://colab.research.google.com/drive/1mPXuXHDgk3y9i5JxDS0SWRLy88s94lds?usp=drive_link"},
		Link{Key: "Matplotlib", URL: "https://colab.research.google.com/drive/1mPXuXHDgk3y9i5JxDS0SWRLy88s94lds?usp=drive_link"},
		Link{Key: "Seaborn", URL: "https://colab.research.google.com/drive/1AiKT-oMoAGRzb_zuDDxhsMGJjI-rVMnP?usp=drive_link"},
		Link{Key: "SciPy", Label: "SciPY Note", URL: "https://colab.research.google.com/drive/1urFdNZiiZMJLE21z-PpLzUTHevUZyNrk?usp=drive_link"},
	)
}

// Dispatch looks up the link for key.
func (t *Table) Dispatch(key string) (Link, bool) {
	l, ok := t.byKey[key]
	return l, ok
}

// Links returns the links in menu order.
func (t *Table) Links() []Link {
	return append([]Link(nil), t.links...)
}

// ContentMarkup is the one-button-per-row resource chooser.
func (t *Table) ContentMarkup() *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(t.links))
	for _, l := range t.links {
		buttons = append(buttons, keyboard.InlineBtn{Text: l.Label, Unique: l.Key})
	}
	return keyboard.InlineButtons(buttons)
}

// MainMarkup is the main menu.
func MainMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Start the bot", Unique: KeyStart},
		{Text: "About Resources", Unique: KeyContent},
		{Text: "Contact us", Unique: KeyContact},
	})
}

// ConfirmMarkup is the Yes/No row shown after a link.
func ConfirmMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsNPerRow([]keyboard.InlineBtn{
		{Text: "Yes", Unique: KeyContinueYes},
		{Text: "No", Unique: KeyContinueNo},
	}, 2)
}
