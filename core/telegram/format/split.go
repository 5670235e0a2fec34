package format

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is Telegram's limit for a single text message, in runes.
const MaxMessageLength = 4096

// SplitMessage cuts text into chunks of at most limit runes, preferring line
// boundaries. A single line longer than limit is cut at rune boundaries.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLength
	}
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	lines := strings.SplitAfter(text, "\n")
	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		if curLen+n <= limit {
			cur.WriteString(line)
			curLen += n
			continue
		}
		flush()
		for n > limit {
			r := []rune(line)
			chunks = append(chunks, string(r[:limit]))
			line = string(r[limit:])
			n -= limit
		}
		cur.WriteString(line)
		curLen = n
	}
	flush()
	return chunks
}
