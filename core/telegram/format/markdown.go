package format

import "strings"

var legacyEscaper = escaper("_*`[")

func escaper(specials string) *strings.Replacer {
	pairs := make([]string, 0, 2*len(specials))
	for _, r := range specials {
		pairs = append(pairs, string(r), `\`+string(r))
	}
	return strings.NewReplacer(pairs...)
}

// EscapeV1 escapes text for the legacy Markdown parse mode.
func EscapeV1(text string) string {
	return legacyEscaper.Replace(text)
}
