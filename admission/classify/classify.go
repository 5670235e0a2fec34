// Package classify picks which context source a question needs.
package classify

import "strings"

// Kind is the classification result.
type Kind int

const (
	General Kind = iota
	Tuition
)

func (k Kind) String() string {
	if k == Tuition {
		return "tuition"
	}
	return "general"
}

// DefaultTuitionKeywords mark a question as being about fees.
var DefaultTuitionKeywords = []string{"tuition", "fee", "cost", "payment", "semester fee", "credit fee"}

// Classifier matches lower-cased text against keyword substrings.
type Classifier struct {
	keywords []string
}

// New builds a classifier. Without keywords it uses DefaultTuitionKeywords.
func New(keywords ...string) *Classifier {
	if len(keywords) == 0 {
		keywords = DefaultTuitionKeywords
	}
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kw = append(kw, k)
		}
	}
	return &Classifier{keywords: kw}
}

// Classify returns Tuition when any keyword occurs in text, else General.
func (c *Classifier) Classify(text string) Kind {
	lower := strings.ToLower(text)
	for _, k := range c.keywords {
		if strings.Contains(lower, k) {
			return Tuition
		}
	}
	return General
}
