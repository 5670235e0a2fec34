package answer

import (
	"fmt"
	"strings"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/classify"
)

// Default assistant identity.
const (
	DefaultInstitution    = "Daffodil International University (DIU)"
	DefaultContactMessage = "Please contact admission@daffodilvarsity.edu.bd or call +880 1814-555666."
)

// Profile is the fixed identity and fallback the prompt is built around.
type Profile struct {
	Institution    string
	ContactMessage string
}

func (p Profile) withDefaults() Profile {
	if strings.TrimSpace(p.Institution) == "" {
		p.Institution = DefaultInstitution
	}
	if strings.TrimSpace(p.ContactMessage) == "" {
		p.ContactMessage = DefaultContactMessage
	}
	return p
}

// ContextSource supplies the reference material attached to prompts.
type ContextSource interface {
	Document() string
	TuitionText() string
}

// BuildPrompt composes the generation prompt for question. Tuition questions
// get the fee table, everything else the admission document. Missing
// context is rendered as an empty section, never omitted.
func BuildPrompt(p Profile, kind classify.Kind, src ContextSource, question string) string {
	p = p.withDefaults()

	var section string
	switch kind {
	case classify.Tuition:
		table := ""
		if src != nil {
			table = src.TuitionText()
		}
		section = "Tuition Information:\n" + table
	default:
		doc := ""
		if src != nil {
			doc = src.Document()
		}
		section = "General Admission Information:\n" + doc
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert admission assistant for %s.\n", p.Institution)
	b.WriteString("Use ONLY the following information to answer:\n")
	b.WriteString(section)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	fmt.Fprintf(&b, "\n\nIf the answer is not in the context, politely say %q\n", p.ContactMessage)
	return b.String()
}
