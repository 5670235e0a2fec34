package flow

import (
	"strings"
	"unicode/utf8"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/session"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/format"
)

// User-facing texts.
const (
	WelcomeText = "🎓 *Welcome to DIU Admission Assistant!*\n\n" +
		"Ask me anything about Admission, Programs, Fees, Scholarships, Campus Life and more! ✨"
	AskPromptText      = "✍️ Type your admission question and I'll look it up for you."
	ContinuePromptText = "Do you want to ask more questions?"
	NextQuestionText   = "Awesome! 🎯 Ask your next question:"
	ClosingText        = "Thank you for chatting with DIU Admission Assistant! 🌟\n" +
		"Wishing you a bright future! 🚀"
	ErrorText = "⚠️ Sorry, there was a problem. Please try again later!"

	summaryHeader = "📝 *Here’s your conversation summary:*\n\n"
	tuitionHeader = "📚 *Here’s the Tuition Information:*\n\n"
)

// RenderSummary formats turns as two lines per exchange. User and model text
// is escaped so it cannot break the Markdown entities.
func RenderSummary(turns []session.Turn) string {
	return renderSummary(turns, true)
}

// SummaryReply is RenderSummary as a Reply. A summary longer than one
// message is sent as plain text, since splitting escaped Markdown can cut
// an escape sequence in half.
func SummaryReply(turns []session.Turn) Reply {
	if text := renderSummary(turns, true); utf8.RuneCountInString(text) <= format.MaxMessageLength {
		return Reply{Text: text, Markdown: true}
	}
	return Reply{Text: renderSummary(turns, false)}
}

func renderSummary(turns []session.Turn, markdown bool) string {
	header, question, answer := summaryHeader, "🔵 *Question:* ", "🟢 *Answer:* "
	esc := format.EscapeV1
	if !markdown {
		header, question, answer = "📝 Here’s your conversation summary:\n\n", "🔵 Question: ", "🟢 Answer: "
		esc = func(s string) string { return s }
	}
	var b strings.Builder
	b.WriteString(header)
	for _, t := range turns {
		switch t.Role {
		case session.Question:
			b.WriteString(question)
			b.WriteString(esc(t.Text))
			b.WriteString("\n")
		case session.Answer:
			b.WriteString(answer)
			b.WriteString(esc(t.Text))
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// RenderTuition formats the fee table as a Markdown code block. When the
// result would not fit one message it falls back to plain text, which can be
// split safely.
func RenderTuition(table string) Reply {
	body := strings.ReplaceAll(table, "```", "'''")
	text := tuitionHeader + "```\n" + body + "\n```"
	if utf8.RuneCountInString(text) <= format.MaxMessageLength {
		return Reply{Text: text, Markdown: true}
	}
	return Reply{Text: "📚 Here’s the Tuition Information:\n\n" + table}
}
