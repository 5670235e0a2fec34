// Package flow is the admission conversation state machine: a pure reducer
// from (state, event) to (next state, effects) plus an Engine that runs the
// effects against a reply transport.
package flow

import (
	"strings"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/state"
)

// Conversation states.
const (
	Idle                 = state.StateIdle
	AwaitingQuestion     = state.State("awaiting_question")
	AwaitingConfirmation = state.State("awaiting_confirmation")
)

// Button labels shown on reply keyboards.
const (
	ButtonAsk     = "🎓 Ask Admission Info"
	ButtonTuition = "💸 View Tuition Fees"
	ButtonYes     = "✅ Yes"
	ButtonNo      = "❌ No"
)

// EventKind classifies an inbound text.
type EventKind int

const (
	EventQuestion EventKind = iota
	EventStart
	EventAsk
	EventTuition
	EventYes
	EventNo
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventAsk:
		return "ask"
	case EventTuition:
		return "tuition"
	case EventYes:
		return "yes"
	case EventNo:
		return "no"
	default:
		return "question"
	}
}

// Event is an inbound message after parsing.
type Event struct {
	Kind EventKind
	Text string
}

// ParseEvent maps raw message text to an Event. Commands and button labels
// are recognised first; anything else is a question.
func ParseEvent(text string) Event {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "/") {
		cmd, _, _ := strings.Cut(trimmed, " ")
		cmd, _, _ = strings.Cut(cmd, "@")
		switch strings.ToLower(cmd) {
		case "/start", "/help":
			return Event{Kind: EventStart, Text: text}
		}
	}
	switch trimmed {
	case ButtonAsk:
		return Event{Kind: EventAsk, Text: text}
	case ButtonTuition:
		return Event{Kind: EventTuition, Text: text}
	case ButtonYes:
		return Event{Kind: EventYes, Text: text}
	case ButtonNo:
		return Event{Kind: EventNo, Text: text}
	}
	return Event{Kind: EventQuestion, Text: text}
}

// EffectKind names a side effect the Engine performs.
type EffectKind int

const (
	// EffectSend sends Reply as is.
	EffectSend EffectKind = iota
	// EffectTyping shows the typing indicator; failures are ignored.
	EffectTyping
	// EffectAnswer synthesizes an answer to Question and sends it.
	EffectAnswer
	// EffectTuition sends the full tuition table.
	EffectTuition
	// EffectSummary sends the rendered session history.
	EffectSummary
	// EffectClearSession drops the session history.
	EffectClearSession
)

// Keyboard selects the reply keyboard attached to a message.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMain
	KeyboardConfirm
	KeyboardRemove
)

// Reply is one outbound message.
type Reply struct {
	Text     string
	Markdown bool
	Keyboard Keyboard
}

// Effect is one step of a Transition.
type Effect struct {
	Kind     EffectKind
	Reply    Reply
	Question string
}

// Transition is the result of Reduce.
type Transition struct {
	Next    state.State
	Effects []Effect
}

// Reduce computes the next state and the effects for ev in st. It never
// blocks and performs no I/O. Free text is a question in every state, and
// Yes/No are honoured in every state.
func Reduce(st state.State, ev Event) Transition {
	switch ev.Kind {
	case EventStart:
		return Transition{Next: AwaitingQuestion, Effects: []Effect{
			send(Reply{Text: WelcomeText, Markdown: true, Keyboard: KeyboardMain}),
		}}
	case EventAsk:
		return Transition{Next: AwaitingQuestion, Effects: []Effect{
			send(Reply{Text: AskPromptText, Keyboard: KeyboardMain}),
		}}
	case EventTuition:
		return Transition{Next: st, Effects: []Effect{
			{Kind: EffectTyping},
			{Kind: EffectTuition},
		}}
	case EventYes:
		return Transition{Next: AwaitingQuestion, Effects: []Effect{
			send(Reply{Text: NextQuestionText, Keyboard: KeyboardRemove}),
		}}
	case EventNo:
		return Transition{Next: Idle, Effects: []Effect{
			{Kind: EffectSummary},
			{Kind: EffectClearSession},
			send(Reply{Text: ClosingText, Keyboard: KeyboardRemove}),
		}}
	default:
		return Transition{Next: AwaitingConfirmation, Effects: []Effect{
			{Kind: EffectTyping},
			{Kind: EffectAnswer, Question: ev.Text},
			send(Reply{Text: ContinuePromptText, Keyboard: KeyboardConfirm}),
		}}
	}
}

func send(r Reply) Effect {
	return Effect{Kind: EffectSend, Reply: r}
}
