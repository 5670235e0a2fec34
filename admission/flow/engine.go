package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/session"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/state"
)

// Replier delivers replies to the chat an update came from.
type Replier interface {
	Send(ctx context.Context, r Reply) error
	Typing(ctx context.Context) error
}

// Answerer produces an answer to a question. The Engine records the exchange
// once the answer has been delivered.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// TuitionSource supplies the formatted tuition table.
type TuitionSource interface {
	TuitionText() string
}

// Options wire an Engine.
type Options struct {
	States   state.Manager
	Sessions *session.Table
	Answerer Answerer
	Tuition  TuitionSource
	Locks    *state.KeyedMutex
}

// Engine runs Reduce for one chat at a time and executes the effects.
type Engine struct {
	states   state.Manager
	sessions *session.Table
	answerer Answerer
	tuition  TuitionSource
	locks    *state.KeyedMutex
}

// NewEngine validates opts and returns an Engine.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Sessions == nil || opts.Answerer == nil {
		return nil, errors.New("flow: sessions and answerer are required")
	}
	if opts.States == nil {
		opts.States = state.NewMemoryManager()
	}
	if opts.Locks == nil {
		opts.Locks = state.NewKeyedMutex()
	}
	return &Engine{
		states:   opts.States,
		sessions: opts.Sessions,
		answerer: opts.Answerer,
		tuition:  opts.Tuition,
		locks:    opts.Locks,
	}, nil
}

// State returns the current state of chatID.
func (e *Engine) State(chatID int64) state.State {
	return e.states.GetState(chatID)
}

// InProgress reports whether chatID is inside a dialog.
func (e *Engine) InProgress(chatID int64) bool {
	return e.states.InProgress(chatID)
}

// Handle processes one inbound text for chatID. Updates of the same chat are
// serialized. The new state is committed only when every effect succeeded;
// on failure the user gets ErrorText and Handle returns nil unless even that
// reply could not be sent. A transition that clears the session does so even
// when an earlier effect failed.
func (e *Engine) Handle(ctx context.Context, chatID int64, text string, r Replier) error {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	start := time.Now()
	cur := e.states.GetState(chatID)
	ev := ParseEvent(text)
	tr := Reduce(cur, ev)

	for _, eff := range tr.Effects {
		if err := e.apply(ctx, chatID, eff, r); err != nil {
			logger.Error(ctx, logger.CompFlow, "flow.fail",
				slog.String("status", "fail"),
				slog.String("event_kind", ev.Kind.String()),
				slog.String("state", string(cur)),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
				slog.Duration("duration", logger.RoundMS(time.Since(start))),
			)
			if clearsSession(tr) {
				e.sessions.Clear(chatID)
				e.commit(chatID, tr.Next)
			}
			if sendErr := r.Send(ctx, Reply{Text: ErrorText}); sendErr != nil {
				return fmt.Errorf("flow: %w (apology not delivered: %v)", err, sendErr)
			}
			return nil
		}
	}

	e.commit(chatID, tr.Next)
	logger.Info(ctx, logger.CompFlow, "flow.transition",
		slog.String("status", "ok"),
		slog.String("event_kind", ev.Kind.String()),
		slog.String("state", string(cur)),
		slog.String("next_state", string(tr.Next)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}

func (e *Engine) apply(ctx context.Context, chatID int64, eff Effect, r Replier) error {
	switch eff.Kind {
	case EffectSend:
		return r.Send(ctx, eff.Reply)
	case EffectTyping:
		if err := r.Typing(ctx); err != nil {
			logger.Debug(ctx, logger.CompFlow, "typing.fail", slog.String("err", err.Error()))
		}
		return nil
	case EffectAnswer:
		text, err := e.answerer.Answer(ctx, eff.Question)
		if err != nil {
			return err
		}
		if err := r.Send(ctx, Reply{Text: text}); err != nil {
			return err
		}
		e.sessions.AppendExchange(chatID, eff.Question, text)
		return nil
	case EffectTuition:
		table := "{}"
		if e.tuition != nil {
			table = e.tuition.TuitionText()
		}
		return r.Send(ctx, RenderTuition(table))
	case EffectSummary:
		return r.Send(ctx, SummaryReply(e.sessions.Turns(chatID)))
	case EffectClearSession:
		e.sessions.Clear(chatID)
		return nil
	}
	return fmt.Errorf("flow: unknown effect %d", eff.Kind)
}

func (e *Engine) commit(chatID int64, next state.State) {
	if next == Idle {
		e.states.ClearState(chatID)
		return
	}
	e.states.SetState(chatID, next)
}

func clearsSession(tr Transition) bool {
	for _, eff := range tr.Effects {
		if eff.Kind == EffectClearSession {
			return true
		}
	}
	return false
}
