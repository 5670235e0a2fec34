package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

var (
	ErrInvalidRegistration = errors.New("telegram: invalid registration")
	ErrDuplicate           = errors.New("telegram: already registered")
)

// Registry maps slash commands and callback keys onto handlers. Bots fill
// it during bootstrap; routes read it while updates are served.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]commands.Command
	aliases   map[string]string
	callbacks map[string]tele.HandlerFunc

	notFound tele.HandlerFunc
	fallback tele.HandlerFunc
}

func NewRegistry() *Registry {
	return &Registry{
		commands:  map[string]commands.Command{},
		aliases:   map[string]string{},
		callbacks: map[string]tele.HandlerFunc{},
		notFound: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "This button is no longer available"})
		},
	}
}

func slashed(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name[0] == '/' {
		return name
	}
	return "/" + name
}

// RegisterCommand binds name and its aliases. Names must start with "/".
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	if !strings.HasPrefix(name, "/") || len(name) < 2 || cmd.Handler == nil || cmd.Description == "" {
		logger.Warn(context.Background(), logger.CompTGWire, "register.command.skip", slog.String("name", name))
		return fmt.Errorf("%w: command %q", ErrInvalidRegistration, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	taken := func(n string) bool {
		_, cmdTaken := r.commands[n]
		_, aliasTaken := r.aliases[n]
		return cmdTaken || aliasTaken
	}
	if taken(name) {
		return fmt.Errorf("%w: command %q", ErrDuplicate, name)
	}
	for _, a := range cmd.Aliases {
		if a = slashed(a); a != "" && taken(a) {
			return fmt.Errorf("%w: alias %q of %q", ErrDuplicate, a, name)
		}
	}
	r.commands[name] = cmd
	for _, a := range cmd.Aliases {
		if a = slashed(a); a != "" && a != name {
			r.aliases[a] = name
		}
	}
	return nil
}

// Command resolves name or one of its aliases to the canonical command.
func (r *Registry) Command(name string) (string, commands.Command, bool) {
	name = slashed(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	cmd, ok := r.commands[name]
	if !ok {
		return "", commands.Command{}, false
	}
	return name, cmd, true
}

// Commands returns a copy of the canonical commands.
func (r *Registry) Commands() map[string]commands.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.commands)
}

// MenuCommands lists the non-hidden commands ordered by name.
func (r *Registry) MenuCommands() []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []tele.Command
	for _, name := range slices.Sorted(maps.Keys(r.commands)) {
		if cmd := r.commands[name]; !cmd.Hidden {
			out = append(out, tele.Command{Text: name, Description: cmd.Description})
		}
	}
	return out
}

// RegisterCallback binds a callback unique key.
func (r *Registry) RegisterCallback(key string, h tele.HandlerFunc) error {
	if strings.TrimSpace(key) == "" || h == nil {
		return fmt.Errorf("%w: callback %q", ErrInvalidRegistration, key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.callbacks[key]; ok {
		logger.Warn(context.Background(), logger.CompTGWire, "register.callback.duplicate", slog.String("cb_key", key))
		return fmt.Errorf("%w: callback %q", ErrDuplicate, key)
	}
	r.callbacks[key] = h
	return nil
}

func (r *Registry) Callback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// CallbackKeys returns the registered keys in order.
func (r *Registry) CallbackKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.callbacks))
}

// SetCallbackNotFound replaces the handler for stale or unknown buttons.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.mu.Lock()
	r.notFound = h
	r.mu.Unlock()
}

func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.notFound
}

// SetTextFallback sets the handler for text that no command or dialog claimed.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.mu.Lock()
	r.fallback = h
	r.mu.Unlock()
}

func (r *Registry) TextFallback() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// publishCommands sets the Telegram command menu. A failure only costs the
// menu, so it is logged and ignored.
func publishCommands(ctx context.Context, bot *tele.Bot, reg *Registry) {
	list := reg.MenuCommands()
	if len(list) == 0 {
		return
	}
	if err := bot.SetCommands(list); err != nil {
		logger.Error(ctx, logger.CompTGWire, "commands.publish",
			slog.String("status", logger.StatusFail),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.Info(ctx, logger.CompTGWire, "commands.publish", slog.Int("count", len(list)))
}
