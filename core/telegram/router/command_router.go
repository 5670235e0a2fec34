package router

import (
	"log/slog"
	"strings"
	"time"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	tg "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes binds every registered command and alias to its handler,
// wrapped with the per-update summary log.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}
	var routes []tg.Route
	cmds := reg.Commands()
	for name, cmd := range cmds {
		label := "command." + normalizeHandlerName(name)
		run := cmd.Handler
		h := func(c tele.Context) error {
			return handleWithSummary(c, label, time.Now(), "", func() error { return run(c) })
		}
		routes = append(routes, tg.Route{Endpoint: name, Handler: h})
		for _, alias := range cmd.Aliases {
			if alias = strings.TrimSpace(alias); alias == "" {
				continue
			}
			if !strings.HasPrefix(alias, "/") {
				alias = "/" + alias
			}
			routes = append(routes, tg.Route{Endpoint: alias, Handler: h})
		}
	}
	logger.Info(logger.Background(), logger.CompTGWire, "routes.commands",
		slog.Int("count", len(cmds)),
		slog.Int("callbacks", len(reg.CallbackKeys())),
	)
	return routes
}
