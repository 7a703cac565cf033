package app

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/matchdash-io/matchdash/internal/bot"
	"github.com/matchdash-io/matchdash/internal/bus"
	"github.com/matchdash-io/matchdash/internal/config"
	"github.com/matchdash-io/matchdash/internal/dash"
	"github.com/matchdash-io/matchdash/internal/notify"
	"github.com/matchdash-io/matchdash/internal/platform/engine"
	"github.com/matchdash-io/matchdash/internal/poller"
	"github.com/matchdash-io/matchdash/internal/server"
	"github.com/matchdash-io/matchdash/internal/server/handler"
	"github.com/matchdash-io/matchdash/internal/server/ws"
	"github.com/matchdash-io/matchdash/internal/service"
)

// Deps bundles every wired dependency handed to the run modes.
type Deps struct {
	Engine   *engine.Client
	State    *dash.State
	Bus      *bus.Bus
	Poller   *poller.Poller
	Bot      *bot.Engine
	Orders   *service.OrderService
	Notifier *notify.Notifier
	Server   *server.Server
	Hub      *ws.Hub
}

// Wire constructs the full dependency graph from the configuration. All
// dependencies are in-process; there is nothing to tear down beyond context
// cancellation.
func Wire(cfg *config.Config, logger *slog.Logger) *Deps {
	client := engine.NewClient(cfg.Engine.BaseURL, cfg.Engine.Timeout.Duration)
	state := dash.NewState()
	b := bus.New()

	p := poller.New(client, state, b, cfg.Refresh.Interval.Duration, logger)

	registry := bot.NewRegistry()
	registry.Register(bot.NewRandomTrader(rand.New(rand.NewSource(time.Now().UnixNano()))))
	registry.Register(bot.NewMarketMaker(client, cfg.Bot.ReferencePrice))
	botEngine := bot.NewEngine(registry, client, b, cfg.Bot.Interval.Duration, logger)

	orders := service.NewOrderService(client, logger)

	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	notifier := notify.NewNotifier(senders, cfg.Notify.Events, logger)

	deps := &Deps{
		Engine:   client,
		State:    state,
		Bus:      b,
		Poller:   p,
		Bot:      botEngine,
		Orders:   orders,
		Notifier: notifier,
	}

	if cfg.Server.Enabled {
		deps.Hub = ws.NewHub(b, logger)
		handlers := server.Handlers{
			Health: handler.NewHealthHandler(),
			Panels: handler.NewPanelHandler(state),
			Orders: handler.NewOrderHandler(orders, notifier, logger),
			Bot:    handler.NewBotHandler(botEngine, notifier, logger),
			Export: handler.NewExportHandler(state, cfg.Export.Filename, logger),
		}
		deps.Server = server.NewServer(server.Config{
			Port:        cfg.Server.Port,
			CORSOrigins: cfg.Server.CORSOrigins,
		}, handlers, deps.Hub, logger)
	}

	return deps
}
