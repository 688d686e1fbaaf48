package app

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"neonx-bot/internal/alerts"
	"neonx-bot/internal/bot"
	"neonx-bot/internal/community"
	"neonx-bot/internal/config"
	"neonx-bot/internal/history"
	"neonx-bot/internal/notify"
	"neonx-bot/internal/pricesource"
	"neonx-bot/internal/scheduler"
	"neonx-bot/internal/storage"
	"neonx-bot/internal/tracker"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// stores bundles the three JSON-file-backed documents.
type stores struct {
	alerts    *alerts.Store
	community *community.Store
	history   *history.Log
}

func (a *App) openStores() stores {
	cfg := a.Config.Storage
	file := func(name string) *storage.File {
		return storage.NewFile(filepath.Join(cfg.DataDir, name), a.Logger)
	}
	return stores{
		alerts:    alerts.NewStore(file(cfg.AlertsFile), a.Logger),
		community: community.NewStore(file(cfg.CommunityFile), a.Logger),
		history:   history.NewLog(file(cfg.HistoryFile), cfg.MaxSamples, a.Logger),
	}
}

func (a *App) newCache() *pricesource.Cache {
	fetcher := pricesource.NewPumpFun(pricesource.PumpFunOptions{
		BaseURL:     a.Config.PriceSource.BaseURL,
		CoinAddress: a.Config.PriceSource.CoinAddress,
		Timeout:     a.Config.PriceSource.RequestTimeout,
		UserAgent:   a.Config.PriceSource.UserAgent,
	}, a.Logger)
	return pricesource.NewCache(fetcher, a.Config.PriceSource.CacheTTL, a.Logger)
}

func (a *App) newBotAPI() (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(a.Config.Telegram.BotToken)
	if err != nil {
		return nil, err
	}
	api.Debug = a.Config.Telegram.Debug
	return api, nil
}

// Run starts the Telegram bot and the periodic alert tracker, blocking
// until the context is cancelled or a termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	api, err := a.newBotAPI()
	if err != nil {
		return err
	}

	st := a.openStores()
	cache := a.newCache()
	notifier := notify.NewTelegram(api, a.Logger)

	sched := scheduler.New(scheduler.Options{
		Interval:      a.Config.Scheduler.Interval,
		RetryInterval: a.Config.Scheduler.RetryInterval,
		AlignToStart:  a.Config.Scheduler.AlignToBucket,
		StartupDelay:  a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	svc := tracker.New(sched, cache, st.alerts, st.history, notifier, a.Logger)
	b := bot.New(api, cache, st.alerts, st.community, a.Config, a.Logger)

	if chatID := a.Config.Telegram.AdminChatID; chatID != 0 {
		startupCtx, startupCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := notifier.Send(startupCtx, chatID, "🤖 NeonX bot is up and tracking prices."); err != nil {
			a.Logger.Warn().Err(err).Msg("failed to send startup notice")
		}
		startupCancel()
	}

	trackerDone := make(chan error, 1)
	go func() {
		trackerDone <- svc.Run(ctx)
	}()

	a.Logger.Info().
		Str("username", api.Self.UserName).
		Int("alerts", st.alerts.Count()).
		Int("samples", st.history.Len()).
		Msg("starting bot")

	err = b.Start(ctx)
	cancel()

	if trackerErr := <-trackerDone; trackerErr != nil && !errors.Is(trackerErr, context.Canceled) {
		a.Logger.Error().Err(trackerErr).Msg("tracker terminated with error")
		if err == nil || errors.Is(err, context.Canceled) {
			err = trackerErr
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.Logger.Info().Msg("bot stopped")
	return nil
}

// ExportOptions hold parameters for exporting historical samples.
type ExportOptions struct {
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit  int
	Alerts bool
}
