package bot

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"neonx-bot/internal/alerts"
	"neonx-bot/internal/community"
	"neonx-bot/internal/config"
	"neonx-bot/internal/pricesource"
)

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingAlertThreshold
	pendingMemeCaption
)

// pendingState tracks a multi-step interaction: a user who tapped an alert
// button still owes a threshold, a user who sent a photo may owe a caption.
type pendingState struct {
	kind      pendingKind
	alertKind alerts.Kind
	fileID    string
}

// Bot routes Telegram updates onto the stores and the price cache.
type Bot struct {
	api       *tgbotapi.BotAPI
	cache     *pricesource.Cache
	alerts    *alerts.Store
	community *community.Store
	links     config.LinksConfig
	pageURL   string
	timeout   int
	logger    zerolog.Logger

	mu      sync.Mutex
	pending map[int64]pendingState
}

// New constructs the bot over an authorised API client.
func New(api *tgbotapi.BotAPI, cache *pricesource.Cache, alertStore *alerts.Store, communityStore *community.Store, cfg *config.Config, logger zerolog.Logger) *Bot {
	timeout := cfg.Telegram.PollTimeout
	if timeout <= 0 {
		timeout = 30
	}
	return &Bot{
		api:       api,
		cache:     cache,
		alerts:    alertStore,
		community: communityStore,
		links:     cfg.Links,
		pageURL:   cfg.CoinPageURL(),
		timeout:   timeout,
		logger:    logger.With().Str("component", "bot").Logger(),
		pending:   map[int64]pendingState{},
	}
}

// Start begins long polling until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.timeout
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info().Str("username", b.api.Self.UserName).Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			b.handleCallback(ctx, update.CallbackQuery)
		case update.Message != nil:
			b.handleMessage(ctx, update.Message)
		}
	}

	return ctx.Err()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	b.community.RecordActivity(msg.From.ID, msg.From.UserName, msg.From.FirstName, msg.From.LastName)

	if len(msg.Photo) > 0 {
		b.handlePhoto(msg)
		return
	}
	if msg.Text == "" {
		return
	}

	if state, ok := b.takePending(msg.From.ID); ok {
		b.handlePendingInput(state, msg)
		return
	}

	switch msg.Command() {
	case "start":
		b.handleStart(msg.Chat.ID, msg.From.FirstName)
	case "info":
		b.handleInfo(msg.Chat.ID)
	case "price":
		b.handlePrice(ctx, msg.Chat.ID, false)
	case "buy":
		b.handleBuy(msg.Chat.ID)
	case "links":
		b.handleLinks(msg.Chat.ID)
	case "help":
		b.handleHelp(msg.Chat.ID)
	case "alerts":
		b.handleAlerts(msg.Chat.ID, msg.From.ID)
	case "setalert":
		b.handleSetAlert(msg.Chat.ID, msg.From.ID, msg.CommandArguments())
	case "removealert":
		b.handleRemoveAlert(msg.Chat.ID, msg.From.ID, msg.CommandArguments())
	case "meme":
		b.handleMeme(msg.Chat.ID)
	case "topmemes":
		b.handleTopMemes(msg.Chat.ID)
	case "stats":
		b.handleStats(ctx, msg.Chat.ID)
	case "":
		// Plain text outside any pending flow is ignored in groups and
		// only nudged in private chats.
		if msg.Chat.IsPrivate() {
			b.reply(msg.Chat.ID, "I don't understand that command. Try /help to see available commands.")
		}
	default:
		b.reply(msg.Chat.ID, "I don't understand that command. Try /help to see available commands.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.From == nil || query.Message == nil || query.Message.Chat == nil {
		return
	}

	// Stop the client-side loading indicator.
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn().Err(err).Msg("failed to answer callback query")
	}

	b.community.RecordActivity(query.From.ID, query.From.UserName, query.From.FirstName, query.From.LastName)

	chatID := query.Message.Chat.ID
	userID := query.From.ID

	switch query.Data {
	case cbStart:
		b.handleStart(chatID, query.From.FirstName)
	case cbInfo:
		b.handleInfo(chatID)
	case cbPrice:
		b.handlePrice(ctx, chatID, false)
	case cbRefreshPrice:
		b.handlePrice(ctx, chatID, true)
	case cbBuy:
		b.handleBuy(chatID)
	case cbLinks:
		b.handleLinks(chatID)
	case cbHelp:
		b.handleHelp(chatID)
	case cbAlerts:
		b.handleAlerts(chatID, userID)
	case cbAlertAbove:
		b.promptThreshold(chatID, userID, alerts.KindAbove,
			"Please enter the price threshold for your alert (e.g., 0.0001):")
	case cbAlertBelow:
		b.promptThreshold(chatID, userID, alerts.KindBelow,
			"Please enter the price threshold for your alert (e.g., 0.00005):")
	case cbAlertPercent:
		b.promptThreshold(chatID, userID, alerts.KindPercent,
			"Please enter the percentage change threshold for your alert (e.g., 5):")
	case cbMeme, cbAnotherMeme:
		b.handleMeme(chatID)
	case cbStats, cbRefreshStats:
		b.handleStats(ctx, chatID)
	default:
		if strings.HasPrefix(query.Data, cbLikeMemePrefix) {
			b.handleLikeMeme(chatID, userID, query.Data)
		}
	}
}

func (b *Bot) handlePendingInput(state pendingState, msg *tgbotapi.Message) {
	switch state.kind {
	case pendingAlertThreshold:
		b.finishSetAlert(msg.Chat.ID, msg.From.ID, state.alertKind, strings.TrimSpace(msg.Text))
	case pendingMemeCaption:
		b.community.AddMeme(state.fileID, msg.From.ID, strings.TrimSpace(msg.Text))
		b.reply(msg.Chat.ID, "✅ Your meme has been added to the collection! Use /meme to see random memes.")
	}
}

func (b *Bot) handlePhoto(msg *tgbotapi.Message) {
	// Telegram sends several sizes; the last is the largest.
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	if msg.Caption != "" {
		b.community.AddMeme(fileID, msg.From.ID, msg.Caption)
		b.reply(msg.Chat.ID, "✅ Your meme has been added to the collection! Use /meme to see random memes.")
		return
	}

	b.setPending(msg.From.ID, pendingState{kind: pendingMemeCaption, fileID: fileID})
	b.reply(msg.Chat.ID, "Please enter a caption for your meme:")
}

func (b *Bot) promptThreshold(chatID, userID int64, kind alerts.Kind, prompt string) {
	b.setPending(userID, pendingState{kind: pendingAlertThreshold, alertKind: kind})
	b.reply(chatID, prompt)
}

func (b *Bot) setPending(userID int64, state pendingState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[userID] = state
}

func (b *Bot) takePending(userID int64) (pendingState, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, ok := b.pending[userID]
	if ok {
		delete(b.pending, userID)
	}
	return state, ok
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text), nil)
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	b.send(tgbotapi.NewMessage(chatID, text), &keyboard)
}

func (b *Bot) send(msg tgbotapi.MessageConfig, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.ChatID).Msg("failed to send message")
	}
}
