package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"neonx-bot/internal/alerts"
	"neonx-bot/internal/community"
	"neonx-bot/internal/pricesource"
)

func (b *Bot) handleStart(chatID int64, firstName string) {
	if firstName == "" {
		firstName = "there"
	}
	b.replyWithKeyboard(chatID, welcomeMessage(firstName), mainMenuKeyboard())
}

func (b *Bot) handleInfo(chatID int64) {
	b.reply(chatID, infoMessage(b.pageURL))
}

func (b *Bot) handlePrice(ctx context.Context, chatID int64, forceRefresh bool) {
	snapshot := b.cache.Get(ctx, forceRefresh)
	b.replyWithKeyboard(chatID, pricesource.FormatMessage(snapshot, b.pageURL), priceKeyboard())
}

func (b *Bot) handleBuy(chatID int64) {
	b.reply(chatID, buyMessage(b.pageURL, b.links.MexcDex))
}

func (b *Bot) handleLinks(chatID int64) {
	b.reply(chatID, linksMessage(b.links, b.pageURL))
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, helpMessage)
}

func (b *Bot) handleAlerts(chatID, userID int64) {
	list := b.alerts.List(userID)

	builder := strings.Builder{}
	builder.WriteString("🔔 *Your Price Alerts* 🔔\n\n")
	if len(list) == 0 {
		builder.WriteString("You have no alerts set up.\n\n")
		builder.WriteString("Use /setalert or the buttons below to create one.")
	} else {
		for i, alert := range list {
			builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, alert.Kind.Describe(alert.Threshold)))
		}
		builder.WriteString("\nRemove one with /removealert <number>.")
	}

	b.replyWithKeyboard(chatID, builder.String(), alertsKeyboard())
}

func (b *Bot) handleSetAlert(chatID, userID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.reply(chatID, setAlertUsage)
		return
	}

	kind, err := alerts.ParseKind(fields[0])
	if err != nil {
		b.reply(chatID, "❌ Invalid alert type. Use 'above', 'below', or 'percent'.")
		return
	}

	b.finishSetAlert(chatID, userID, kind, fields[1])
}

func (b *Bot) finishSetAlert(chatID, userID int64, kind alerts.Kind, rawThreshold string) {
	threshold, err := decimal.NewFromString(rawThreshold)
	if err != nil {
		b.reply(chatID, "❌ Please enter a valid number.")
		return
	}

	switch err := b.alerts.Add(userID, kind, threshold, chatID); {
	case err == nil:
		b.reply(chatID, alertConfirmation(kind, threshold))
	case err == alerts.ErrDuplicateAlert:
		b.reply(chatID, "❌ You already have this alert set up.")
	case err == alerts.ErrInvalidThreshold:
		b.reply(chatID, "❌ The threshold must be a positive number.")
	default:
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to add alert")
		b.reply(chatID, "❌ Something went wrong, please try again.")
	}
}

func (b *Bot) handleRemoveAlert(chatID, userID int64, args string) {
	number, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		b.reply(chatID, "❌ Usage: /removealert <number>. See the numbers in /alerts.")
		return
	}

	// Listings are one-based for humans, the store is zero-based.
	if err := b.alerts.Remove(userID, number-1); err != nil {
		b.reply(chatID, "❌ No alert with that number. Check /alerts.")
		return
	}
	b.reply(chatID, "✅ Alert removed.")
}

func (b *Bot) handleMeme(chatID int64) {
	meme, index, ok := b.community.RandomMeme()
	if !ok {
		b.reply(chatID, noMemesMessage)
		return
	}

	caption := meme.Caption
	if caption == "" {
		caption = "🎭 *NeonX Meme*"
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(meme.FileID))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	photo.ReplyMarkup = memeKeyboard(index)

	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send meme")
	}
}

func (b *Bot) handleLikeMeme(chatID, userID int64, data string) {
	index, err := strconv.Atoi(strings.TrimPrefix(data, cbLikeMemePrefix))
	if err != nil {
		return
	}

	switch err := b.community.Like(index, userID); {
	case err == nil:
		b.reply(chatID, "❤️ Liked! Use /topmemes to see the community favourites.")
	case err == community.ErrAlreadyLiked:
		b.reply(chatID, "You already liked this meme.")
	case err == community.ErrMemeNotFound:
		b.reply(chatID, "That meme is no longer in the collection.")
	}
}

func (b *Bot) handleTopMemes(chatID int64) {
	top := b.community.TopMemes(5)
	if len(top) == 0 {
		b.reply(chatID, noMemesMessage)
		return
	}

	builder := strings.Builder{}
	builder.WriteString("🏆 *Top NeonX Memes* 🏆\n\n")
	for i, meme := range top {
		caption := meme.Caption
		if caption == "" {
			caption = "(no caption)"
		}
		builder.WriteString(fmt.Sprintf("%d. %s (❤️ %d)\n", i+1, caption, meme.Likes))
	}
	b.reply(chatID, builder.String())
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	message := b.community.FormatStatsMessage()

	snapshot := b.cache.Get(ctx, false)
	if snapshot.Succeeded {
		message += "\n\n" + fmt.Sprintf(
			"💰 *Current Price Information* 💰\n*Price:* %s\n*Market Cap:* %s\n*Holders:* %s",
			snapshot.PriceText, snapshot.MarketCap, snapshot.Holders,
		)
	}

	b.replyWithKeyboard(chatID, message, statsKeyboard())
}
