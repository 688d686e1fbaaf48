package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"neonx-bot/internal/alerts"
	"neonx-bot/internal/config"
)

// Callback data exchanged with the inline keyboards.
const (
	cbStart        = "start"
	cbInfo         = "info"
	cbPrice        = "price"
	cbRefreshPrice = "refresh_price"
	cbBuy          = "buy"
	cbLinks        = "links"
	cbHelp         = "help"
	cbAlerts       = "alerts"
	cbAlertAbove   = "alert_above"
	cbAlertBelow   = "alert_below"
	cbAlertPercent = "alert_percent"
	cbMeme         = "meme"
	cbAnotherMeme  = "another_meme"
	cbStats        = "stats"
	cbRefreshStats = "refresh_stats"

	// cbLikeMemePrefix callbacks carry the meme index after the colon.
	cbLikeMemePrefix = "like_meme:"
)

const helpMessage = "❓ *NeonX Bot Help* ❓\n\n" +
	"/info - Get token information\n" +
	"/price - Check current price\n" +
	"/buy - Get links to buy NeonX on pump.fun or trade on MEXC DEX\n" +
	"/alerts - View and manage your price alerts\n" +
	"/setalert <above|below|percent> <value> - Set a price alert\n" +
	"/removealert <number> - Remove an alert\n" +
	"/meme - View a random community meme\n" +
	"/topmemes - Most liked memes\n" +
	"/stats - Community statistics\n" +
	"/links - Important links\n\n" +
	"Share a meme by sending a photo to this chat."

const setAlertUsage = "❌ Invalid format. Use:\n" +
	"/setalert above 0.0001\n" +
	"/setalert below 0.00005\n" +
	"/setalert percent 5"

const noMemesMessage = "🎭 *NeonX Memes* 🎭\n\n" +
	"No memes have been shared yet.\n\n" +
	"Be the first to share a meme! Just send a photo to this chat."

func welcomeMessage(firstName string) string {
	return fmt.Sprintf("🚀 *Welcome to the NeonX Bot, %s!* 🚀\n\n", firstName) +
		"NeonX is the ultimate Solana meme coin, illuminating the chain with the brightest vibes in crypto!\n\n" +
		"Use the commands below to learn more about NeonX:\n" +
		"/info - Get token information\n" +
		"/price - Check current price\n" +
		"/buy - Get links to buy NeonX on pump.fun or trade on MEXC DEX\n" +
		"/alerts - Set price alerts\n" +
		"/meme - View and share memes\n" +
		"/stats - Community statistics\n" +
		"/links - Important links\n" +
		"/help - Show help message"
}

func infoMessage(pageURL string) string {
	return "💡 *NeonX Token Information* 💡\n\n" +
		"*Name:* NeonX\n" +
		"*Chain:* Solana\n" +
		"*Type:* Community meme token\n\n" +
		"NeonX launched on pump.fun and trades on the MEXC DEX. " +
		"There is no team allocation and no tax; the community carries the glow.\n\n" +
		fmt.Sprintf("Token page: %s", pageURL)
}

func buyMessage(pageURL, mexcURL string) string {
	return "🛒 *How to buy NeonX* 🛒\n\n" +
		fmt.Sprintf("1. Buy on pump.fun:\n%s\n\n", pageURL) +
		fmt.Sprintf("2. Trade on MEXC DEX:\n%s\n\n", mexcURL) +
		"You need a Solana wallet (Phantom, Solflare) with some SOL for fees."
}

func linksMessage(links config.LinksConfig, pageURL string) string {
	return "🔗 *NeonX Links* 🔗\n\n" +
		fmt.Sprintf("🌐 Website: %s\n", links.Website) +
		fmt.Sprintf("💬 Telegram: %s\n", links.TelegramGroup) +
		fmt.Sprintf("🐦 Twitter: %s\n", links.Twitter) +
		fmt.Sprintf("📈 pump.fun: %s", pageURL)
}

func alertConfirmation(kind alerts.Kind, threshold decimal.Decimal) string {
	switch kind {
	case alerts.KindAbove:
		return fmt.Sprintf("✅ Alert set! You will be notified when the price goes above %s.", threshold)
	case alerts.KindBelow:
		return fmt.Sprintf("✅ Alert set! You will be notified when the price goes below %s.", threshold)
	default:
		return fmt.Sprintf("✅ Alert set! You will be notified when the price changes by %s%% or more.", threshold)
	}
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Token Info", cbInfo),
			tgbotapi.NewInlineKeyboardButtonData("📈 Price", cbPrice),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Buy NeonX", cbBuy),
			tgbotapi.NewInlineKeyboardButtonData("🔔 Alerts", cbAlerts),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎭 Memes", cbMeme),
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", cbStats),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔗 Links", cbLinks),
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", cbHelp),
		),
	)
}

func priceKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", cbRefreshPrice),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Menu", cbStart),
		),
	)
}

func alertsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 Above price", cbAlertAbove),
			tgbotapi.NewInlineKeyboardButtonData("📉 Below price", cbAlertBelow),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↕️ Percent change", cbAlertPercent),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Menu", cbStart),
		),
	)
}

func memeKeyboard(index int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❤️ Like", fmt.Sprintf("%s%d", cbLikeMemePrefix, index)),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Another Meme", cbAnotherMeme),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Menu", cbStart),
		),
	)
}

func statsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", cbRefreshStats),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Menu", cbStart),
		),
	)
}
