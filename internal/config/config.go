package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"neonx-bot/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Logging     logging.Config    `mapstructure:"logging"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	PriceSource PriceSourceConfig `mapstructure:"price_source"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Links       LinksConfig       `mapstructure:"links"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// TelegramConfig covers bot transport settings.
type TelegramConfig struct {
	BotToken    string `mapstructure:"bot_token"`
	AdminChatID int64  `mapstructure:"admin_chat_id"`
	PollTimeout int    `mapstructure:"poll_timeout"`
	Debug       bool   `mapstructure:"debug"`
}

// PriceSourceConfig parameterises the pump.fun page fetcher and its cache.
type PriceSourceConfig struct {
	CoinAddress    string        `mapstructure:"coin_address"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// SchedulerConfig governs the alert evaluation cadence.
type SchedulerConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	StartupDelay  time.Duration `mapstructure:"startup_delay"`
	AlignToBucket bool          `mapstructure:"align_to_bucket"`
}

// StorageConfig locates the JSON documents.
type StorageConfig struct {
	DataDir       string `mapstructure:"data_dir"`
	AlertsFile    string `mapstructure:"alerts_file"`
	CommunityFile string `mapstructure:"community_file"`
	HistoryFile   string `mapstructure:"history_file"`
	MaxSamples    int    `mapstructure:"max_samples"`
}

// LinksConfig holds the community link set used by command replies.
type LinksConfig struct {
	Website       string `mapstructure:"website"`
	TelegramGroup string `mapstructure:"telegram_group"`
	Twitter       string `mapstructure:"twitter"`
	MexcDex       string `mapstructure:"mexc_dex"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NEONXBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Existing deployments configure the bot purely through the
	// environment, so the bare BOT_TOKEN/COIN_ADDRESS/CHAT_ID names
	// stay supported.
	_ = v.BindEnv("telegram.bot_token", "NEONXBOT_TELEGRAM_BOT_TOKEN", "BOT_TOKEN")
	_ = v.BindEnv("telegram.admin_chat_id", "NEONXBOT_TELEGRAM_ADMIN_CHAT_ID", "CHAT_ID")
	_ = v.BindEnv("price_source.coin_address", "NEONXBOT_PRICE_SOURCE_COIN_ADDRESS", "COIN_ADDRESS")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "neonxbot")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("telegram.poll_timeout", 30)
	v.SetDefault("telegram.debug", false)

	v.SetDefault("price_source.base_url", "https://pump.fun/coin/")
	v.SetDefault("price_source.request_timeout", "10s")
	v.SetDefault("price_source.cache_ttl", "5m")
	v.SetDefault("price_source.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	v.SetDefault("scheduler.interval", "5m")
	v.SetDefault("scheduler.retry_interval", "1m")
	v.SetDefault("scheduler.startup_delay", "0s")
	v.SetDefault("scheduler.align_to_bucket", false)

	v.SetDefault("storage.data_dir", ".")
	v.SetDefault("storage.alerts_file", "user_alerts.json")
	v.SetDefault("storage.community_file", "community_data.json")
	v.SetDefault("storage.history_file", "price_history.json")
	v.SetDefault("storage.max_samples", 10000)

	v.SetDefault("links.website", "https://neonxcoin.xyz")
	v.SetDefault("links.telegram_group", "https://t.me/neonxcoin_sol")
	v.SetDefault("links.twitter", "https://twitter.com/neonxcoin")
	v.SetDefault("links.mexc_dex", "https://www.mexc.com/dex/trade?pair_ca=HE2uwAY5Y5pU7qLKQXaccuySajYKmrsk1Ekjb5u8nqDJ&chain_id=100000&token_ca=8GBj4X4xBwL2qsdTkkkfkXub5w8YgcE96CJ7gLV3pump&base_token_ca=So11111111111111111111111111111111111111112")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Scheduler.RetryInterval <= 0 {
		return fmt.Errorf("scheduler.retry_interval must be greater than zero")
	}
	if c.PriceSource.CacheTTL <= 0 {
		return fmt.Errorf("price_source.cache_ttl must be greater than zero")
	}
	if c.PriceSource.RequestTimeout <= 0 {
		return fmt.Errorf("price_source.request_timeout must be greater than zero")
	}
	if c.Storage.MaxSamples <= 0 {
		return fmt.Errorf("storage.max_samples must be greater than zero")
	}
	return nil
}

// CoinPageURL resolves the pump.fun page for the configured coin.
func (c *Config) CoinPageURL() string {
	return strings.TrimRight(c.PriceSource.BaseURL, "/") + "/" + c.PriceSource.CoinAddress
}
