package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log       LoggingConfig   `yaml:"log"`
	REST      RESTConfig      `yaml:"rest"`
	Poll      PollConfig      `yaml:"poll"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Journal   JournalConfig   `yaml:"journal"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Announce  AnnounceConfig  `yaml:"announce"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type RESTConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PollConfig sets the refresh period of each market data snapshot.
type PollConfig struct {
	Accounts          time.Duration `yaml:"accounts"`
	LendingCurrencies time.Duration `yaml:"lending_currencies"`
	LendingOrders     time.Duration `yaml:"lending_orders"`
	SpotCurrencies    time.Duration `yaml:"spot_currencies"`
	SpotSymbols       time.Duration `yaml:"spot_symbols"`
	Tickers           time.Duration `yaml:"tickers"`
}

type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type JournalConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

type TelegramConfig struct {
	Enabled                bool          `yaml:"enabled"`
	Token                  string        `yaml:"token"`
	ChatID                 string        `yaml:"chat_id"`
	OperatorEnabled        bool          `yaml:"operator_enabled"`
	OperatorPollInterval   time.Duration `yaml:"operator_poll_interval"`
	OperatorAllowedUserIDs []int64       `yaml:"operator_allowed_user_ids"`
}

type AnnounceConfig struct {
	Enabled bool          `yaml:"enabled"`
	Period  time.Duration `yaml:"period"`
	Types   []string      `yaml:"types"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, validate(&cfg)
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.REST.BaseURL == "" {
		cfg.REST.BaseURL = "https://api.kucoin.com"
	}
	if cfg.REST.Timeout == 0 {
		cfg.REST.Timeout = 10 * time.Second
	}
	if cfg.Poll.Accounts == 0 {
		cfg.Poll.Accounts = 15 * time.Second
	}
	if cfg.Poll.LendingCurrencies == 0 {
		cfg.Poll.LendingCurrencies = 60 * time.Second
	}
	if cfg.Poll.LendingOrders == 0 {
		cfg.Poll.LendingOrders = 20 * time.Second
	}
	if cfg.Poll.SpotCurrencies == 0 {
		cfg.Poll.SpotCurrencies = 60 * time.Second
	}
	if cfg.Poll.SpotSymbols == 0 {
		cfg.Poll.SpotSymbols = 60 * time.Second
	}
	if cfg.Poll.Tickers == 0 {
		cfg.Poll.Tickers = 5 * time.Second
	}
	if cfg.Scheduler.Interval == 0 {
		cfg.Scheduler.Interval = time.Second
	}
	if cfg.Journal.SQLitePath == "" {
		cfg.Journal.SQLitePath = "data/kc-strategy-bot.db"
	}
	if cfg.Telegram.OperatorPollInterval == 0 {
		cfg.Telegram.OperatorPollInterval = 3 * time.Second
	}
	if cfg.Announce.Period == 0 {
		cfg.Announce.Period = 100 * time.Second
	}
}

func validate(cfg *Config) error {
	if cfg.Scheduler.Interval < 0 {
		return errors.New("scheduler.interval must be >= 0")
	}
	if cfg.Telegram.Enabled && (cfg.Telegram.Token == "" || cfg.Telegram.ChatID == "") {
		return errors.New("telegram.token and telegram.chat_id are required when telegram is enabled")
	}
	return nil
}
