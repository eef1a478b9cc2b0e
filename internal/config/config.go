package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken     string `yaml:"bot_token"`
		Mode         string `yaml:"mode"` // "webhook" or "polling"
		ListenAddr   string `yaml:"listen_addr"`
		PublicURL    string `yaml:"public_url"`
		ReportChatID int64  `yaml:"report_chat_id"`
	} `yaml:"telegram"`
	Admins   []string `yaml:"admins"`
	Timezone string   `yaml:"timezone"`
	Storage  struct {
		DataDir    string `yaml:"data_dir"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`
	Policy struct {
		AllowBareAmount            bool `yaml:"allow_bare_amount"`
		RequireWithdrawDescription bool `yaml:"require_withdraw_description"`
		AllowForeignUndo           bool `yaml:"allow_foreign_undo"`
	} `yaml:"policy"`
	Schedule struct {
		MonthlyReportCron string `yaml:"monthly_report_cron"`
		KeepAliveCron     string `yaml:"keep_alive_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("BOT_MODE"); v != "" {
		cfg.Telegram.Mode = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Telegram.ListenAddr = v
	}
	if v := os.Getenv("PUBLIC_URL"); v != "" {
		cfg.Telegram.PublicURL = v
	}
	if v := os.Getenv("REPORT_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse REPORT_CHAT_ID: %w", err)
		}
		cfg.Telegram.ReportChatID = id
	}
	if v := os.Getenv("ADMIN_USERNAMES"); v != "" {
		cfg.Admins = nil
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Admins = append(cfg.Admins, name)
			}
		}
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Telegram.Mode == "" {
		cfg.Telegram.Mode = "polling"
	}
	if cfg.Telegram.ListenAddr == "" {
		cfg.Telegram.ListenAddr = ":8080"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Ho_Chi_Minh"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/fundkeeper.db"
	}
	if cfg.Schedule.MonthlyReportCron == "" {
		// 09:00 on the 1st of every month
		cfg.Schedule.MonthlyReportCron = "0 0 9 1 * *"
	}
	if cfg.Schedule.KeepAliveCron == "" {
		// every 10 minutes
		cfg.Schedule.KeepAliveCron = "0 */10 * * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	switch c.Telegram.Mode {
	case "webhook":
		if c.Telegram.PublicURL == "" {
			return fmt.Errorf("telegram.public_url is required in webhook mode")
		}
	case "polling":
	default:
		return fmt.Errorf("telegram.mode must be webhook or polling, got %q", c.Telegram.Mode)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured time zone. Call Validate first.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
