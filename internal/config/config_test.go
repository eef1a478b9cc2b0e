package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
telegram:
  bot_token: file-token
  mode: webhook
  public_url: https://bot.example.com
admins:
  - hai
timezone: Asia/Ho_Chi_Minh
policy:
  require_withdraw_description: true
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("ADMIN_USERNAMES", "hai, lan")
	t.Setenv("REPORT_CHAT_ID", "-100123")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("BotToken = %q, env should override file", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ReportChatID != -100123 {
		t.Errorf("ReportChatID = %d", cfg.Telegram.ReportChatID)
	}
	if len(cfg.Admins) != 2 || cfg.Admins[1] != "lan" {
		t.Errorf("Admins = %v", cfg.Admins)
	}
	if !cfg.Policy.RequireWithdrawDescription {
		t.Error("policy.require_withdraw_description not parsed")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Mode != "polling" {
		t.Errorf("Mode default = %q", cfg.Telegram.Mode)
	}
	if cfg.Timezone != "Asia/Ho_Chi_Minh" {
		t.Errorf("Timezone default = %q", cfg.Timezone)
	}
	if cfg.Storage.DataDir != "data" || cfg.Storage.SQLitePath != "data/fundkeeper.db" {
		t.Errorf("storage defaults = %+v", cfg.Storage)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"missing token", func(c *Config) { c.Telegram.BotToken = "" }, true},
		{"webhook without public url", func(c *Config) { c.Telegram.Mode = "webhook" }, true},
		{"unknown mode", func(c *Config) { c.Telegram.Mode = "udp" }, true},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
		{"polling ok", func(c *Config) {}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
			cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
