package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"FundKeeper/internal/auth"
	"FundKeeper/internal/bot"
	"FundKeeper/internal/config"
	"FundKeeper/internal/ledger"
	"FundKeeper/internal/notifier"
	"FundKeeper/internal/recorder"
	"FundKeeper/internal/scheduler"
	"FundKeeper/internal/store"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FundKeeper starting...")

	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	loc := cfg.Location()

	// Init persistent store
	st, err := store.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("[FATAL] init store: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Storage.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Storage.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram client and admin oracle
	client := notifier.NewClient(cfg.Telegram.BotToken, cfg.Proxy)
	admins := auth.NewChatAdmins(client, auth.NewAllowlist(cfg.Admins))

	// Init ledger engine
	policy := ledger.Policy{
		AllowBareAmount:            cfg.Policy.AllowBareAmount,
		RequireWithdrawDescription: cfg.Policy.RequireWithdrawDescription,
		EnforceUndoOwner:           !cfg.Policy.AllowForeignUndo,
	}
	engine, err := ledger.NewEngine(st, admins, policy, loc)
	if err != nil {
		log.Fatalf("[FATAL] init ledger engine: %v", err)
	}

	handler := bot.NewHandler(engine, client, admins, rec, st, loc)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(loc, handler)
	if cfg.Telegram.ReportChatID != 0 {
		if err := sched.RegisterMonthlyReport(cfg.Schedule.MonthlyReportCron, cfg.Telegram.ReportChatID); err != nil {
			log.Fatalf("[FATAL] register cron tasks: %v", err)
		}
	}
	if cfg.Telegram.Mode == "webhook" && cfg.Telegram.PublicURL != "" {
		if err := sched.RegisterKeepAlive(cfg.Schedule.KeepAliveCron, cfg.Telegram.PublicURL); err != nil {
			log.Fatalf("[FATAL] register cron tasks: %v", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	g, gctx := errgroup.WithContext(ctx)

	switch cfg.Telegram.Mode {
	case "webhook":
		url := strings.TrimRight(cfg.Telegram.PublicURL, "/") + "/webhook/" + cfg.Telegram.BotToken
		if err := client.SetWebhook(url); err != nil {
			log.Fatalf("[FATAL] set webhook: %v", err)
		}
		srv := notifier.NewWebhookServer(cfg.Telegram.ListenAddr, cfg.Telegram.BotToken, handler.HandleUpdate)
		g.Go(func() error { return srv.Run(gctx) })
	default:
		if err := client.DeleteWebhook(); err != nil {
			log.Printf("[WARN] delete webhook: %v", err)
		}
		g.Go(func() error {
			client.StartPolling(gctx, handler.HandleUpdate)
			return nil
		})
		log.Println("[INFO] Telegram polling started")
	}

	log.Println("[INFO] FundKeeper is running. Press Ctrl+C to stop.")

	if err := g.Wait(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	log.Println("[INFO] FundKeeper stopped")
}
