package scheduler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
)

// ReportPusher sends the current month's report to a chat unprompted.
// *bot.Handler implements it.
type ReportPusher interface {
	PushMonthlyReport(chatID int64)
}

// Scheduler manages all cron tasks: the first-of-month report push and the
// keep-alive self-ping that stops free hosting tiers from idling the bot.
type Scheduler struct {
	cron   *cron.Cron
	pusher ReportPusher
	client *http.Client
}

// NewScheduler creates a scheduler whose cron expressions include a seconds
// field and fire in the given time zone.
func NewScheduler(loc *time.Location, pusher ReportPusher) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		pusher: pusher,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// RegisterMonthlyReport schedules the report push to chatID.
func (s *Scheduler) RegisterMonthlyReport(spec string, chatID int64) error {
	if _, err := s.cron.AddFunc(spec, func() {
		log.Printf("[INFO] pushing monthly report to chat %d", chatID)
		s.pusher.PushMonthlyReport(chatID)
	}); err != nil {
		return fmt.Errorf("register monthly report: %w", err)
	}
	return nil
}

// RegisterKeepAlive schedules a GET against the bot's own public URL.
func (s *Scheduler) RegisterKeepAlive(spec, url string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.ping(url) }); err != nil {
		return fmt.Errorf("register keep-alive: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) ping(url string) {
	resp, err := s.client.Get(url)
	if err != nil {
		log.Printf("[WARN] keep-alive ping: %v", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[WARN] keep-alive ping: status %d", resp.StatusCode)
	}
}
