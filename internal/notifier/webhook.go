package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// WebhookServer receives Telegram updates over HTTP. It also serves a health
// endpoint at "/" so free-tier hosts (and the keep-alive pinger) see the
// process as alive.
type WebhookServer struct {
	srv *http.Server
}

// NewWebhookServer builds the server. Updates are accepted only on the
// token-suffixed path, matching Telegram's recommended webhook setup.
func NewWebhookServer(addr, botToken string, handler UpdateHandler) *WebhookServer {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Bot is running.")
	})
	mux.HandleFunc("POST /webhook/"+botToken, func(w http.ResponseWriter, r *http.Request) {
		var update Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			log.Printf("[WARN] decode webhook update: %v", err)
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		handler(update)
		w.WriteHeader(http.StatusOK)
	})

	return &WebhookServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *WebhookServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] webhook server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook shutdown: %w", err)
		}
		log.Println("[INFO] webhook server stopped")
		return nil
	}
}
