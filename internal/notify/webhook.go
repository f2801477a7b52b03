package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// WebhookNotifier posts the run summary to an external URL. Its HTTP
// client is hardened the same way the retained executor.go hardens its
// job-execution client: a bounded redirect chain, TLS 1.2 minimum, and
// connection-pool limits appropriate for occasional, low-volume calls.
type WebhookNotifier struct {
	client *http.Client
	url    string
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     30 * time.Second,
				TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
			},
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

type webhookPayload struct {
	RunID           string `json:"run_id"`
	RunType         string `json:"run_type"`
	Status          string `json:"status"`
	TotalProcessed  int    `json:"total_processed"`
	EventsScheduled int    `json:"events_scheduled"`
	EventsFailed    int    `json:"events_failed"`
	RequiringSwaps  int    `json:"requiring_swaps"`
}

func (n *WebhookNotifier) NotifyRunCompleted(ctx context.Context, run domain.SchedulerRun) error {
	body, err := json.Marshal(webhookPayload{
		RunID:           run.ID,
		RunType:         string(run.RunType),
		Status:          string(run.Status),
		TotalProcessed:  run.TotalProcessed,
		EventsScheduled: run.EventsScheduled,
		EventsFailed:    run.EventsFailed,
		RequiringSwaps:  run.RequiringSwaps,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
