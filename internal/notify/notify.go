// Package notify is the "external notification hook" spec.md §9 calls
// out as an explicit Open Question: a post-run summary must be sendable
// somewhere, but the spec deliberately leaves the destination and
// format open. This package supplies the hook plus three reference
// implementations (log, Resend email, webhook); a production deployment
// wires whichever fits.
//
// Grounded on internal/email/email.go's Sender interface in the
// retained reference material, generalized from "send a magic link" to
// "send a run summary."
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// Notifier delivers a SchedulerRun's outcome somewhere a human will see
// it. Implementations must not block the run itself on delivery
// failure — spec.md §7 treats notification as best-effort.
type Notifier interface {
	NotifyRunCompleted(ctx context.Context, run domain.SchedulerRun) error
}

// Summary renders the fields worth telling a human about.
func Summary(run domain.SchedulerRun) string {
	return fmt.Sprintf(
		"Run %s (%s): processed %d, scheduled %d, failed %d, requiring swaps %d",
		run.ID, run.RunType, run.TotalProcessed, run.EventsScheduled, run.EventsFailed, run.RequiringSwaps,
	)
}

// LogNotifier writes the summary through slog — the default when no
// email destination is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) NotifyRunCompleted(_ context.Context, run domain.SchedulerRun) error {
	n.Logger.Info("run summary", slog.String("summary", Summary(run)))
	return nil
}

// ResendNotifier emails the summary via Resend.
type ResendNotifier struct {
	client *resend.Client
	from   string
	to     []string
}

func NewResendNotifier(apiKey, from string, to []string) *ResendNotifier {
	return &ResendNotifier{client: resend.NewClient(apiKey), from: from, to: to}
}

func (n *ResendNotifier) NotifyRunCompleted(ctx context.Context, run domain.SchedulerRun) error {
	_, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: fmt.Sprintf("Scheduler run %s completed", run.ID),
		Text:    Summary(run),
	})
	return err
}
