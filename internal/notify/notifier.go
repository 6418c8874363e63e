// Package notify sends a run summary through AWS SNS and SES.
package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"serverest-suite/internal/common/config"
	"serverest-suite/internal/common/errors"
	"serverest-suite/internal/common/logger"
	"serverest-suite/internal/models"
)

// Publisher is satisfied by aws.SNSClient.
type Publisher interface {
	PublishToTopic(ctx context.Context, topicARN, subject, message string) (string, error)
}

// Mailer is satisfied by aws.SESClient.
type Mailer interface {
	SendTextEmail(ctx context.Context, from string, to []string, subject, body string) (string, error)
}

// maxFailuresListed caps the failure lines in a message body.
const maxFailuresListed = 20

// Notifier is a report sink. A nil Publisher or Mailer disables that channel.
type Notifier struct {
	cfg       config.NotificationConfig
	publisher Publisher
	mailer    Mailer
	logger    logger.Logger
}

func New(cfg config.NotificationConfig, publisher Publisher, mailer Mailer, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Notifier{
		cfg:       cfg,
		publisher: publisher,
		mailer:    mailer,
		logger:    log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

func (n *Notifier) Name() string {
	return "notify"
}

// Write delivers the summary on every enabled channel. Successful runs are
// skipped when OnlyOnFailure is set.
func (n *Notifier) Write(ctx context.Context, summary *models.RunSummary) error {
	_, err := n.Send(ctx, summary)
	return err
}

// Send is Write returning what was attempted on each channel.
func (n *Notifier) Send(ctx context.Context, summary *models.RunSummary) ([]models.Notification, error) {
	if n.cfg.OnlyOnFailure && summary.Succeeded() {
		n.logger.Debug("run succeeded, notification skipped", map[string]interface{}{"runId": summary.RunID})
		return nil, nil
	}

	subject, body := Compose(summary)
	var (
		sent []models.Notification
		errs []error
	)

	if n.publisher != nil && n.cfg.SNS.Enabled {
		id, err := n.publisher.PublishToTopic(ctx, n.cfg.SNS.TopicARN, subject, body)
		sent = append(sent, n.record(summary, models.ChannelSNS, subject, body, id, err))
		if err != nil {
			errs = append(errs, errors.NewNotificationSendFailedError(models.ChannelSNS, err))
		}
	}
	if n.mailer != nil && n.cfg.SES.Enabled {
		id, err := n.mailer.SendTextEmail(ctx, n.cfg.SES.FromEmail, n.cfg.SES.To, subject, body)
		sent = append(sent, n.record(summary, models.ChannelSES, subject, body, id, err))
		if err != nil {
			errs = append(errs, errors.NewNotificationSendFailedError(models.ChannelSES, err))
		}
	}
	return sent, stderrors.Join(errs...)
}

func (n *Notifier) record(summary *models.RunSummary, channel, subject, body, messageID string, err error) models.Notification {
	status := models.NotificationSent
	fields := map[string]interface{}{"runId": summary.RunID, "channel": channel}
	if err != nil {
		status = models.NotificationFailed
		n.logger.WithError(err).Error("notification send failed", fields)
	} else {
		fields["messageId"] = messageID
		n.logger.Info("notification sent", fields)
	}
	return models.Notification{
		ID:        uuid.New().String(),
		RunID:     summary.RunID,
		Channel:   channel,
		Status:    status,
		MessageID: messageID,
		Subject:   subject,
		Body:      body,
		SentAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

// Compose renders the subject and plain-text body for a run.
func Compose(summary *models.RunSummary) (string, string) {
	outcome := "PASSED"
	if !summary.Succeeded() {
		outcome = "FAILED"
	}
	subject := fmt.Sprintf("[serverest-suite] %s on %s: %d passed, %d failed",
		outcome, summary.Env, summary.Passed, summary.Failed)

	var b strings.Builder
	fmt.Fprintf(&b, "Run:      %s\n", summary.RunID)
	fmt.Fprintf(&b, "Target:   %s (%s)\n", summary.BaseURL, summary.Env)
	fmt.Fprintf(&b, "Started:  %s\n", summary.Started.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %s\n", summary.Duration().Round(time.Millisecond))
	fmt.Fprintf(&b, "Passed: %d  Failed: %d  Skipped: %d\n", summary.Passed, summary.Failed, summary.Skipped)

	bySuite := summary.BySuite()
	names := make([]string, 0, len(bySuite))
	for name := range bySuite {
		names = append(names, name)
	}
	sort.Strings(names)

	listed := 0
	for _, name := range names {
		for _, r := range bySuite[name] {
			if r.Status != models.StatusFailed {
				continue
			}
			if listed == 0 {
				b.WriteString("\nFailures:\n")
			}
			listed++
			if listed > maxFailuresListed {
				continue
			}
			fmt.Fprintf(&b, "- %s %s [%s] %s\n", r.ID, r.Name, r.ErrorCode, r.Message)
		}
	}
	if listed > maxFailuresListed {
		fmt.Fprintf(&b, "... and %d more\n", listed-maxFailuresListed)
	}
	return subject, b.String()
}
