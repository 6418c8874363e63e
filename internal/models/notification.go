// internal/models/notification.go
package models

// Notification is a run summary message delivered through one channel.
type Notification struct {
	ID        string `json:"id"`
	RunID     string `json:"runId"`
	Channel   string `json:"channel"` // "sns", "ses"
	Status    string `json:"status"`  // "sent", "failed"
	MessageID string `json:"messageId,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	SentAt    string `json:"sentAt"`
}

const (
	ChannelSNS = "sns"
	ChannelSES = "ses"

	NotificationSent   = "sent"
	NotificationFailed = "failed"
)
