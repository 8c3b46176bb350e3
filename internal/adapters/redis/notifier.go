package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/belimuno/workhub/internal/domain/model"
)

// Notifier publishes lifecycle notifications on a Redis pub/sub channel for
// downstream consumers (mailer, websocket fan-out). Publishing is best-effort:
// failures are logged and never returned to the caller.
type Notifier struct {
	client  redis.UniversalClient
	channel string
	baseURL string
	logger  *slog.Logger
}

// NotifierOptions groups constructor dependencies for Notifier.
// BaseURL is the externally reachable application URL used to build absolute
// links in published payloads; when empty, payloads carry no link.
type NotifierOptions struct {
	Client  redis.UniversalClient
	Channel string
	BaseURL string
	Logger  *slog.Logger
}

// NewNotifier creates a Redis pub/sub notifier.
func NewNotifier(opts NotifierOptions) *Notifier {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		client:  opts.Client,
		channel: opts.Channel,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		logger:  logger.With("component", "notifier"),
	}
}

// Publish sends the notification to the configured channel.
func (n *Notifier) Publish(ctx context.Context, notification model.Notification) {
	notification = n.withLink(notification)
	payload, err := json.Marshal(notification)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to marshal notification", "kind", notification.Kind, "err", err)
		return
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.logger.WarnContext(ctx, "failed to publish notification",
			"kind", notification.Kind, "job_id", notification.JobID, "err", err)
	}
}

// withLink fills the absolute job link unless the caller already set one.
func (n *Notifier) withLink(notification model.Notification) model.Notification {
	if notification.Link == "" && n.baseURL != "" && notification.JobID != "" {
		notification.Link = n.baseURL + "/jobs/" + notification.JobID
	}
	return notification
}
