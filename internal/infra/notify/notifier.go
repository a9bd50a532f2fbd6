package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"fleetrent/internal/infra/db"
	"fleetrent/internal/usecase/commands"
)

// OutboxNotifier enqueues notification rows for an out-of-band
// delivery worker. Failures are logged and swallowed: a lost
// notification must never fail the operation that triggered it.
type OutboxNotifier struct {
	db db.DBTX
}

func NewOutboxNotifier(pool db.DBTX) commands.Notifier {
	return &OutboxNotifier{db: pool}
}

const insertNotificationSQL = `
INSERT INTO notification_jobs (user_id, kind, title, message, payload)
VALUES ($1, $2, $3, $4, $5)`

func (n *OutboxNotifier) Notify(ctx context.Context, notification commands.Notification) {
	payload, err := json.Marshal(notification.Metadata)
	if err != nil {
		slog.Error("failed to encode notification payload",
			"kind", notification.Kind,
			"user_id", notification.UserID.String(),
			"error", err.Error())
		return
	}

	_, err = n.db.Exec(ctx, insertNotificationSQL,
		notification.UserID,
		notification.Kind,
		notification.Title,
		notification.Message,
		payload,
	)
	if err != nil {
		slog.Error("failed to enqueue notification",
			"kind", notification.Kind,
			"user_id", notification.UserID.String(),
			"error", err.Error())
		return
	}

	slog.Info("notification enqueued",
		"kind", notification.Kind,
		"user_id", notification.UserID.String())
}
