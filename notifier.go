package bot

import "context"

// DefaultNotificationTitle is used when a notification has no title.
const DefaultNotificationTitle = "Bot Notification"

// Notification is a desktop notification.
type Notification struct {
	Title   string
	Message string
}

// Notifier delivers desktop notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
