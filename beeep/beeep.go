// Package beeep implements [bot.Notifier] with native desktop notifications.
package beeep

import (
	"context"
	"fmt"
	"strings"

	"github.com/botkit/bot"
	"github.com/gen2brain/beeep"
)

// Interface compliance check.
var _ bot.Notifier = (*Notifier)(nil)

// Notifier sends desktop notifications.
type Notifier struct {
	// Icon is an optional path to an icon image.
	Icon string

	notify func(title, message, icon string) error
}

// New returns a Notifier backed by the platform notification service.
func New() *Notifier {
	return &Notifier{notify: beeep.Notify}
}

// Notify shows n. An empty title uses bot.DefaultNotificationTitle.
func (n *Notifier) Notify(ctx context.Context, note bot.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(note.Message) == "" {
		return fmt.Errorf("notification message is required: %w", bot.ErrValidation)
	}
	title := note.Title
	if title == "" {
		title = bot.DefaultNotificationTitle
	}
	if err := n.notify(title, note.Message, n.Icon); err != nil {
		return fmt.Errorf("Notification error: %v: %w", err, bot.ErrUpstream)
	}
	return nil
}
