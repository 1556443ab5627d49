package builtin

import (
	"context"

	"github.com/botkit/bot"
)

// SendNotificationTool returns the definition of send_notification.
func SendNotificationTool() bot.Tool {
	return bot.Tool{
		Name:        "send_notification",
		Description: "Send a desktop notification to the user.",
		Parameters: []bot.Parameter{
			{Name: "message", Type: bot.ParamString, Description: "The notification message", Required: true},
			{Name: "title", Type: bot.ParamString, Description: `The notification title (default: "` + bot.DefaultNotificationTitle + `")`},
		},
	}
}

func sendNotification(n bot.Notifier) bot.HandlerFunc {
	return func(ctx context.Context, args bot.Args) (any, error) {
		err := n.Notify(ctx, bot.Notification{
			Title:   args.String("title", ""),
			Message: args.String("message", ""),
		})
		if err != nil {
			return nil, err
		}
		return message{Message: "Notification sent successfully!"}, nil
	}
}
