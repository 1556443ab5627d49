package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/botkit/bot"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultRateAlertSpec fires at 09:00 on the 25th of every month.
const DefaultRateAlertSpec = "0 9 25 * *"

// RateAlert notifies the current sell rate of a currency against VND.
type RateAlert struct {
	Rates    bot.RateService
	Notifier bot.Notifier
	Currency string // default USD
}

// Name implements [Job].
func (a *RateAlert) Name() string { return "rate-alert" }

// Run fetches the rate table and sends one notification.
func (a *RateAlert) Run(ctx context.Context) error {
	code := a.Currency
	if code == "" {
		code = "USD"
	}
	code = strings.ToUpper(code)
	table, err := a.Rates.Rates(ctx)
	if err != nil {
		return fmt.Errorf("rate alert: %w", err)
	}
	rate, ok := table.Lookup(code)
	if !ok {
		return fmt.Errorf("rate alert: currency %s not found: %w", code, bot.ErrUpstream)
	}
	sell := message.NewPrinter(language.English).Sprintf("%.2f", rate.SellRate())
	return a.Notifier.Notify(ctx, bot.Notification{
		Title:   "Currency Rate",
		Message: fmt.Sprintf("%s to %s: %s", code, bot.BaseCurrency, sell),
	})
}
