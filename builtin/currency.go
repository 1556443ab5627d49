package builtin

import (
	"context"

	"github.com/botkit/bot"
)

// ConvertCurrencyTool returns the definition of convert_currency.
func ConvertCurrencyTool() bot.Tool {
	return bot.Tool{
		Name:        "convert_currency",
		Description: "Get the current exchange rate and convert between currencies using Vietcombank rates.",
		Parameters: []bot.Parameter{
			{Name: "amount", Type: bot.ParamNumber, Description: "Amount to convert (default: 1)"},
			{Name: "from_currency", Type: bot.ParamString, Description: "Source currency code (default: USD)"},
			{Name: "to_currency", Type: bot.ParamString, Description: "Target currency code (default: VND)"},
		},
	}
}

func convertCurrency(rates bot.RateService) bot.HandlerFunc {
	return func(ctx context.Context, args bot.Args) (any, error) {
		amount := 1.0
		if args.Has("amount") {
			var err error
			if amount, err = args.Number("amount"); err != nil {
				return nil, err
			}
		}
		from := args.String("from_currency", "USD")
		to := args.String("to_currency", bot.BaseCurrency)

		table, err := rates.Rates(ctx)
		if err != nil {
			return nil, err
		}
		return table.Convert(amount, from, to)
	}
}
