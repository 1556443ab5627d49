package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BaseCurrency is the currency every Rate is quoted in.
const BaseCurrency = "VND"

// Rate is one row of the bank's exchange-rate table, quoted in VND per unit.
// A zero field means the bank published no value.
type Rate struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Buy      float64 `json:"buy"`
	Transfer float64 `json:"transfer"`
	Sell     float64 `json:"sell"`
}

// BuyRate returns the buy rate, falling back to the transfer rate.
func (r Rate) BuyRate() float64 {
	if r.Buy > 0 {
		return r.Buy
	}
	return r.Transfer
}

// SellRate returns the sell rate, falling back to the transfer rate.
func (r Rate) SellRate() float64 {
	if r.Sell > 0 {
		return r.Sell
	}
	return r.Transfer
}

// RateTable is a snapshot of the exchange-rate feed.
type RateTable struct {
	Rates     map[string]Rate
	FetchedAt time.Time
}

// Lookup returns the rate for code, case-insensitively.
func (t RateTable) Lookup(code string) (Rate, bool) {
	r, ok := t.Rates[strings.ToUpper(code)]
	return r, ok
}

// Conversion is the result of converting an amount between currencies.
// Result is formatted with two decimals.
type Conversion struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Result string  `json:"result"`
	Rate   float64 `json:"rate"`
}

// Convert converts amount from one currency to another through VND.
//
// Foreign to VND uses the buy rate of the source currency. VND to foreign
// uses the sell rate of the target currency. Cross conversion buys into VND
// and sells out of it. Reported Rate is the sell rate of the target when
// converting from VND and the buy rate of the source otherwise.
func (t RateTable) Convert(amount float64, from, to string) (Conversion, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	conv := Conversion{Amount: amount, From: from, To: to}

	if from == to {
		conv.Result = formatAmount(amount)
		conv.Rate = 1
		return conv, nil
	}

	var fromRate, toRate Rate
	if from != BaseCurrency {
		r, ok := t.Lookup(from)
		if !ok {
			return Conversion{}, fmt.Errorf("currency %s not found: %w", from, ErrValidation)
		}
		fromRate = r
	}
	if to != BaseCurrency {
		r, ok := t.Lookup(to)
		if !ok {
			return Conversion{}, fmt.Errorf("currency %s not found: %w", to, ErrValidation)
		}
		toRate = r
	}

	var result float64
	switch {
	case from == BaseCurrency:
		sell := toRate.SellRate()
		if sell == 0 {
			return Conversion{}, fmt.Errorf("no sell rate published for %s: %w", to, ErrUpstream)
		}
		result = amount / sell
		conv.Rate = sell
	case to == BaseCurrency:
		buy := fromRate.BuyRate()
		if buy == 0 {
			return Conversion{}, fmt.Errorf("no buy rate published for %s: %w", from, ErrUpstream)
		}
		result = amount * buy
		conv.Rate = buy
	default:
		buy, sell := fromRate.BuyRate(), toRate.SellRate()
		if buy == 0 || sell == 0 {
			return Conversion{}, fmt.Errorf("no rate published for %s/%s: %w", from, to, ErrUpstream)
		}
		result = amount * buy / sell
		conv.Rate = buy
	}
	conv.Result = formatAmount(result)
	return conv, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RateService fetches the current exchange-rate table.
type RateService interface {
	Rates(ctx context.Context) (RateTable, error)
}
