package bot_test

import (
	"errors"
	"testing"

	"github.com/botkit/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateTable() bot.RateTable {
	return bot.RateTable{Rates: map[string]bot.Rate{
		"USD": {Code: "USD", Buy: 26000, Transfer: 26030, Sell: 26300},
		"EUR": {Code: "EUR", Buy: 28000, Transfer: 28100, Sell: 29000},
		"KWD": {Code: "KWD", Transfer: 85000},
	}}
}

func TestRateTable_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   float64
		from, to string
		result   string
		rate     float64
	}{
		{"foreign to VND uses buy", 100, "USD", "VND", "2600000.00", 26000},
		{"VND to foreign uses sell", 263000, "VND", "USD", "10.00", 26300},
		{"cross buys then sells", 29, "EUR", "USD", "30.87", 28000},
		{"lower case codes", 1, "usd", "vnd", "26000.00", 26000},
		{"missing buy falls back to transfer", 1, "KWD", "VND", "85000.00", 85000},
		{"missing sell falls back to transfer", 170000, "VND", "KWD", "2.00", 85000},
		{"same currency", 5, "USD", "USD", "5.00", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			conv, err := rateTable().Convert(tt.amount, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.result, conv.Result)
			assert.InDelta(t, tt.rate, conv.Rate, 1e-9)
		})
	}
}

func TestRateTable_Convert_StubbedScenario(t *testing.T) {
	t.Parallel()
	table := bot.RateTable{Rates: map[string]bot.Rate{"USD": {Buy: 26000}}}

	first, err := table.Convert(100, "USD", "VND")
	require.NoError(t, err)
	second, err := table.Convert(100, "USD", "VND")
	require.NoError(t, err)

	assert.Equal(t, bot.Conversion{Amount: 100, From: "USD", To: "VND", Result: "2600000.00", Rate: 26000}, first)
	assert.Equal(t, first, second)
}

func TestRateTable_Convert_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown currency", func(t *testing.T) {
		t.Parallel()
		_, err := rateTable().Convert(1, "XYZ", "VND")
		require.Error(t, err)
		assert.True(t, errors.Is(err, bot.ErrValidation))
		assert.Contains(t, err.Error(), "currency XYZ not found")
	})

	t.Run("no published rate", func(t *testing.T) {
		t.Parallel()
		table := bot.RateTable{Rates: map[string]bot.Rate{"JPY": {Code: "JPY"}}}
		_, err := table.Convert(1, "VND", "JPY")
		assert.True(t, errors.Is(err, bot.ErrUpstream))
	})
}
