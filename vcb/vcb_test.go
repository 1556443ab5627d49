package vcb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/botkit/bot"
	"github.com/botkit/bot/vcb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = `<?xml version="1.0" encoding="utf-8"?>
<ExrateList>
  <DateTime>10/16/2026 9:00:00 AM</DateTime>
  <Exrate CurrencyCode="USD" CurrencyName="US DOLLAR" Buy="26,000.00" Transfer="26,030.00" Sell="26,380.00" />
  <Exrate CurrencyCode="EUR" CurrencyName="EURO" Buy="29,500.50" Transfer="29,798.49" Sell="31,100.00" />
  <Exrate CurrencyCode="KWD" CurrencyName="KUWAITI DINAR" Buy="-" Transfer="85,000.00" Sell="88,000.00" />
  <Source>Joint Stock Commercial Bank for Foreign Trade of Vietnam - Vietcombank</Source>
</ExrateList>`

func TestParse(t *testing.T) {
	t.Parallel()

	table, err := vcb.Parse(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, table.Rates, 3)

	usd, ok := table.Lookup("usd")
	require.True(t, ok)
	assert.Equal(t, bot.Rate{Code: "USD", Name: "US DOLLAR", Buy: 26000, Transfer: 26030, Sell: 26380}, usd)

	kwd, _ := table.Lookup("KWD")
	assert.Zero(t, kwd.Buy)
	assert.Equal(t, 85000.0, kwd.BuyRate(), "missing buy falls back to transfer")
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "not xml", doc: "<html>maintenance"},
		{name: "no rates", doc: "<ExrateList><DateTime>x</DateTime></ExrateList>"},
		{name: "bad number", doc: `<ExrateList><Exrate CurrencyCode="USD" CurrencyName="US" Buy="abc" Transfer="1" Sell="1"/></ExrateList>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := vcb.Parse(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, bot.ErrUpstream)
		})
	}
}

func TestClient_Rates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(feed))
	}))
	t.Cleanup(srv.Close)

	table, err := vcb.New(vcb.WithURL(srv.URL)).Rates(context.Background())
	require.NoError(t, err)
	assert.False(t, table.FetchedAt.IsZero())

	conv, err := table.Convert(100, "USD", "VND")
	require.NoError(t, err)
	assert.Equal(t, "2600000.00", conv.Result)
}

func TestClient_Rates_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := vcb.New(vcb.WithURL(srv.URL)).Rates(context.Background())
	require.ErrorIs(t, err, bot.ErrUpstream)
	assert.Contains(t, err.Error(), "503")
}
