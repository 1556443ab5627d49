// Package vcb implements [bot.RateService] on the Vietcombank exchange-rate
// XML feed.
package vcb

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/botkit/bot"
)

// Interface compliance check.
var _ bot.RateService = (*Client)(nil)

// Client fetches the rate table from the feed on every call.
type Client struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
}

// Option configures a [Client].
type Option func(*Client)

// WithURL sets the feed URL. Useful for testing with httptest.
func WithURL(url string) Option {
	return func(c *Client) { c.url = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new [Client] reading bot.DefaultRatesURL.
func New(opts ...Option) *Client {
	c := &Client{
		url:        bot.DefaultRatesURL,
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Rates downloads and parses the current table.
func (c *Client) Rates(ctx context.Context) (bot.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return bot.RateTable{}, fmt.Errorf("vcb: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return bot.RateTable{}, fmt.Errorf("vcb: %v: %w", err, bot.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return bot.RateTable{}, fmt.Errorf("vcb: http %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(body)), bot.ErrUpstream)
	}

	table, err := Parse(resp.Body)
	if err != nil {
		return bot.RateTable{}, err
	}
	table.FetchedAt = c.now()
	return table, nil
}

type exrateList struct {
	XMLName xml.Name `xml:"ExrateList"`
	Rates   []exrate `xml:"Exrate"`
}

type exrate struct {
	Code     string `xml:"CurrencyCode,attr"`
	Name     string `xml:"CurrencyName,attr"`
	Buy      string `xml:"Buy,attr"`
	Transfer string `xml:"Transfer,attr"`
	Sell     string `xml:"Sell,attr"`
}

// Parse decodes an ExrateList document. Values use thousands separators
// and "-" for a rate the bank does not publish, which parses as zero.
func Parse(r io.Reader) (bot.RateTable, error) {
	dec := xml.NewDecoder(r)
	// The feed declares its encoding inconsistently; the content is ASCII.
	dec.CharsetReader = func(_ string, in io.Reader) (io.Reader, error) { return in, nil }

	var doc exrateList
	if err := dec.Decode(&doc); err != nil {
		return bot.RateTable{}, fmt.Errorf("vcb: decode feed: %v: %w", err, bot.ErrUpstream)
	}
	if len(doc.Rates) == 0 {
		return bot.RateTable{}, fmt.Errorf("vcb: feed has no rates: %w", bot.ErrUpstream)
	}

	table := bot.RateTable{Rates: make(map[string]bot.Rate, len(doc.Rates))}
	for _, x := range doc.Rates {
		code := strings.ToUpper(strings.TrimSpace(x.Code))
		if code == "" {
			continue
		}
		rate := bot.Rate{Code: code, Name: strings.TrimSpace(x.Name)}
		var err error
		if rate.Buy, err = parseValue(x.Buy); err != nil {
			return bot.RateTable{}, fmt.Errorf("vcb: %s buy: %w", code, err)
		}
		if rate.Transfer, err = parseValue(x.Transfer); err != nil {
			return bot.RateTable{}, fmt.Errorf("vcb: %s transfer: %w", code, err)
		}
		if rate.Sell, err = parseValue(x.Sell); err != nil {
			return bot.RateTable{}, fmt.Errorf("vcb: %s sell: %w", code, err)
		}
		table.Rates[code] = rate
	}
	return table, nil
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, bot.ErrUpstream)
	}
	return f, nil
}
