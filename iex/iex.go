// Package iex looks up stock quotes on an IEX Cloud compatible HTTP API.
//
// A quote is fetched from
//
//	{BaseURL}/stock/{symbol}/quote?token={Token}
//
// and is expected to be a JSON object with at least "symbol", "companyName"
// and "latestPrice".
package iex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/papertrade"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// DefaultBaseURL is the IEX Cloud production API.
const DefaultBaseURL = "https://cloud.iexapis.com/stable"

// Client is a papertrade.Oracle over the IEX quote endpoint.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New returns a client of the API at 'baseURL' authenticated by 'token'.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Lookup(ctx context.Context, symbol string) (papertrade.Quote, error) {
	symbol = strings.TrimSpace(symbol)
	addr := fmt.Sprintf("%s/stock/%s/quote?token=%s", c.BaseURL, url.PathEscape(symbol), url.QueryEscape(c.Token))

	var jobj any
	if err := jwget(ctx, c.HTTP, addr, &jobj); err != nil {
		return papertrade.Quote{}, fmt.Errorf("cannot get quote of %q: %w", symbol, err)
	}

	var q papertrade.Quote
	var err error
	if q.Symbol, err = text(jobj, "$.symbol"); err != nil {
		return papertrade.Quote{}, err
	}
	if q.Name, err = text(jobj, "$.companyName"); err != nil {
		return papertrade.Quote{}, err
	}
	price, err := number(jobj, "$.latestPrice")
	if err != nil {
		return papertrade.Quote{}, err
	}
	q.Price = papertrade.USD(price)
	log.WithFields(log.Fields{"symbol": q.Symbol, "price": q.Price.String()}).Debugln("quote received")
	return q, nil
}

// get evaluates 'path' and keeps the first value when the answer is a list.
func get(jobj any, path string) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q in quote: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval, nil
}

func text(jobj any, path string) (string, error) {
	jval, err := get(jobj, path)
	if err != nil {
		return "", err
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("cannot read %q in quote: not a string %v", path, jval)
	}
	return s, nil
}

// number reads a json.Number, so prices keep their decimal digits.
func number(jobj any, path string) (decimal.Decimal, error) {
	jval, err := get(jobj, path)
	if err != nil {
		return decimal.Decimal{}, err
	}
	n, ok := jval.(json.Number)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("cannot read %q in quote: not a number %v", path, jval)
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot read %q in quote: %w", path, err)
	}
	return d, nil
}
