package oanda

import (
	"context"
	"net/url"
	"strings"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/convert"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/instrument"
)

type pricingResponse struct {
	Prices []struct {
		Instrument string `json:"instrument"`
		Time       string `json:"time"`
		Tradeable  bool   `json:"tradeable"`
		Bids       []struct {
			Price string `json:"price"`
		} `json:"bids"`
		Asks []struct {
			Price string `json:"price"`
		} `json:"asks"`
	} `json:"prices"`
}

type accountSummaryResponse struct {
	Account struct {
		ID                string `json:"id"`
		Balance           string `json:"balance"`
		Currency          string `json:"currency"`
		UnrealizedPL      string `json:"unrealizedPL"`
		PL                string `json:"pl"`
		MarginUsed        string `json:"marginUsed"`
		MarginAvailable   string `json:"marginAvailable"`
		OpenTradeCount    int    `json:"openTradeCount"`
		OpenPositionCount int    `json:"openPositionCount"`
	} `json:"account"`
}

// AccountInfo fetches the account summary. It doubles as the connectivity
// probe during account binding.
func (c *Client) AccountInfo(ctx context.Context) (broker.AccountSummary, error) {
	var resp accountSummaryResponse
	if err := c.doRequest(ctx, "GET", c.accountPath("/summary"), nil, &resp); err != nil {
		return broker.AccountSummary{}, err
	}
	a := resp.Account
	return broker.AccountSummary{
		ID:              a.ID,
		Balance:         convert.ToFloat64(a.Balance),
		Currency:        strings.ToUpper(strings.TrimSpace(a.Currency)),
		UnrealizedPL:    convert.ToFloat64(a.UnrealizedPL),
		RealizedPL:      convert.ToFloat64(a.PL),
		MarginUsed:      convert.ToFloat64(a.MarginUsed),
		MarginAvailable: convert.ToFloat64(a.MarginAvailable),
		OpenTradeCount:  a.OpenTradeCount,
		OpenPositions:   a.OpenPositionCount,
		UpdatedAt:       c.nowFn(),
	}, nil
}

// Prices returns quotes for the requested instruments. Cached quotes
// younger than the freshness window are served without a network call
// unless forceRefresh is set.
func (c *Client) Prices(ctx context.Context, instruments []string, forceRefresh bool) (map[string]broker.PriceQuote, error) {
	normalized := make([]string, 0, len(instruments))
	for _, in := range instruments {
		if n := instrument.Normalize(in); n != "" {
			normalized = append(normalized, n)
		}
	}
	out := make(map[string]broker.PriceQuote, len(normalized))
	missing := normalized
	if !forceRefresh {
		missing = missing[:0]
		now := c.nowFn()
		c.quoteMu.RLock()
		for _, in := range normalized {
			if q, ok := c.quoteCache[in]; ok && !q.Stale(c.freshness, now) {
				out[in] = q
				continue
			}
			missing = append(missing, in)
		}
		c.quoteMu.RUnlock()
	}
	if len(missing) == 0 {
		return out, nil
	}

	path := c.accountPath("/pricing?instruments=" + url.QueryEscape(strings.Join(missing, ",")))
	var resp pricingResponse
	if err := c.doRequest(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	c.quoteMu.Lock()
	for _, p := range resp.Prices {
		if len(p.Bids) == 0 || len(p.Asks) == 0 {
			continue
		}
		ts, _ := parseBrokerTime(p.Time)
		q := broker.PriceQuote{
			Instrument: instrument.Normalize(p.Instrument),
			Bid:        convert.ToFloat64(p.Bids[0].Price),
			Ask:        convert.ToFloat64(p.Asks[0].Price),
			Time:       ts,
			Tradeable:  p.Tradeable,
		}
		c.quoteCache[q.Instrument] = q
		out[q.Instrument] = q
	}
	c.quoteMu.Unlock()
	return out, nil
}
